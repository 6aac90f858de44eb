package pkg

import (
	"bytes"
	"os"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CheckFileExist reports whether a file exists at filePath.
func CheckFileExist(filePath string) (bool, error) {
	_, err := os.Lstat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReadUTF8File reads the whole file as UTF-8 text, stripping an optional
// byte-order mark at the start.
func ReadUTF8File(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return bytes.TrimPrefix(data, utf8BOM), nil
}
