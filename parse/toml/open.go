package toml

import (
	"errors"
	"fmt"

	"github.com/celes-lang/celes/pkg"
)

// Status codes mirrored by Code for callers that want the numeric contract.
const (
	StatusSuccess      = 0
	StatusFileNotFound = -1
	StatusError        = -2
)

// ErrFileNotFound is returned by Open when the input file cannot be read.
var ErrFileNotFound = errors.New("file not found")

// ParseError carries the first error kind that aborted a parse together with
// every diagnostic accumulated up to that point, one per line in the form
// "{file} ({row}, {col}): {message}".
type ParseError struct {
	Err         error
	Diagnostics string
}

func (e *ParseError) Error() string {
	if e.Diagnostics != "" {
		return e.Diagnostics
	}
	return fmt.Sprintf("parse failed: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Code maps an Open result to the numeric status contract: 0 on success, -1
// when the file was not found, -2 on a parse error.
func Code(err error) int {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrFileNotFound):
		return StatusFileNotFound
	default:
		return StatusError
	}
}

// Open reads path as UTF-8 text (an optional byte-order mark is stripped) and
// parses it. On success the root table is returned with one reference; the
// caller releases it. On a parse failure the returned error is a *ParseError
// holding the accumulated diagnostics and no table is returned.
func Open(path string) (*Table, error) {
	data, err := pkg.ReadUTF8File(path)
	if err != nil {
		return nil, ErrFileNotFound
	}

	return Parse(string(data), path)
}

// Parse parses in-memory TOML text. file is used only to tag diagnostics.
func Parse(data, file string) (*Table, error) {
	p := newParser(file, data)

	if err := p.parseData(); err != nil {
		perr := &ParseError{Err: err, Diagnostics: p.errors.BuildString()}
		p.root.Release()
		return nil, perr
	}

	root := p.root.AddRef()
	p.root.Release()
	return root, nil
}
