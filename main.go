package main

import "github.com/celes-lang/celes/cmd"

func main() {
	cmd.Execute()
}
