// main package for cabpack command-line tool
// Package main is the entry point for the cabpack CLI.
package main

import "github.com/rivamed/cabpack/cmd"

func main() {
	cmd.Execute()
}
