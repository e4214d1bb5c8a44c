package main

import (
	"github.com/socklens/socklens/cmd"
)

// main is the entry point for the socklens CLI.
// All parsing, configuration and execution happens in the cmd package.
func main() {
	cmd.Execute()
}
