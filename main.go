// Package main is the entry point for the wally-package-types CLI.
package main

import "github.com/DervexDev/wally-package-types/cmd"

func main() {
	cmd.Execute()
}
