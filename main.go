// main package for testtree command-line tool
// Package main is the entry point for the testtree CLI.
package main

import "testtree.dev/pkg/testtree/cmd"

func main() {
	cmd.Execute()
}
