// Package main is the slashql command-line entry point.
package main

import "github.com/slashql/slashql/internal/cli"

func main() {
	cli.Execute()
}
