// Package main is the entry point for the fabhistory CLI tool, which reads
// Flesh and Blood match history exports and reports win rate statistics.
package main

import "github.com/pable/go-fab-history/cmd"

func main() {
	cmd.Execute()
}
