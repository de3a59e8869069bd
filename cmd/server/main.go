// Package main is the studyplan command: the HTTP API server plus the
// operational subcommands for migrations, spreadsheet imports and dev tokens.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
