// Package main is the entry point for the ztp CLI.
//
// ztp is a command-line tool for zero-touch provisioning of network
// devices from a declarative configuration document. It fetches the
// document from a configuration API or local file, validates it, plans
// the deployment, and pushes the rendered configuration to each device.
//
// Commands: init, validate, plan, apply, version.
//
// For detailed usage information, run:
//
//	ztp --help
package main

import (
	"fmt"
	"os"

	"github.com/provnet/ztp/cmd/ztp/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
