// Package cmd implements gravity's command-line surface: one cobra root
// command plus its "generate" and "version" subcommands, mirroring the
// teacher corpus's package-level *cobra.Command with per-file init()
// registration rather than a single monolithic command tree.
package cmd

import "github.com/spf13/cobra"

// RootCommand is the base CLI command every subcommand registers itself
// against from its own init().
var RootCommand = &cobra.Command{
	Use:   "gravity",
	Short: "Generate Go Canonical-ABI bindings for a WebAssembly Component world",
	Long: `Gravity reads a Core WebAssembly module carrying a WIT metadata
section, resolves one of its worlds, and emits a single Go source file
implementing the Component Model's Canonical ABI for that world: native Go
host functions for every import, and an idiomatic Go method for every
export, built against the wazero runtime.`,
}
