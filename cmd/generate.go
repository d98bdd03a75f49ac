package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arcjet/gravity/internal/assembler"
	"github.com/arcjet/gravity/internal/gravityerr"
	"github.com/arcjet/gravity/internal/wasmstage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type generateParams struct {
	world   string
	output  string
	verbose bool
}

func init() {
	var params generateParams

	var generateCommand = &cobra.Command{
		Use:   "generate <input.wasm>",
		Short: "Generate Go Canonical-ABI bindings from a WebAssembly Component world",
		Long: `Generate reads a Core WebAssembly module carrying a WIT metadata section,
resolves the world named by --world, and writes the Go source file named by
--output: a factory and instance pair exposing one Go method per export and
one host interface per import, built against the wazero runtime.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(generate(args, &params, os.Stdout, os.Stderr))
		},
	}

	addWorldFlag(generateCommand.Flags(), &params.world)
	addOutputFlag(generateCommand.Flags(), &params.output)
	addVerboseFlag(generateCommand.Flags(), &params.verbose)

	RootCommand.AddCommand(generateCommand)
}

// generate drives the full pipeline for one invocation and returns the
// process exit code, so it can be exercised directly by tests without going
// through cobra or os.Exit.
func generate(args []string, p *generateParams, stdout, stderr io.Writer) int {
	log := logrus.New()
	log.Out = stderr
	if p.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if p.world == "" {
		return reportErr(stderr, fmt.Errorf("%w: --world is required", gravityerr.ErrCliUsage))
	}
	if p.output == "" {
		return reportErr(stderr, fmt.Errorf("%w: --output is required", gravityerr.ErrCliUsage))
	}

	ctx := context.Background()

	result, err := wasmstage.Load(ctx, log, args[0], p.world)
	if err != nil {
		return reportErr(stderr, err)
	}

	pkgName := packageNameFor(p.output)
	log.WithField("package", pkgName).Debug("deriving output package name")

	src, err := assembler.Generate(result.World, result.Bytes, pkgName)
	if err != nil {
		return reportErr(stderr, fmt.Errorf("%w: %v", gravityerr.ErrInternal, err))
	}

	if err := os.WriteFile(p.output, src, 0o644); err != nil {
		return reportErr(stderr, fmt.Errorf("%w: writing %s: %v", gravityerr.ErrIo, p.output, err))
	}

	log.WithField("output", p.output).Debug("wrote bindings")
	return 0
}

// packageNameFor derives a Go package name from output's parent directory,
// falling back to "main" when the directory carries no usable name (the
// current directory, the filesystem root, or an empty path).
func packageNameFor(output string) string {
	dir := filepath.Base(filepath.Dir(output))
	dir = strings.ToLower(dir)
	if dir == "" || dir == "." || dir == string(filepath.Separator) {
		return "main"
	}
	return sanitizePackageName(dir)
}

func sanitizePackageName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name == "" {
		return "main"
	}
	if name[0] >= '0' && name[0] <= '9' {
		return "_" + name
	}
	return name
}
