package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is the gravity release version, overridden at build time via
// -ldflags "-X github.com/arcjet/gravity/cmd.Version=...".
var Version = "dev"

func init() {
	var versionCommand = &cobra.Command{
		Use:   "version",
		Short: "Print the version of gravity",
		Long:  "Show version and build information for gravity.",
		Run: func(cmd *cobra.Command, args []string) {
			generateCmdOutput(os.Stdout)
		},
	}
	RootCommand.AddCommand(versionCommand)
}

func generateCmdOutput(out io.Writer) {
	fmt.Fprintln(out, "Version: "+Version)
	fmt.Fprintln(out, "Go Version: "+runtime.Version())
	fmt.Fprintln(out, "Platform: "+runtime.GOOS+"/"+runtime.GOARCH)
}
