package cmd

import "github.com/spf13/pflag"

// addWorldFlag registers the --world flag naming which WIT world to resolve
// from the input module's metadata.
func addWorldFlag(fs *pflag.FlagSet, worldName *string) {
	fs.StringVar(worldName, "world", "", "name of the WIT world to generate bindings for (required)")
}

// addOutputFlag registers the --output flag naming the Go file to write.
func addOutputFlag(fs *pflag.FlagSet, outputPath *string) {
	fs.StringVarP(outputPath, "output", "o", "", "path of the Go file to generate (required)")
}

// addVerboseFlag registers the --verbose flag enabling debug-level logging.
func addVerboseFlag(fs *pflag.FlagSet, verbose *bool) {
	fs.BoolVarP(verbose, "verbose", "v", false, "enable debug logging")
}
