package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "oxy-compose",
	Short: "WGSL shader composition driver",
	Long:  `oxy-compose resolves an entry shader, registers every shader in the project as an importable module, and composes a validated module plus a dependency list for rebuild tracking.`,
}

// main registers subcommands and persistent flags, then executes the root
// command. Command errors exit with status code 1.
func main() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(scanCmd)

	rootCmd.PersistentFlags().String("manifest", "", "path to the oxy.toml project manifest (default: discovered from the working directory)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
