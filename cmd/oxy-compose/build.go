package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-compose/compose"
)

var buildCmd = &cobra.Command{
	Use:   "build <entry shader> [<entry shader>...]",
	Short: "Compose one or more entry shaders against the project",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().String("from", "", "invocation directory anchoring relative resolution (default: working directory)")
	buildCmd.Flags().Bool("deps", false, "print the dependency list for each composed entry")
}

// runBuild composes each named entry shader and reports diagnostics. Entries
// with diagnostics or unresolvable paths fail the command, after every entry
// has been attempted.
func runBuild(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	driver, err := newDriver(cmd)
	if err != nil {
		return err
	}

	invocationDir, _ := cmd.Flags().GetString("from")
	if invocationDir == "" {
		invocationDir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("cannot determine working directory: %w", err)
		}
	}
	printDeps, _ := cmd.Flags().GetBool("deps")

	requests := make([]compose.BatchRequest, len(args))
	for i, entry := range args {
		requests[i] = compose.BatchRequest{InvocationDir: invocationDir, RequestedPath: entry}
	}

	failed := 0
	for _, br := range driver.ComposeBatch(requests) {
		if br.Err != nil {
			logger.Error("composition aborted", "entry", br.Request.RequestedPath, "err", br.Err)
			failed++
			continue
		}

		for _, diag := range br.Result.Diagnostics {
			logger.Error(diag, "entry", br.Request.RequestedPath)
		}
		if len(br.Result.Diagnostics) > 0 {
			failed++
		} else {
			logger.Info("composed",
				"entry", br.Request.RequestedPath,
				"entry_point", br.Result.Module.EntryPoint(),
				"stage", stageName(br.Result.Module.ShaderType()),
				"deps", len(br.Result.Dependencies),
			)
		}

		if printDeps {
			for _, dep := range br.Result.Dependencies {
				fmt.Fprintln(cmd.OutOrStdout(), dep)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d entries failed to compose", failed, len(args))
	}
	return nil
}

// newDriver builds the project driver from the discovered or named manifest.
func newDriver(cmd *cobra.Command) (compose.Driver, error) {
	manifestPath, _ := cmd.Flags().GetString("manifest")
	if manifestPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("cannot determine working directory: %w", err)
		}
		manifestPath, err = compose.FindProjectManifest(wd)
		if err != nil {
			return nil, err
		}
	}

	manifest, err := compose.LoadProjectManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	return manifest.NewDriver()
}

// newLogger builds the command logger, honoring the --verbose flag.
func newLogger(cmd *cobra.Command) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
