package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-compose/compose"
	"github.com/Carmen-Shannon/oxy-compose/composer"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List every shader file discovered under the project's shader root",
	Args:  cobra.NoArgs,
	RunE:  runScan,
}

// runScan prints each discovered shader's import name and canonical path, in
// the same order the driver registers them.
func runScan(cmd *cobra.Command, _ []string) error {
	driver, err := newDriver(cmd)
	if err != nil {
		return err
	}

	shaders, err := compose.NewProjectShaderScanner().Scan(driver.ShaderRoot())
	if err != nil {
		return err
	}

	for _, s := range shaders {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.RelPath, s.Path)
	}
	return nil
}

// stageName returns the display name of an entry stage.
func stageName(t composer.ShaderType) string {
	switch t {
	case composer.ShaderTypeCompute:
		return "compute"
	case composer.ShaderTypeVertex:
		return "vertex"
	case composer.ShaderTypeFragment:
		return "fragment"
	default:
		return "auto"
	}
}
