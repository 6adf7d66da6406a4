package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rivamed/cabpack/internal/domain"
	m "github.com/rivamed/cabpack/internal/model"
)

// patchCmd represents the patch command.
var patchCmd = newPatchCmd()

const patchLongDescription = `Patch refreshes the loose files of an already built dist folder without
freezing again: the config, stylesheet and assets are re-copied from the
working directory and the deployment values are re-applied to the
shipped database config.

The dist folder defaults to the configured output directory.`

func newPatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch [dist-dir]",
		Short: "Re-stage loose files and deployment values in a dist folder",
		Long:  patchLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			distDir := m.Path(viper.GetString(buildOutputKey))
			if len(args) == 1 {
				distDir = m.Path(args[0])
			}

			_, err := pipeline.Refresh(context.Background(), domain.RefreshArgs{
				WorkDir:     m.Path(workDirFlag),
				DistDir:     distDir,
				Spec:        freezeSpecFromConfig(),
				ConfigFile:  m.Path(viper.GetString(appConfigKey)),
				Deploy:      deployFromConfig(),
				ToolVersion: toolVersion(),
			})

			return err
		},
	}

	configureWorkDirFlag(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(patchCmd)
}
