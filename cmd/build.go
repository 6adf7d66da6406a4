package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rivamed/cabpack/internal/domain"
	m "github.com/rivamed/cabpack/internal/model"
)

// noOpenFlag suppresses revealing the output folder after a build.
var noOpenFlag bool

// buildCmd represents the build command.
var buildCmd = newBuildCmd()

const buildLongDescription = `Build freezes the status board into a single-file executable and
assembles the deployment folder next to it: the database config patched
with the deployment values, the stylesheet and the assets folder.

The first build creates a dedicated virtual environment and installs
PyInstaller plus the application requirements into it; later builds
reuse the environment. On success the output folder opens in the file
browser unless --no-open is given.`

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build and stage the deployable application",
		Long:  buildLongDescription,
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := pipeline.Build(context.Background(), buildArgsFromConfig())

			return err
		},
	}

	configureBuildFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func configureBuildFlags(cmd *cobra.Command) {
	configureWorkDirFlag(cmd)
	cmd.Flags().BoolVar(&noOpenFlag, "no-open", false, "do not open the output folder after a successful build")
}

func buildArgsFromConfig() domain.BuildArgs {
	return domain.BuildArgs{
		WorkDir:       m.Path(workDirFlag),
		OutputDir:     m.Path(viper.GetString(buildOutputKey)),
		VenvDir:       m.Path(viper.GetString(buildVenvKey)),
		Requirements:  m.Path(viper.GetString(buildRequirementsKey)),
		FreezeTool:    viper.GetString(buildFreezeToolKey),
		FreezeTimeout: time.Duration(viper.GetInt64(buildTimeoutKey)) * time.Second,
		Spec:          freezeSpecFromConfig(),
		ConfigFile:    m.Path(viper.GetString(appConfigKey)),
		Deploy:        deployFromConfig(),
		ToolVersion:   toolVersion(),
		OpenFolder:    !noOpenFlag,
	}
}
