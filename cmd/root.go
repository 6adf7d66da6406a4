// Package cmd provides the root command and CLI setup for cabpack.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rivamed/cabpack/internal/adapter"
	"github.com/rivamed/cabpack/internal/controller"
	"github.com/rivamed/cabpack/internal/domain"
	m "github.com/rivamed/cabpack/internal/model"
)

var toolchain adapter.Toolchain
var freezeRunner adapter.FreezeRunner
var distFS adapter.DistFS
var manifests adapter.ManifestStore
var browser adapter.Browser
var pipeline domain.Pipeline
var doctor domain.Doctor
var ui controller.UI

// outputDirFlag is a root-level flag shared by commands that write or read
// the assembled dist directory.
var outputDirFlag string

// workDirFlag points commands at a project directory other than the current one.
var workDirFlag string

// verboseFlag switches file logging to debug level.
var verboseFlag bool

// logFileFlag overrides the log file location.
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	toolchain = adapter.NewLocalToolchain()
	freezeRunner = adapter.NewLocalFreezeRunner()
	distFS = adapter.NewLocalDistFS()
	manifests = adapter.NewManifestStore()
	browser = adapter.NewLocalBrowser()
	pipeline = domain.NewPipeline(toolchain, freezeRunner, distFS, manifests, browser, ui)
	doctor = domain.NewDoctor(toolchain, distFS)
}

const rootLongDescription = `Cabpack packages the cabinet status board into a single-file executable
and stages everything a deployment needs next to it: the database config
(patched with the deployment values), the stylesheet and the assets
folder. Configuration comes from cabpack.yaml, CABPACK_* environment
variables and flags, in rising priority.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cabpack",
		Short: "Package the cabinet status board for deployment",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&outputDirFlag, outputFlagName, "o",
			viper.GetString(buildOutputKey),
			"output directory for the assembled application",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), buildOutputKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log debug detail to the log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file location")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// configureWorkDirFlag registers the shared -w flag on commands that resolve
// project files.
func configureWorkDirFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&workDirFlag, workDirFlagName, "w", ".", "project directory holding the application sources")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// freezeSpecFromConfig assembles the freeze spec from the effective config.
func freezeSpecFromConfig() m.FreezeSpec {
	return m.FreezeSpec{
		Name:          viper.GetString(appNameKey),
		Entry:         m.Path(viper.GetString(appEntryKey)),
		Icon:          m.Path(viper.GetString(appIconKey)),
		IconFallback:  m.Path(viper.GetString(appIconFallbackKey)),
		Data:          dataFilesFromConfig(),
		HiddenImports: viper.GetStringSlice(appHiddenImportsKey),
	}
}

// dataFilesFromConfig lists the loose files shipped with the executable: the
// database config and stylesheet at the dist root, the icon and the asset
// folder under assets/. The config and stylesheet are required; the
// application refuses to start without them.
func dataFilesFromConfig() []m.DataFile {
	var files []m.DataFile

	if icon := viper.GetString(appIconKey); icon != "" {
		files = append(files, m.DataFile{Source: m.Path(icon), Dest: "assets"})
	}

	if config := viper.GetString(appConfigKey); config != "" {
		files = append(files, m.DataFile{Source: m.Path(config), Dest: ".", Required: true})
	}

	if stylesheet := viper.GetString(appStylesheetKey); stylesheet != "" {
		files = append(files, m.DataFile{Source: m.Path(stylesheet), Dest: ".", Required: true})
	}

	if assets := viper.GetString(appAssetsKey); assets != "" {
		files = append(files, m.DataFile{Source: m.Path(assets), Dest: "assets"})
	}

	return files
}

func deployFromConfig() domain.DeployValues {
	return domain.DeployValues{
		Server:   viper.GetString(deployServerKey),
		Password: viper.GetString(deployPasswordKey),
	}
}
