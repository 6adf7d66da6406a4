package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/rivamed/cabpack/internal/model"
)

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "cabpack", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.Equal(t, rootLongDescription, cmd.Long)
}

func TestRootCmd_HelpOutput(t *testing.T) {
	cmd := newRootCmd()
	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{})
	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, output.String(), "Usage:")
	assert.Contains(t, output.String(), "cabinet status board")
}

func TestRootCmd_HasPersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup(outputFlagName))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup(verboseFlagName))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup(logFileFlagName))
}

func TestInit(t *testing.T) {
	// Test that init() created all the necessary instances
	assert.NotNil(t, ui)
	assert.NotNil(t, toolchain)
	assert.NotNil(t, freezeRunner)
	assert.NotNil(t, distFS)
	assert.NotNil(t, manifests)
	assert.NotNil(t, browser)
	assert.NotNil(t, pipeline)
	assert.NotNil(t, doctor)
}

func TestFreezeSpecFromConfig(t *testing.T) {
	spec := freezeSpecFromConfig()

	assert.Equal(t, "cabinet_status", spec.Name)
	assert.Equal(t, m.Path("cabinet_status_main.py"), spec.Entry)
	assert.Equal(t, m.Path("assets/app_icon.ico"), spec.Icon)
	assert.Equal(t, m.Path("app_icon.ico"), spec.IconFallback)
	assert.Equal(t, []string{"pyodbc"}, spec.HiddenImports)

	require.Len(t, spec.Data, 4)
	assert.Equal(t, m.Path("assets/app_icon.ico"), spec.Data[0].Source)
	assert.Equal(t, "assets", spec.Data[0].Dest)
	assert.False(t, spec.Data[0].Required)
	assert.Equal(t, m.Path("db_config.ini"), spec.Data[1].Source)
	assert.Equal(t, ".", spec.Data[1].Dest)
	assert.True(t, spec.Data[1].Required)
	assert.Equal(t, m.Path("app_style.qss"), spec.Data[2].Source)
	assert.True(t, spec.Data[2].Required)
	assert.Equal(t, m.Path("assets"), spec.Data[3].Source)
	assert.Equal(t, "assets", spec.Data[3].Dest)
	assert.False(t, spec.Data[3].Required)
}

func TestDeployFromConfig(t *testing.T) {
	deploy := deployFromConfig()

	assert.Equal(t, "192.168.10.219", deploy.Server)
	assert.Equal(t, "Rivamed@2022", deploy.Password)
}

func TestDeployFromConfig_EnvOverride(t *testing.T) {
	t.Setenv("CABPACK_DEPLOY_SERVER", "10.20.30.40")

	deploy := deployFromConfig()

	assert.Equal(t, "10.20.30.40", deploy.Server)
	assert.Equal(t, "Rivamed@2022", deploy.Password)
}

func TestExecute(t *testing.T) {
	// Save original rootCmd
	originalRootCmd := rootCmd

	// Create a mock command that succeeds
	mockCmd := &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	mockCmd.SetOut(&bytes.Buffer{})
	mockCmd.SetErr(&bytes.Buffer{})

	rootCmd = mockCmd

	// Execute should not panic or exit
	// We can't easily test os.Exit, but we can verify no error path
	Execute()

	// Restore
	rootCmd = originalRootCmd
}

func TestExecute_WithError(t *testing.T) {
	// Save original rootCmd
	originalRootCmd := rootCmd
	defer func() {
		rootCmd = originalRootCmd
	}()

	// Create a mock command that fails
	mockCmd := &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("command failed")
		},
	}
	mockCmd.SetOut(&bytes.Buffer{})
	mockCmd.SetErr(&bytes.Buffer{})

	rootCmd = mockCmd

	// This will cause os.Exit(1) to be called, which we can't intercept
	// So we just verify the command itself errors
	err := rootCmd.Execute()
	require.Error(t, err)
}

func TestExecute_ProcessLevel_Failure(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS_FAIL") == "1" {
		// This runs in the subprocess
		// Mock failing command
		originalRootCmd := rootCmd
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(os.Stderr, "error occurred")
				return fmt.Errorf("command failed")
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		rootCmd = mockCmd
		defer func() { rootCmd = originalRootCmd }()

		Execute() // This should call os.Exit(1)
		return
	}

	// Parent process: spawn subprocess
	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Failure")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS_FAIL=1")
	output, err := cmd.CombinedOutput()

	require.Error(t, err)

	if exitErr, ok := err.(*exec.ExitError); ok {
		assert.Equal(t, 1, exitErr.ExitCode())
	} else {
		assert.Fail(t, "expected exec.ExitError", "got %T", err)
	}

	assert.Contains(t, string(output), "error occurred")
}
