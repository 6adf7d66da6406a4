package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rivamed/cabpack/internal/domain"
	m "github.com/rivamed/cabpack/internal/model"
)

// doctorCmd represents the doctor command.
var doctorCmd = newDoctorCmd()

const doctorLongDescription = `Doctor checks the build inputs without building: the Python runtime,
the build environment, the entry script and the files shipped with the
executable. It exits non-zero when a required input is missing.`

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the build inputs without building",
		Long:  doctorLongDescription,
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := doctor.Diagnose(context.Background(), domain.DoctorArgs{
				WorkDir:      m.Path(workDirFlag),
				VenvDir:      m.Path(viper.GetString(buildVenvKey)),
				Requirements: m.Path(viper.GetString(buildRequirementsKey)),
				Spec:         freezeSpecFromConfig(),
			})
			if err != nil {
				return err
			}

			cmd.Print(renderDoctorTable(report))

			if missing := report.MissingRequired(); len(missing) > 0 {
				return fmt.Errorf("%d required input(s) missing", len(missing))
			}

			return nil
		},
	}

	configureWorkDirFlag(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func renderDoctorTable(report m.DoctorReport) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Check", "Status", "Detail"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	for _, check := range report.Checks {
		table.Append([]string{check.Name, checkStatus(check), check.Detail})
	}

	table.Render()

	return tableBuffer.String()
}

func checkStatus(check m.Check) string {
	switch {
	case check.OK:
		return "ok"
	case check.Required:
		return "missing"
	default:
		return "warn"
	}
}
