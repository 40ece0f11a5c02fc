package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/jdk-pulse/internal/doctor"
	"github.com/conn-castle/jdk-pulse/internal/messages"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   messages.DoctorUse,
		Short: messages.DoctorShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd, true)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !a.structured() {
				_, _ = fmt.Fprintf(out, messages.DoctorHealthCheckFmt, svc.StatePath())
			}
			report := svc.RunDoctor(cmd.Context())

			if a.structured() {
				if err := a.render(out, report, nil); err != nil {
					return err
				}
				if report.HasFailures() {
					return &SilentExitError{Code: 1}
				}
				return nil
			}

			for _, name := range report.Names() {
				check, _ := report.Check(name)
				printResult(out, name, check)
			}
			switch report.Verdict() {
			case doctor.VerdictFail:
				_, _ = fmt.Fprintln(out, color.RedString(messages.DoctorFailureSummary))
				return fmt.Errorf(messages.DoctorFailureError)
			case doctor.VerdictWarn:
				_, _ = fmt.Fprintln(out, color.YellowString(messages.DoctorWarnSummary))
			default:
				_, _ = fmt.Fprintln(out, color.GreenString(messages.DoctorSuccessSummary))
			}
			return nil
		},
	}
}

func printResult(out io.Writer, name string, check doctor.Check) {
	var status string
	switch check.Verdict {
	case doctor.VerdictOK:
		status = color.GreenString(messages.DoctorStatusOKLabel)
	case doctor.VerdictWarn:
		status = color.YellowString(messages.DoctorStatusWarnLabel)
	case doctor.VerdictFail:
		status = color.RedString(messages.DoctorStatusFailLabel)
	}

	_, _ = fmt.Fprintf(out, messages.DoctorResultLineFmt, status, name, check.Observed)
	if check.Verdict != doctor.VerdictOK && check.Expected != "" {
		_, _ = fmt.Fprintf(out, messages.DoctorExpectedLineFmt, check.Expected)
	}
	for _, note := range check.Notes {
		printRecommendation(out, note)
	}
}

// printRecommendation renders a multi-line recommendation with consistent indentation.
func printRecommendation(out io.Writer, recommendation string) {
	lines := strings.Split(recommendation, "\n")
	for i, line := range lines {
		if i == 0 {
			_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationPrefix, line)
			continue
		}
		if line == "" {
			_, _ = fmt.Fprintf(out, "%s\n", messages.DoctorRecommendationIndent)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationIndent, line)
	}
}
