package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/jdk-pulse/internal/jdk"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/pulse"
	"github.com/conn-castle/jdk-pulse/internal/registry"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ListUse,
		Short: messages.ListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			records := svc.ListJdks(cmd.Context())
			if records == nil {
				records = []jdk.Record{}
			}
			result := registry.Result{Records: records, Notes: svc.Notes()}
			active, err := svc.GetActiveJdk(cmd.Context())
			if err != nil {
				// A corrupt state file does not prevent listing.
				active = pulse.Active{}
			}
			return a.render(cmd.OutOrStdout(), result, func(out io.Writer) {
				printRecords(out, result, active)
			})
		},
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true)

func printRecords(out io.Writer, result registry.Result, active pulse.Active) {
	if len(result.Records) == 0 {
		_, _ = fmt.Fprintln(out, messages.ListEmpty)
	} else {
		header := strings.TrimSuffix(fmt.Sprintf(messages.ListRowFmt, "", "ID", "VERSION", "VENDOR", "HOME"), "\n")
		if !color.NoColor {
			header = headerStyle.Render(header)
		}
		_, _ = fmt.Fprintln(out, header)
		for _, record := range result.Records {
			mark := ""
			if active.Selected && active.JDK != nil && jdk.SameHome(record.Home, active.JDK.Home) {
				mark = messages.ListActiveMark
			}
			line := fmt.Sprintf(messages.ListRowFmt, mark, record.ID, record.VersionFull, record.Vendor, record.Home)
			if mark != "" {
				line = color.New(color.FgGreen).Sprint(line)
			}
			_, _ = fmt.Fprint(out, line)
		}
	}
	for _, note := range result.Notes {
		_, _ = fmt.Fprintf(out, messages.ListNoteFmt, note)
	}
}

func newCurrentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   messages.CurrentUse,
		Short: messages.CurrentShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			active, err := svc.GetActiveJdk(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), active, func(out io.Writer) {
				printActive(out, active)
			})
		},
	}
}

func printActive(out io.Writer, active pulse.Active) {
	if !active.Selected || active.JDK == nil {
		_, _ = fmt.Fprintln(out, messages.CurrentNone)
		return
	}
	record := active.JDK
	if !active.Known {
		_, _ = fmt.Fprintf(out, messages.CurrentUnknownFmt, record.Home)
		return
	}
	version := record.VersionFull
	if version == "" {
		version = strconv.Itoa(record.VersionMajor)
	}
	_, _ = fmt.Fprintf(out, messages.CurrentFmt, record.Label(), record.ID, record.Home, version)
}
