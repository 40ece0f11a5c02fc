package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/jdk-pulse/internal/hook"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/pulse"
)

// hookStatus is one row of `hook status`.
type hookStatus struct {
	Shell  hook.Shell  `json:"shell" yaml:"shell"`
	Path   string      `json:"path" yaml:"path"`
	Status hook.Status `json:"status,omitempty" yaml:"status,omitempty"`
	Error  string      `json:"error,omitempty" yaml:"error,omitempty"`
}

func newHookCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.HookUse,
		Short: messages.HookShort,
	}
	cmd.AddCommand(
		newHookEditCmd(a, hook.OpInstall),
		newHookEditCmd(a, hook.OpRemove),
		newHookStatusCmd(a),
		newHookPrintCmd(a),
	)
	return cmd
}

// targetShells resolves the optional shell argument, falling back to the configured
// shells.
func targetShells(svc *pulse.Service, args []string) ([]hook.Shell, error) {
	if len(args) == 1 {
		shell, err := hook.ParseShell(args[0])
		if err != nil {
			return nil, err
		}
		return []hook.Shell{shell}, nil
	}
	shells := svc.HookShells()
	if len(shells) == 0 {
		return nil, errors.New(messages.PulseNoHookShells)
	}
	return shells, nil
}

func newHookEditCmd(a *app, op hook.Op) *cobra.Command {
	var dryRun bool
	use, short := messages.HookInstallUse, messages.HookInstallShort
	if op == hook.OpRemove {
		use, short = messages.HookRemoveUse, messages.HookRemoveShort
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			shells, err := targetShells(svc, args)
			if err != nil {
				return err
			}
			if dryRun {
				return planHooks(a, cmd.OutOrStdout(), svc, shells, op)
			}
			changes := make([]hook.Change, 0, len(shells))
			for _, shell := range shells {
				var change hook.Change
				if op == hook.OpRemove {
					change, err = svc.RemoveShellIntegration(shell)
				} else {
					change, err = svc.InstallShellIntegration(shell)
				}
				if err != nil {
					return err
				}
				changes = append(changes, change)
			}
			return a.render(cmd.OutOrStdout(), changes, func(out io.Writer) {
				for _, change := range changes {
					printChange(out, change, op)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, messages.HookFlagDryRun)
	return cmd
}

func planHooks(a *app, out io.Writer, svc *pulse.Service, shells []hook.Shell, op hook.Op) error {
	plans := make([]hook.Plan, 0, len(shells))
	for _, shell := range shells {
		plan, err := svc.PlanShellIntegration(shell, op)
		if err != nil {
			return err
		}
		plans = append(plans, plan)
	}
	return a.render(out, plans, func(out io.Writer) {
		for _, plan := range plans {
			if !plan.Changed {
				_, _ = fmt.Fprintln(out, messages.HookDryRunNoChange)
				continue
			}
			_, _ = fmt.Fprint(out, plan.Diff)
		}
	})
}

func printChange(out io.Writer, change hook.Change, op hook.Op) {
	switch {
	case op == hook.OpInstall && change.Changed:
		_, _ = fmt.Fprint(out, color.GreenString(messages.HookInstalledFmt, change.Shell, change.Path))
	case op == hook.OpInstall:
		_, _ = fmt.Fprintf(out, messages.HookUnchangedFmt, change.Shell, change.Path)
	case change.Changed:
		_, _ = fmt.Fprintf(out, messages.HookRemovedFmt, change.Shell, change.Path)
	default:
		_, _ = fmt.Fprintf(out, messages.HookNotPresentFmt, change.Shell, change.Path)
	}
}

func newHookStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   messages.HookStatusUse,
		Short: messages.HookStatusShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			shells, err := targetShells(svc, args)
			if err != nil {
				shells = hook.Shells()
			}
			rows := make([]hookStatus, 0, len(shells))
			for _, shell := range shells {
				row := hookStatus{Shell: shell}
				row.Path, _ = svc.ShellTarget(shell)
				status, statusErr := svc.ShellIntegrationStatus(shell)
				if statusErr != nil {
					row.Error = statusErr.Error()
				} else {
					row.Status = status
				}
				rows = append(rows, row)
			}
			return a.render(cmd.OutOrStdout(), rows, func(out io.Writer) {
				for _, row := range rows {
					printHookStatus(out, row)
				}
			})
		},
	}
}

func printHookStatus(out io.Writer, row hookStatus) {
	label := string(row.Status)
	switch row.Status {
	case hook.StatusInstalled:
		label = color.GreenString("%-14s", label)
	case hook.StatusOutdated, hook.StatusNotInstalled:
		label = color.YellowString("%-14s", label)
	default:
		if row.Error != "" {
			label = row.Error
		}
		label = color.RedString("%-14s", label)
	}
	_, _ = fmt.Fprintf(out, messages.HookStatusLineFmt, row.Shell, label, row.Path)
}

func newHookPrintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   messages.HookPrintUse,
		Short: messages.HookPrintShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			shell, err := hook.ParseShell(args[0])
			if err != nil {
				return err
			}
			snippet, err := svc.ShellSnippet(shell)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), snippet)
			return nil
		},
	}
}
