package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/jdk-pulse/internal/errs"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/prompt"
	"github.com/conn-castle/jdk-pulse/internal/pulse"
)

var newPromptUI = func() prompt.UI { return prompt.NewHuhUI() }

func newUseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   messages.UseUse,
		Short: messages.UseShort,
		Long:  messages.UseLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var ref string
			if len(args) == 1 {
				ref = args[0]
			} else {
				if !isInteractive() {
					return errors.New(messages.PromptRequiresTerminal)
				}
				activeHome := ""
				if active, err := svc.GetActiveJdk(ctx); err == nil && active.JDK != nil {
					activeHome = active.JDK.Home
				}
				ref, err = prompt.PickJdk(newPromptUI(), svc.ListJdks(ctx), activeHome)
				if err != nil {
					return err
				}
			}
			result, err := svc.SetActiveJdk(ctx, ref)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), result, func(out io.Writer) {
				printSelection(out, result)
			})
		},
	}
}

func printSelection(out io.Writer, result pulse.SelectResult) {
	_, _ = fmt.Fprint(out, color.GreenString(messages.UseDoneFmt, result.JDK.Label(), result.JDK.Home))
	if result.Propagation.Applied {
		_, _ = fmt.Fprintf(out, messages.UsePropagatedFmt, result.Propagation.Adapter)
	}
	printWarnings(out, result.Warnings)
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ClearUse,
		Short: messages.ClearShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			result, err := svc.ClearActiveJdk(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), result, func(out io.Writer) {
				_, _ = fmt.Fprintln(out, messages.ClearDone)
				printWarnings(out, result.Warnings)
			})
		},
	}
}

func newStateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.StateUse,
		Short: messages.StateShort,
	}
	cmd.AddCommand(newStatePathCmd(a), newStateRepairCmd(a))
	return cmd
}

func newStatePathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   messages.StatePathUse,
		Short: messages.StatePathShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), svc.StatePath())
			return nil
		},
	}
}

func newStateRepairCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   messages.StateRepairUse,
		Short: messages.StateRepairShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, readErr := svc.Store().Read()
			if readErr == nil {
				_, _ = fmt.Fprintln(out, messages.StateRepairNotNeeded)
				return nil
			}
			if !errors.Is(readErr, errs.StateCorrupt) {
				return readErr
			}
			if !yes {
				if !isInteractive() {
					return errors.New(messages.StateRepairNeedsYes)
				}
				confirmed := false
				title := fmt.Sprintf(messages.PromptRepairConfirmFmt, svc.StatePath(), args[0])
				if err := newPromptUI().Confirm(title, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					_, _ = fmt.Fprintln(out, messages.StateRepairDeclined)
					return nil
				}
			}
			result, err := svc.RepairActiveJdk(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(out, result, func(out io.Writer) {
				_, _ = fmt.Fprintf(out, messages.StateRepairedFmt, svc.StatePath(), result.JDK.Home)
				printWarnings(out, result.Warnings)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, messages.StateRepairFlagYes)
	return cmd
}
