package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/conn-castle/jdk-pulse/internal/logging"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/propagate"
	"github.com/conn-castle/jdk-pulse/internal/pulse"
	"github.com/conn-castle/jdk-pulse/internal/state"
	"github.com/conn-castle/jdk-pulse/internal/watch"
)

var runWatcher = func(ctx context.Context, w watch.Watcher, fn watch.Handler) error {
	return w.Run(ctx, fn)
}

// watchEvent is one structured line of `watch` output.
type watchEvent struct {
	Home        string             `json:"home" yaml:"home"`
	Error       string             `json:"error,omitempty" yaml:"error,omitempty"`
	Propagation *propagate.Outcome `json:"propagation,omitempty" yaml:"propagation,omitempty"`
}

func newWatchCmd(a *app) *cobra.Command {
	var republish bool
	cmd := &cobra.Command{
		Use:   messages.WatchUse,
		Short: messages.WatchShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			w := watch.Watcher{Store: svc.Store(), Logger: a.logger}
			return runWatcher(ctx, w, watchHandler(ctx, a, cmd.OutOrStdout(), svc, republish))
		},
	}
	cmd.Flags().BoolVar(&republish, "propagate", false, messages.WatchFlagPropagate)
	return cmd
}

// watchHandler prints each state change and, when republish is set, pushes readable
// selections to the environment store.
func watchHandler(ctx context.Context, a *app, out io.Writer, svc *pulse.Service, republish bool) watch.Handler {
	logger := logging.OrNop(a.logger)
	return func(sel state.Selection, err error) {
		event := watchEvent{Home: sel.Home}
		if err != nil {
			event.Error = err.Error()
		} else if republish {
			outcome := svc.Republish(ctx, sel)
			if outcome.Err != nil {
				logger.Warn("republish failed", zap.String("adapter", outcome.Adapter), zap.Error(outcome.Err))
			}
			event.Propagation = &outcome
		}
		writeWatchEvent(a, out, event)
	}
}

func writeWatchEvent(a *app, out io.Writer, event watchEvent) {
	switch a.output {
	case outputJSON:
		data, err := json.Marshal(event)
		if err == nil {
			_, _ = fmt.Fprintln(out, string(data))
		}
	case outputYAML:
		data, err := yaml.Marshal(event)
		if err == nil {
			_, _ = fmt.Fprintf(out, "---\n%s", data)
		}
	default:
		switch {
		case event.Error != "":
			_, _ = fmt.Fprintf(out, messages.WatchReadFailedFmt, event.Error)
		case event.Home == "":
			_, _ = fmt.Fprintln(out, messages.WatchCleared)
		default:
			_, _ = fmt.Fprintf(out, messages.WatchSelectedFmt, event.Home)
		}
	}
}
