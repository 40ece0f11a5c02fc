package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/jdk-pulse/internal/mcp"
	"github.com/conn-castle/jdk-pulse/internal/messages"
)

var runMCPServer = mcp.RunServer

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ServeUse,
		Short: messages.ServeShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			return runMCPServer(cmd.Context(), Version, svc)
		},
	}
}
