// Package mcp exposes the jdk-pulse command interface as MCP tools over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/conn-castle/jdk-pulse/internal/doctor"
	"github.com/conn-castle/jdk-pulse/internal/hook"
	"github.com/conn-castle/jdk-pulse/internal/jdk"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/pulse"
)

// Tool names.
const (
	ToolListJdks       = "list_jdks"
	ToolGetActiveJdk   = "get_active_jdk"
	ToolSetActiveJdk   = "set_active_jdk"
	ToolClearActiveJdk = "clear_active_jdk"
	ToolRunDoctor      = "run_doctor_sync"
	ToolInstallHook    = "install_shell_integration"
	ToolRemoveHook     = "remove_shell_integration"
)

// Service is the command surface served as tools.
type Service interface {
	ListJdks(ctx context.Context) []jdk.Record
	Notes() []string
	GetActiveJdk(ctx context.Context) (pulse.Active, error)
	SetActiveJdk(ctx context.Context, ref string) (pulse.SelectResult, error)
	ClearActiveJdk(ctx context.Context) (pulse.ClearResult, error)
	RunDoctor(ctx context.Context) doctor.Report
	InstallShellIntegration(shell hook.Shell) (hook.Change, error)
	RemoveShellIntegration(shell hook.Shell) (hook.Change, error)
}

// NoArgs is the input of tools without parameters.
type NoArgs struct{}

// RefArgs selects a JDK.
type RefArgs struct {
	Ref string `json:"ref" jsonschema:"JDK id, alias, absolute or ~/ home path, or jenv-default"`
}

// ShellArgs names a shell.
type ShellArgs struct {
	Shell string `json:"shell" jsonschema:"shell name: bash, zsh, fish, sh, or pwsh"`
}

// ListOutput is the list_jdks result.
type ListOutput struct {
	JDKs  []jdk.Record `json:"jdks"`
	Notes []string     `json:"notes,omitempty"`
}

// DoctorOutput is the run_doctor_sync result.
type DoctorOutput struct {
	Verdict doctor.Verdict          `json:"verdict"`
	Checks  map[string]doctor.Check `json:"checks"`
}

type serverRunner func(ctx context.Context, server *mcp.Server) error

// RunServer serves svc over stdio until ctx is cancelled or the client disconnects.
func RunServer(ctx context.Context, version string, svc Service) error {
	return runServer(ctx, version, svc, defaultServerRunner)
}

func runServer(ctx context.Context, version string, svc Service, runner serverRunner) error {
	if runner == nil {
		return fmt.Errorf(messages.McpRunServerFailedFmt, errors.New(messages.McpNilRunner))
	}
	if err := runner(ctx, NewServer(version, svc)); err != nil {
		return fmt.Errorf(messages.McpRunServerFailedFmt, err)
	}
	return nil
}

func defaultServerRunner(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// NewServer builds an MCP server with one tool per command.
func NewServer(version string, svc Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    messages.McpServerName,
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{Name: ToolListJdks, Description: messages.McpToolListJdks},
		func(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, ListOutput, error) {
			records := svc.ListJdks(ctx)
			if records == nil {
				records = []jdk.Record{}
			}
			return nil, ListOutput{JDKs: records, Notes: svc.Notes()}, nil
		})

	mcp.AddTool(server, &mcp.Tool{Name: ToolGetActiveJdk, Description: messages.McpToolGetActiveJdk},
		func(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, pulse.Active, error) {
			active, err := svc.GetActiveJdk(ctx)
			return nil, active, err
		})

	mcp.AddTool(server, &mcp.Tool{Name: ToolSetActiveJdk, Description: messages.McpToolSetActiveJdk},
		func(ctx context.Context, _ *mcp.CallToolRequest, args RefArgs) (*mcp.CallToolResult, pulse.SelectResult, error) {
			result, err := svc.SetActiveJdk(ctx, args.Ref)
			return nil, result, err
		})

	mcp.AddTool(server, &mcp.Tool{Name: ToolClearActiveJdk, Description: messages.McpToolClearActiveJdk},
		func(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, pulse.ClearResult, error) {
			result, err := svc.ClearActiveJdk(ctx)
			return nil, result, err
		})

	mcp.AddTool(server, &mcp.Tool{Name: ToolRunDoctor, Description: messages.McpToolRunDoctor},
		func(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, DoctorOutput, error) {
			report := svc.RunDoctor(ctx)
			return nil, DoctorOutput{Verdict: report.Verdict(), Checks: report.Checks()}, nil
		})

	mcp.AddTool(server, &mcp.Tool{Name: ToolInstallHook, Description: messages.McpToolInstallHook},
		func(_ context.Context, _ *mcp.CallToolRequest, args ShellArgs) (*mcp.CallToolResult, hook.Change, error) {
			shell, err := hook.ParseShell(args.Shell)
			if err != nil {
				return nil, hook.Change{}, err
			}
			change, err := svc.InstallShellIntegration(shell)
			return nil, change, err
		})

	mcp.AddTool(server, &mcp.Tool{Name: ToolRemoveHook, Description: messages.McpToolRemoveHook},
		func(_ context.Context, _ *mcp.CallToolRequest, args ShellArgs) (*mcp.CallToolResult, hook.Change, error) {
			shell, err := hook.ParseShell(args.Shell)
			if err != nil {
				return nil, hook.Change{}, err
			}
			change, err := svc.RemoveShellIntegration(shell)
			return nil, change, err
		})

	return server
}
