package app

import (
	"github.com/zx06/keytar/internal/backend/credman"
	"github.com/zx06/keytar/internal/backend/keychain"
	"github.com/zx06/keytar/internal/backend/keyctl"
	"github.com/zx06/keytar/internal/backend/securitycli"
	"github.com/zx06/keytar/internal/errors"
	"github.com/zx06/keytar/internal/output"
	"github.com/zx06/keytar/internal/spec"
)

type App struct {
	Version string
}

func New(version string) App {
	return App{Version: version}
}

// BuildSpec 导出命令/参数/错误码清单，供 AI/agent 发现能力。backend 为当前构建启用的后端名。
func (a App) BuildSpec(backend string) spec.Spec {
	globalFlags := []spec.FlagSpec{
		{Name: "config", Default: "", Description: "Config file path (YAML); default: ./keytar.yaml or $HOME/.config/keytar/keytar.yaml"},
		{Name: "format", Shorthand: "f", Env: "KEYTAR_FORMAT", Default: "auto", Description: "Output format: json|yaml|table|csv|auto"},
		{Name: "log-level", Env: "KEYTAR_LOG_LEVEL", Default: "warn", Description: "Log level: debug|info|warn|error (logs go to stderr)"},
	}
	return spec.Spec{
		SchemaVersion: output.SchemaVersion,
		Backend:       DescribeBackend(backend),
		Commands: []spec.CommandSpec{
			{
				Name:        "spec",
				Description: "Export tool spec for AI/agents",
				Flags:       globalFlags,
			},
			{
				Name:        "version",
				Description: "Print version information",
				Flags:       globalFlags,
			},
			{
				Name:        "get",
				Args:        []string{"service", "account?"},
				Description: "Read a secret; without account, list all credentials of the service",
				Flags:       globalFlags,
			},
			{
				Name:        "set",
				Args:        []string{"service", "account"},
				Description: "Store (or overwrite) a secret",
				Flags: append(globalFlags,
					spec.FlagSpec{Name: "password", Shorthand: "p", Description: "Secret value; prompted (hidden) on a TTY or read from stdin when omitted"},
				),
			},
			{
				Name:        "delete",
				Args:        []string{"service", "account"},
				Description: "Delete a secret",
				Flags: append(globalFlags,
					spec.FlagSpec{Name: "yes", Shorthand: "y", Default: "false", Description: "Skip confirmation"},
				),
			},
			{
				Name:        "find",
				Args:        []string{"service[/account]"},
				Description: "Best-effort lookup of one secret by service or service/account",
				Flags:       globalFlags,
			},
			{
				Name:        "mcp server",
				Description: "Start MCP server exposing credential tools",
				Flags: append(globalFlags,
					spec.FlagSpec{Name: "transport", Env: "KEYTAR_MCP_TRANSPORT", Default: "stdio", Description: "MCP transport: stdio|streamable_http"},
					spec.FlagSpec{Name: "http-addr", Env: "KEYTAR_MCP_HTTP_ADDR", Default: "127.0.0.1:8787", Description: "Streamable HTTP listen address"},
					spec.FlagSpec{Name: "http-auth-token", Env: "KEYTAR_MCP_HTTP_AUTH_TOKEN", Description: "Streamable HTTP bearer token"},
					spec.FlagSpec{Name: "allow-write", Env: "KEYTAR_MCP_ALLOW_WRITE", Default: "false", Description: "Expose set_password and delete_password tools"},
				),
			},
		},
		ErrorCodes: errorCodeTable(),
	}
}

// DescribeBackend 返回后端的能力描述；未知名称按完整能力处理。
func DescribeBackend(name string) spec.BackendSpec {
	b := spec.BackendSpec{Name: name, Enumerate: true, EmptyAccount: true}
	switch name {
	case credman.Name:
		b.MaxSecretBytes = credman.MaxBlobSize
	case keyctl.Name:
		b.MaxSecretBytes = keyctl.MaxPayloadLen
	case keychain.Name:
		b.EmptyAccount = false
	case securitycli.Name:
		b.Enumerate = false
	}
	return b
}

func errorCodeTable() []spec.ErrorCodeSpec {
	codes := errors.AllCodes()
	out := make([]spec.ErrorCodeSpec, 0, len(codes))
	for _, c := range codes {
		out = append(out, spec.ErrorCodeSpec{Code: c, ExitCode: errors.ExitCodeFor(c)})
	}
	return out
}

type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
	Backend string `json:"backend" yaml:"backend"`
}

func (a App) VersionInfo(backend string) VersionInfo {
	return VersionInfo{Version: a.Version, Backend: backend}
}
