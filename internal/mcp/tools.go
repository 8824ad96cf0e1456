package mcp

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zx06/keytar/internal/backend"
	"github.com/zx06/keytar/internal/errors"
	"github.com/zx06/keytar/internal/output"
	"github.com/zx06/keytar/internal/store"
)

// AddressInput is the input for get_password and delete_password
type AddressInput struct {
	Service string `json:"service"`
	Account string `json:"account"`
}

// SetInput is the input for set_password
type SetInput struct {
	Service  string `json:"service"`
	Account  string `json:"account"`
	Password string `json:"password"`
}

// ServiceInput is the input for find_password and find_credentials
type ServiceInput struct {
	Service string `json:"service"`
}

// Options controls which tools are exposed
type Options struct {
	// AllowWrite exposes set_password and delete_password.
	AllowWrite bool
}

// ToolHandler manages MCP tools
type ToolHandler struct {
	store *store.Store
	opts  Options
}

// NewToolHandler creates a new tool handler
func NewToolHandler(st *store.Store, opts Options) *ToolHandler {
	return &ToolHandler{store: st, opts: opts}
}

func objectSchema(required []string, props map[string]*jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", Required: required, Properties: props}
}

func stringProp(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

// RegisterTools registers all tools with the MCP server
func (h *ToolHandler) RegisterTools(server *mcp.Server) {
	service := stringProp("Service name")
	account := stringProp("Account name (may be empty)")

	server.AddTool(&mcp.Tool{
		Name:        "get_password",
		Description: "Read the secret stored for service/account; data.found is false when nothing is stored",
		InputSchema: objectSchema([]string{"service", "account"}, map[string]*jsonschema.Schema{
			"service": service,
			"account": account,
		}),
	}, h.getPasswordHandler)

	server.AddTool(&mcp.Tool{
		Name:        "find_password",
		Description: "Best-effort lookup of one secret by service or service/account (split on the first '/')",
		InputSchema: objectSchema([]string{"service"}, map[string]*jsonschema.Schema{
			"service": stringProp("Service name, optionally followed by /account"),
		}),
	}, h.findPasswordHandler)

	server.AddTool(&mcp.Tool{
		Name:        "find_credentials",
		Description: "List every account and secret stored under a service",
		InputSchema: objectSchema([]string{"service"}, map[string]*jsonschema.Schema{
			"service": service,
		}),
	}, h.findCredentialsHandler)

	if !h.opts.AllowWrite {
		return
	}

	server.AddTool(&mcp.Tool{
		Name:        "set_password",
		Description: "Store or overwrite the secret for service/account",
		InputSchema: objectSchema([]string{"service", "account", "password"}, map[string]*jsonschema.Schema{
			"service":  service,
			"account":  account,
			"password": stringProp("Secret value (UTF-8 text)"),
		}),
	}, h.setPasswordHandler)

	server.AddTool(&mcp.Tool{
		Name:        "delete_password",
		Description: "Delete the secret for service/account; data.deleted is false when nothing existed",
		InputSchema: objectSchema([]string{"service", "account"}, map[string]*jsonschema.Schema{
			"service": service,
			"account": account,
		}),
	}, h.deletePasswordHandler)
}

func decodeInput[T any](req *mcp.CallToolRequest) (T, *errors.XError) {
	var input T
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return input, nil
	}
	if err := json.Unmarshal(req.Params.Arguments, &input); err != nil {
		return input, errors.Wrap(errors.CodeInvalidArgument, "invalid input", nil, err)
	}
	return input, nil
}

func (h *ToolHandler) getPasswordHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, xe := decodeInput[AddressInput](req)
	if xe != nil {
		return h.errorResult(xe), nil
	}
	result, _, err := h.GetPassword(ctx, req, input)
	return result, err
}

func (h *ToolHandler) findPasswordHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, xe := decodeInput[ServiceInput](req)
	if xe != nil {
		return h.errorResult(xe), nil
	}
	result, _, err := h.FindPassword(ctx, req, input)
	return result, err
}

func (h *ToolHandler) findCredentialsHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, xe := decodeInput[ServiceInput](req)
	if xe != nil {
		return h.errorResult(xe), nil
	}
	result, _, err := h.FindCredentials(ctx, req, input)
	return result, err
}

func (h *ToolHandler) setPasswordHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, xe := decodeInput[SetInput](req)
	if xe != nil {
		return h.errorResult(xe), nil
	}
	result, _, err := h.SetPassword(ctx, req, input)
	return result, err
}

func (h *ToolHandler) deletePasswordHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, xe := decodeInput[AddressInput](req)
	if xe != nil {
		return h.errorResult(xe), nil
	}
	result, _, err := h.DeletePassword(ctx, req, input)
	return result, err
}

// GetPassword reads one secret
func (h *ToolHandler) GetPassword(ctx context.Context, req *mcp.CallToolRequest, input AddressInput) (*mcp.CallToolResult, any, error) {
	password, found, xe := h.store.GetPassword(input.Service, input.Account)
	if xe != nil {
		return h.errorResult(xe), nil, nil
	}
	return h.okResult(secretResult(input.Service, input.Account, password, found)), nil, nil
}

// FindPassword looks up one secret by service or service/account
func (h *ToolHandler) FindPassword(ctx context.Context, req *mcp.CallToolRequest, input ServiceInput) (*mcp.CallToolResult, any, error) {
	password, found, xe := h.store.FindPassword(input.Service)
	if xe != nil {
		return h.errorResult(xe), nil, nil
	}
	data := map[string]any{"service": input.Service, "found": found}
	if found {
		data["password"] = password
	}
	return h.okResult(data), nil, nil
}

// FindCredentials lists all credentials of a service
func (h *ToolHandler) FindCredentials(ctx context.Context, req *mcp.CallToolRequest, input ServiceInput) (*mcp.CallToolResult, any, error) {
	recs, xe := h.store.FindCredentials(input.Service)
	if xe != nil {
		return h.errorResult(xe), nil, nil
	}
	return h.okResult(credentialsResult(input.Service, recs)), nil, nil
}

// SetPassword stores a secret
func (h *ToolHandler) SetPassword(ctx context.Context, req *mcp.CallToolRequest, input SetInput) (*mcp.CallToolResult, any, error) {
	ok, xe := h.store.SetPassword(input.Service, input.Account, input.Password)
	if xe != nil {
		return h.errorResult(xe), nil, nil
	}
	return h.okResult(map[string]any{"service": input.Service, "account": input.Account, "stored": ok}), nil, nil
}

// DeletePassword deletes a secret
func (h *ToolHandler) DeletePassword(ctx context.Context, req *mcp.CallToolRequest, input AddressInput) (*mcp.CallToolResult, any, error) {
	deleted, xe := h.store.DeletePassword(input.Service, input.Account)
	if xe != nil {
		return h.errorResult(xe), nil, nil
	}
	return h.okResult(map[string]any{"service": input.Service, "account": input.Account, "deleted": deleted}), nil, nil
}

func secretResult(service, account, password string, found bool) map[string]any {
	data := map[string]any{"service": service, "account": account, "found": found}
	if found {
		data["password"] = password
	}
	return data
}

func credentialsResult(service string, recs []backend.Record) map[string]any {
	return map[string]any{"service": service, "credentials": recs}
}

func (h *ToolHandler) okResult(data any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(output.OK(data), "", "  ")
	if err != nil {
		return h.errorResult(errors.Wrap(errors.CodeInternal, "failed to marshal result", nil, err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonData)},
		},
	}
}

func (h *ToolHandler) errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: h.formatError(err)},
		},
	}
}

// formatError formats an error as JSON
func (h *ToolHandler) formatError(err error) string {
	var xe *errors.XError
	if err != nil {
		xe = errors.AsOrWrap(err)
	} else {
		xe = errors.New(errors.CodeInternal, "unknown error", nil)
	}
	jsonData, _ := json.MarshalIndent(output.Fail(xe), "", "  ")
	return string(jsonData)
}

// CreateServer creates a new MCP server
func CreateServer(version string, st *store.Store, opts Options) (*mcp.Server, error) {
	if st == nil {
		return nil, errors.New(errors.CodeInternal, "credential store is nil", nil)
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "keytar",
		Version: version,
	}, nil)

	handler := NewToolHandler(st, opts)
	handler.RegisterTools(server)

	return server, nil
}
