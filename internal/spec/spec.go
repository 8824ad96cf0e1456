package spec

import "github.com/zx06/keytar/internal/errors"

type FlagSpec struct {
	Name        string `json:"name" yaml:"name"`
	Shorthand   string `json:"shorthand,omitempty" yaml:"shorthand,omitempty"`
	Env         string `json:"env,omitempty" yaml:"env,omitempty"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type CommandSpec struct {
	Name        string     `json:"name" yaml:"name"`
	Args        []string   `json:"args,omitempty" yaml:"args,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Flags       []FlagSpec `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// BackendSpec 描述当前构建启用的凭据后端及其能力差异，agent 据此决定可调用的操作。
type BackendSpec struct {
	Name           string `json:"name" yaml:"name"`
	Enumerate      bool   `json:"enumerate" yaml:"enumerate"`         // find_credentials 与只给 service 的 find_password
	EmptyAccount   bool   `json:"empty_account" yaml:"empty_account"` // 是否可寻址空 account
	MaxSecretBytes int    `json:"max_secret_bytes,omitempty" yaml:"max_secret_bytes,omitempty"`
}

// ErrorCodeSpec 把错误码与进程退出码配对。
type ErrorCodeSpec struct {
	Code     errors.Code     `json:"code" yaml:"code"`
	ExitCode errors.ExitCode `json:"exit_code" yaml:"exit_code"`
}

type Spec struct {
	SchemaVersion int             `json:"schema_version" yaml:"schema_version"`
	Backend       BackendSpec     `json:"backend" yaml:"backend"`
	Commands      []CommandSpec   `json:"commands" yaml:"commands"`
	ErrorCodes    []ErrorCodeSpec `json:"error_codes" yaml:"error_codes"`
}
