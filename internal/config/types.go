package config

// File 表示 keytar.yaml 的配置结构。
// 约束：配置优先级为 CLI > ENV > Config。
type File struct {
	Format   string        `yaml:"format"`
	LogLevel string        `yaml:"log_level"`
	Backend  BackendConfig `yaml:"backend"`
	MCP      MCPConfig     `yaml:"mcp"`
}

// BackendConfig 各平台后端的选项；只有当前平台的后端会使用对应小节。
type BackendConfig struct {
	Credman       CredmanConfig       `yaml:"credman"`
	SecretService SecretServiceConfig `yaml:"secret_service"`
	Keyctl        KeyctlConfig        `yaml:"keyctl"`
}

type CredmanConfig struct {
	Persist string `yaml:"persist"` // session | local_machine | enterprise
}

type SecretServiceConfig struct {
	Collection string `yaml:"collection"` // 集合别名，默认 default
}

type KeyctlConfig struct {
	Keyring string `yaml:"keyring"` // user | session | process | persistent
	Create  *bool  `yaml:"create"`  // 未设置时为 true
}

type MCPConfig struct {
	AllowWrite bool          `yaml:"allow_write"`
	Transport  string        `yaml:"transport"`
	HTTP       MCPHTTPConfig `yaml:"http"`
}

type MCPHTTPConfig struct {
	Addr                string `yaml:"addr"`
	AuthToken           string `yaml:"auth_token"` // 支持 keyring:service/account 引用
	AllowPlaintextToken bool   `yaml:"allow_plaintext_token"`
}

type Resolved struct {
	ConfigPath string
	Format     string
	LogLevel   string
	File       File
}

type Options struct {
	// ConfigPath: 若非空，则只读取该文件（不存在报错）。
	ConfigPath string

	// CLI
	CLIFormat      string
	CLIFormatSet   bool
	CLILogLevel    string
	CLILogLevelSet bool

	// ENV（由调用方注入，便于测试）
	EnvFormat   string
	EnvLogLevel string

	// HomeDir 用于默认路径计算（为空则自动探测）。
	HomeDir string

	// WorkDir 用于默认路径（为空则使用进程当前工作目录）。
	WorkDir string
}

// CreateKeyring 返回 keyctl.create 的有效值。
func (k KeyctlConfig) CreateKeyring() bool {
	return k.Create == nil || *k.Create
}
