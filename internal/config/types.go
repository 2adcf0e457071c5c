package config

// File 表示 xsecret.yaml 的配置结构。
// 约束：配置优先级为 CLI > ENV > Config。
type File struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

type Profile struct {
	Format   string `yaml:"format"`
	LogLevel string `yaml:"log_level"`

	// 后端选择：auto | keyring | secret-service | wincred | ring | memory
	Backend    string `yaml:"backend"`
	Collection string `yaml:"collection"` // Secret Service 集合别名

	// ring 后端（99designs/keyring）
	RingBackends    []string `yaml:"ring_backends"`
	FileDir         string   `yaml:"file_dir"`
	FilePasswordEnv string   `yaml:"file_password_env"` // 只保存环境变量名，不保存口令
	KeychainName    string   `yaml:"keychain_name"`

	// 允许 resolve 接受明文（极不推荐）
	AllowPlaintext bool `yaml:"allow_plaintext"`
}

type Resolved struct {
	ConfigPath  string
	ProfileName string
	Format      string
	Backend     string
	LogLevel    string
	Profile     Profile
}

type Options struct {
	// ConfigPath: 若非空，则只读取该文件（不存在报错）。
	ConfigPath string

	// CLI
	CLIProfile     string
	CLIProfileSet  bool
	CLIFormat      string
	CLIFormatSet   bool
	CLIBackend     string
	CLIBackendSet  bool
	CLILogLevel    string
	CLILogLevelSet bool

	// ENV（由调用方注入，便于测试）
	EnvProfile  string
	EnvFormat   string
	EnvBackend  string
	EnvLogLevel string

	// HomeDir 用于默认路径计算（为空则自动探测）。
	HomeDir string

	// WorkDir 用于默认路径（为空则使用进程当前工作目录）。
	WorkDir string
}
