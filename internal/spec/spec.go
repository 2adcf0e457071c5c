package spec

import "github.com/zx06/xsecret/internal/errors"

type FlagSpec struct {
	Name        string `json:"name" yaml:"name"`
	Shorthand   string `json:"shorthand,omitempty" yaml:"shorthand,omitempty"`
	Env         string `json:"env,omitempty" yaml:"env,omitempty"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ArgSpec 描述位置参数，按出现顺序排列。
type ArgSpec struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type CommandSpec struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Args        []ArgSpec  `json:"args,omitempty" yaml:"args,omitempty"`
	Flags       []FlagSpec `json:"flags,omitempty" yaml:"flags,omitempty"`
	// Secret 为 true 的命令在 --reveal 时会输出 secret 明文。
	Secret bool `json:"secret,omitempty" yaml:"secret,omitempty"`
}

// BackendSpec 列出本平台已注册的后端与默认选择。
type BackendSpec struct {
	Default    string   `json:"default" yaml:"default"`
	Registered []string `json:"registered" yaml:"registered"`
}

type Spec struct {
	SchemaVersion int                             `json:"schema_version" yaml:"schema_version"`
	Commands      []CommandSpec                   `json:"commands" yaml:"commands"`
	Backends      BackendSpec                     `json:"backends" yaml:"backends"`
	Codecs        []string                        `json:"codecs" yaml:"codecs"`
	ErrorCodes    []errors.Code                   `json:"error_codes" yaml:"error_codes"`
	ExitCodes     map[errors.Code]errors.ExitCode `json:"exit_codes" yaml:"exit_codes"`
}

// Command 按名称查找命令，子命令使用空格分隔的全名（如 "profile show"）。
func (s Spec) Command(name string) (CommandSpec, bool) {
	for _, c := range s.Commands {
		if c.Name == name {
			return c, true
		}
	}
	return CommandSpec{}, false
}
