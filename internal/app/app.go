package app

import (
	"runtime"

	"github.com/zx06/xsecret/internal/backend"
	"github.com/zx06/xsecret/internal/errors"
	"github.com/zx06/xsecret/internal/output"
	"github.com/zx06/xsecret/internal/spec"
)

type App struct {
	Version string
	Commit  string
	Date    string
}

func New(version, commit, date string) App {
	return App{Version: version, Commit: commit, Date: date}
}

func (a App) BuildSpec() spec.Spec {
	globalFlags := []spec.FlagSpec{
		{Name: "config", Default: "", Description: "Config file path (YAML); default: ./xsecret.yaml or $HOME/.config/xsecret/xsecret.yaml"},
		{Name: "profile", Shorthand: "p", Env: "XSECRET_PROFILE", Default: "", Description: "Profile name (config: profiles.<name>)"},
		{Name: "format", Shorthand: "f", Env: "XSECRET_FORMAT", Default: "auto", Description: "Output format: json|yaml|table|csv|auto"},
		{Name: "backend", Shorthand: "b", Env: "XSECRET_BACKEND", Default: "auto", Description: "Secret backend: auto|keyring|secret-service|wincred|ring|memory"},
		{Name: "log-level", Env: "XSECRET_LOG_LEVEL", Default: "info", Description: "Log level on stderr: debug|info|warn|error"},
	}
	with := func(extra ...spec.FlagSpec) []spec.FlagSpec {
		return append(append([]spec.FlagSpec{}, globalFlags...), extra...)
	}
	reveal := spec.FlagSpec{Name: "reveal", Default: "false", Description: "Print the secret itself instead of only its size"}
	target := []spec.ArgSpec{
		{Name: "service", Description: "Service the secret belongs to, e.g. Acme/Sync"},
		{Name: "user", Description: "Account name within the service"},
	}
	exitCodes := map[errors.Code]errors.ExitCode{}
	for _, c := range errors.AllCodes() {
		exitCodes[c] = errors.ExitCodeFor(c)
	}
	return spec.Spec{
		SchemaVersion: output.SchemaVersion,
		Commands: []spec.CommandSpec{
			{
				Name:        "spec",
				Description: "Export tool spec for AI/agents",
				Flags:       with(spec.FlagSpec{Name: "command", Default: "", Description: "Only describe this command, e.g. \"profile show\""}),
			},
			{
				Name:        "version",
				Description: "Print version information",
				Flags:       with(),
			},
			{
				Name:        "save",
				Description: "Save a secret for <service> <user>; reads from the terminal without echo",
				Args:        target,
				Flags: with(
					spec.FlagSpec{Name: "stdin", Default: "false", Description: "Read the secret from stdin"},
					spec.FlagSpec{Name: "from-file", Default: "", Description: "Read the secret from a file"},
				),
			},
			{
				Name:        "load",
				Description: "Load the secret for <service> <user>",
				Args:        target,
				Secret:      true,
				Flags: with(
					reveal,
					spec.FlagSpec{Name: "codec", Default: "whatever", Description: "Text codec for --reveal: whatever|utf8|utf16le|latin1"},
				),
			},
			{
				Name:        "delete",
				Description: "Delete every secret stored for <service> <user>",
				Args:        target,
				Flags:       with(),
			},
			{
				Name:        "resolve",
				Description: "Resolve a keyring:<service>#<user> reference",
				Args:        []spec.ArgSpec{{Name: "ref", Description: "keyring:<service>#<user>, or a plaintext value with --allow-plaintext"}},
				Secret:      true,
				Flags: with(
					reveal,
					spec.FlagSpec{Name: "allow-plaintext", Default: "false", Description: "Accept a plaintext value instead of a reference"},
				),
			},
			{
				Name:        "backend",
				Description: "Show the resolved backend and registered backends",
				Flags:       with(),
			},
			{
				Name:        "profile list",
				Description: "List all configured profiles",
				Flags:       with(),
			},
			{
				Name:        "profile show",
				Description: "Show profile details",
				Args:        []spec.ArgSpec{{Name: "name", Description: "Profile name as written under profiles: in the config file"}},
				Flags:       with(),
			},
		},
		Backends: spec.BackendSpec{
			Default:    backend.PlatformDefault(),
			Registered: backend.Names(),
		},
		Codecs:     []string{"whatever", "utf8", "utf16le", "latin1"},
		ErrorCodes: errors.AllCodes(),
		ExitCodes:  exitCodes,
	}
}

type VersionInfo struct {
	Version        string `json:"version" yaml:"version"`
	Commit         string `json:"commit" yaml:"commit"`
	Date           string `json:"date" yaml:"date"`
	GoVersion      string `json:"go_version" yaml:"go_version"`
	Platform       string `json:"platform" yaml:"platform"`
	DefaultBackend string `json:"default_backend" yaml:"default_backend"`
}

func (a App) VersionInfo() VersionInfo {
	return VersionInfo{
		Version:        a.Version,
		Commit:         a.Commit,
		Date:           a.Date,
		GoVersion:      runtime.Version(),
		Platform:       runtime.GOOS + "/" + runtime.GOARCH,
		DefaultBackend: backend.PlatformDefault(),
	}
}
