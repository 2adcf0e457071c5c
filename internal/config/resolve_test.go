package config

import (
	"path/filepath"
	"testing"

	"github.com/zx06/xsecret/internal/errors"
)

func TestResolve_DefaultPaths_NoConfig(t *testing.T) {
	tmp := t.TempDir()
	got, xe := Resolve(Options{WorkDir: tmp, HomeDir: tmp})
	if xe != nil {
		t.Fatalf("unexpected err: %v", xe)
	}
	if got.ConfigPath != "" {
		t.Fatalf("expected empty config path")
	}
	if got.Format != "auto" || got.Backend != "auto" || got.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", got)
	}
}

func TestResolve_ExplicitConfigMissingIsError(t *testing.T) {
	tmp := t.TempDir()
	_, xe := Resolve(Options{WorkDir: tmp, HomeDir: tmp, ConfigPath: "no_such.yaml"})
	if xe == nil {
		t.Fatalf("expected error")
	}
	if xe.Code != errors.CodeCfgNotFound {
		t.Fatalf("code=%s", xe.Code)
	}
}

func TestResolve_ProfileAndFormatPrecedence(t *testing.T) {
	tmp := t.TempDir()
	writeConfig(t, filepath.Join(tmp, "xsecret.yaml"), "profiles:\n  default:\n    format: yaml\n  dev:\n    format: json\n")

	// No CLI/ENV profile -> profiles.default selected
	got, xe := Resolve(Options{WorkDir: tmp, HomeDir: tmp})
	if xe != nil {
		t.Fatal(xe)
	}
	if got.ProfileName != "default" || got.Format != "yaml" {
		t.Fatalf("got profile=%q format=%q", got.ProfileName, got.Format)
	}

	// ENV overrides config
	got, xe = Resolve(Options{WorkDir: tmp, HomeDir: tmp, EnvFormat: "json"})
	if xe != nil {
		t.Fatal(xe)
	}
	if got.Format != "json" {
		t.Fatalf("format=%q want json", got.Format)
	}

	// CLI overrides ENV
	got, xe = Resolve(Options{WorkDir: tmp, HomeDir: tmp, EnvFormat: "yaml", CLIFormat: "table", CLIFormatSet: true})
	if xe != nil {
		t.Fatal(xe)
	}
	if got.Format != "table" {
		t.Fatalf("format=%q want table", got.Format)
	}

	// ENV profile overrides default
	got, xe = Resolve(Options{WorkDir: tmp, HomeDir: tmp, EnvProfile: "dev"})
	if xe != nil {
		t.Fatal(xe)
	}
	if got.ProfileName != "dev" || got.Format != "json" {
		t.Fatalf("got profile=%q format=%q", got.ProfileName, got.Format)
	}

	// CLI profile overrides ENV profile
	got, xe = Resolve(Options{WorkDir: tmp, HomeDir: tmp, EnvProfile: "dev", CLIProfile: "default", CLIProfileSet: true})
	if xe != nil {
		t.Fatal(xe)
	}
	if got.ProfileName != "default" {
		t.Fatalf("profile=%q want default", got.ProfileName)
	}
}

func TestResolve_BackendAndLogLevelPrecedence(t *testing.T) {
	tmp := t.TempDir()
	writeConfig(t, filepath.Join(tmp, "xsecret.yaml"), `profiles:
  default:
    backend: ring
    log_level: warn
    collection: login
    ring_backends: [file, pass]
    keychain_name: xsecret
`)

	tests := []struct {
		name      string
		opts      Options
		wantBack  string
		wantLevel string
	}{
		{"config", Options{}, "ring", "warn"},
		{"env", Options{EnvBackend: "memory", EnvLogLevel: "debug"}, "memory", "debug"},
		{"cli", Options{EnvBackend: "memory", CLIBackend: "keyring", CLIBackendSet: true, CLILogLevel: "error", CLILogLevelSet: true}, "keyring", "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.WorkDir, tt.opts.HomeDir = tmp, tmp
			got, xe := Resolve(tt.opts)
			if xe != nil {
				t.Fatal(xe)
			}
			if got.Backend != tt.wantBack || got.LogLevel != tt.wantLevel {
				t.Errorf("backend=%q level=%q, want %q %q", got.Backend, got.LogLevel, tt.wantBack, tt.wantLevel)
			}
		})
	}
}

func TestResolve_UnknownProfile(t *testing.T) {
	tmp := t.TempDir()
	writeConfig(t, filepath.Join(tmp, "xsecret.yaml"), "profiles:\n  dev: {}\n")

	_, xe := Resolve(Options{WorkDir: tmp, HomeDir: tmp, CLIProfile: "prod", CLIProfileSet: true})
	if xe == nil || xe.Code != errors.CodeCfgInvalid {
		t.Fatalf("expected XSECRET_CFG_INVALID, got %v", xe)
	}
}

func TestResolved_BackendOptions(t *testing.T) {
	r := Resolved{
		Backend: "ring",
		Profile: Profile{
			Collection:      "login",
			RingBackends:    []string{"file"},
			FileDir:         "/var/lib/xsecret",
			FilePasswordEnv: "PW",
			KeychainName:    "xsecret",
		},
	}
	got := r.BackendOptions()
	if got.Name != "ring" || got.Collection != "login" || got.FileDir != "/var/lib/xsecret" ||
		got.FilePasswordEnv != "PW" || got.KeychainName != "xsecret" || len(got.RingBackends) != 1 {
		t.Errorf("unexpected backend options: %+v", got)
	}
}
