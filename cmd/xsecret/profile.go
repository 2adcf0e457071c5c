package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/zx06/xsecret/internal/config"
	"github.com/zx06/xsecret/internal/errors"
	"github.com/zx06/xsecret/internal/output"
)

// NewProfileCommand creates the profile command group
func NewProfileCommand(w *output.Writer) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage profiles",
	}

	profileCmd.AddCommand(newProfileListCommand(w))
	profileCmd.AddCommand(newProfileShowCommand(w))

	return profileCmd
}

// newProfileListCommand creates the profile list command
func newProfileListCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configured profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}

			cfg, cfgPath, xe := config.LoadConfig(config.Options{
				ConfigPath: GlobalConfig.ConfigStr,
			})
			if xe != nil {
				return xe
			}

			type profileInfo struct {
				Name    string `json:"name"`
				Backend string `json:"backend"`
			}

			profiles := make([]profileInfo, 0, len(cfg.Profiles))
			for name, p := range cfg.Profiles {
				backend := p.Backend
				if backend == "" {
					backend = "auto"
				}
				profiles = append(profiles, profileInfo{Name: name, Backend: backend})
			}
			sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })

			result := map[string]any{
				"config_path": cfgPath,
				"profiles":    profiles,
			}

			return w.WriteOK(format, result)
		},
	}
}

// newProfileShowCommand creates the profile show command
func newProfileShowCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show profile details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}

			cfg, cfgPath, xe := config.LoadConfig(config.Options{
				ConfigPath: GlobalConfig.ConfigStr,
			})
			if xe != nil {
				return xe
			}

			profile, ok := cfg.Profiles[name]
			if !ok {
				return errors.New(errors.CodeCfgInvalid, "profile not found", map[string]any{"name": name})
			}

			result := map[string]any{
				"config_path":     cfgPath,
				"name":            name,
				"format":          profile.Format,
				"backend":         profile.Backend,
				"collection":      profile.Collection,
				"ring_backends":   profile.RingBackends,
				"file_dir":        profile.FileDir,
				"keychain_name":   profile.KeychainName,
				"log_level":       profile.LogLevel,
				"allow_plaintext": profile.AllowPlaintext,
			}
			// 只展示环境变量名，口令本身从不出现在配置里
			if profile.FilePasswordEnv != "" {
				result["file_password_env"] = profile.FilePasswordEnv
			}

			return w.WriteOK(format, result)
		},
	}
}
