package config

import (
	"github.com/zx06/xsecret/internal/backend"
	"github.com/zx06/xsecret/internal/errors"
)

// Resolve 合并 config/profile/format/backend/log_level：CLI > ENV > Config。
func Resolve(opts Options) (Resolved, *errors.XError) {
	cfg, cfgPath, xe := LoadConfig(opts)
	if xe != nil {
		return Resolved{}, xe
	}

	// 1) 选择 profile：--profile > XSECRET_PROFILE > profiles.default > 空
	profile := ""
	explicit := true
	if opts.CLIProfileSet {
		profile = opts.CLIProfile
	} else if opts.EnvProfile != "" {
		profile = opts.EnvProfile
	} else {
		explicit = false
		if _, ok := cfg.Profiles["default"]; ok {
			profile = "default"
		}
	}

	var selected Profile
	if profile != "" {
		p, ok := cfg.Profiles[profile]
		if !ok && explicit {
			return Resolved{}, errors.New(errors.CodeCfgInvalid, "profile not found",
				map[string]any{"profile": profile, "config": cfgPath})
		}
		selected = p
	}

	// 2) format：--format > XSECRET_FORMAT > profile.format > auto
	format := pick("auto", selected.Format, opts.EnvFormat, opts.CLIFormat, opts.CLIFormatSet)
	// 3) backend：--backend > XSECRET_BACKEND > profile.backend > auto
	be := pick(backend.Auto, selected.Backend, opts.EnvBackend, opts.CLIBackend, opts.CLIBackendSet)
	// 4) log level：--log-level > XSECRET_LOG_LEVEL > profile.log_level > info
	level := pick("info", selected.LogLevel, opts.EnvLogLevel, opts.CLILogLevel, opts.CLILogLevelSet)

	return Resolved{
		ConfigPath:  cfgPath,
		ProfileName: profile,
		Format:      format,
		Backend:     be,
		LogLevel:    level,
		Profile:     selected,
	}, nil
}

func pick(def, cfg, env, cli string, cliSet bool) string {
	v := def
	if cfg != "" {
		v = cfg
	}
	if env != "" {
		v = env
	}
	if cliSet {
		v = cli
	}
	return v
}

// BackendOptions 把解析结果转换为 backend.Open 的参数。
func (r Resolved) BackendOptions() backend.Options {
	return backend.Options{
		Name:            r.Backend,
		Collection:      r.Profile.Collection,
		RingBackends:    r.Profile.RingBackends,
		FileDir:         r.Profile.FileDir,
		FilePasswordEnv: r.Profile.FilePasswordEnv,
		KeychainName:    r.Profile.KeychainName,
	}
}
