package main

import (
	"os"

	"golang.org/x/term"

	"github.com/zx06/xsecret/internal/app"
	"github.com/zx06/xsecret/internal/errors"
	"github.com/zx06/xsecret/internal/log"
	"github.com/zx06/xsecret/internal/output"
	"github.com/zx06/xsecret/internal/secret"
)

// parseOutputFormat parses and validates the output format string
func parseOutputFormat(s string) (output.Format, error) {
	f, ok := output.ParseFormat(s)
	if !ok {
		return "", errors.New(errors.CodeCfgInvalid, "invalid output format", map[string]any{"format": s})
	}
	return resolveAuto(f), nil
}

// resolveFormatForError resolves the format for error output
func resolveFormatForError(s string) output.Format {
	f, ok := output.ParseFormat(s)
	if !ok {
		f = output.FormatAuto
	}
	return resolveAuto(f)
}

// resolveAuto resolves "auto" format to appropriate format based on TTY
func resolveAuto(f output.Format) output.Format {
	if f != output.FormatAuto {
		return f
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return output.FormatTable
	}
	return output.FormatJSON
}

// normalizeErr normalizes any error to XError
func normalizeErr(err error) *errors.XError {
	if xe, ok := errors.As(err); ok {
		return xe
	}
	// Preserve original error message
	return errors.Wrap(errors.CodeInternal, err.Error(), nil, err)
}

// openStore opens the store for the resolved profile. An unavailable store is
// returned as an error; the backend's diagnostics are already on stderr.
func openStore() (*secret.Store, error) {
	logger := GlobalConfig.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	st := app.OpenStore(GlobalConfig.Resolved, logger)
	if !st.IsOk() {
		return nil, errors.New(errors.CodeBackendUnavailable, "secret backend is not available",
			map[string]any{"backend": GlobalConfig.Resolved.Backend})
	}
	return st, nil
}
