package main

import (
	"github.com/spf13/cobra"

	"github.com/zx06/xsecret/internal/app"
	"github.com/zx06/xsecret/internal/log"
	"github.com/zx06/xsecret/internal/output"
)

// NewBackendCommand creates the backend command. An unavailable backend is
// reported as ok=false rather than as an error.
func NewBackendCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "backend",
		Short: "Show the resolved backend and registered backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			logger := GlobalConfig.Logger
			if logger == nil {
				logger = log.New(cmd.ErrOrStderr())
			}
			st := app.OpenStore(GlobalConfig.Resolved, logger)
			return w.WriteOK(format, app.Backend(st))
		},
	}
}
