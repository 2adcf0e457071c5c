package main

import (
	"github.com/spf13/cobra"

	"github.com/zx06/xsecret/internal/app"
	"github.com/zx06/xsecret/internal/output"
)

// versionOutput adds the backend the current profile resolves to.
type versionOutput struct {
	app.VersionInfo `yaml:",inline"`
	Profile string `json:"profile" yaml:"profile"`
	Backend string `json:"backend" yaml:"backend"`
}

// NewVersionCommand creates the version command
func NewVersionCommand(a *app.App, w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version, platform and backend information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			return w.WriteOK(format, versionOutput{
				VersionInfo: a.VersionInfo(),
				Profile:     GlobalConfig.Resolved.ProfileName,
				Backend:     GlobalConfig.Resolved.Backend,
			})
		},
	}
}
