package main

import (
	"github.com/spf13/cobra"

	"github.com/zx06/xsecret/internal/app"
	"github.com/zx06/xsecret/internal/errors"
	"github.com/zx06/xsecret/internal/output"
)

// NewSpecCommand creates the spec command. With --command it describes a
// single command, e.g. `xsecret spec --command "profile show"`.
func NewSpecCommand(a *app.App, w *output.Writer) *cobra.Command {
	var only string
	cmd := &cobra.Command{
		Use:   "spec",
		Short: "Export tool spec for AI/agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			s := a.BuildSpec()
			if only == "" {
				return w.WriteOK(format, s)
			}
			c, ok := s.Command(only)
			if !ok {
				return errors.New(errors.CodeCfgInvalid, "unknown command", map[string]any{"command": only})
			}
			return w.WriteOK(format, c)
		},
	}
	cmd.Flags().StringVar(&only, "command", "", "Only describe this command")
	return cmd
}
