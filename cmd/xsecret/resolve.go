package main

import (
	"github.com/spf13/cobra"

	"github.com/zx06/xsecret/internal/output"
	"github.com/zx06/xsecret/internal/secret"
)

// NewResolveCommand creates the resolve command
func NewResolveCommand(w *output.Writer) *cobra.Command {
	var reveal, allowPlaintext bool
	cmd := &cobra.Command{
		Use:   "resolve <ref>",
		Short: "Resolve a keyring:<service>#<user> reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			ref := args[0]
			opts := secret.ResolveOptions{
				AllowPlaintext: allowPlaintext || GlobalConfig.Resolved.Profile.AllowPlaintext,
			}
			if secret.IsKeyringRef(ref) {
				st, err := openStore()
				if err != nil {
					return err
				}
				opts.Store = st
			}
			v, xe := secret.Resolve(ref, opts)
			if xe != nil {
				return xe
			}
			defer v.Wipe()

			result := map[string]any{"size": v.Size()}
			if secret.IsKeyringRef(ref) {
				result["ref"] = ref
			} else {
				result["ref"] = "<plaintext>"
			}
			if reveal {
				s, err := v.AsString(nil)
				if err != nil {
					return err
				}
				defer secret.WipeString(&s)
				result["value"] = s
			}
			return w.WriteOK(format, result)
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print the resolved secret")
	cmd.Flags().BoolVar(&allowPlaintext, "allow-plaintext", false, "Accept a plaintext value instead of a reference")
	return cmd
}
