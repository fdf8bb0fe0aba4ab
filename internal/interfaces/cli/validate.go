package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(ctx *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		Long:  "Validate the pipeline and environment configuration.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, warnings, err := ctx.Workflow().LoadAndValidate(cmd.Context())
			if err != nil {
				return err
			}
			printIssues(ctx.Err, warnings)
			fmt.Fprintln(ctx.Out, SuccessStyle.Render("Configuration is valid."))
			return nil
		},
	}
}
