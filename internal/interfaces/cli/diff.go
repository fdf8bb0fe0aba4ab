package cli

import (
	"github.com/spf13/cobra"

	"github.com/lite-lake/infra-siteops/internal/domain/valueobject"
)

func newDiffCommand(ctx *Context) *cobra.Command {
	var detail bool

	cmd := &cobra.Command{
		Use:   "diff [stage...]",
		Short: "Compare configuration with the assembly",
		Long:  "Show what a synth would change in the assembly for the given stages.",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := loadPipeline(cmd.Context(), ctx)
			if err != nil {
				return err
			}
			for _, ref := range args {
				if _, err := o.Stage(ref); err != nil {
					return err
				}
			}
			plan, err := ctx.Workflow().Planner(o).Plan(cmd.Context(), valueobject.NewScope(args...))
			if err != nil {
				return err
			}
			printPlan(ctx.Out, plan, detail)
			return nil
		},
	}

	cmd.Flags().BoolVar(&detail, "detail", false, "Show old and new property values for each change")
	return cmd
}
