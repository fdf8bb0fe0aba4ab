package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand(ctx *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List environment stages",
		Long:  "List environment stages in deployment order with their last synthesis.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := loadPipeline(cmd.Context(), ctx)
			if err != nil {
				return err
			}
			idx, err := ctx.Workflow().Store(o).Index(cmd.Context())
			if err != nil {
				return err
			}
			synthesized := make(map[string]string, len(idx.Stages))
			for _, e := range idx.Stages {
				synthesized[e.Environment] = e.SynthesizedAt
			}

			if len(o.Stages()) == 0 {
				fmt.Fprintln(ctx.Out, "No environment stages defined.")
				return nil
			}
			fmt.Fprintln(ctx.Out, TitleStyle.Render("Stages:"))
			for i, st := range o.Stages() {
				cfg := st.Config()
				at, ok := synthesized[st.EnvironmentName()]
				if !ok {
					at = "never"
				}
				fmt.Fprintf(ctx.Out, "  %d. %s (environment: %s, urls: %d, synthesized: %s)\n",
					i+1, EnvStyle.Render(st.ID()), st.EnvironmentName(), len(cfg.URLs), at)
			}
			return nil
		},
	}
}
