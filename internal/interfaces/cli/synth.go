package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSynthCommand(ctx *Context) *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "synth [stage...]",
		Short: "Synthesise stage graphs",
		Long:  "Build the resource graph of each stage and write it to the assembly directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := loadPipeline(cmd.Context(), ctx)
			if err != nil {
				return err
			}
			w := ctx.Workflow()
			arts, err := w.Synth(cmd.Context(), o, prune && len(args) == 0, args...)
			if err != nil {
				return err
			}
			store := w.Store(o)
			for _, a := range arts {
				fmt.Fprintf(ctx.Out, "%s %s -> %s (%d resources)\n",
					SuccessStyle.Render("✓"), EnvStyle.Render(a.Stage.ID()), store.GraphPath(a.Stage.EnvironmentName()), len(a.Manifest.Nodes))
				printWarnings(ctx.Out, "    ", a.Manifest.Warnings)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "Remove assemblies of environments that no longer have a stage")
	return cmd
}
