package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lite-lake/infra-siteops/internal/application/pipeline"
)

func newDescribeCommand(ctx *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Describe the pipeline",
		Long:  "Print the pipeline phases in execution order and the secrets it reads.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := loadPipeline(cmd.Context(), ctx)
			if err != nil {
				return err
			}
			printDescription(ctx, o.Describe())
			return nil
		},
	}
}

func printDescription(ctx *Context, d *pipeline.Description) {
	out := ctx.Out
	fmt.Fprintln(out, TitleStyle.Render(d.Pipeline))
	fmt.Fprintf(out, "Source: %s@%s\n", d.Repo, d.Branch)
	if d.Registry != "" {
		fmt.Fprintf(out, "Registry: %s\n", d.Registry)
	}

	fmt.Fprintln(out)
	for i, ph := range d.Phases {
		switch ph.Kind {
		case pipeline.PhaseSynth:
			fmt.Fprintf(out, "%d. %s\n", i+1, EnvStyle.Render(ph.Name))
			if ph.Docker {
				fmt.Fprintf(out, "     %s\n", HelpStyle.Render("(docker enabled)"))
			}
			for _, c := range ph.Commands {
				fmt.Fprintf(out, "     $ %s\n", c)
			}
		case pipeline.PhaseDeploy:
			fmt.Fprintf(out, "%d. %s %s\n", i+1, EnvStyle.Render(ph.Name),
				HelpStyle.Render(fmt.Sprintf("(%s/%s)", ph.Environment, ph.Stack)))
		}
	}

	if len(d.Secrets) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Secrets:")
	for _, in := range d.Secrets {
		ref := HelpStyle.Render("(inline value)")
		if in.Ref.IsSecret() {
			ref = in.DynamicReference()
		}
		fmt.Fprintf(out, "  - %s: %s\n", in.Consumer, ref)
	}
}
