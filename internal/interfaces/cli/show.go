package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func newShowCommand(ctx *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "show <stage>",
		Short: "Show a stage",
		Long:  "Show the configuration and resource graph of one stage.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := loadPipeline(cmd.Context(), ctx)
			if err != nil {
				return err
			}
			arts, err := o.Synthesize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a := arts[0]
			cfg := a.Stage.Config()
			out := ctx.Out

			title := cases.Title(language.English).String(a.Stage.EnvironmentName())
			fmt.Fprintf(out, "%s %s\n", TitleStyle.Render(title), HelpStyle.Render("("+a.Stage.ID()+")"))
			fmt.Fprintf(out, "Stack: %s\n", a.Stage.StackName())
			fmt.Fprintf(out, "URLs: %s\n", orNone(strings.Join(cfg.URLs, ", ")))
			fmt.Fprintf(out, "Certificate: %s\n", orNone(cfg.CDNCertARN))
			if cfg.HostedZone != nil {
				fmt.Fprintf(out, "Hosted zone: %s (%s)\n", cfg.HostedZone.ZoneName, cfg.HostedZone.ZoneID)
			} else {
				fmt.Fprintln(out, "Hosted zone: none")
			}
			printWarnings(out, "", a.Manifest.Warnings)

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Resources:")
			for _, n := range a.Manifest.Nodes {
				line := fmt.Sprintf("  %s %s", EnvStyle.Render(n.ID), HelpStyle.Render(n.Type))
				if len(n.DependsOn) > 0 {
					line += " <- " + strings.Join(n.DependsOn, ", ")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
