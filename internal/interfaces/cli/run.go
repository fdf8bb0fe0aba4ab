package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lite-lake/infra-siteops/internal/application/pipeline"
	"github.com/lite-lake/infra-siteops/internal/infrastructure/logger"
	"github.com/lite-lake/infra-siteops/internal/infrastructure/runner"
)

func newRunCommand(ctx *Context) *cobra.Command {
	var autoApprove bool
	var shell string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline",
		Long: `Run the build steps, then write every stage to the assembly in deployment order.

Every secret the pipeline reads must resolve from secrets.yaml before the run
starts. The source token is only checked for presence; registry credentials are
exported to build steps as SITEOPS_REGISTRY, SITEOPS_REGISTRY_USERNAME and
SITEOPS_REGISTRY_PASSWORD, and SITEOPS_SYNTH_DOCKER reports synth.docker_enabled.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := ctx.Workflow()
			cfg, warnings, err := w.LoadAndValidate(cmd.Context())
			if err != nil {
				return err
			}
			printIssues(ctx.Err, warnings)

			env, err := w.ResolveSecrets(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			o, err := w.Pipeline(cfg, pipeline.WithRegistryEnv(env))
			if err != nil {
				return err
			}

			plan, err := w.Planner(o).Plan(cmd.Context(), nil)
			if err != nil {
				return err
			}
			printPlan(ctx.Out, plan, false)

			if !autoApprove && !Confirm(ctx.In, ctx.Out, "Do you want to run the pipeline?", false) {
				fmt.Fprintln(ctx.Out, "Cancelled.")
				return nil
			}

			r := runner.NewShellRunner(
				runner.WithShell(shell),
				runner.WithDir(w.ConfigDir()),
				runner.WithOutput(ctx.Out, ctx.Err),
			)
			res, runErr := o.Run(cmd.Context(), r, w.Store(o))
			if res != nil {
				printRunResult(ctx, res)
			}
			for _, st := range logger.Snapshot() {
				logger.Debug("operation stats", "operation", st.Name, "total", st.Total, "failed", st.Failed,
					"avg_ms", st.AvgLatencyMs, "max_ms", st.MaxLatencyMs)
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "Skip the confirmation prompt")
	cmd.Flags().StringVar(&shell, "shell", "", "Shell used to run build steps (default bash)")
	return cmd
}

func printRunResult(ctx *Context, res *pipeline.RunResult) {
	out := ctx.Out
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s\n", TitleStyle.Render("Execution"), HelpStyle.Render(res.ExecutionID))

	symbol, style := FormatStatus(res.Synth)
	fmt.Fprintln(out, style.Render(fmt.Sprintf("%s synth", symbol)))
	if res.SynthErr != nil {
		fmt.Fprintf(out, "    %v\n", res.SynthErr)
	}
	for _, o := range res.Stages {
		symbol, style := FormatStatus(o.Status)
		fmt.Fprintln(out, style.Render(fmt.Sprintf("%s %s (%s) %s", symbol, o.Stage, o.Environment, o.Status)))
		if o.Err != nil {
			fmt.Fprintf(out, "    %v\n", o.Err)
		}
		printWarnings(out, "    ", o.Warnings)
	}
}
