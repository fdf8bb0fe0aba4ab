package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lite-lake/infra-siteops/internal/application/orchestrator"
)

var Version = "dev"

// errVersionShown stops the command chain after --version.
var errVersionShown = errors.New("version shown")

// Context carries the global flags and the streams commands write to.
type Context struct {
	ConfigDir   string
	OutputDir   string
	ShowVersion bool

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func NewContext() *Context {
	return &Context{
		ConfigDir: ".",
		In:        os.Stdin,
		Out:       os.Stdout,
		Err:       os.Stderr,
	}
}

func (c *Context) Workflow() *orchestrator.Workflow {
	return orchestrator.NewWorkflow(c.ConfigDir, c.OutputDir)
}

func NewRootCommand(ctx *Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "siteops",
		Short:         "Static site pipeline tool",
		Long:          "Siteops synthesises and deploys a static site to one or more environments.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if ctx.ShowVersion {
				fmt.Fprintln(ctx.Out, Version)
				return errVersionShown
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetIn(ctx.In)
	rootCmd.SetOut(ctx.Out)
	rootCmd.SetErr(ctx.Err)

	rootCmd.PersistentFlags().StringVarP(&ctx.ConfigDir, "config", "c", ctx.ConfigDir, "Configuration directory")
	rootCmd.PersistentFlags().StringVarP(&ctx.OutputDir, "output", "o", ctx.OutputDir, "Assembly directory (default <config>/siteops.out)")
	rootCmd.PersistentFlags().BoolVarP(&ctx.ShowVersion, "version", "v", false, "Show version information")

	rootCmd.AddCommand(
		newValidateCommand(ctx),
		newDescribeCommand(ctx),
		newListCommand(ctx),
		newSynthCommand(ctx),
		newShowCommand(ctx),
		newDiffCommand(ctx),
		newRunCommand(ctx),
	)
	return rootCmd
}

func Execute() {
	ctx := NewContext()
	err := NewRootCommand(ctx).Execute()
	if err == nil || errors.Is(err, errVersionShown) {
		return
	}
	fmt.Fprintln(ctx.Err, ErrorStyle.Render("Error: ")+err.Error())
	os.Exit(1)
}
