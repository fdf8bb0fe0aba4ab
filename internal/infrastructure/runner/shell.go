// Package runner executes the pipeline's build steps on the local machine.
package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/lite-lake/infra-siteops/internal/domain"
	"github.com/lite-lake/infra-siteops/internal/infrastructure/logger"
)

const defaultShell = "bash"

// ShellRunner runs each command with `<shell> -c`, in order, stopping at the
// first failure.
type ShellRunner struct {
	shell  string
	dir    string
	env    []string
	stdout io.Writer
	stderr io.Writer
}

type Option func(*ShellRunner)

// WithShell overrides the shell. An empty name keeps the default.
func WithShell(shell string) Option {
	return func(r *ShellRunner) {
		if shell != "" {
			r.shell = shell
		}
	}
}

func WithDir(dir string) Option {
	return func(r *ShellRunner) { r.dir = dir }
}

// WithEnv adds variables on top of the current process environment.
func WithEnv(env ...string) Option {
	return func(r *ShellRunner) { r.env = append(r.env, env...) }
}

func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *ShellRunner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

func NewShellRunner(opts ...Option) *ShellRunner {
	r := &ShellRunner{
		shell:  defaultShell,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes commands in order. extraEnv is appended to the runner's own
// environment for this call only. The first failing command yields a
// *domain.BuildStepError and later commands are not started.
func (r *ShellRunner) Run(ctx context.Context, commands []string, extraEnv []string) error {
	log := logger.FromContext(ctx)
	env := append(append(os.Environ(), r.env...), extraEnv...)

	for i, command := range commands {
		if err := ctx.Err(); err != nil {
			return &domain.BuildStepError{Index: i, Command: command, ExitCode: -1, Cause: err}
		}

		log.Info("build step", "step", i+1, "of", len(commands), "command", command)
		start := time.Now()

		cmd := exec.CommandContext(ctx, r.shell, "-c", command)
		cmd.Dir = r.dir
		cmd.Env = env
		cmd.Stdout = r.stdout
		cmd.Stderr = r.stderr

		err := cmd.Run()
		logger.RecordOperation("build_step", err, time.Since(start))
		if err != nil {
			stepErr := &domain.BuildStepError{Index: i, Command: command, ExitCode: exitCode(err), Cause: err}
			if ctxErr := ctx.Err(); ctxErr != nil {
				stepErr.Cause = errors.Join(ctxErr, err)
			}
			log.Error("build step failed", "step", i+1, "exit_code", stepErr.ExitCode, "skipped", len(commands)-i-1)
			return stepErr
		}
	}
	return nil
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
