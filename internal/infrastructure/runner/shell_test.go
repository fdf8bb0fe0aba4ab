package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lite-lake/infra-siteops/internal/domain"
)

func newTestRunner(t *testing.T, opts ...Option) (*ShellRunner, *bytes.Buffer) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	var out bytes.Buffer
	opts = append([]Option{WithShell("sh"), WithDir(t.TempDir()), WithOutput(&out, &out)}, opts...)
	return NewShellRunner(opts...), &out
}

func TestShellRunner_RunsInOrder(t *testing.T) {
	r, out := newTestRunner(t)

	err := r.Run(context.Background(), []string{"echo one", "echo two", "echo three"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", out.String())
}

func TestShellRunner_FailFast(t *testing.T) {
	r, out := newTestRunner(t)

	err := r.Run(context.Background(), []string{"echo first", "exit 3", "echo never"}, nil)

	var stepErr *domain.BuildStepError
	require.ErrorAs(t, err, &stepErr)
	assert.ErrorIs(t, err, domain.ErrBuildStepFailed)
	assert.Equal(t, 1, stepErr.Index)
	assert.Equal(t, "exit 3", stepErr.Command)
	assert.Equal(t, 3, stepErr.ExitCode)
	assert.Contains(t, err.Error(), "build step 2")
	assert.NotContains(t, out.String(), "never")
}

func TestShellRunner_Env(t *testing.T) {
	r, out := newTestRunner(t, WithEnv("SITEOPS_TEST_A=from-runner"))

	err := r.Run(context.Background(), []string{`echo "$SITEOPS_TEST_A $SITEOPS_TEST_B"`}, []string{"SITEOPS_TEST_B=from-call"})
	require.NoError(t, err)
	assert.Equal(t, "from-runner from-call\n", out.String())
}

func TestShellRunner_CancelledContext(t *testing.T) {
	r, out := newTestRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx, []string{"echo never"}, nil)
	assert.ErrorIs(t, err, domain.ErrBuildStepFailed)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, out.String())
}

func TestShellRunner_NoCommands(t *testing.T) {
	r, _ := newTestRunner(t)
	assert.NoError(t, r.Run(context.Background(), nil, nil))
}
