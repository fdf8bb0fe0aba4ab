package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lite-lake/infra-siteops/internal/application/stage"
	"github.com/lite-lake/infra-siteops/internal/domain"
	"github.com/lite-lake/infra-siteops/internal/infrastructure/logger"
)

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

type StageOutcome struct {
	Stage       string
	Environment string
	Status      Status
	Warnings    []string
	Nodes       int
	Err         error
	Duration    time.Duration
}

type RunResult struct {
	ExecutionID string
	Synth       Status
	SynthErr    error
	Stages      []StageOutcome
}

// Succeeded reports whether synth and every stage succeeded.
func (r *RunResult) Succeeded() bool {
	if r.Synth != StatusSucceeded {
		return false
	}
	for _, o := range r.Stages {
		if o.Status != StatusSucceeded {
			return false
		}
	}
	return true
}

func (r *RunResult) Count(status Status) int {
	n := 0
	for _, o := range r.Stages {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Run executes the build steps, then hands each stage to the engine in deploy
// order. A failed synth starts no stage; a failed stage skips every later
// one. The returned result is complete even when err is not nil.
func (o *Orchestrator) Run(ctx context.Context, runner BuildRunner, engine Engine) (*RunResult, error) {
	if o.source == nil {
		return nil, domain.Configuration("source", "no source registered")
	}

	res := &RunResult{ExecutionID: uuid.NewString()}
	ctx = logger.WithExecutionID(ctx, res.ExecutionID)
	log := logger.FromContext(ctx)
	log.Info("pipeline started", "pipeline", o.Name(), "stages", len(o.stages))

	var artifacts []Artifact
	err := logger.TimedOperation(ctx, "synth", func() error {
		if err := runner.Run(ctx, o.buildSteps, o.SynthEnv()); err != nil {
			return err
		}
		var err error
		artifacts, err = o.Synthesize(ctx)
		return err
	})
	if err != nil {
		res.Synth = StatusFailed
		res.SynthErr = err
		res.Stages = o.skipFrom(nil, 0)
		return res, fmt.Errorf("synth: %w", err)
	}
	res.Synth = StatusSucceeded

	for i, art := range artifacts {
		st := art.Stage
		outcome := StageOutcome{
			Stage:       st.ID(),
			Environment: st.EnvironmentName(),
			Warnings:    art.Result.Warnings(),
			Nodes:       len(art.Manifest.Nodes),
		}

		sctx := logger.WithStage(ctx, st.ID(), st.EnvironmentName())
		start := time.Now()
		perr := logger.TimedOperation(sctx, "deploy", func() error {
			if err := sctx.Err(); err != nil {
				return err
			}
			return engine.Provision(sctx, art.Manifest)
		})
		outcome.Duration = time.Since(start)

		if perr != nil {
			outcome.Status = StatusFailed
			outcome.Err = &domain.ProvisioningError{Stage: st.ID(), Cause: perr}
			res.Stages = append(res.Stages, outcome)
			res.Stages = o.skipFrom(res.Stages, i+1)
			return res, outcome.Err
		}
		outcome.Status = StatusSucceeded
		res.Stages = append(res.Stages, outcome)
	}

	log.Info("pipeline finished", "succeeded", res.Count(StatusSucceeded))
	return res, nil
}

func (o *Orchestrator) skipFrom(outcomes []StageOutcome, from int) []StageOutcome {
	for _, st := range o.stages[from:] {
		outcomes = append(outcomes, StageOutcome{
			Stage:       st.ID(),
			Environment: st.EnvironmentName(),
			Status:      StatusSkipped,
		})
	}
	return outcomes
}

func logFor(ctx context.Context, st *stage.EnvironmentStage) *logger.Logger {
	return logger.FromContext(ctx).With("stage", st.ID(), "environment", st.EnvironmentName())
}
