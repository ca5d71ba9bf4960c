package envs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/gosuri/uilive"
)

type RunConfig struct {
	Episodes int
	Horizon  int
}

type EpisodeResult struct {
	ID      string
	Episode int
	Steps   int
	Return  float64
	Done    bool
	Err     error
}

// Analyzer consumes finished episodes. Analyzers run on the caller's
// goroutine after each episode.
type Analyzer interface {
	Analyze(*EpisodeResult, *Trace)
	Reset()
}

type RunResult struct {
	CompletedEpisodes int
	ErrorEpisodes     int
	TotalSteps        int
	Episodes          []*EpisodeResult
}

// Runner drives one environment with one policy for a fixed number of
// episodes. The environment is stepped strictly sequentially.
type Runner struct {
	env       Environment
	policy    Policy
	config    RunConfig
	analyzers []Analyzer
	writer    io.Writer
	live      *uilive.Writer
}

type RunnerOption func(*Runner)

func WithAnalyzer(a Analyzer) RunnerOption {
	return func(r *Runner) { r.analyzers = append(r.analyzers, a) }
}

// WithWriter redirects progress output; by default the runner rewrites a
// single terminal line via uilive.
func WithWriter(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.writer = w
		r.live = nil
	}
}

func NewRunner(env Environment, policy Policy, config RunConfig, opts ...RunnerOption) *Runner {
	r := &Runner{
		env:       env,
		policy:    policy,
		config:    config,
		analyzers: make([]Analyzer, 0),
	}
	live := uilive.New()
	r.live = live
	r.writer = live
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the configured episodes. The context is honored between
// episodes and between steps; a step already inside the environment runs to
// completion.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{Episodes: make([]*EpisodeResult, 0, r.config.Episodes)}
	r.policy.Reset()
	for _, a := range r.analyzers {
		a.Reset()
	}
	if r.live != nil {
		r.live.Start()
		defer r.live.Stop()
	}

	for episode := 0; episode < r.config.Episodes; episode++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		eRes, trace := r.runEpisode(ctx, episode)
		result.Episodes = append(result.Episodes, eRes)
		result.TotalSteps += eRes.Steps
		if eRes.Err != nil {
			if errors.Is(eRes.Err, context.Canceled) || errors.Is(eRes.Err, context.DeadlineExceeded) {
				return result, eRes.Err
			}
			result.ErrorEpisodes++
		} else {
			result.CompletedEpisodes++
		}
		for _, a := range r.analyzers {
			a.Analyze(eRes, trace)
		}
		fmt.Fprintf(r.writer, "episode %d/%d  steps=%d  return=%.2f  errors=%d\n",
			episode+1, r.config.Episodes, result.TotalSteps, eRes.Return, result.ErrorEpisodes)
	}
	return result, nil
}

func (r *Runner) runEpisode(ctx context.Context, episode int) (*EpisodeResult, *Trace) {
	eRes := &EpisodeResult{
		ID:      uuid.NewString(),
		Episode: episode,
	}
	trace := NewTrace()

	rec, err := r.env.Reset()
	if err != nil {
		eRes.Err = err
		return eRes, trace
	}
	actionSpec := r.env.ActionSpec()

	for step := 0; step < r.config.Horizon; step++ {
		select {
		case <-ctx.Done():
			eRes.Err = ctx.Err()
			return eRes, trace
		default:
		}

		action, err := r.policy.PickAction(step, rec, actionSpec)
		if err != nil {
			eRes.Err = err
			return eRes, trace
		}
		in := rec.Clone()
		in.Set("action", action)
		out, err := r.env.Step(in)
		if err != nil {
			eRes.Err = err
			return eRes, trace
		}

		reward := 0.0
		if t, ok := out.Record.Get("reward"); ok && len(t.Float64s()) > 0 {
			reward = t.Float64s()[0]
		}
		done := false
		if t, ok := out.Record.Get("done"); ok && len(t.Bools()) > 0 {
			done = t.Bools()[0]
		}
		trace.AddStep(&Step{
			Record: rec,
			Action: action,
			Next:   out.Record,
			Reward: reward,
			Done:   done,
		})
		eRes.Steps++
		eRes.Return += reward

		if done {
			eRes.Done = true
			break
		}
		rec = out.Record
		if out.ActionSpec != nil {
			actionSpec = out.ActionSpec
		}
	}
	return eRes, trace
}
