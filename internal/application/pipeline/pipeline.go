// Package pipeline streams compound records through descriptor computation
// and rule evaluation into a text report.  Processing is strictly
// one-record-at-a-time: each block is rendered and flushed before the next
// line is read, so peak memory stays constant regardless of input size.
package pipeline

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/molsift/molsift/internal/domain/descriptor"
	"github.com/molsift/molsift/internal/domain/rules"
	"github.com/molsift/molsift/internal/infrastructure/monitoring/logging"
	"github.com/molsift/molsift/internal/infrastructure/monitoring/prometheus"
	"github.com/molsift/molsift/pkg/errors"
	"github.com/molsift/molsift/pkg/types/compound"
)

// maxLineSize bounds a single input line; SMILES strings for even very large
// molecules stay far below this.
const maxLineSize = 1024 * 1024

// defaultNamePrefix names records that arrive without one.
const defaultNamePrefix = "Compound"

// Summary reports the final counts of a batch run.
type Summary struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

// Recorder persists per-compound outcomes.  Recording is best-effort: a
// recorder failure is logged and the batch continues, since the text report
// is the primary output.
type Recorder interface {
	RecordResult(ctx context.Context, in compound.CompoundInput, rec *compound.DescriptorRecord, verdicts []compound.RuleVerdict) error
	RecordSkip(ctx context.Context, in compound.CompoundInput, reason string) error
}

// Runner wires a descriptor provider and a rule engine into the streaming
// report pipeline.
type Runner struct {
	provider   descriptor.Provider
	engine     *rules.Engine
	logger     logging.Logger
	metrics    *prometheus.Metrics
	recorder   Recorder
	namePrefix string
}

// Option customises a Runner.
type Option func(*Runner)

// WithLogger replaces the default no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithMetrics attaches pipeline metrics.
func WithMetrics(m *prometheus.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithRecorder attaches a result store.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithNamePrefix overrides the generated-name prefix for unnamed records.
func WithNamePrefix(prefix string) Option {
	return func(r *Runner) {
		if prefix != "" {
			r.namePrefix = prefix
		}
	}
}

// NewRunner builds a Runner over the given provider and engine.
func NewRunner(provider descriptor.Provider, engine *rules.Engine, opts ...Option) *Runner {
	r := &Runner{
		provider:   provider,
		engine:     engine,
		logger:     logging.NewNopLogger(),
		namePrefix: defaultNamePrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run streams every record from in through the pipeline and appends one
// report block (or skip note) per record to out, in input order.  A record
// the provider rejects is skipped with a note and never halts the batch;
// sink write failures are fatal and surface immediately.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) (Summary, error) {
	var sum Summary

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	record := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return sum, errors.Wrap(err, errors.CodeInternal, "batch cancelled")
		}

		input, ok := ParseLine(scanner.Text(), record+1, r.namePrefix)
		if !ok {
			continue
		}
		record++

		started := time.Now()
		rec, err := r.provider.Parse(input.Notation)
		if err != nil {
			reason := errors.Reason(err)
			r.logger.Warn("skipping compound",
				logging.String("name", input.Name),
				logging.String("notation", input.Notation),
				logging.String("reason", reason),
			)
			if werr := writeSkipNote(out, input.Name, reason); werr != nil {
				return sum, werr
			}
			sum.Skipped++
			r.metrics.CompoundSkipped()
			r.record(ctx, func(rc Recorder) error {
				return rc.RecordSkip(ctx, input, reason)
			})
			continue
		}

		rec.Name = input.DisplayName()
		verdicts := r.engine.Evaluate(rec)
		r.metrics.ObserveEvaluateDuration(time.Since(started).Seconds())
		for _, v := range verdicts {
			r.metrics.RuleViolations(v.RuleName, len(v.Violations))
		}

		if werr := writeBlock(out, rec, verdicts); werr != nil {
			return sum, werr
		}
		sum.Processed++
		r.metrics.CompoundProcessed()
		r.record(ctx, func(rc Recorder) error {
			return rc.RecordResult(ctx, input, rec, verdicts)
		})
	}
	if err := scanner.Err(); err != nil {
		return sum, errors.Wrap(err, errors.CodeInternal, "reading input stream")
	}

	r.logger.Info("batch complete",
		logging.Int("processed", sum.Processed),
		logging.Int("skipped", sum.Skipped),
	)
	return sum, nil
}

// EvaluateOne runs a single compound through the provider and engine without
// touching a sink.  Used by the HTTP interface.
func (r *Runner) EvaluateOne(ctx context.Context, in compound.CompoundInput) (*compound.DescriptorRecord, []compound.RuleVerdict, error) {
	rec, err := r.provider.Parse(in.Notation)
	if err != nil {
		return nil, nil, err
	}
	rec.Name = in.DisplayName()
	verdicts := r.engine.Evaluate(rec)
	for _, v := range verdicts {
		r.metrics.RuleViolations(v.RuleName, len(v.Violations))
	}
	r.metrics.CompoundProcessed()
	r.record(ctx, func(rc Recorder) error {
		return rc.RecordResult(ctx, in, rec, verdicts)
	})
	return rec, verdicts, nil
}

// Definitions exposes the engine's rule definitions, in evaluation order.
func (r *Runner) Definitions() []rules.RuleDefinition {
	return r.engine.Definitions()
}

func (r *Runner) record(ctx context.Context, fn func(Recorder) error) {
	if r.recorder == nil {
		return
	}
	if err := fn(r.recorder); err != nil {
		r.logger.Warn("recording result failed", logging.Err(err))
	}
}
