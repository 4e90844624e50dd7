package audit

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/ssargent/pwaudit/pkg/entry"
	"github.com/ssargent/pwaudit/pkg/metrics"
	"github.com/ssargent/pwaudit/pkg/policy"
)

const maxLineSize = 1 << 20

// Auditor checks records against a single policy
type Auditor struct {
	validator   policy.Validator
	metrics     *metrics.Metrics
	logger      *zap.Logger
	stopOnError bool
	now         func() time.Time
}

// Option configures an Auditor
type Option func(*Auditor)

// WithMetrics records per-line outcomes and run totals on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Auditor) { a.metrics = m }
}

// WithLogger sets the diagnostics logger
func WithLogger(l *zap.Logger) Option {
	return func(a *Auditor) {
		if l != nil {
			a.logger = l
		}
	}
}

// StopOnError aborts the run at the first malformed or unevaluable line
// instead of reporting it and moving on.
func StopOnError(stop bool) Option {
	return func(a *Auditor) { a.stopOnError = stop }
}

// New creates an auditor for v
func New(v policy.Validator, opts ...Option) *Auditor {
	a := &Auditor{
		validator: v,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Policy returns the name of the policy being applied
func (a *Auditor) Policy() string {
	return a.validator.Name()
}

// Check parses and validates a single line. lineNo is only used to annotate errors.
func (a *Auditor) Check(lineNo int, line []byte) Result {
	res := Result{Line: lineNo, Text: string(line)}

	rec, err := entry.Parse(line)
	if err != nil {
		return res.failed(entry.WithLine(err, lineNo))
	}
	res.Record = entry.Format(rec, a.validator.FieldNames())

	valid, err := a.validator.Validate(rec)
	if err != nil {
		return res.failed(entry.WithLine(err, lineNo))
	}
	if valid {
		res.Outcome = OutcomeValid
	} else {
		res.Outcome = OutcomeInvalid
	}
	return res
}

func (r Result) failed(err error) Result {
	r.Outcome = OutcomeError
	r.Error = err.Error()
	r.err = err
	return r
}

// Run reads r line by line, reporting every result to rep. A blank line is a
// malformed record like any other; only the empty remainder after a final
// newline is not a line. The returned summary is non-nil even when err is not,
// and then covers the lines processed before the failure.
func (a *Auditor) Run(ctx context.Context, source string, r io.Reader, rep Reporter) (*Summary, error) {
	summary := &Summary{
		ID:        ksuid.New(),
		Policy:    a.validator.Name(),
		Source:    source,
		StartedAt: a.now(),
	}
	log := a.logger.With(zap.String("run_id", summary.ID.String()), zap.String("policy", summary.Policy))
	log.Debug("audit started", zap.String("source", source))

	err := a.run(ctx, r, rep, summary, log)
	summary.FinishedAt = a.now()
	a.metrics.RecordRun(summary.Policy, err == nil, summary.Duration())

	if err != nil {
		summary.Aborted = true
		log.Warn("audit aborted", zap.Int("lines", summary.Total), zap.Error(err))
		return summary, err
	}

	if err := rep.End(summary); err != nil {
		return summary, fmt.Errorf("failed to write report: %w", err)
	}
	log.Info("audit finished",
		zap.Int("total", summary.Total),
		zap.Int("valid", summary.Valid),
		zap.Int("invalid", summary.Invalid),
		zap.Int("errors", summary.Errors),
		zap.Duration("elapsed", summary.Duration()))
	return summary, nil
}

func (a *Auditor) run(ctx context.Context, r io.Reader, rep Reporter, summary *Summary, log *zap.Logger) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++

		line := bytes.TrimSuffix(scanner.Bytes(), []byte{'\r'})
		res := a.Check(lineNo, line)
		summary.add(res)
		a.metrics.RecordOutcome(summary.Policy, string(res.Outcome))

		if err := rep.Result(res); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		if res.Outcome == OutcomeError {
			log.Debug("record rejected", zap.Int("line", lineNo), zap.Error(res.err))
			if a.stopOnError {
				return res.err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}
