package autoconfigure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/dmnkit/errors"
	"github.com/kbukum/dmnkit/logger"
	"github.com/kbukum/dmnkit/observability"
)

// Runner runs auto-configurations in dependency order.
type Runner struct {
	autoConfigs []AutoConfiguration
}

// NewRunner returns a runner over the given auto-configurations.
func NewRunner(autoConfigs ...AutoConfiguration) *Runner {
	return &Runner{autoConfigs: autoConfigs}
}

// Default returns a runner with the transaction, decision engine and process
// engine auto-configurations.
func Default() *Runner {
	return NewRunner(NewTransaction(), NewDMNEngine(), NewProcessEngine())
}

// Register adds an auto-configuration. Names must be unique.
func (r *Runner) Register(ac AutoConfiguration) error {
	for _, existing := range r.autoConfigs {
		if existing.Name() == ac.Name() {
			return errors.AlreadyRegistered(ac.Name())
		}
	}
	r.autoConfigs = append(r.autoConfigs, ac)
	return nil
}

// Order sorts the auto-configurations topologically over their After and
// Before declarations. Ties keep registration order. A cycle is an
// ORDERING_CYCLE error naming the auto-configurations left unsorted.
func (r *Runner) Order() ([]AutoConfiguration, error) {
	index := make(map[string]int, len(r.autoConfigs))
	for i, ac := range r.autoConfigs {
		index[ac.Name()] = i
	}

	inDegree := make([]int, len(r.autoConfigs))
	dependents := make([][]int, len(r.autoConfigs))
	addEdge := func(from, to int) {
		dependents[from] = append(dependents[from], to)
		inDegree[to]++
	}
	for i, ac := range r.autoConfigs {
		for _, name := range ac.After() {
			if j, ok := index[name]; ok {
				addEdge(j, i)
			}
		}
		for _, name := range ac.Before() {
			if j, ok := index[name]; ok {
				addEdge(i, j)
			}
		}
	}

	done := make([]bool, len(r.autoConfigs))
	ordered := make([]AutoConfiguration, 0, len(r.autoConfigs))
	for len(ordered) < len(r.autoConfigs) {
		next := -1
		for i := range r.autoConfigs {
			if !done[i] && inDegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			var cycle []string
			for i, ac := range r.autoConfigs {
				if !done[i] {
					cycle = append(cycle, ac.Name())
				}
			}
			return nil, errors.OrderingCycle(cycle)
		}
		done[next] = true
		ordered = append(ordered, r.autoConfigs[next])
		for _, d := range dependents[next] {
			inDegree[d]--
		}
	}
	return ordered, nil
}

// Run evaluates each auto-configuration's condition in order and configures
// those that match. It stops at the first error; the report covers every
// auto-configuration evaluated so far.
func (r *Runner) Run(ctx context.Context, env *Environment) (*Report, error) {
	return r.run(ctx, env, true)
}

// Evaluate reports condition outcomes without configuring anything. Bean
// conditions see only beans registered before the call.
func (r *Runner) Evaluate(ctx context.Context, env *Environment) (*Report, error) {
	return r.run(ctx, env, false)
}

func (r *Runner) run(ctx context.Context, env *Environment, configure bool) (*Report, error) {
	if env == nil || env.Config == nil {
		return nil, errors.InvalidProperties("auto-configuration requires bound properties")
	}
	if env.Container == nil {
		return nil, errors.MissingCollaborator("container")
	}
	if env.Components == nil {
		return nil, errors.MissingCollaborator("component registry")
	}
	ordered, err := r.Order()
	if err != nil {
		return nil, err
	}

	log := env.log()
	ctx, span := observability.StartSpan(ctx, observability.SpanBootstrap)
	defer span.End()

	report := &Report{}
	for _, ac := range ordered {
		if err := r.runOne(ctx, env, ac, report, configure); err != nil {
			observability.SetSpanError(ctx, err)
			return report, err
		}
	}

	log.Info("Auto-configuration complete", map[string]interface{}{
		"matched": report.Matched(),
		"skipped": report.Skipped(),
	})
	return report, nil
}

func (r *Runner) runOne(ctx context.Context, env *Environment, ac AutoConfiguration, report *Report, configure bool) error {
	name := ac.Name()
	log := env.log().WithFields(map[string]interface{}{logger.FieldAutoConfiguration: name})
	start := time.Now()

	ctx, op := observability.StartOperation(ctx, observability.SpanAutoConfiguration, name, env.Metrics)

	outcome, err := evaluate(ac.Condition(), env.ConditionContext())
	if err != nil {
		err = errors.ConditionFailed(name, err)
		report.add(ReportEntry{Name: name, Err: err, Duration: time.Since(start)})
		env.Metrics.RecordError(ctx, string(errors.ErrCodeConditionFailed), name)
		op.End(ctx, observability.OutcomeFailed, err)
		return err
	}
	if obs, ok := ac.(conditionObserver); ok {
		obs.ConditionEvaluated(outcome)
	}
	op.SetAttributes(
		attribute.Bool(observability.AttrConditionMatched, outcome.Match),
		attribute.String(observability.AttrConditionMessage, outcome.Message),
	)

	if !outcome.Match {
		log.Debug("Auto-configuration skipped", map[string]interface{}{logger.FieldCondition: outcome.Message})
		report.add(ReportEntry{Name: name, Matched: false, Message: outcome.Message, Duration: time.Since(start)})
		op.End(ctx, observability.OutcomeSkipped, nil)
		return nil
	}

	if configure {
		if err := ac.Configure(ctx, env); err != nil {
			log.Error("Auto-configuration failed", logger.ErrorFields("configure", err))
			report.add(ReportEntry{Name: name, Matched: true, Message: outcome.Message, Err: err, Duration: time.Since(start)})
			if appErr, ok := errors.AsAppError(err); ok {
				env.Metrics.RecordError(ctx, string(appErr.Code), name)
			}
			op.End(ctx, observability.OutcomeFailed, err)
			return err
		}
	}

	log.Debug("Auto-configuration applied", map[string]interface{}{
		logger.FieldCondition: outcome.Message,
		logger.FieldDuration:  time.Since(start).Milliseconds(),
	})
	report.add(ReportEntry{Name: name, Matched: true, Message: outcome.Message, Duration: time.Since(start)})
	op.End(ctx, observability.OutcomeMatched, nil)
	return nil
}
