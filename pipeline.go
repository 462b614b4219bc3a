package facet

import (
	"fmt"

	"github.com/zoobzio/clockz"
)

// Pipeline binds a fixed, ordered list of units into a reusable view
// factory. Deriving through a Pipeline behaves exactly like calling
// Derive with the same units.
//
// Chainable configuration methods must be called before the pipeline is
// shared between goroutines; after that a Pipeline is read-only and safe
// for concurrent use.
type Pipeline struct {
	name    string
	units   []Unit
	seed    Fields
	clock   clockz.Clock
	metrics MetricsProvider
}

// NewPipeline creates a Pipeline named name over units.
//
// Example:
//
//	list := facet.NewPipeline("post.list",
//	    facet.Pick("id", "title", "excerpt"),
//	)
//
//	detail := list.Extend("post.detail",
//	    facet.Authored(),
//	    facet.Timestamped(),
//	    facet.HasMany("comments", comment),
//	)
//
//	view, err := detail.Derive(record)
func NewPipeline(name string, units ...Unit) *Pipeline {
	bound := make([]Unit, len(units))
	copy(bound, units)
	return &Pipeline{
		name:  name,
		units: bound,
		clock: clockz.RealClock,
	}
}

// Seed sets the initial accumulator used by every derivation.
func (p *Pipeline) Seed(seed Fields) *Pipeline {
	p.seed = seed
	return p
}

// Clock sets the clock used to time derivations for metrics.
func (p *Pipeline) Clock(clock clockz.Clock) *Pipeline {
	p.clock = clock
	return p
}

// Metrics sets a metrics provider notified after each derivation.
func (p *Pipeline) Metrics(provider MetricsProvider) *Pipeline {
	p.metrics = provider
	return p
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// Units returns a copy of the bound units.
func (p *Pipeline) Units() []Unit {
	out := make([]Unit, len(p.units))
	copy(out, p.units)
	return out
}

// Extend returns a new Pipeline running p's units followed by units.
// Seed, clock and metrics carry over.
func (p *Pipeline) Extend(name string, units ...Unit) *Pipeline {
	all := make([]Unit, 0, len(p.units)+len(units))
	all = append(all, p.units...)
	all = append(all, units...)
	return &Pipeline{
		name:    name,
		units:   all,
		seed:    p.seed,
		clock:   p.clock,
		metrics: p.metrics,
	}
}

// Derive derives src through the pipeline.
func (p *Pipeline) Derive(src Record) (View, error) {
	return p.DeriveSeeded(src, nil)
}

// DeriveSeeded derives src with extra seed fields layered over the
// pipeline's own seed.
func (p *Pipeline) DeriveSeeded(src Record, seed Fields) (View, error) {
	start := p.clock.Now()
	view, err := DeriveSeeded(src, merge(p.seed, seed), p.units...)
	if p.metrics != nil {
		if err != nil {
			p.metrics.OnDeriveFailure(StageDerive, p.clock.Since(start))
		} else {
			p.metrics.OnDeriveSuccess(p.clock.Since(start))
		}
	}
	return view, err
}

// DeriveAll derives each record in order. It stops at the first failure,
// returning no views and an error naming the failing index.
func (p *Pipeline) DeriveAll(srcs []Record) ([]View, error) {
	views := make([]View, 0, len(srcs))
	for i, src := range srcs {
		view, err := p.Derive(src)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", p.name, i, err)
		}
		views = append(views, view)
	}
	return views, nil
}

// Unit exposes the whole pipeline as a single unit whose output is the
// pipeline's view, letting pipelines be spliced into larger ones.
func (p *Pipeline) Unit() Unit {
	return func(src Record, _ View, build Build) (Fields, error) {
		view, err := build(src, p.seededUnits()...)
		if err != nil {
			return nil, err
		}
		return view.Fields(), nil
	}
}

// seededUnits returns the pipeline's units led by one contributing its
// seed, so derivations that only see a unit list still start from it.
func (p *Pipeline) seededUnits() []Unit {
	if len(p.seed) == 0 {
		return p.units
	}
	seed := p.seed
	units := make([]Unit, 0, len(p.units)+1)
	units = append(units, func(Record, View, Build) (Fields, error) {
		return merge(nil, seed), nil
	})
	return append(units, p.units...)
}

// unitsOf flattens a Deriver into units, keeping a Pipeline's seed.
func unitsOf(d Deriver) []Unit {
	if p, ok := d.(*Pipeline); ok {
		return p.seededUnits()
	}
	return d.Units()
}
