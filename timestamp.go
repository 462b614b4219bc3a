package facet

import (
	"encoding/json"
	"math"
	"time"

	"github.com/zoobzio/clockz"
)

// Timestamp field names on a derived view.
const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Timestamps is the typed form of the timestamped capability.
type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// maxEpochMillis bounds representable epoch values to ±100,000,000 days,
// the same range ECMAScript dates accept.
const maxEpochMillis = 8.64e15

// timeLayouts are tried in order when parsing string timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type timestampConfig struct {
	createdAt Selector[any]
	updatedAt Selector[any]
	clock     clockz.Clock
}

// TimestampOption configures the Timestamped mapper.
type TimestampOption func(*timestampConfig)

// CreatedAt overrides where createdAt is read from.
func CreatedAt(sel Selector[any]) TimestampOption {
	return func(c *timestampConfig) {
		c.createdAt = sel
	}
}

// UpdatedAt overrides where updatedAt is read from.
func UpdatedAt(sel Selector[any]) TimestampOption {
	return func(c *timestampConfig) {
		c.updatedAt = sel
	}
}

// WithClock sets the clock supplying the fallback for missing timestamps.
// Use this with clockz.FakeClock for deterministic tests.
func WithClock(clock clockz.Clock) TimestampOption {
	return func(c *timestampConfig) {
		c.clock = clock
	}
}

// Timestamped maps createdAt and updatedAt into time.Time values.
//
// Each field resolves as: override selector, camelCase field, snake_case
// field, then the current time. Missing timestamps are not an error.
// Values that cannot be interpreted as a time become the zero time.Time.
func Timestamped(opts ...TimestampOption) Unit {
	cfg := &timestampConfig{clock: clockz.RealClock}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(src Record, _ View, _ Build) (Fields, error) {
		now := cfg.clock.Now()

		created, err := resolveTime(src, cfg.createdAt, now, "createdAt", "created_at")
		if err != nil {
			return nil, err
		}
		updated, err := resolveTime(src, cfg.updatedAt, now, "updatedAt", "updated_at")
		if err != nil {
			return nil, err
		}

		return Fields{
			FieldCreatedAt: created,
			FieldUpdatedAt: updated,
		}, nil
	}
}

func resolveTime(src Record, override Selector[any], now time.Time, keys ...string) (time.Time, error) {
	if override.IsSet() {
		raw, err := override.Resolve(src)
		if err != nil {
			return time.Time{}, err
		}
		if raw != nil {
			return ParseTime(raw), nil
		}
	}
	if raw, ok := src.Lookup(keys...); ok {
		return ParseTime(raw), nil
	}
	return now, nil
}

// ParseTime interprets an ISO-8601 string, an epoch in milliseconds or a
// time.Time. Anything else, including unparsable strings, yields the
// zero time.Time; callers detect it with IsZero.
func ParseTime(raw any) time.Time {
	switch v := raw.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v == nil {
			return time.Time{}
		}
		return *v
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
		return time.Time{}
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}
		}
		return fromEpochMillis(f)
	case float64:
		return fromEpochMillis(v)
	case float32:
		return fromEpochMillis(float64(v))
	case int:
		return fromEpochMillis(float64(v))
	case int64:
		return fromEpochMillis(float64(v))
	case int32:
		return fromEpochMillis(float64(v))
	case uint64:
		return fromEpochMillis(float64(v))
	default:
		return time.Time{}
	}
}

func fromEpochMillis(ms float64) time.Time {
	if math.IsNaN(ms) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms)).UTC()
}

// IsTimestamped reports whether v carries both createdAt and updatedAt,
// regardless of which pipeline produced it.
func IsTimestamped(v View) bool {
	return v.Has(FieldCreatedAt, FieldUpdatedAt)
}

// TimestampsOf returns the typed timestamps of a timestamped view.
func TimestampsOf(v View) (Timestamps, bool) {
	if !IsTimestamped(v) {
		return Timestamps{}, false
	}
	created, ok := v.Time(FieldCreatedAt)
	if !ok {
		return Timestamps{}, false
	}
	updated, ok := v.Time(FieldUpdatedAt)
	if !ok {
		return Timestamps{}, false
	}
	return Timestamps{CreatedAt: created, UpdatedAt: updated}, true
}
