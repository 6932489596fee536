// Package stats collects follower and visit counts from unreliable upstream services.
// Every number is a Count: a value that may be unavailable, carrying the reason it is.
// Failures never propagate past an aggregator.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Count is a numeric statistic that may be unavailable.
type Count struct {
	Value int64
	OK    bool
	Err   error
}

// Available returns a count holding v.
func Available(v int64) Count {
	return Count{Value: v, OK: true}
}

// Unavailable returns an empty count explained by err.
func Unavailable(err error) Count {
	return Count{Err: err}
}

// OrZero returns the value, or zero when unavailable.
func (c Count) OrZero() int64 {
	if !c.OK {
		return 0
	}
	return c.Value
}

// String formats the value, or "-" when unavailable.
func (c Count) String() string {
	if !c.OK {
		return "-"
	}
	return strconv.FormatInt(c.Value, 10)
}

// MarshalJSON encodes an unavailable count as null.
func (c Count) MarshalJSON() ([]byte, error) {
	if !c.OK {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, c.Value, 10), nil
}

// UnmarshalJSON accepts a number or null.
func (c *Count) UnmarshalJSON(data []byte) error {
	*c = parseCount(data)
	return nil
}

// Sum adds the available counts. The result is unavailable when none are.
func Sum(counts ...Count) Count {
	var (
		total int64
		seen  bool
		errs  []error
	)
	for _, c := range counts {
		if !c.OK {
			if c.Err != nil {
				errs = append(errs, c.Err)
			}
			continue
		}
		total += c.Value
		seen = true
	}
	if !seen {
		return Unavailable(errors.Join(errs...))
	}
	return Available(total)
}

var errNotNumber = errors.New("not a finite number")

// parseCount decodes one JSON field independently of its siblings.
func parseCount(raw json.RawMessage) Count {
	if len(raw) == 0 || string(raw) == "null" {
		return Unavailable(nil)
	}
	var n json.Number
	if raw[0] == '"' {
		return Unavailable(fmt.Errorf("%s: %w", raw, errNotNumber))
	}
	if err := json.Unmarshal(raw, &n); err != nil {
		return Unavailable(fmt.Errorf("%s: %w", raw, errNotNumber))
	}
	if v, err := n.Int64(); err == nil {
		return Available(v)
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
		return Unavailable(fmt.Errorf("%s: %w", raw, errNotNumber))
	}
	return Available(int64(math.Round(f)))
}
