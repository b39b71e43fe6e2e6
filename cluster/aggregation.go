// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Aggregation rolls up a pass-through attribute over the members of a cluster.
type Aggregation string

// Supported aggregations.
const (
	AggregationMin    Aggregation = "min"
	AggregationMax    Aggregation = "max"
	AggregationUnique Aggregation = "unique"
)

// ParseAggregation validates an aggregation name.
func ParseAggregation(s string) (Aggregation, error) {
	switch a := Aggregation(s); a {
	case AggregationMin, AggregationMax, AggregationUnique:
		return a, nil
	default:
		return "", &ParameterError{
			Type:    ErrorTypeAggregation,
			Message: fmt.Sprintf("unknown aggregation %q (valid: min, max, unique)", s),
		}
	}
}

// Apply aggregates values into display text. Nulls are ignored; nothing left
// yields "".
func (a Aggregation) Apply(values []any) string {
	switch a {
	case AggregationMin:
		return extreme(values, -1)
	case AggregationMax:
		return extreme(values, 1)
	case AggregationUnique:
		return unique(values)
	default:
		return ""
	}
}

func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

// extreme returns the smallest (sign -1) or largest (sign 1) value. Numbers,
// numeric strings and timestamps compare by value, anything else by its text.
func extreme(values []any, sign int) string {
	var (
		nums  []float64
		times []time.Time
		texts []string
	)

	for _, v := range values {
		if v == nil {
			continue
		}

		if f, ok := asNumber(v); ok {
			if !math.IsNaN(f) {
				nums = append(nums, f)
			}

			continue
		}

		if t, ok := v.(time.Time); ok {
			times = append(times, t)

			continue
		}

		// text columns often hold numbers
		if s, ok := v.(string); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				if !math.IsNaN(f) {
					nums = append(nums, f)
				}

				continue
			}
		}

		texts = append(texts, fmt.Sprint(v))
	}

	switch {
	case len(texts) > 0:
		for _, f := range nums {
			texts = append(texts, strconv.FormatFloat(f, 'g', -1, 64))
		}

		for _, t := range times {
			texts = append(texts, t.Format(time.DateTime))
		}

		if sign < 0 {
			return slices.Min(texts)
		}

		return slices.Max(texts)
	case len(times) > 0:
		cmpTime := func(a, b time.Time) int { return a.Compare(b) }
		if sign < 0 {
			return slices.MinFunc(times, cmpTime).Format(time.DateTime)
		}

		return slices.MaxFunc(times, cmpTime).Format(time.DateTime)
	case len(nums) > 0:
		if sign < 0 {
			return strconv.FormatFloat(slices.Min(nums), 'g', -1, 64)
		}

		return strconv.FormatFloat(slices.Max(nums), 'g', -1, 64)
	default:
		return ""
	}
}

// unique flattens list values, drops empty strings and joins the distinct
// values in first-seen order.
func unique(values []any) string {
	var out []string

	add := func(v any) {
		if v == nil {
			return
		}

		s := fmt.Sprint(v)
		if s == "" || slices.Contains(out, s) {
			return
		}

		out = append(out, s)
	}

	for _, v := range values {
		switch x := v.(type) {
		case []any:
			for _, e := range x {
				add(e)
			}
		case []string:
			for _, e := range x {
				add(e)
			}
		default:
			add(v)
		}
	}

	return strings.Join(out, ", ")
}
