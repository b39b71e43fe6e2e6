// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"encoding/json"
	"math"
	"strconv"
)

// Measure is a statistic that may be undefined. Undefined values are NaN
// and encode as JSON null.
type Measure float64

// Null returns an undefined measure.
func Null() Measure {
	return Measure(math.NaN())
}

// Valid reports whether the measure is defined.
func (m Measure) Valid() bool {
	return !math.IsNaN(float64(m)) && !math.IsInf(float64(m), 0)
}

// MarshalJSON implements json.Marshaler.
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return []byte("null"), nil
	}

	return strconv.AppendFloat(nil, float64(m), 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Measure) UnmarshalJSON(data []byte) error {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	if v == nil {
		*m = Null()

		return nil
	}

	*m = Measure(*v)

	return nil
}

func minMeasure(values []Measure) Measure {
	out := Null()

	for _, v := range values {
		if v.Valid() && (!out.Valid() || v < out) {
			out = v
		}
	}

	return out
}

func maxMeasure(values []Measure) Measure {
	out := Null()

	for _, v := range values {
		if v.Valid() && (!out.Valid() || v > out) {
			out = v
		}
	}

	return out
}

func validFloats(values []Measure) []float64 {
	out := make([]float64, 0, len(values))

	for _, v := range values {
		if v.Valid() {
			out = append(out, float64(v))
		}
	}

	return out
}
