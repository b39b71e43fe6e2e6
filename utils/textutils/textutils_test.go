// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package textutils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowerAsciiFolding(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello world"},
		{"  Spaces  ", "spaces"},
		{"Áéíóú", "aeiou"},
		{"Ñandú", "nandu"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, LowerASCIIFolding(tc.input))
		})
	}
}

func TestColumnKey(t *testing.T) {
	assert.Equal(t, "latitud", ColumnKey(" LATITÚD "))
	assert.Equal(t, "dateandtime", ColumnKey("Date and Time"))
	assert.Equal(t, "recordid", ColumnKey("record_id"))
	assert.Equal(t, ColumnKey("Record-ID"), ColumnKey("record_id"))
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{100, "100"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234567, "-1,234,567"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, FormatInt(tc.input))
	}
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.276", FormatFloat(0.27642, 3))
	assert.Equal(t, "-", FormatFloat(math.NaN(), 3))
}
