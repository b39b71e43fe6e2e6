// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jcodagnone/geotempo/records"
	"github.com/jcodagnone/geotempo/units"
)

// ErrShapeMismatch is returned when matrices, adjacencies or label vectors
// don't cover the same records.
var ErrShapeMismatch = errors.New("shape mismatch")

// ParameterError reports an invalid clustering parameter. These are
// configuration mistakes and are never retried.
type ParameterError struct {
	Type    ErrorType
	Message string
	Err     error
}

// ErrorType classifies parameter errors.
type ErrorType int

const (
	// ErrorTypeUnknown unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeUnit unsupported distance or time unit.
	ErrorTypeUnit
	// ErrorTypeThreshold negative or NaN threshold.
	ErrorTypeThreshold
	// ErrorTypeAggregation unknown aggregation or attribute.
	ErrorTypeAggregation
	// ErrorTypeColumn schema column missing from the source.
	ErrorTypeColumn
)

func (e *ParameterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ParameterError) Unwrap() error {
	return e.Err
}

func isType(err error, t ErrorType) bool {
	var pErr *ParameterError
	if errors.As(err, &pErr) {
		return pErr.Type == t
	}

	return false
}

// IsUnitError reports whether err is caused by an unsupported unit.
func IsUnitError(err error) bool {
	return isType(err, ErrorTypeUnit) || errors.Is(err, units.ErrUnsupportedUnit)
}

// IsThresholdError reports whether err is caused by an invalid threshold.
func IsThresholdError(err error) bool {
	return isType(err, ErrorTypeThreshold)
}

// IsAggregationError reports whether err is caused by an invalid aggregation.
func IsAggregationError(err error) bool {
	return isType(err, ErrorTypeAggregation)
}

// IsColumnError reports whether err is caused by a missing column.
func IsColumnError(err error) bool {
	return isType(err, ErrorTypeColumn) || errors.Is(err, records.ErrColumnNotFound)
}

// IsParameterError reports whether err is any kind of parameter error.
func IsParameterError(err error) bool {
	var pErr *ParameterError

	return errors.As(err, &pErr) || IsUnitError(err) || IsColumnError(err)
}

// StatusCode maps an error to the HTTP status reported to API clients.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsParameterError(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrShapeMismatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func unitError(err error) error {
	return &ParameterError{Type: ErrorTypeUnit, Message: "invalid unit", Err: err}
}
