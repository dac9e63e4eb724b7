package convert

import (
	"reflect"

	"github.com/maxcopeland/openml-go/pkg/errors"
	"github.com/maxcopeland/openml-go/pkg/estimator"
)

// Kind is the capability category the classifier assigns to a value.
type Kind int

// Categories in classification priority order. The first match wins.
const (
	KindPrimitive Kind = iota
	KindEstimator
	KindList
	KindDict
	KindType
	KindRandomVariable
	KindFunction
	KindCrossValidator
)

// String returns the category name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindEstimator:
		return "estimator"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindType:
		return "type"
	case KindRandomVariable:
		return "random variable"
	case KindFunction:
		return "function"
	case KindCrossValidator:
		return "cross-validator"
	}
	return "unknown"
}

// Classify assigns v to exactly one capability category. Categories are
// checked in priority order; a value matching none is a hard failure
// naming the value and its runtime type.
func Classify(v any) (Kind, error) {
	if isPrimitive(v) {
		return KindPrimitive, nil
	}
	if _, ok := v.(estimator.Estimator); ok {
		return KindEstimator, nil
	}
	if isListLike(v) {
		return KindList, nil
	}
	if isDictLike(v) {
		return KindDict, nil
	}
	if _, ok := v.(reflect.Type); ok {
		return KindType, nil
	}
	if _, ok := v.(estimator.RandomVariable); ok {
		return KindRandomVariable, nil
	}
	if isFuncRef(v) {
		return KindFunction, nil
	}
	if _, ok := v.(estimator.CrossValidator); ok {
		return KindCrossValidator, nil
	}
	return 0, errors.New(errors.ErrCodeUnsupportedValue, "cannot convert %v (%T)", v, v)
}

func isPrimitive(v any) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case string, bool:
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// isListLike accepts any slice or array except raw byte buffers. Strings
// are primitives and never reach this check.
func isListLike(v any) bool {
	if _, ok := v.([]byte); ok {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

func isDictLike(v any) bool {
	return reflect.TypeOf(v).Kind() == reflect.Map
}

func isFuncRef(v any) bool {
	switch v.(type) {
	case estimator.FuncRef, *estimator.FuncRef:
		return true
	}
	return false
}
