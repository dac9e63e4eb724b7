package convert

import (
	"reflect"
	"testing"

	"github.com/maxcopeland/openml-go/pkg/errors"
	"github.com/maxcopeland/openml-go/pkg/estimator"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  Kind
	}{
		{"nil", nil, KindPrimitive},
		{"string", "gini", KindPrimitive},
		{"bool", true, KindPrimitive},
		{"int", 42, KindPrimitive},
		{"float", 0.5, KindPrimitive},
		{"estimator", newTree(), KindEstimator},
		{"slice", []any{1, 2}, KindList},
		{"tuple", estimator.Tuple{"a", 1}, KindList},
		{"typed slice", []int{1, 2}, KindList},
		{"map", map[string]any{"a": 1}, KindDict},
		{"type", reflect.TypeOf(float64(0)), KindType},
		{"random variable", &fakeUniform{}, KindRandomVariable},
		{"function ref", estimator.FuncRef{Module: "m", Name: "f"}, KindFunction},
		{"cross-validator", &fakeKFold{}, KindCrossValidator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.value)
			if err != nil {
				t.Fatalf("Classify(%v) error = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Classify(%v) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestClassifyUnsupported(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"channel", make(chan int)},
		{"plain struct", struct{}{}},
		{"byte slice", []byte("raw")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.value)
			if errors.GetCode(err) != errors.ErrCodeUnsupportedValue {
				t.Fatalf("Classify() error = %v, want code %s", err, errors.ErrCodeUnsupportedValue)
			}
		})
	}
}
