package srs

import (
	"errors"
	"testing"
)

func TestNewDefaultParams(t *testing.T) {
	params := NewDefaultParams()

	expected := []int{1, 3, 7, 14, 30}
	if len(params.IntervalDays) != len(expected) {
		t.Fatalf("Expected %d intervals, got %d", len(expected), len(params.IntervalDays))
	}
	for i, days := range expected {
		if params.IntervalDays[i] != days {
			t.Errorf("Interval %d: expected %d, got %d", i, days, params.IntervalDays[i])
		}
	}

	if params.MaxStage() != 4 {
		t.Errorf("Expected max stage 4, got %d", params.MaxStage())
	}

	// Mutating the returned params must not leak into the package default.
	params.IntervalDays[0] = 99
	if DefaultIntervalDays[0] != 1 {
		t.Errorf("DefaultIntervalDays was modified through Params")
	}
}

func TestParamsValidate(t *testing.T) {
	testCases := []struct {
		name    string
		params  *Params
		wantErr bool
	}{
		{name: "default", params: NewDefaultParams(), wantErr: false},
		{name: "single rung", params: &Params{IntervalDays: []int{2}}, wantErr: false},
		{name: "nil", params: nil, wantErr: true},
		{name: "empty", params: &Params{}, wantErr: true},
		{name: "zero interval", params: &Params{IntervalDays: []int{0, 1}}, wantErr: true},
		{name: "negative interval", params: &Params{IntervalDays: []int{-1}}, wantErr: true},
		{name: "not ascending", params: &Params{IntervalDays: []int{1, 3, 3}}, wantErr: true},
		{name: "descending", params: &Params{IntervalDays: []int{7, 3}}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.params.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidParams) {
					t.Errorf("Expected ErrInvalidParams, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}
