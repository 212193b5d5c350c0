package filter

import (
	"errors"
	"testing"

	"github.com/quantfold/riskdex/internal/domain"
	"github.com/quantfold/riskdex/internal/domain/risk"
)

func TestNew_Empty(t *testing.T) {
	f, err := New("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.IsEmpty() {
		t.Error("expected empty filter")
	}
}

func TestNew_Valid(t *testing.T) {
	f, err := New("HIGH", "BASEL_III")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.IsEmpty() {
		t.Fatal("expected non-empty filter")
	}
	if *f.RiskLevel() != risk.High {
		t.Errorf("risk level: got %s", *f.RiskLevel())
	}
	if *f.Compliance() != risk.BaselIII {
		t.Errorf("compliance: got %s", *f.Compliance())
	}
}

func TestNew_InvalidValues(t *testing.T) {
	cases := []struct {
		name       string
		riskLevel  string
		compliance string
	}{
		{"bad level", "SEVERE", ""},
		{"lowercase level", "high", ""},
		{"bad compliance", "", "BASEL_IV"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.riskLevel, tc.compliance)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, domain.ErrInvalidFilter) {
				t.Errorf("expected ErrInvalidFilter, got %v", err)
			}
		})
	}
}
