package slots

import (
	"errors"
	"testing"
)

func TestExtractCommonPhrasings(t *testing.T) {
	e := NewExtractor()
	cases := []struct {
		name      string
		text      string
		role      string
		seniority string
	}{
		{
			name:      "role and seniority",
			text:      "I want to practice for a senior data scientist interview",
			role:      "Data Scientist",
			seniority: "senior",
		},
		{
			name:      "hyphenated seniority",
			text:      "prep me for a mid-level backend engineer role",
			role:      "Backend Engineer",
			seniority: "mid",
		},
		{
			name:      "pattern fallback role",
			text:      "mock interview for a junior platform engineer please",
			role:      "Platform Engineer",
			seniority: "junior",
		},
		{
			name:      "seniority stripped from role",
			text:      "interview me as a staff machine learning engineer",
			role:      "Machine Learning Engineer",
			seniority: "staff",
		},
		{
			name:      "entry level maps to junior",
			text:      "entry level data analyst position",
			role:      "Data Analyst",
			seniority: "junior",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.Extract(tc.text)
			if err != nil {
				t.Fatalf("Extract(%q) error = %v", tc.text, err)
			}
			if got.Role != tc.role {
				t.Fatalf("Role = %q, want %q", got.Role, tc.role)
			}
			if got.Seniority != tc.seniority {
				t.Fatalf("Seniority = %q, want %q", got.Seniority, tc.seniority)
			}
		})
	}
}

func TestExtractMissingSeniority(t *testing.T) {
	e := NewExtractor()
	_, err := e.Extract("I would like a data scientist interview")
	var missing *MissingSlotsError
	if !errors.As(err, &missing) {
		t.Fatalf("Extract() error = %v, want MissingSlotsError", err)
	}
	if len(missing.Missing) != 1 || missing.Missing[0] != "seniority" {
		t.Fatalf("Missing = %v, want [seniority]", missing.Missing)
	}
}

func TestExtractMissingBoth(t *testing.T) {
	e := NewExtractor()
	_, err := e.Extract("hello there")
	var missing *MissingSlotsError
	if !errors.As(err, &missing) {
		t.Fatalf("Extract() error = %v, want MissingSlotsError", err)
	}
	if len(missing.Missing) != 2 {
		t.Fatalf("Missing = %v, want both role and seniority", missing.Missing)
	}
}

func TestExtractSeniorityWordBoundary(t *testing.T) {
	e := NewExtractor()
	_, err := e.Extract("I debug at midnight as a data engineer")
	var missing *MissingSlotsError
	if !errors.As(err, &missing) {
		t.Fatalf("Extract() error = %v, want MissingSlotsError (midnight must not match mid)", err)
	}
	if len(missing.Missing) != 1 || missing.Missing[0] != "seniority" {
		t.Fatalf("Missing = %v, want [seniority]", missing.Missing)
	}
}
