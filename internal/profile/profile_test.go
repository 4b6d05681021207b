package profile

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profile *Profile
		wantErr []error
	}{
		{
			name:    "empty enumerations are allowed",
			profile: &Profile{Program: "nursing"},
		},
		{
			name:    "known values",
			profile: &Profile{GPARange: GPA30To34, Year: YearThird},
		},
		{
			name:    "unknown gpa range",
			profile: &Profile{GPARange: "4.0+"},
			wantErr: []error{ErrUnknownGPARange},
		},
		{
			name:    "unknown gpa range and year",
			profile: &Profile{GPARange: "A+", Year: "5th"},
			wantErr: []error{ErrUnknownGPARange, ErrUnknownYear},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.profile.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Fatalf("expected %v in %v", want, err)
				}
			}
		})
	}
}

func TestValidateNil(t *testing.T) {
	var p *Profile
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for nil profile")
	}
}

func TestEffectiveDemographics(t *testing.T) {
	p := &Profile{Demographics: " first-gen "}
	if got := p.EffectiveDemographics(); got != "" {
		t.Fatalf("expected gated demographics to be empty, got %q", got)
	}

	p.DemographicsEnabled = true
	if got := p.EffectiveDemographics(); got != "first-gen" {
		t.Fatalf("unexpected demographics: %q", got)
	}
}

func TestHasProgram(t *testing.T) {
	if (&Profile{Program: "   "}).HasProgram() {
		t.Fatal("blank program should not count")
	}
	if !(&Profile{Program: "law"}).HasProgram() {
		t.Fatal("expected program to be detected")
	}
}
