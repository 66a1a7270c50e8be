package types

import (
	"errors"
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	top := func(v int) *int { return &v }

	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name:    "empty config is valid",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "valid full config",
			config: Config{
				Granularity: "monthly",
				Mode:        "aggregated",
				ReportType:  []string{"csv", "html"},
				Top:         top(5),
				Months:      12,
				Colors:      map[string]string{"Amazon EC2": "#FF9900"},
			},
			wantErr: false,
		},
		{
			name:    "top zero is allowed",
			config:  Config{Top: top(0)},
			wantErr: false,
		},
		{
			name:        "invalid granularity",
			config:      Config{Granularity: "weekly"},
			wantErr:     true,
			errorString: "invalid granularity 'weekly'",
		},
		{
			name:        "invalid mode",
			config:      Config{Mode: "stacked"},
			wantErr:     true,
			errorString: "invalid mode 'stacked'",
		},
		{
			name:        "invalid report type",
			config:      Config{ReportType: []string{"xlsx"}},
			wantErr:     true,
			errorString: "invalid report type 'xlsx'",
		},
		{
			name:        "top below no limit",
			config:      Config{Top: top(-2)},
			wantErr:     true,
			errorString: "invalid top -2",
		},
		{
			name:        "bad color",
			config:      Config{Colors: map[string]string{"Others": "grey"}},
			wantErr:     true,
			errorString: "invalid color 'grey' for 'Others'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error should wrap ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateReportsAllProblems(t *testing.T) {
	c := Config{Granularity: "hourly", Mode: "x", Months: -1}
	err := c.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"granularity", "mode", "months"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err.Error(), want)
		}
	}
}

func TestPalette_Colors(t *testing.T) {
	p := DefaultPalette().Merge(Palette{"Amazon EC2": "#FF9900"})
	got := p.Colors([]string{"Amazon EC2", "S3", "Others", "RDS"})

	if got[0] != "#FF9900" {
		t.Errorf("EC2 color = %s", got[0])
	}
	if got[2] != OthersColor {
		t.Errorf("Others color = %s, want %s", got[2], OthersColor)
	}
	if got[1] != rotation[0] || got[3] != rotation[1] {
		t.Errorf("rotation colors = %s, %s", got[1], got[3])
	}
}

func TestPalette_MergeDoesNotMutate(t *testing.T) {
	base := DefaultPalette()
	_ = base.Merge(Palette{"Others": "#000000"})
	if base["Others"] != OthersColor {
		t.Fatal("Merge mutated the receiver")
	}
}
