package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/diillson/aws-finops-trends/internal/shared/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigFile_Formats(t *testing.T) {
	files := map[string]string{
		"config.toml": `
profiles = ["dev", "prod"]
granularity = "monthly"
mode = "aggregated"
top = 3
group_by = "SERVICE"

[colors]
"Amazon EC2" = "#FF9900"
`,
		"config.yaml": `
profiles: [dev, prod]
granularity: monthly
mode: aggregated
top: 3
group_by: SERVICE
colors:
  Amazon EC2: "#FF9900"
`,
		"config.json": `{
  "profiles": ["dev", "prod"],
  "granularity": "monthly",
  "mode": "aggregated",
  "top": 3,
  "group_by": "SERVICE",
  "colors": {"Amazon EC2": "#FF9900"}
}`,
	}

	repo := NewConfigRepository()
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := repo.LoadConfigFile(writeFile(t, name, content))
			if err != nil {
				t.Fatalf("LoadConfigFile() error = %v", err)
			}
			if !reflect.DeepEqual(cfg.Profiles, []string{"dev", "prod"}) {
				t.Errorf("profiles = %v", cfg.Profiles)
			}
			if cfg.Granularity != "monthly" || cfg.Mode != "aggregated" || cfg.GroupBy != "SERVICE" {
				t.Errorf("unexpected config: %+v", cfg)
			}
			if cfg.Top == nil || *cfg.Top != 3 {
				t.Errorf("top = %v, want 3", cfg.Top)
			}
			if cfg.Colors["Amazon EC2"] != "#FF9900" {
				t.Errorf("colors = %v", cfg.Colors)
			}
		})
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	repo := NewConfigRepository()

	if _, err := repo.LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := repo.LoadConfigFile(t.TempDir()); err == nil {
		t.Error("expected error for directory")
	}
	_, err := repo.LoadConfigFile(writeFile(t, "config.ini", "x=1"))
	if !errors.Is(err, types.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	_, err = repo.LoadConfigFile(writeFile(t, "bad.json", `{"mode": "sideways"}`))
	if !errors.Is(err, types.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func fakeEnv(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadEnvironment(t *testing.T) {
	repo := &ConfigRepositoryImpl{lookup: fakeEnv(map[string]string{
		"FINOPS_PROFILES":    "dev, prod,,",
		"FINOPS_TOP":         "0",
		"FINOPS_MODE":        "trending",
		"FINOPS_MONTHS":      "12",
		"FINOPS_REPORT_TYPE": "csv,html",
		"FINOPS_COMBINE":     "true",
		"FINOPS_DIR":         "   ",
	})}

	cfg, err := repo.LoadEnvironment("")
	if err != nil {
		t.Fatalf("LoadEnvironment() error = %v", err)
	}
	if !reflect.DeepEqual(cfg.Profiles, []string{"dev", "prod"}) {
		t.Errorf("profiles = %v", cfg.Profiles)
	}
	if cfg.Top == nil || *cfg.Top != 0 {
		t.Errorf("top = %v, want 0", cfg.Top)
	}
	if cfg.Mode != "trending" || cfg.Months != 12 || !cfg.Combine || cfg.Dir != "" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.ReportType, []string{"csv", "html"}) {
		t.Errorf("report types = %v", cfg.ReportType)
	}
}

func TestLoadEnvironment_InvalidNumber(t *testing.T) {
	repo := &ConfigRepositoryImpl{lookup: fakeEnv(map[string]string{"FINOPS_TOP": "lots"})}
	_, err := repo.LoadEnvironment("")
	if !errors.Is(err, types.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadEnvironment_DotEnvFile(t *testing.T) {
	envFile := writeFile(t, ".env", "FINOPS_HISTORY=/tmp/history.json\n")
	t.Cleanup(func() { os.Unsetenv("FINOPS_HISTORY") })

	cfg, err := NewConfigRepository().LoadEnvironment(envFile)
	if err != nil {
		t.Fatalf("LoadEnvironment() error = %v", err)
	}
	if cfg.History != "/tmp/history.json" {
		t.Errorf("history = %q", cfg.History)
	}
}

func TestLoadEnvironment_MissingDotEnvIsIgnored(t *testing.T) {
	repo := &ConfigRepositoryImpl{lookup: fakeEnv(nil)}
	if _, err := repo.LoadEnvironment(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("missing .env should be ignored, got %v", err)
	}
}
