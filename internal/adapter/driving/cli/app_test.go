package cli

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
	"github.com/diillson/aws-finops-trends/internal/shared/types"
)

func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func intPtr(v int) *int { return &v }

func TestApplyConfig_Precedence(t *testing.T) {
	fileCfg := &types.Config{
		Profiles:    []string{"file-profile"},
		Granularity: "daily",
		Mode:        "aggregated",
		Top:         intPtr(3),
		Months:      12,
		Colors:      map[string]string{"Amazon EC2": "#111111", "Amazon S3": "#222222"},
	}
	envCfg := &types.Config{
		Profiles: []string{"env-profile"},
		Top:      intPtr(7),
		Colors:   map[string]string{"Amazon EC2": "#333333"},
	}

	args := &types.CLIArgs{
		Granularity: "yearly",
		Mode:        "trending",
		TopN:        DefaultTopN,
	}
	applyConfig(args, changedSet("granularity"), fileCfg, envCfg)

	if !reflect.DeepEqual(args.Profiles, []string{"env-profile"}) {
		t.Errorf("env must override the config file, got %v", args.Profiles)
	}
	if args.Granularity != "yearly" {
		t.Errorf("explicit flag must win, got %q", args.Granularity)
	}
	if args.Mode != "aggregated" {
		t.Errorf("config file must override defaults, got %q", args.Mode)
	}
	if args.TopN != 7 || args.Months != 12 {
		t.Errorf("TopN = %d Months = %d, want 7 and 12", args.TopN, args.Months)
	}
	if args.Palette["Amazon EC2"] != "#333333" || args.Palette["Amazon S3"] != "#222222" {
		t.Errorf("palette colors not merged in order: %v", args.Palette)
	}
	if args.Palette[entity.OthersLabel] != types.OthersColor {
		t.Errorf("default palette lost: %v", args.Palette)
	}
}

func TestApplyConfig_TopZeroFromConfig(t *testing.T) {
	args := &types.CLIArgs{TopN: DefaultTopN}
	applyConfig(args, changedSet(), &types.Config{Top: intPtr(0)})
	if args.TopN != 0 {
		t.Errorf("an explicit top of 0 in config must be kept, got %d", args.TopN)
	}

	args = &types.CLIArgs{TopN: 2}
	applyConfig(args, changedSet("top"), &types.Config{Top: intPtr(0)})
	if args.TopN != 2 {
		t.Errorf("--top must win over config, got %d", args.TopN)
	}
}

func TestApplyConfig_NoSources(t *testing.T) {
	args := &types.CLIArgs{Mode: "trending"}
	applyConfig(args, changedSet(), nil, nil)
	if args.Mode != "trending" || args.Palette == nil {
		t.Errorf("unexpected args %+v", args)
	}
}

func TestFinalizeArgs(t *testing.T) {
	cases := []struct {
		name    string
		args    types.CLIArgs
		wantErr bool
	}{
		{name: "valid", args: types.CLIArgs{Granularity: "monthly", Mode: "trending", TopN: -1, ReportType: []string{"csv", "html"}, Dir: "out"}},
		{name: "bad granularity", args: types.CLIArgs{Granularity: "hourly", Mode: "trending"}, wantErr: true},
		{name: "bad mode", args: types.CLIArgs{Granularity: "daily", Mode: "stacked"}, wantErr: true},
		{name: "bad top", args: types.CLIArgs{Granularity: "daily", Mode: "trending", TopN: -2}, wantErr: true},
		{name: "bad report type", args: types.CLIArgs{Granularity: "daily", Mode: "trending", ReportType: []string{"xlsx"}}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := finalizeArgs(&tc.args)
			if tc.wantErr {
				if !errors.Is(err, types.ErrInvalidConfig) {
					t.Errorf("error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("finalizeArgs() error = %v", err)
			}
			if !filepath.IsAbs(tc.args.Dir) {
				t.Errorf("dir must be absolute, got %q", tc.args.Dir)
			}
		})
	}
}

func TestParseArgs_Subcommands(t *testing.T) {
	app := NewCLIApp("1.0.0")
	root := app.rootCmd

	cmd, _, err := root.Find([]string{"dataset"})
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.ParseFlags([]string{"--file", "costs.yaml", "--kind", "findings", "--top", "2", "--mode", "aggregated"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	args, err := parseArgs(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if args.DatasetFile != "costs.yaml" || args.DatasetKind != entity.DatasetFindings {
		t.Errorf("dataset flags = %q %q", args.DatasetFile, args.DatasetKind)
	}
	if args.TopN != 2 || args.Mode != "aggregated" || args.Granularity != "monthly" {
		t.Errorf("persistent flags = %d %q %q", args.TopN, args.Mode, args.Granularity)
	}
	if args.HistoryDir != "" {
		t.Errorf("dataset has no history flag, got %q", args.HistoryDir)
	}
	if !cmd.Flags().Changed("top") || cmd.Flags().Changed("granularity") {
		t.Error("Changed must reflect only explicit flags")
	}
}

func TestParseArgs_InventoryDefaults(t *testing.T) {
	app := NewCLIApp("1.0.0")
	cmd, _, err := app.rootCmd.Find([]string{"inventory"})
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}

	args, err := parseArgs(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if args.HistoryDir != ".finops-history" || args.TopN != DefaultTopN || args.GroupBy != entity.DimensionService {
		t.Errorf("unexpected defaults %+v", args)
	}
	if !reflect.DeepEqual(args.ReportType, []string{"csv"}) {
		t.Errorf("report types = %v", args.ReportType)
	}
}
