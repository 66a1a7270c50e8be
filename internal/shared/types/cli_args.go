package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile string
	Profiles   []string
	Regions    []string
	All        bool
	Combine    bool
	MergeAll   bool
	ReportName string
	ReportType []string
	Dir        string
	Tag        []string

	Granularity        string
	Mode               string
	TopN               int
	GroupBy            string
	Months             int
	Days               int
	TotalFromBreakdown bool

	// dataset / inventory
	DatasetFile string
	DatasetKind string
	HistoryDir  string

	Palette Palette
}
