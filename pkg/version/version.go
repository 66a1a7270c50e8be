package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

const (
	devVersion       = "0.0.0-dev"
	latestReleaseURL = "https://api.github.com/repos/diillson/aws-finops-trends/releases/latest"
	releaseTimeout   = 3 * time.Second
)

// Preenchidos via -ldflags "-X"; sem ldflags vêm do build info do Go.
var (
	Version   = devVersion
	Commit    = ""
	BuildTime = ""
)

func init() {
	if Version != devVersion {
		return
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyBuildInfo(bi.Main.Version, bi.Settings)
	}
}

// applyBuildInfo usa a versão do módulo (go install ...@vX.Y.Z) e os dados
// de VCS gravados pelo go build. Valores já definidos não são alterados.
func applyBuildInfo(moduleVersion string, settings []debug.BuildSetting) {
	vcs := make(map[string]string, len(settings))
	for _, s := range settings {
		vcs[s.Key] = s.Value
	}

	if rev := vcs["vcs.revision"]; Commit == "" && len(rev) >= 7 {
		Commit = rev[:7]
	}
	if BuildTime == "" {
		if ts, err := time.Parse(time.RFC3339, vcs["vcs.time"]); err == nil {
			BuildTime = ts.UTC().Format(time.RFC3339)
		}
	}

	if moduleVersion != "" && moduleVersion != "(devel)" {
		Version = strings.TrimPrefix(moduleVersion, "v")
		if vcs["vcs.modified"] == "true" {
			Version += "-dirty"
		}
	}
}

// CheckLatestVersion avisa quando há uma release mais nova que currentVersion.
// Falhas de rede são ignoradas.
func CheckLatestVersion(currentVersion string) {
	if strings.HasSuffix(currentVersion, "-dev") {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	latest, err := latestRelease(ctx, http.DefaultClient, latestReleaseURL)
	if err != nil {
		return
	}
	if isNewer(latest, currentVersion) {
		pterm.Warning.Printfln("A new version of AWS FinOps Trends is available: %s", latest)
		pterm.Info.Println("Please update using: go install github.com/diillson/aws-finops-trends/cmd/aws-finops-trends@latest")
	}
}

func latestRelease(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("latest release: unexpected status %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("latest release: %w", err)
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}

// isNewer compara versões "major.minor.patch" numericamente. Sufixos como
// "-rc1" são ignorados.
func isNewer(latest, current string) bool {
	l, c := versionParts(latest), versionParts(current)
	for i := range l {
		if l[i] != c[i] {
			return l[i] > c[i]
		}
	}
	return false
}

func versionParts(v string) [3]int {
	var parts [3]int
	v, _, _ = strings.Cut(strings.TrimPrefix(v, "v"), "-")
	for i, field := range strings.SplitN(v, ".", 3) {
		n, err := strconv.Atoi(field)
		if err != nil {
			break
		}
		parts[i] = n
	}
	return parts
}

// FormatVersion retorna a versão com commit e data de build quando conhecidos.
// Ex.: "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)"
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = devVersion
	}

	switch {
	case Commit == "" && BuildTime == "":
		return fmt.Sprintf("%s (development)", ver)
	case BuildTime == "":
		return fmt.Sprintf("%s (commit: %s)", ver, Commit)
	case Commit == "":
		return fmt.Sprintf("%s (built at: %s)", ver, BuildTime)
	default:
		return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, Commit, BuildTime)
	}
}
