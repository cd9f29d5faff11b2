package version

import (
	"fmt"
	"runtime"
	"time"
)

// Заполняются через -ldflags "-X github.com/h918m/mazmorra/internal/version.BuildDate=..."
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// Номер сборки - число дней от этой даты
var buildEpoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// VersionInfo - метаданные сборки для /version
type VersionInfo struct {
	BuildID    int    `json:"buildId"`
	BuildDate  string `json:"buildDate"`
	Commit     string `json:"commit"`
	Branch     string `json:"branch"`
	CI         string `json:"ci"`
	GoVersion  string `json:"goVersion"`
	Calculated bool   `json:"calculated"`
	Error      string `json:"error,omitempty"`
}

func CalculateBuildID() (int, error) {
	if BuildDate == "" {
		return 0, fmt.Errorf("BuildDate is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", BuildDate, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", BuildDate, err)
	}
	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before epoch", BuildDate)
	}

	// Часы вместо дней: обе даты в UTC, переходов на летнее время нет
	return int(t.Sub(buildEpoch).Hours() / 24), nil
}

// Info собирает информацию о сборке
func Info() VersionInfo {
	info := VersionInfo{
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
		GoVersion: runtime.Version(),
	}

	id, err := CalculateBuildID()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.BuildID = id
	info.Calculated = true
	return info
}

// String - строка для лога при старте
func String() string {
	info := Info()
	if !info.Calculated {
		return fmt.Sprintf("Mazmorra build unknown (%s) %s", info.Error, info.GoVersion)
	}
	return fmt.Sprintf(
		"Mazmorra build %d (%s) commit[%s] branch[%s] ci[%s] %s",
		info.BuildID,
		info.BuildDate,
		coalesce(info.Commit, "unknown"),
		coalesce(info.Branch, "unknown"),
		coalesce(info.CI, "local"),
		info.GoVersion,
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
