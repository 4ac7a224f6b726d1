package version

import (
	"fmt"
	"time"
)

// Заполняются через -ldflags "-X echoes-server/internal/version.BuildDate=..."
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
)

// Номер сборки - число дней от этой даты
var epoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// Info - сведения о сборке для /version и стартового лога
type Info struct {
	Build  int    `json:"build"`
	Date   string `json:"date,omitempty"`
	Commit string `json:"commit"`
	Branch string `json:"branch"`
	Error  string `json:"error,omitempty"`
}

// BuildNumber переводит дату сборки в номер
func BuildNumber(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date is empty")
	}
	t, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid build date %q: %w", date, err)
	}
	if t.Before(epoch) {
		return 0, fmt.Errorf("build date %s is before %s", date, epoch.Format(time.DateOnly))
	}
	return int(t.Sub(epoch).Hours() / 24), nil
}

func Current() Info {
	info := Info{
		Date:   BuildDate,
		Commit: orDefault(BuildCommit, "unknown"),
		Branch: orDefault(BuildBranch, "unknown"),
	}
	n, err := BuildNumber(BuildDate)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Build = n
	return info
}

func (i Info) String() string {
	if i.Error != "" {
		return fmt.Sprintf("Echoes dev build (%s)", i.Error)
	}
	return fmt.Sprintf("Echoes build %d (%s) commit[%s] branch[%s]", i.Build, i.Date, i.Commit, i.Branch)
}

func String() string {
	return Current().String()
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
