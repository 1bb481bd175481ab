package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LogFile is written to the output directory after every batch.
const LogFile = "log.txt"

// NotAttached is the link shown for values without a file.
const NotAttached = "Не приложен"

type Status string

const (
	StatusOK       Status = "ok"
	StatusFail     Status = "fail"
	StatusSkip     Status = "skip"
	StatusNotFound Status = "not found"
)

// Section returns the log section name of s.
func (s Status) Section() string {
	return strings.ReplaceAll(strings.ToUpper(string(s)), " ", "_")
}

// Result is the outcome of one media value.
type Result struct {
	Status          Status
	Filename        string
	ValueTitle      string
	SubmissionTitle string
	Link            string
}

func (r Result) String() string {
	line := fmt.Sprintf("[%s] %s | %s > %s", strings.ToUpper(string(r.Status)), r.Filename, r.ValueTitle, r.SubmissionTitle)
	if r.Link != "" {
		line += " | " + r.Link
	}
	return line
}

// Counts tallies results by status.
func Counts(results []Result) map[Status]int {
	out := make(map[Status]int)
	for _, r := range results {
		out[r.Status]++
	}
	return out
}

// WriteLog writes results grouped into sections, in the given status order,
// to LogFile inside dir and returns its path.
func WriteLog(dir string, results []Result, order ...Status) (string, error) {
	var b strings.Builder
	for _, status := range order {
		fmt.Fprintf(&b, "\n--------[%s]--------\n", status.Section())
		for _, r := range results {
			if r.Status == status {
				b.WriteString(r.String())
				b.WriteByte('\n')
			}
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, LogFile)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
