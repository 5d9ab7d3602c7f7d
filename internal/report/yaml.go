package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TimestampLayout formats report file names.
const TimestampLayout = "2006-01-02_15-04-05.000"

const runIDPrefixLen = 8

// SaveYAML writes s to <dir>/<operation>-<timestamp>-<run id>.yaml and returns
// the path. An existing report is never replaced; a numeric suffix is added
// instead.
func SaveYAML(dir string, s *Summary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	stem := reportStem(s)
	for n := 1; ; n++ {
		name := stem + ".yaml"
		if n > 1 {
			name = fmt.Sprintf("%s-%d.yaml", stem, n)
		}
		filename := filepath.Join(dir, name)
		file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create YAML file: %w", err)
		}
		if _, err := file.Write(data); err != nil {
			file.Close()
			return "", fmt.Errorf("failed to write YAML file: %w", err)
		}
		if err := file.Close(); err != nil {
			return "", fmt.Errorf("failed to write YAML file: %w", err)
		}
		return filename, nil
	}
}

func reportStem(s *Summary) string {
	stamp := s.Started
	if !s.Finished.IsZero() {
		stamp = s.Finished
	}
	stem := fmt.Sprintf("%s-%s", s.Operation, stamp.Format(TimestampLayout))
	if id := s.RunID; id != "" {
		if len(id) > runIDPrefixLen {
			id = id[:runIDPrefixLen]
		}
		stem += "-" + id
	}
	return stem
}

// LoadYAML reads a report written by SaveYAML.
func LoadYAML(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var s Summary
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &s, nil
}
