package timeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Entry is one classified session as it appears in the dataset.
type Entry struct {
	Category   string `json:"category"`
	Title      string `json:"title"`
	StartTime  string `json:"startTime"`
	Duration   int    `json:"duration"`
	Confidence string `json:"confidence"`
	Filename   string `json:"filename"`
	Preview    string `json:"preview"`
}

// CategoryStat aggregates the sessions of one category.
type CategoryStat struct {
	Duration   int     `json:"duration"`
	Percentage float64 `json:"percentage"`
	Sessions   int     `json:"sessions"`
	Color      string  `json:"color"`
}

// TimeRange spans the first and last session start. Both ends are null
// when the dataset is empty.
type TimeRange struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

type Metadata struct {
	Generated     string    `json:"generated"`
	TotalSessions int       `json:"totalSessions"`
	TimeRange     TimeRange `json:"timeRange"`
}

// Dataset is the persisted JSON artifact the renderer consumes.
type Dataset struct {
	Sessions      []Entry                 `json:"sessions"`
	TotalDuration int                     `json:"totalDuration"`
	Categories    map[string]CategoryStat `json:"categories"`
	Metadata      Metadata                `json:"metadata"`
}

// Encode serializes the dataset with 2-space indentation, HTML escaping
// off so titles and previews survive verbatim. Map keys marshal in sorted
// order, so output for a fixed generation time is byte-identical across
// runs.
func (d *Dataset) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encoding timeline dataset: %w", err)
	}
	return buf.Bytes(), nil
}

// Read loads a dataset previously produced by Write.
func Read(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading timeline dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing timeline dataset %s: %w", filepath.Base(path), err)
	}
	return &ds, nil
}

// Write encodes the dataset to path, creating parent directories as
// needed.
func (d *Dataset) Write(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing timeline dataset: %w", err)
	}
	return nil
}
