// Package manifest records what a pipeline run consumed and produced.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/bizreport-cli/internal/analysis"
	"github.com/KaramelBytes/bizreport-cli/internal/utils"
)

// Manifest is the JSON record of one run.
type Manifest struct {
	RunID      string              `json:"run_id"`
	Input      string              `json:"input"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	RowsLoaded int                 `json:"rows_loaded"`
	Clean      analysis.CleanStats `json:"clean"`
	Warnings   []string            `json:"warnings,omitempty"`
	KPIs       []analysis.KPI      `json:"kpis"`
	Threshold  float64             `json:"margin_threshold"`
	Flagged    []string            `json:"flagged_categories"`
	Outputs    Outputs             `json:"outputs"`
}

// Outputs are the files a run wrote.
type Outputs struct {
	Chart  string `json:"chart"`
	Report string `json:"report"`
}

// New starts a manifest for input with a fresh run id.
func New(input string) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		Input:     input,
		StartedAt: time.Now().UTC(),
		Flagged:   []string{},
	}
}

// SetCategories records the names of flagged categories.
func (m *Manifest) SetCategories(cats []analysis.CategorySummary) {
	m.Flagged = m.Flagged[:0]
	for _, c := range analysis.Flagged(cats) {
		m.Flagged = append(m.Flagged, c.Category)
	}
}

// Load reads a manifest written by Save.
func Load(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// Save stamps FinishedAt and writes the manifest atomically.
func (m *Manifest) Save(path string) error {
	if path == "" {
		return errors.New("manifest path not set")
	}
	m.FinishedAt = time.Now().UTC()
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, data); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
