package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/conflictsim/internal/aggregate"
	"github.com/san-kum/conflictsim/internal/model"
	"github.com/san-kum/conflictsim/internal/montecarlo"
	"github.com/san-kum/conflictsim/internal/sim"
)

type RunExport struct {
	Metadata RunMetadata    `json:"metadata"`
	A        *model.History `json:"a"`
	B        *model.History `json:"b"`
}

// ExportRun writes a stored run with both histories as indented JSON.
func (s *Store) ExportRun(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	a, err := s.LoadHistory(runID, sim.SideA)
	if err != nil {
		return err
	}
	b, err := s.LoadHistory(runID, sim.SideB)
	if err != nil {
		return err
	}
	return writeJSON(w, RunExport{Metadata: *meta, A: a, B: b})
}

type EnsembleExport struct {
	ID       string                         `json:"id"`
	Scenario string                         `json:"scenario"`
	Summary  montecarlo.Summary             `json:"summary"`
	Outcomes []sim.Outcome                  `json:"outcomes"`
	Bands    map[string]aggregate.SideBands `json:"bands,omitempty"`
}

// ExportEnsemble writes an ensemble's outcomes and, when given, its
// aggregated bands keyed by actor name.
func ExportEnsemble(w io.Writer, ens *montecarlo.Ensemble, bands map[string]aggregate.SideBands) error {
	return writeJSON(w, EnsembleExport{
		ID:       ens.ID,
		Scenario: ens.Scenario.Name,
		Summary:  ens.Summary(),
		Outcomes: ens.Outcomes(),
		Bands:    bands,
	})
}

// ExportFile creates path and hands it to export. "-" writes to stdout.
func ExportFile(path string, export func(io.Writer) error) error {
	if path == "-" {
		return export(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
