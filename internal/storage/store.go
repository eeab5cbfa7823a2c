package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/conflictsim/internal/model"
	"github.com/san-kum/conflictsim/internal/sim"
)

var ErrMalformedHistory = errors.New("storage: malformed history")

// Store keeps one directory per deterministic run: metadata.json plus one
// history CSV per side.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Scenario     string             `json:"scenario"`
	Timestamp    time.Time          `json:"timestamp"`
	Horizon      int                `json:"horizon"`
	ActorA       string             `json:"actor_a"`
	ActorB       string             `json:"actor_b"`
	Outcome      sim.Outcome        `json:"outcome"`
	Coefficients model.Coefficients `json:"coefficients"`
	Metrics      map[string]float64 `json:"metrics"`
}

func historyFile(side sim.Side) string {
	return "history_" + side.String() + ".csv"
}

func (s *Store) Save(scenario string, horizon int, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d_%s", scenario, now.Unix(), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Scenario:     scenario,
		Timestamp:    now,
		Horizon:      horizon,
		ActorA:       result.A.Name(),
		ActorB:       result.B.Name(),
		Outcome:      result.Outcome,
		Coefficients: result.A.Coefficients(),
		Metrics:      result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	for _, side := range []sim.Side{sim.SideA, sim.SideB} {
		if err := writeHistoryFile(filepath.Join(runDir, historyFile(side)), side.Pick(result.A, result.B).History()); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeHistoryFile(path string, h *model.History) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteHistoryCSV(f, h); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteHistoryCSV writes one row per history entry: time then every metric.
func WriteHistoryCSV(w io.Writer, h *model.History) error {
	cw := csv.NewWriter(w)

	header := []string{"time"}
	for _, m := range model.Metrics {
		header = append(header, string(m))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := 0; i < h.Len(); i++ {
		row := []string{strconv.Itoa(h.Time[i])}
		for _, m := range model.Metrics {
			row = append(row, strconv.FormatFloat(h.Series(m)[i], 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadHistoryCSV parses the format written by WriteHistoryCSV.
func ReadHistoryCSV(r io.Reader) (*model.History, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedHistory)
	}

	header := records[0]
	if len(header) == 0 || header[0] != "time" {
		return nil, fmt.Errorf("%w: first column must be time", ErrMalformedHistory)
	}
	columns := make([]model.Metric, len(header)-1)
	for i, name := range header[1:] {
		m, ok := model.ParseMetric(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown column %q", ErrMalformedHistory, name)
		}
		columns[i] = m
	}

	h := &model.History{}
	for n, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrMalformedHistory, n+2, len(record))
		}
		t, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedHistory, n+2, err)
		}
		values := make(map[model.Metric]float64, len(columns))
		for i, m := range columns {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedHistory, n+2, err)
			}
			values[m] = v
		}
		h.Append(model.Row{
			Time:                       t,
			EconomicCapital:            values[model.MetricGDP],
			IndustrialTechnology:       values[model.MetricIndustrialTechnology],
			MilitaryTechnology:         values[model.MetricMilitaryTechnology],
			CivilianIndustrialCapacity: values[model.MetricCivilianIndustrialCapacity],
			MilitaryIndustrialCapacity: values[model.MetricMilitaryIndustrialCapacity],
			MilitaryCapability:         values[model.MetricMilitaryCapability],
			PriceLevel:                 values[model.MetricPriceLevel],
			Budget:                     values[model.MetricBudget],
			Spending:                   values[model.MetricSpending],
		})
	}
	return h, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadHistory(runID string, side sim.Side) (*model.History, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, historyFile(side)))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadHistoryCSV(f)
}
