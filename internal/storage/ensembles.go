package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/san-kum/conflictsim/internal/montecarlo"
	"github.com/san-kum/conflictsim/internal/sim"
)

// EnsembleStore persists ensemble summaries and per-trial outcomes in SQLite.
type EnsembleStore struct {
	conn *sqlx.DB
}

// OpenEnsembleStore opens or creates the database at path.
func OpenEnsembleStore(path string) (*EnsembleStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &EnsembleStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *EnsembleStore) Close() error {
	return s.conn.Close()
}

func (s *EnsembleStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ensembles (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		created_unix INTEGER NOT NULL,
		horizon INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		trials INTEGER NOT NULL,
		completed INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		interrupted INTEGER NOT NULL,
		mean_length REAL NOT NULL,
		std_length REAL NOT NULL,
		modal_winner TEXT NOT NULL,
		inconclusive INTEGER NOT NULL,
		params_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS trials (
		ensemble_id TEXT NOT NULL REFERENCES ensembles(id),
		idx INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		length INTEGER NOT NULL,
		winner TEXT NOT NULL,
		reason TEXT NOT NULL,
		metrics_json TEXT NOT NULL,
		PRIMARY KEY (ensemble_id, idx)
	);

	CREATE INDEX IF NOT EXISTS idx_ensembles_scenario ON ensembles(scenario);
	CREATE INDEX IF NOT EXISTS idx_trials_winner ON trials(ensemble_id, winner);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// EnsembleRecord is one row of the ensembles table.
type EnsembleRecord struct {
	ID           string  `db:"id"`
	Scenario     string  `db:"scenario"`
	CreatedUnix  int64   `db:"created_unix"`
	Horizon      int     `db:"horizon"`
	Seed         int64   `db:"seed"`
	Trials       int     `db:"trials"`
	Completed    int     `db:"completed"`
	Failed       int     `db:"failed"`
	Interrupted  bool    `db:"interrupted"`
	MeanLength   float64 `db:"mean_length"`
	StdLength    float64 `db:"std_length"`
	ModalWinner  string  `db:"modal_winner"`
	Inconclusive int     `db:"inconclusive"`
	ParamsJSON   string  `db:"params_json"`
}

func (r EnsembleRecord) Created() time.Time {
	return time.Unix(r.CreatedUnix, 0)
}

// Params decodes the parameters the ensemble was saved with.
func (r EnsembleRecord) Params() (map[string]float64, error) {
	params := make(map[string]float64)
	if err := json.Unmarshal([]byte(r.ParamsJSON), &params); err != nil {
		return nil, err
	}
	return params, nil
}

// SaveEnsemble writes the ensemble summary and every completed trial in one
// transaction. params labels the ensemble, e.g. the cell of a sweep.
func (s *EnsembleStore) SaveEnsemble(ens *montecarlo.Ensemble, params map[string]float64) error {
	if params == nil {
		params = map[string]float64{}
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return err
	}
	sum := ens.Summary()

	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO ensembles
		(id, scenario, created_unix, horizon, seed, trials, completed, failed, interrupted,
		 mean_length, std_length, modal_winner, inconclusive, params_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ens.ID, ens.Scenario.Name, ens.Started.Unix(), ens.Scenario.Horizon, int64(ens.Scenario.Seed),
		ens.Scenario.Trials, sum.Trials, sum.Failed, ens.Interrupted,
		sum.MeanLength, sum.StdLength, sum.ModalWinner, sum.Inconclusive, string(paramsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert ensemble %s: %w", ens.ID, err)
	}

	stmt, err := tx.Preparex(`INSERT INTO trials
		(ensemble_id, idx, seed, length, winner, reason, metrics_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range ens.Trials {
		metricsJSON, err := json.Marshal(t.Metrics)
		if err != nil {
			return fmt.Errorf("encode metrics of trial %d: %w", t.Index, err)
		}
		_, err = stmt.Exec(ens.ID, t.Index, int64(t.Seed), t.Outcome.Length,
			t.Outcome.Winner, string(t.Outcome.Reason), string(metricsJSON))
		if err != nil {
			return fmt.Errorf("insert trial %d: %w", t.Index, err)
		}
	}

	return tx.Commit()
}

// ListEnsembles returns every stored ensemble, newest first. An empty
// scenario matches all.
func (s *EnsembleStore) ListEnsembles(scenario string) ([]EnsembleRecord, error) {
	var records []EnsembleRecord
	var err error
	if scenario == "" {
		err = s.conn.Select(&records, "SELECT * FROM ensembles ORDER BY created_unix DESC, id")
	} else {
		err = s.conn.Select(&records,
			"SELECT * FROM ensembles WHERE scenario = ? ORDER BY created_unix DESC, id", scenario)
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *EnsembleStore) GetEnsemble(id string) (*EnsembleRecord, error) {
	var r EnsembleRecord
	if err := s.conn.Get(&r, "SELECT * FROM ensembles WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &r, nil
}

// Outcomes returns the stored trial outcomes of an ensemble in trial order.
func (s *EnsembleStore) Outcomes(id string) ([]sim.Outcome, error) {
	var rows []struct {
		Length int    `db:"length"`
		Winner string `db:"winner"`
		Reason string `db:"reason"`
	}
	err := s.conn.Select(&rows,
		"SELECT length, winner, reason FROM trials WHERE ensemble_id = ? ORDER BY idx", id)
	if err != nil {
		return nil, err
	}

	out := make([]sim.Outcome, len(rows))
	for i, r := range rows {
		out[i] = sim.Outcome{Length: r.Length, Winner: r.Winner, Reason: sim.Reason(r.Reason)}
	}
	return out, nil
}
