// Package persistence stores experiment results in SQLite: one row per run,
// the per-tick census series, the mortality log and the infection events.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/crewsim/internal/engine"
)

// DB wraps a SQLite connection for experiment results.
type DB struct {
	conn *sqlx.DB
}

// RunRecord describes one stored run.
type RunRecord struct {
	ID         string `db:"id"`
	Experiment string `db:"experiment"`
	Label      string `db:"label"`
	Replicate  int    `db:"replicate"`
	Seed       int64  `db:"seed"`
	ParamsJSON string `db:"params_json"`
	Ticks      uint64 `db:"ticks"`
	CreatedAt  int64  `db:"created_at"` // Unix nanoseconds
}

// Params decodes the stored parameter set.
func (r RunRecord) Params() (engine.Params, error) {
	var p engine.Params
	if err := json.Unmarshal([]byte(r.ParamsJSON), &p); err != nil {
		return p, fmt.Errorf("decode params of run %s: %w", r.ID, err)
	}
	return p, nil
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		experiment TEXT NOT NULL,
		label TEXT NOT NULL,
		replicate INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		params_json TEXT NOT NULL,
		ticks INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS census (
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		alive INTEGER NOT NULL,
		healthy INTEGER NOT NULL,
		infected_early INTEGER NOT NULL,
		infected_mid INTEGER NOT NULL,
		infected_late INTEGER NOT NULL,
		immune INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		infections INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS mortality (
		run_id TEXT NOT NULL REFERENCES runs(id),
		seq INTEGER NOT NULL,
		agent_id INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE TABLE IF NOT EXISTS infections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		source_id INTEGER NOT NULL,
		pos_x INTEGER NOT NULL,
		pos_y INTEGER NOT NULL,
		infected_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_experiment ON runs(experiment);
	CREATE INDEX IF NOT EXISTS idx_infections_run ON infections(run_id, tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// CreateRun registers a run and returns its generated ID.
func (db *DB) CreateRun(experiment, label string, replicate int, seed int64, params engine.Params) (string, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encode params: %w", err)
	}

	id := uuid.NewString()
	_, err = db.conn.Exec(
		`INSERT INTO runs (id, experiment, label, replicate, seed, params_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, experiment, label, replicate, seed, string(paramsJSON), time.Now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// SaveSeries appends census rows for a run.
func (db *DB) SaveSeries(runID string, series []engine.Census) error {
	if len(series) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO census
		(run_id, tick, alive, healthy, infected_early, infected_mid, infected_late,
		 immune, deaths, infections)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range series {
		_, err := stmt.Exec(runID, c.Tick, c.Alive, c.Healthy, c.Early, c.Mid, c.Late,
			c.Immune, c.Deaths, c.Infections)
		if err != nil {
			return fmt.Errorf("insert census tick %d: %w", c.Tick, err)
		}
	}

	return tx.Commit()
}

// SaveMortality writes the full mortality log of a run, replacing any
// previous copy.
func (db *DB) SaveMortality(runID string, log []engine.MortalityRecord) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM mortality WHERE run_id = ?", runID); err != nil {
		return err
	}
	for i, m := range log {
		_, err := tx.Exec(
			"INSERT INTO mortality (run_id, seq, agent_id, tick) VALUES (?, ?, ?, ?)",
			runID, i, m.AgentID, m.Tick,
		)
		if err != nil {
			return fmt.Errorf("insert death of agent %d: %w", m.AgentID, err)
		}
	}

	return tx.Commit()
}

// SaveInfections appends infection events for a run.
func (db *DB) SaveInfections(runID string, events []engine.InfectionEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		infectedJSON, err := json.Marshal(e.Infected)
		if err != nil {
			return fmt.Errorf("encode infected ids: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO infections (run_id, tick, source_id, pos_x, pos_y, infected_json)
			VALUES (?, ?, ?, ?, ?, ?)`,
			runID, e.Tick, e.Source, e.Position.X, e.Position.Y, string(infectedJSON),
		)
		if err != nil {
			return fmt.Errorf("insert infection by agent %d at tick %d: %w", e.Source, e.Tick, err)
		}
	}

	return tx.Commit()
}

// FinishRun records how many ticks a run completed.
func (db *DB) FinishRun(runID string, ticks uint64) error {
	_, err := db.conn.Exec("UPDATE runs SET ticks = ? WHERE id = ?", ticks, runID)
	return err
}

// SaveResults stores everything a finished simulation has to report.
func (db *DB) SaveResults(runID string, sim *engine.Simulation, series []engine.Census) error {
	slog.Info("saving run", "run", runID, "ticks", sim.CurrentTick(), "deaths", len(sim.MortalityLog()))

	if err := db.SaveSeries(runID, series); err != nil {
		return fmt.Errorf("save series: %w", err)
	}
	if err := db.SaveMortality(runID, sim.MortalityLog()); err != nil {
		return fmt.Errorf("save mortality: %w", err)
	}
	if err := db.SaveInfections(runID, sim.InfectionLog()); err != nil {
		return fmt.Errorf("save infections: %w", err)
	}
	if err := db.FinishRun(runID, sim.CurrentTick()); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Runs returns the stored runs of an experiment in creation order.
func (db *DB) Runs(experiment string) ([]RunRecord, error) {
	var runs []RunRecord
	err := db.conn.Select(&runs,
		`SELECT id, experiment, label, replicate, seed, params_json, ticks, created_at
		FROM runs WHERE experiment = ? ORDER BY rowid`,
		experiment,
	)
	return runs, err
}

// LoadSeries returns a run's census rows ordered by tick.
func (db *DB) LoadSeries(runID string) ([]engine.Census, error) {
	var series []engine.Census
	err := db.conn.Select(&series,
		`SELECT tick, alive, healthy, infected_early, infected_mid, infected_late,
			immune, deaths, infections
		FROM census WHERE run_id = ? ORDER BY tick`,
		runID,
	)
	return series, err
}

// LoadMortality returns a run's mortality log in append order.
func (db *DB) LoadMortality(runID string) ([]engine.MortalityRecord, error) {
	var log []engine.MortalityRecord
	err := db.conn.Select(&log,
		"SELECT agent_id, tick FROM mortality WHERE run_id = ? ORDER BY seq",
		runID,
	)
	return log, err
}

// LoadInfections returns a run's infection events in append order.
func (db *DB) LoadInfections(runID string) ([]engine.InfectionEvent, error) {
	rows, err := db.conn.Queryx(
		`SELECT tick, source_id, pos_x, pos_y, infected_json
		FROM infections WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []engine.InfectionEvent
	for rows.Next() {
		var (
			e            engine.InfectionEvent
			infectedJSON string
		)
		if err := rows.Scan(&e.Tick, &e.Source, &e.Position.X, &e.Position.Y, &infectedJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(infectedJSON), &e.Infected); err != nil {
			return nil, fmt.Errorf("decode infected ids: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
