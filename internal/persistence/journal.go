// Package persistence provides the SQLite decision journal: one row per
// arbitration outcome and per replan, tagged with a run id so multiple
// simulation runs can share a file.
package persistence

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/wildmind/internal/engine"
	"github.com/talgya/wildmind/internal/knowledge"
)

// Journal wraps a SQLite connection. It implements engine.Journal.
type Journal struct {
	conn  *sqlx.DB
	runID string
}

// Open opens or creates the journal database and starts a new run.
func Open(path string) (*Journal, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := &Journal{conn: conn, runID: uuid.NewString()}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return j, nil
}

// RunID identifies this simulation run in the journal.
func (j *Journal) RunID() string { return j.runID }

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.conn.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		agent INTEGER NOT NULL,
		action TEXT NOT NULL,
		target TEXT NOT NULL,
		source TEXT NOT NULL,
		urgency REAL NOT NULL,
		score REAL NOT NULL,
		reason TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS replans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		agent INTEGER NOT NULL,
		total INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_run_tick ON decisions(run_id, tick);
	CREATE INDEX IF NOT EXISTS idx_decisions_agent ON decisions(agent);
	CREATE INDEX IF NOT EXISTS idx_replans_agent ON replans(agent);
	`
	_, err := j.conn.Exec(schema)
	return err
}

// Decision appends one arbitration outcome. Journal failures are logged,
// never allowed to stall the tick loop.
func (j *Journal) Decision(tick uint64, agent knowledge.EntityID, act engine.ChosenAction) {
	_, err := j.conn.Exec(
		`INSERT INTO decisions (run_id, tick, agent, action, target, source, urgency, score, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.runID, tick, uint64(agent), act.Kind.String(), act.Target.String(),
		act.Source.String(), act.Urgency, act.Score, act.Reason,
	)
	if err != nil {
		slog.Warn("journal decision insert failed", "error", err)
	}
}

// Replan appends a replan marker with the agent's running total.
func (j *Journal) Replan(tick uint64, agent knowledge.EntityID, total uint64) {
	_, err := j.conn.Exec(
		"INSERT INTO replans (run_id, tick, agent, total) VALUES (?, ?, ?, ?)",
		j.runID, tick, uint64(agent), total,
	)
	if err != nil {
		slog.Warn("journal replan insert failed", "error", err)
	}
}

// DecisionRow is one journaled decision.
type DecisionRow struct {
	Tick    uint64  `db:"tick"`
	Agent   uint64  `db:"agent"`
	Action  string  `db:"action"`
	Target  string  `db:"target"`
	Source  string  `db:"source"`
	Urgency float64 `db:"urgency"`
	Score   float64 `db:"score"`
	Reason  string  `db:"reason"`
}

// RecentDecisions returns the latest decisions for this run, newest first.
func (j *Journal) RecentDecisions(limit int) ([]DecisionRow, error) {
	var rows []DecisionRow
	err := j.conn.Select(&rows,
		`SELECT tick, agent, action, target, source, urgency, score, reason
		 FROM decisions WHERE run_id = ? ORDER BY id DESC LIMIT ?`,
		j.runID, limit,
	)
	return rows, err
}

// ReplanCount returns the journaled replan total for one agent this run.
func (j *Journal) ReplanCount(agent knowledge.EntityID) (uint64, error) {
	var total uint64
	err := j.conn.Get(&total,
		"SELECT COALESCE(MAX(total), 0) FROM replans WHERE run_id = ? AND agent = ?",
		j.runID, uint64(agent),
	)
	return total, err
}
