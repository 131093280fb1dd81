// Package history persists completed research turns and serves them back in
// reverse chronological order. Writes arrive asynchronously over the event
// bus so the answer path never waits on the database.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nvillagra/sage/internal/domain/agent"
	"github.com/nvillagra/sage/pkg/uuid"
)

// TurnCompleted is the event payload published after each answered turn.
type TurnCompleted struct {
	Question    string
	Answer      string
	Invocations []agent.ToolInvocation
	Latency     time.Duration
}

// Turn is one persisted research turn.
type Turn struct {
	ID        string                 `json:"id"`
	Question  string                 `json:"question"`
	Answer    string                 `json:"answer"`
	Tools     []agent.ToolInvocation `json:"tools"`
	LatencyMS int64                  `json:"latency_ms"`
	CreatedAt string                 `json:"created_at"`
}

// Store reads and writes turns in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle. The schema must already be
// migrated.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record inserts one completed turn, minting its UUIDv7 identifier.
func (s *Store) Record(ctx context.Context, evt TurnCompleted) (string, error) {
	tools, err := json.Marshal(evt.Invocations)
	if err != nil {
		return "", fmt.Errorf("history: marshal invocations: %w", err)
	}
	if evt.Invocations == nil {
		tools = []byte("[]")
	}

	id := uuid.NewV7().String()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO research_turn (id, question, answer, tools, latency_ms) VALUES (?, ?, ?, ?, ?)",
		id, evt.Question, evt.Answer, string(tools), evt.Latency.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("history: insert turn: %w", err)
	}
	return id, nil
}

// List returns up to limit turns, newest first, skipping offset rows, plus
// the total row count for pagination.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Turn, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM research_turn").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("history: count turns: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, question, answer, tools, latency_ms, created_at FROM research_turn ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("history: query turns: %w", err)
	}
	defer rows.Close()

	turns := make([]Turn, 0, limit)
	for rows.Next() {
		var (
			turn  Turn
			tools string
		)
		if err := rows.Scan(&turn.ID, &turn.Question, &turn.Answer, &tools, &turn.LatencyMS, &turn.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("history: scan turn: %w", err)
		}
		if err := json.Unmarshal([]byte(tools), &turn.Tools); err != nil {
			// A malformed row should not hide the rest of the page.
			turn.Tools = nil
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("history: iterate turns: %w", err)
	}
	return turns, total, nil
}
