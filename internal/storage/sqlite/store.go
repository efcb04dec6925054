// Package sqlite persists game snapshots. Each ProcessTurn result is stored
// as one row keyed by (game, turn, phase) with the full GameState as JSON,
// so any phase of any game can be reloaded and replayed.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/adriftworks/adrift/internal/engine/turn"
	xerrors "github.com/adriftworks/adrift/internal/platform/errors"
)

// ErrNotFound reports a missing snapshot.
var ErrNotFound = errors.New("snapshot not found")

const schema = `
CREATE TABLE IF NOT EXISTS game_snapshots (
    game_id    TEXT NOT NULL,
    turn       INTEGER NOT NULL,
    phase      TEXT NOT NULL,
    status     TEXT NOT NULL,
    state      BLOB NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (game_id, turn, phase)
);
CREATE INDEX IF NOT EXISTS idx_game_snapshots_created
    ON game_snapshots (game_id, created_at);
`

// Store persists game snapshots in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the snapshot store and ensures the schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SnapshotInfo describes one stored snapshot without its state payload.
type SnapshotInfo struct {
	GameID    string      `json:"game_id"`
	Turn      int         `json:"turn"`
	Phase     turn.Phase  `json:"phase"`
	Status    turn.Status `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// SaveSnapshot upserts the snapshot for the state's (game, turn, phase).
func (s *Store) SaveSnapshot(ctx context.Context, g *turn.GameState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if g == nil || strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("game id is required")
	}
	state, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO game_snapshots (game_id, turn, phase, status, state, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (game_id, turn, phase) DO UPDATE SET
		   status = excluded.status,
		   state = excluded.state,
		   created_at = excluded.created_at`,
		g.ID, g.CurrentTurn, string(g.Phase), string(g.Status), state,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LoadLatest returns the most recent snapshot for a game, fully restored.
func (s *Store) LoadLatest(ctx context.Context, gameID string) (*turn.GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT state FROM game_snapshots
		 WHERE game_id = ?
		 ORDER BY created_at DESC, turn DESC
		 LIMIT 1`,
		gameID,
	)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return decodeState(raw)
}

// LoadSnapshot returns one exact (turn, phase) snapshot for a game.
func (s *Store) LoadSnapshot(ctx context.Context, gameID string, turnNum int, phase turn.Phase) (*turn.GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT state FROM game_snapshots
		 WHERE game_id = ? AND turn = ? AND phase = ?`,
		gameID, turnNum, string(phase),
	)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return decodeState(raw)
}

// ListSnapshots lists a game's snapshots newest first.
func (s *Store) ListSnapshots(ctx context.Context, gameID string) ([]SnapshotInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT game_id, turn, phase, status, created_at
		 FROM game_snapshots
		 WHERE game_id = ?
		 ORDER BY created_at DESC, turn DESC`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var phase, status string
		var createdAt int64
		if err := rows.Scan(&info.GameID, &info.Turn, &phase, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		info.Phase = turn.Phase(phase)
		info.Status = turn.Status(status)
		info.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// ListGames returns the ids of every stored game.
func (s *Store) ListGames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT DISTINCT game_id FROM game_snapshots ORDER BY game_id`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan game id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return out, nil
}

// Prune deletes a game's snapshots older than the newest keep rows.
func (s *Store) Prune(ctx context.Context, gameID string, keep int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if keep < 0 {
		return fmt.Errorf("keep must be non-negative")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM game_snapshots
		 WHERE game_id = ?
		   AND (game_id, turn, phase) NOT IN (
		     SELECT game_id, turn, phase FROM game_snapshots
		     WHERE game_id = ?
		     ORDER BY created_at DESC, turn DESC
		     LIMIT ?
		   )`,
		gameID, gameID, keep,
	)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func decodeState(raw []byte) (*turn.GameState, error) {
	var g turn.GameState
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, xerrors.Wrap(xerrors.CodeCorruptState, "decode state", err)
	}
	if err := g.Restore(); err != nil {
		return nil, xerrors.Wrap(xerrors.CodeCorruptState, "restore state", err)
	}
	return &g, nil
}
