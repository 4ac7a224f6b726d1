package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"echoes-server/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Store - журнал действий и последние снимки комнат в SQLite.
// Журнал нужен для разбора партий, снимок - чтобы поднять комнату после рестарта.
type Store struct {
	db *sql.DB
}

// Open открывает (или создает) базу и применяет схему
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record дописывает принятое действие в журнал
func (s *Store) Record(ctx context.Context, e domain.JournalEntry) error {
	if e.RoomCode == "" {
		return errors.New("journal entry without room code")
	}
	ts := e.Timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO journal (room_code, revision, player_id, action, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.RoomCode, e.Revision, e.PlayerID, e.Action.String(), []byte(e.Payload), ts,
	)
	if err != nil {
		return fmt.Errorf("record %s for %s: %w", e.Action, e.RoomCode, err)
	}
	return nil
}

// SaveSnapshot сохраняет снимок, если он не старше уже сохраненного
func (s *Store) SaveSnapshot(ctx context.Context, session *domain.Session) error {
	state, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", session.RoomCode, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (room_code, revision, phase, state, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (room_code) DO UPDATE SET
		   revision = excluded.revision,
		   phase = excluded.phase,
		   state = excluded.state,
		   updated_at = excluded.updated_at
		 WHERE excluded.revision >= snapshots.revision`,
		session.RoomCode, session.Revision, session.Phase.String(), state, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", session.RoomCode, err)
	}
	return nil
}
