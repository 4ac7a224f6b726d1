package storage

import (
	"context"
	"database/sql"
	"echoes-server/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoSnapshot - для комнаты ничего не сохранено
var ErrNoSnapshot = errors.New("no snapshot stored")

// LatestSnapshot читает последний сохраненный снимок комнаты
func (s *Store) LatestSnapshot(ctx context.Context, roomCode string) (*domain.Session, error) {
	var state []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM snapshots WHERE room_code = ?`, roomCode,
	).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("room %s: %w", roomCode, ErrNoSnapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", roomCode, err)
	}

	var session domain.Session
	if err := json.Unmarshal(state, &session); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", roomCode, err)
	}
	return &session, nil
}

// Journal возвращает действия комнаты в порядке записи. limit <= 0 - все.
func (s *Store) Journal(ctx context.Context, roomCode string, limit int) ([]domain.JournalEntry, error) {
	query := `SELECT room_code, revision, player_id, action, payload, created_at
	          FROM journal WHERE room_code = ? ORDER BY id`
	args := []any{roomCode}
	if limit > 0 {
		// Последние limit записей, но по возрастанию
		query = `SELECT * FROM (
		           SELECT room_code, revision, player_id, action, payload, created_at, id
		           FROM journal WHERE room_code = ? ORDER BY id DESC LIMIT ?
		         ) ORDER BY id`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal %s: %w", roomCode, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		var (
			e       domain.JournalEntry
			action  string
			payload []byte
			id      int64
		)
		dest := []any{&e.RoomCode, &e.Revision, &e.PlayerID, &action, &payload, &e.Timestamp}
		if limit > 0 {
			dest = append(dest, &id)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan journal %s: %w", roomCode, err)
		}
		e.Action = domain.ParseAction(action)
		if len(payload) > 0 {
			e.Payload = json.RawMessage(payload)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal %s: %w", roomCode, err)
	}
	return entries, nil
}

// Rooms - коды всех комнат, для которых есть снимок, начиная с самых свежих
func (s *Store) Rooms(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT room_code FROM snapshots ORDER BY updated_at DESC, room_code`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
