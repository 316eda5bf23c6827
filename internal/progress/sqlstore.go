package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// SQLStore backs progress with the quiz_progress / quiz_attempts tables
// created by db.Open. Placeholders use the $n form, which both the pgx stdlib
// driver and modernc sqlite accept.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) SaveProgress(ctx context.Context, learnerID, lectureID string, snap Snapshot) error {
	buf, err := json.Marshal(snap.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_progress (learner_id, lecture_id, current_index, answers_json, updated_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (learner_id, lecture_id) DO UPDATE SET
		   current_index=EXCLUDED.current_index, answers_json=EXCLUDED.answers_json, updated_at=EXCLUDED.updated_at`,
		learnerID, lectureID, snap.CurrentIndex, string(buf), time.Now().Unix())
	return err
}

func (s *SQLStore) LoadProgress(ctx context.Context, learnerID, lectureID string) (Snapshot, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT current_index, answers_json FROM quiz_progress WHERE learner_id=$1 AND lecture_id=$2`,
		learnerID, lectureID)
	var snap Snapshot
	var ajson string
	if err := row.Scan(&snap.CurrentIndex, &ajson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}
	if err := json.Unmarshal([]byte(ajson), &snap.Answers); err != nil {
		snap.Answers = map[string]interface{}{}
	}
	return snap, true, nil
}

func (s *SQLStore) ClearProgress(ctx context.Context, learnerID, lectureID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM quiz_progress WHERE learner_id=$1 AND lecture_id=$2`, learnerID, lectureID)
	return err
}

func (s *SQLStore) AppendAttempt(ctx context.Context, learnerID, lectureID string, a Attempt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quiz_attempts (learner_id, lecture_id, attempted_at, score, points_total, percent, duration_seconds)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		learnerID, lectureID, a.Timestamp, a.Score, a.PointsTotal, a.Percent, a.DurationSeconds)
	return err
}

func (s *SQLStore) ListAttempts(ctx context.Context, learnerID, lectureID string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT attempted_at, score, points_total, percent, duration_seconds
		 FROM quiz_attempts WHERE learner_id=$1 AND lecture_id=$2 ORDER BY id`,
		learnerID, lectureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.Timestamp, &a.Score, &a.PointsTotal, &a.Percent, &a.DurationSeconds); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
