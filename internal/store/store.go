package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Post lifecycle statuses.
const (
	StatusComposed   = "composed"
	StatusPublished  = "published"
	StatusUnverified = "unverified"
	StatusFailed     = "failed"
)

type PostRecord struct {
	ID        string
	RunID     string
	Topic     string
	Content   string
	Status    string
	RunDir    string
	Error     string
	PostedAt  sql.NullTime
	CreatedAt time.Time
}

type PostStore interface {
	Save(ctx context.Context, record PostRecord) (PostRecord, error)
	MarkPublished(ctx context.Context, id, status string) error
	MarkFailed(ctx context.Context, id, reason string) error
	CountToday(ctx context.Context) (int, error)
	ListRecent(ctx context.Context, limit int) ([]PostRecord, error)
}

type SQLPostStore struct {
	db *sql.DB
}

func NewPostStore(db *sql.DB) *SQLPostStore {
	return &SQLPostStore{db: db}
}

func (s *SQLPostStore) Save(ctx context.Context, record PostRecord) (PostRecord, error) {
	if s == nil || s.db == nil {
		return PostRecord{}, errors.New("post store unavailable")
	}

	status := record.Status
	if status == "" {
		status = StatusComposed
	}

	var id string
	var createdAt time.Time
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO herald_posts (
			run_id,
			topic,
			content,
			status,
			run_dir,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`,
		record.RunID,
		record.Topic,
		record.Content,
		status,
		record.RunDir,
	).Scan(&id, &createdAt)
	if err != nil {
		return PostRecord{}, fmt.Errorf("insert post: %w", err)
	}

	record.ID = id
	record.Status = status
	record.CreatedAt = createdAt
	return record, nil
}

// MarkPublished records a publish outcome; status is published or unverified.
func (s *SQLPostStore) MarkPublished(ctx context.Context, id, status string) error {
	if s == nil || s.db == nil {
		return errors.New("post store unavailable")
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE herald_posts SET status = $2, posted_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("mark post published: %w", err)
	}
	return nil
}

func (s *SQLPostStore) MarkFailed(ctx context.Context, id, reason string) error {
	if s == nil || s.db == nil {
		return errors.New("post store unavailable")
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE herald_posts SET status = $2, error = $3 WHERE id = $1`,
		id, StatusFailed, reason,
	)
	if err != nil {
		return fmt.Errorf("mark post failed: %w", err)
	}
	return nil
}

// CountToday counts posts that reached LinkedIn since UTC midnight, for the
// daily posting cap.
func (s *SQLPostStore) CountToday(ctx context.Context) (int, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("post store unavailable")
	}

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM herald_posts
		WHERE status IN ('published', 'unverified')
		AND posted_at >= (CURRENT_DATE AT TIME ZONE 'UTC')
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count today posts: %w", err)
	}
	return count, nil
}

func (s *SQLPostStore) ListRecent(ctx context.Context, limit int) ([]PostRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("post store unavailable")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id,
			run_id,
			topic,
			content,
			status,
			run_dir,
			error,
			posted_at,
			created_at
		FROM herald_posts
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent posts: %w", err)
	}
	defer rows.Close()

	var posts []PostRecord
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

type postScanner interface {
	Scan(dest ...any) error
}

func scanPost(s postScanner) (PostRecord, error) {
	var post PostRecord
	var topic, runDir, errMsg sql.NullString
	if err := s.Scan(
		&post.ID,
		&post.RunID,
		&topic,
		&post.Content,
		&post.Status,
		&runDir,
		&errMsg,
		&post.PostedAt,
		&post.CreatedAt,
	); err != nil {
		return PostRecord{}, fmt.Errorf("scan post: %w", err)
	}
	if topic.Valid {
		post.Topic = topic.String
	}
	if runDir.Valid {
		post.RunDir = runDir.String
	}
	if errMsg.Valid {
		post.Error = errMsg.String
	}
	return post, nil
}
