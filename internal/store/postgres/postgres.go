// Package postgres implements the primary store on PostgreSQL via the
// pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/brainvault/brainvault/internal/model"
	"github.com/brainvault/brainvault/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and
// verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres-backed store from an opened database.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Users() store.Users           { return &users{db: s.db} }
func (s *pgStore) Content() store.Content       { return &content{db: s.db} }
func (s *pgStore) ShareLinks() store.ShareLinks { return &shareLinks{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap verifies Postgres is reachable and applies the schema.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, ddl)
	return err
}

const ddl = `
CREATE TABLE IF NOT EXISTS users (
    user_id       TEXT PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    creation_time TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS content (
    id            TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL REFERENCES users(user_id),
    type          TEXT NOT NULL,
    title         TEXT NOT NULL,
    link          TEXT,
    content       TEXT NOT NULL,
    tags          JSONB NOT NULL DEFAULT '[]',
    image_url     TEXT,
    creation_time TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_content_user ON content(user_id, creation_time);
CREATE TABLE IF NOT EXISTS share_links (
    user_id       TEXT PRIMARY KEY REFERENCES users(user_id),
    hash          TEXT NOT NULL UNIQUE,
    creation_time TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// 23505 is unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- Users ---
type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	var created time.Time
	row := u.db.QueryRowContext(ctx, `
        INSERT INTO users (user_id, username)
        VALUES ($1,$2)
        RETURNING creation_time
    `, m.UserID, m.Username)
	if err := row.Scan(&created); err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrConflict
		}
		return nil, err
	}
	out := *m
	out.CreationTime = created
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, username, creation_time FROM users WHERE user_id=$1
    `, userID)
	return scanUser(row)
}

func (u *users) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, username, creation_time FROM users WHERE username=$1
    `, username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var out model.User
	if err := row.Scan(&out.UserID, &out.Username, &out.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// --- Content ---
type content struct{ db *sql.DB }

func (c *content) Create(ctx context.Context, item *model.ContentItem) (*model.ContentItem, error) {
	tagList := item.Tags
	if tagList == nil {
		tagList = []string{}
	}
	tags, err := json.Marshal(tagList)
	if err != nil {
		return nil, err
	}
	var created time.Time
	row := c.db.QueryRowContext(ctx, `
        INSERT INTO content (id, user_id, type, title, link, content, tags, image_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING creation_time
    `, item.ID, item.UserID, item.Type, item.Title, item.Link, item.Content, string(tags), item.ImageURL)
	if err := row.Scan(&created); err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrConflict
		}
		return nil, err
	}
	out := *item
	out.CreationTime = created
	return &out, nil
}

const contentColumns = `id, user_id, type, title, link, content, tags, image_url, creation_time`

func (c *content) GetByID(ctx context.Context, userID, id string) (*model.ContentItem, error) {
	rows, err := c.db.QueryContext(ctx, `
        SELECT `+contentColumns+` FROM content WHERE user_id=$1 AND id=$2
    `, userID, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, model.ErrNotFound
	}
	return scanContent(rows)
}

func (c *content) GetByIDs(ctx context.Context, userID string, ids []string) ([]*model.ContentItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := c.db.QueryContext(ctx, `
        SELECT `+contentColumns+` FROM content
        WHERE user_id=$1 AND id = ANY($2)
    `, userID, ids)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.ContentItem
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, item)
	}
	return res, rows.Err()
}

func (c *content) List(ctx context.Context, userID string) ([]*model.ContentItem, error) {
	rows, err := c.db.QueryContext(ctx, `
        SELECT `+contentColumns+` FROM content
        WHERE user_id=$1 ORDER BY creation_time DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.ContentItem
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, item)
	}
	return res, rows.Err()
}

func (c *content) Delete(ctx context.Context, userID, id string) error {
	res, err := c.db.ExecContext(ctx, `
        DELETE FROM content WHERE user_id=$1 AND id=$2
    `, userID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanContent(rows *sql.Rows) (*model.ContentItem, error) {
	var out model.ContentItem
	var tags []byte
	if err := rows.Scan(&out.ID, &out.UserID, &out.Type, &out.Title, &out.Link, &out.Content, &tags, &out.ImageURL, &out.CreationTime); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &out.Tags); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

// --- ShareLinks ---
type shareLinks struct{ db *sql.DB }

func (s *shareLinks) Upsert(ctx context.Context, link *model.ShareLink) (*model.ShareLink, error) {
	// ON CONFLICT DO NOTHING plus a follow-up read keeps enabling
	// idempotent under concurrent requests.
	if _, err := s.db.ExecContext(ctx, `
        INSERT INTO share_links (user_id, hash)
        VALUES ($1,$2)
        ON CONFLICT (user_id) DO NOTHING
    `, link.UserID, link.Hash); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
        SELECT user_id, hash, creation_time FROM share_links WHERE user_id=$1
    `, link.UserID)
	return scanShareLink(row)
}

func (s *shareLinks) GetByHash(ctx context.Context, hash string) (*model.ShareLink, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT user_id, hash, creation_time FROM share_links WHERE hash=$1
    `, hash)
	return scanShareLink(row)
}

func (s *shareLinks) DeleteByUser(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM share_links WHERE user_id=$1`, userID)
	return err
}

func scanShareLink(row *sql.Row) (*model.ShareLink, error) {
	var out model.ShareLink
	if err := row.Scan(&out.UserID, &out.Hash, &out.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}
