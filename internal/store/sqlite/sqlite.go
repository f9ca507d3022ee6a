// Package sqlite implements the primary store on an embedded SQLite
// database. It is the default driver for single-binary deployments and
// for tests; schema setup happens at Open time.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/brainvault/brainvault/internal/model"
	"github.com/brainvault/brainvault/internal/store"
)

const ddl = `
CREATE TABLE IF NOT EXISTS users (
    user_id       TEXT PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    creation_time TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS content (
    id            TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL REFERENCES users(user_id),
    type          TEXT NOT NULL,
    title         TEXT NOT NULL,
    link          TEXT,
    content       TEXT NOT NULL,
    tags          TEXT NOT NULL DEFAULT '[]',
    image_url     TEXT,
    creation_time TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_content_user ON content(user_id, creation_time);
CREATE TABLE IF NOT EXISTS share_links (
    user_id       TEXT PRIMARY KEY REFERENCES users(user_id),
    hash          TEXT NOT NULL UNIQUE,
    creation_time TEXT NOT NULL
);
`

// Open opens (creating if necessary) a SQLite database at path and applies
// the schema. Use ":memory:" for an ephemeral database.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(ddl); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a SQLite-backed store from an opened database.
func NewWithDB(db *sql.DB) store.Store { return &liteStore{db: db} }

type liteStore struct{ db *sql.DB }

func (s *liteStore) Users() store.Users           { return &users{db: s.db} }
func (s *liteStore) Content() store.Content       { return &content{db: s.db} }
func (s *liteStore) ShareLinks() store.ShareLinks { return &shareLinks{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *liteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Timestamps are stored as RFC3339Nano text so ordering works with plain
// string comparison.
func encodeTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func decodeTime(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }

// --- Users ---
type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	created := time.Now().UTC()
	_, err := u.db.ExecContext(ctx, `
        INSERT INTO users (user_id, username, creation_time)
        VALUES (?,?,?)
    `, m.UserID, m.Username, encodeTime(created))
	if err != nil {
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
        SELECT user_id, username, creation_time FROM users WHERE user_id=?
    `, userID)
	return scanUser(row)
}

func (u *users) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, username, creation_time FROM users WHERE username=?
    `, username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var out model.User
	var created string
	if err := row.Scan(&out.UserID, &out.Username, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	t, err := decodeTime(created)
	if err != nil {
		return nil, err
	}
	out.CreationTime = t
	return &out, nil
}

// --- Content ---
type content struct{ db *sql.DB }

func (c *content) Create(ctx context.Context, item *model.ContentItem) (*model.ContentItem, error) {
	created := item.CreationTime
	if created.IsZero() {
		created = time.Now().UTC()
	}
	tagList := item.Tags
	if tagList == nil {
		tagList = []string{}
	}
	tags, err := json.Marshal(tagList)
	if err != nil {
		return nil, err
	}
	_, err = c.db.ExecContext(ctx, `
        INSERT INTO content (id, user_id, type, title, link, content, tags, image_url, creation_time)
        VALUES (?,?,?,?,?,?,?,?,?)
    `, item.ID, item.UserID, item.Type, item.Title, item.Link, item.Content, string(tags), item.ImageURL, encodeTime(created))
	if err != nil {
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
        SELECT `+contentColumns+` FROM content WHERE user_id=? AND id=?
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
	placeholders := strings.Repeat(",?", len(ids))[1:]
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := c.db.QueryContext(ctx, `
        SELECT `+contentColumns+` FROM content
        WHERE user_id=? AND id IN (`+placeholders+`)
    `, args...)
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
        WHERE user_id=? ORDER BY creation_time DESC
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
        DELETE FROM content WHERE user_id=? AND id=?
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
	var tags, created string
	if err := rows.Scan(&out.ID, &out.UserID, &out.Type, &out.Title, &out.Link, &out.Content, &tags, &out.ImageURL, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &out.Tags); err != nil {
		return nil, err
	}
	t, err := decodeTime(created)
	if err != nil {
		return nil, err
	}
	out.CreationTime = t
	return &out, nil
}

// --- ShareLinks ---
type shareLinks struct{ db *sql.DB }

func (s *shareLinks) Upsert(ctx context.Context, link *model.ShareLink) (*model.ShareLink, error) {
	existing, err := s.getByUser(ctx, link.UserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	created := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, `
        INSERT INTO share_links (user_id, hash, creation_time)
        VALUES (?,?,?)
    `, link.UserID, link.Hash, encodeTime(created)); err != nil {
		if isUniqueViolation(err) {
			// Raced with a concurrent enable; return the winner.
			return s.getByUser(ctx, link.UserID)
		}
		return nil, err
	}
	out := *link
	out.CreationTime = created
	return &out, nil
}

func (s *shareLinks) getByUser(ctx context.Context, userID string) (*model.ShareLink, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT user_id, hash, creation_time FROM share_links WHERE user_id=?
    `, userID)
	return scanShareLink(row)
}

func (s *shareLinks) GetByHash(ctx context.Context, hash string) (*model.ShareLink, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT user_id, hash, creation_time FROM share_links WHERE hash=?
    `, hash)
	return scanShareLink(row)
}

func (s *shareLinks) DeleteByUser(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM share_links WHERE user_id=?`, userID)
	return err
}

func scanShareLink(row *sql.Row) (*model.ShareLink, error) {
	var out model.ShareLink
	var created string
	if err := row.Scan(&out.UserID, &out.Hash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	t, err := decodeTime(created)
	if err != nil {
		return nil, err
	}
	out.CreationTime = t
	return &out, nil
}
