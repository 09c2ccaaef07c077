package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ldrouet/marque/internal/domain"
)

const currentSchemaVersion = 1

// SQLite implements Adapter and UserStore on a local SQLite database.
type SQLite struct {
	db   *sql.DB
	path string
}

// NewSQLite opens (or creates) the database at path and runs migrations.
func NewSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLite{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLite) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS collections (
			id TEXT PRIMARY KEY NOT NULL,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			icon TEXT NOT NULL DEFAULT 'folder',
			color TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_collections_user_id ON collections(user_id);

		CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY NOT NULL,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_tags_user_id ON tags(user_id);

		CREATE TABLE IF NOT EXISTS bookmarks (
			id TEXT PRIMARY KEY NOT NULL,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			favicon TEXT NOT NULL DEFAULT '',
			has_dark_icon INTEGER NOT NULL DEFAULT 0,
			collection_id TEXT,
			tags TEXT NOT NULL DEFAULT '[]',
			is_favorite INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'active',
			created_at TEXT NOT NULL,
			trashed_at TEXT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (collection_id) REFERENCES collections(id) ON DELETE SET NULL
		);

		CREATE INDEX IF NOT EXISTS idx_bookmarks_user_id ON bookmarks(user_id);
		CREATE INDEX IF NOT EXISTS idx_bookmarks_collection_id ON bookmarks(collection_id);
		CREATE INDEX IF NOT EXISTS idx_bookmarks_status ON bookmarks(status);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// LoadInitialData fetches the full working set for one user.
// Bookmarks come back in creation order so the in-memory store preserves
// insertion order for stable sorting.
func (s *SQLite) LoadInitialData(ctx context.Context, userID string) (*InitialData, error) {
	data := &InitialData{
		Bookmarks:   []domain.Bookmark{},
		Collections: []domain.Collection{},
		Tags:        []domain.Tag{},
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, icon, color, created_at
		FROM collections
		WHERE user_id = ?
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		c := domain.Collection{UserID: userID}
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		data.Collections = append(data.Collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT id, name, color
		FROM tags
		WHERE user_id = ?
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		t := domain.Tag{UserID: userID}
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		data.Tags = append(data.Tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT id, title, url, description, favicon, has_dark_icon,
		       collection_id, tags, is_favorite, status, created_at, trashed_at
		FROM bookmarks
		WHERE user_id = ?
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBookmark(rows, userID)
		if err != nil {
			return nil, err
		}
		data.Bookmarks = append(data.Bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return data, nil
}

func scanBookmark(rows *sql.Rows, userID string) (domain.Bookmark, error) {
	b := domain.Bookmark{UserID: userID}
	var (
		hasDarkIcon  int
		collectionID sql.NullString
		tagsJSON     string
		isFavorite   int
		status       string
		createdAt    string
		trashedAt    sql.NullString
	)

	if err := rows.Scan(
		&b.ID, &b.Title, &b.URL, &b.Description, &b.Favicon, &hasDarkIcon,
		&collectionID, &tagsJSON, &isFavorite, &status, &createdAt, &trashedAt,
	); err != nil {
		return b, err
	}

	b.HasDarkIcon = hasDarkIcon == 1
	b.IsFavorite = isFavorite == 1
	if collectionID.Valid {
		b.CollectionID = &collectionID.String
	}
	if err := json.Unmarshal([]byte(tagsJSON), &b.Tags); err != nil {
		b.Tags = []string{}
	}
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return b, fmt.Errorf("bookmark %s: %w", b.ID, err)
	}
	b.Status = parsed
	b.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if trashedAt.Valid {
		if t, err := time.Parse(time.RFC3339Nano, trashedAt.String); err == nil {
			b.TrashedAt = &t
		}
	}
	return b, nil
}

func (s *SQLite) InsertBookmark(ctx context.Context, params domain.NewBookmarkParams) (domain.Bookmark, error) {
	b := domain.NewBookmark(params)

	tagsJSON, _ := json.Marshal(b.Tags)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (id, user_id, title, url, description, favicon,
			has_dark_icon, collection_id, tags, is_favorite, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.UserID, b.Title, b.URL, b.Description, b.Favicon,
		boolToInt(b.HasDarkIcon), b.CollectionID, string(tagsJSON),
		boolToInt(b.IsFavorite), string(b.Status), b.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return domain.Bookmark{}, err
	}
	return b, nil
}

func (s *SQLite) UpdateBookmark(ctx context.Context, b domain.Bookmark) error {
	tagsJSON, _ := json.Marshal(b.Tags)
	if b.Tags == nil {
		tagsJSON = []byte("[]")
	}
	var trashedAt *string
	if b.TrashedAt != nil {
		v := b.TrashedAt.Format(time.RFC3339Nano)
		trashedAt = &v
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE bookmarks
		SET title = ?, url = ?, description = ?, favicon = ?, has_dark_icon = ?,
		    collection_id = ?, tags = ?, is_favorite = ?, status = ?, trashed_at = ?
		WHERE id = ? AND user_id = ?
	`, b.Title, b.URL, b.Description, b.Favicon, boolToInt(b.HasDarkIcon),
		b.CollectionID, string(tagsJSON), boolToInt(b.IsFavorite),
		string(b.Status), trashedAt, b.ID, b.UserID)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *SQLite) DeleteBookmark(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM bookmarks WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *SQLite) InsertCollection(ctx context.Context, params domain.NewCollectionParams) (domain.Collection, error) {
	c := domain.NewCollection(params)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, user_id, name, icon, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.UserID, c.Name, c.Icon, c.Color, c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return domain.Collection{}, err
	}
	return c, nil
}

// DeleteCollection resets collection_id on dependent bookmarks and removes
// the collection in one transaction.
func (s *SQLite) DeleteCollection(ctx context.Context, userID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE bookmarks SET collection_id = NULL
		WHERE collection_id = ? AND user_id = ?
	`, id, userID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM collections WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if err := checkAffected(res); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLite) InsertTag(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, user_id, name, color)
		VALUES (?, ?, ?, ?)
	`, tag.ID, tag.UserID, tag.Name, tag.Color)
	if err != nil {
		return domain.Tag{}, err
	}
	return tag, nil
}

// DeleteTag rewrites the tag set of every affected bookmark and removes the
// tag in one transaction. Tag sets are stored as JSON arrays, so the rewrite
// happens in Go rather than SQL.
func (s *SQLite) DeleteTag(ctx context.Context, userID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		"SELECT id, tags FROM bookmarks WHERE user_id = ?", userID)
	if err != nil {
		return err
	}

	type rewrite struct {
		bookmarkID string
		tags       []string
	}
	var rewrites []rewrite

	for rows.Next() {
		var bookmarkID, tagsJSON string
		if err := rows.Scan(&bookmarkID, &tagsJSON); err != nil {
			rows.Close()
			return err
		}
		var tags []string
		if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
			continue
		}
		kept := make([]string, 0, len(tags))
		removed := false
		for _, t := range tags {
			if t == id {
				removed = true
				continue
			}
			kept = append(kept, t)
		}
		if removed {
			rewrites = append(rewrites, rewrite{bookmarkID: bookmarkID, tags: kept})
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, rw := range rewrites {
		tagsJSON, _ := json.Marshal(rw.tags)
		if _, err := tx.ExecContext(ctx,
			"UPDATE bookmarks SET tags = ? WHERE id = ?", string(tagsJSON), rw.bookmarkID); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM tags WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if err := checkAffected(res); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLite) CreateUser(ctx context.Context, user domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, user.ID, user.Email, user.PasswordHash, user.CreatedAt.Format(time.RFC3339))
	return err
}

func (s *SQLite) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users WHERE email = ?
	`, domain.NormalizeEmail(email)))
}

func (s *SQLite) UserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users WHERE id = ?
	`, id))
}

func (s *SQLite) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DefaultSQLitePath returns the default database path: ~/.config/marque/marque.db
func DefaultSQLitePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "marque", "marque.db"), nil
}
