// Package memapp implements the reference Memories application exercised by the e2e suite.
// It serves a JSON API under /posts and a server-rendered html ui backed by sqlite.
package memapp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the sqlite driver
)

// ErrNotFound is returned when a post does not exist or its id is malformed.
var ErrNotFound = errors.New("post not found")

// ErrInvalid is returned when a post misses required fields.
var ErrInvalid = errors.New("invalid post")

const schema = `
CREATE TABLE IF NOT EXISTS posts (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	message       TEXT NOT NULL,
	creator       TEXT NOT NULL DEFAULT '',
	tags          TEXT NOT NULL DEFAULT '',
	selected_file TEXT NOT NULL DEFAULT '',
	like_count    INTEGER NOT NULL DEFAULT 0,
	created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at);
`

// Post is a single memory.
type Post struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	Creator      string    `json:"creator"`
	Tags         []string  `json:"tags"`
	SelectedFile string    `json:"selectedFile"`
	LikeCount    int       `json:"likeCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate checks required fields and returns the names of the missing ones wrapped in ErrInvalid.
func (p Post) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(p.Message) == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrInvalid, strings.Join(missing, ", "))
	}
	return nil
}

// Sort orders for List.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortLikes  = "likes"
)

// Filter narrows List results. Zero value lists everything, newest first.
type Filter struct {
	Query string // substring of title, message or tags
	Tag   string // exact tag
	Sort  string // one of the Sort* constants
}

// Store keeps posts in sqlite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens the sqlite database at dsn and creates the schema.
// an empty dsn or ":memory:" gives a private in-memory database.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// a single connection keeps in-memory databases alive and serializes writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// List returns posts matching the filter.
func (s *Store) List(ctx context.Context, f Filter) ([]Post, error) {
	var where []string
	var args []any
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + escapeLike(q) + "%"
		// tags are matched without their "," separators
		where = append(where, `(title LIKE ? ESCAPE '\' OR message LIKE ? ESCAPE '\' OR replace(tags, ',', ' ') LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like)
	}
	if tag := normalizeTag(f.Tag); tag != "" {
		where = append(where, `tags LIKE ? ESCAPE '\'`)
		args = append(args, "%,"+escapeLike(tag)+",%")
	}

	query := "SELECT id, title, message, creator, tags, selected_file, like_count, created_at FROM posts"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	switch f.Sort {
	case SortOldest:
		query += " ORDER BY created_at ASC, rowid ASC"
	case SortLikes:
		query += " ORDER BY like_count DESC, created_at DESC, rowid DESC"
	default:
		query += " ORDER BY created_at DESC, rowid DESC"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []Post{}
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

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes s match literally inside a LIKE pattern escaped with '\'.
func escapeLike(s string) string { return likeEscaper.Replace(s) }

// Get returns a post by id.
func (s *Store) Get(ctx context.Context, id string) (Post, error) {
	if !validID(id) {
		return Post{}, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, message, creator, tags, selected_file, like_count, created_at FROM posts WHERE id = ?", id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	return p, err
}

// Create stores a new post and returns it with id and creation time set.
func (s *Store) Create(ctx context.Context, p Post) (Post, error) {
	if err := p.Validate(); err != nil {
		return Post{}, err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = s.now().UTC()
	p.LikeCount = 0
	p.Tags = cleanTags(p.Tags)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO posts (id, title, message, creator, tags, selected_file, like_count, created_at) VALUES (?, ?, ?, ?, ?, ?, 0, ?)",
		p.ID, p.Title, p.Message, p.Creator, joinTags(p.Tags), p.SelectedFile, p.CreatedAt.UnixNano())
	if err != nil {
		return Post{}, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

// Update replaces the editable fields of a post and returns the stored result.
func (s *Store) Update(ctx context.Context, id string, p Post) (Post, error) {
	if !validID(id) {
		return Post{}, ErrNotFound
	}
	if err := p.Validate(); err != nil {
		return Post{}, err
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE posts SET title = ?, message = ?, creator = ?, tags = ?, selected_file = ? WHERE id = ?",
		p.Title, p.Message, p.Creator, joinTags(cleanTags(p.Tags)), p.SelectedFile, id)
	if err != nil {
		return Post{}, fmt.Errorf("update post %s: %w", id, err)
	}
	if err := expectOne(res); err != nil {
		return Post{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes a post.
func (s *Store) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return expectOne(res)
}

// Like increments the like counter and returns the updated post.
func (s *Store) Like(ctx context.Context, id string) (Post, error) {
	if !validID(id) {
		return Post{}, ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, "UPDATE posts SET like_count = like_count + 1 WHERE id = ?", id)
	if err != nil {
		return Post{}, fmt.Errorf("like post %s: %w", id, err)
	}
	if err := expectOne(res); err != nil {
		return Post{}, err
	}
	return s.Get(ctx, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(sc scanner) (Post, error) {
	var p Post
	var tags string
	var created int64
	if err := sc.Scan(&p.ID, &p.Title, &p.Message, &p.Creator, &tags, &p.SelectedFile, &p.LikeCount, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Post{}, err
		}
		return Post{}, fmt.Errorf("scan post: %w", err)
	}
	p.Tags = splitTags(tags)
	p.CreatedAt = time.Unix(0, created).UTC()
	return p, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ParseTags splits a comma separated tag list, dropping blanks, "#" prefixes and duplicates.
func ParseTags(s string) []string {
	return cleanTags(strings.Split(s, ","))
}

func cleanTags(tags []string) []string {
	res := []string{}
	seen := map[string]bool{}
	for _, t := range tags {
		t = normalizeTag(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		res = append(res, t)
	}
	return res
}

func normalizeTag(t string) string {
	t = strings.TrimSpace(t)
	t = strings.TrimLeft(t, "#")
	t = strings.ReplaceAll(t, ",", "")
	return strings.ToLower(strings.TrimSpace(t))
}

// joinTags stores tags as ",a,b," so a single tag matches with LIKE '%,a,%'.
func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "," + strings.Join(tags, ",") + ","
}

func splitTags(s string) []string {
	res := []string{}
	for t := range strings.SplitSeq(strings.Trim(s, ","), ",") {
		if t != "" {
			res = append(res, t)
		}
	}
	return res
}
