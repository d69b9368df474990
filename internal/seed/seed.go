package seed

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Result reports how many rows a single Seed call inserted.
type Result struct {
	Users      int `json:"users"`
	Categories int `json:"categories"`
	Posts      int `json:"posts"`
}

// Seeder inserts a fixture set into the database.
type Seeder struct {
	db       *sql.DB
	fixtures *Fixtures
	now      func() time.Time
}

// New returns a Seeder for the given fixtures.
func New(db *sql.DB, fixtures *Fixtures) *Seeder {
	return &Seeder{db: db, fixtures: fixtures, now: time.Now}
}

// Seed inserts all fixtures in one transaction. Rows whose natural key
// already exists are left untouched, so a repeated call inserts nothing new.
// Order matters: users and categories before posts.
func (s *Seeder) Seed(ctx context.Context) (*Result, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ts := s.now().UTC().Format(time.RFC3339)
	var res Result

	if res.Users, err = s.users(ctx, tx, ts); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	if res.Categories, err = s.categories(ctx, tx, ts); err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	if res.Posts, err = s.posts(ctx, tx, ts); err != nil {
		return nil, fmt.Errorf("seed posts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit seed: %w", err)
	}
	return &res, nil
}

func (s *Seeder) users(ctx context.Context, tx *sql.Tx, ts string) (int, error) {
	inserted := 0
	for _, u := range s.fixtures.Users {
		role := u.Role
		if role == "" {
			role = "member"
		}
		n, err := execCount(ctx, tx,
			`INSERT INTO users (email, name, role, created_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(email) DO NOTHING`,
			u.Email, u.Name, role, ts,
		)
		if err != nil {
			return 0, fmt.Errorf("insert user %s: %w", u.Email, err)
		}
		inserted += n
	}
	return inserted, nil
}

func (s *Seeder) categories(ctx context.Context, tx *sql.Tx, ts string) (int, error) {
	inserted := 0
	for _, c := range s.fixtures.Categories {
		name := c.Name
		if name == "" {
			name = c.Slug
		}
		n, err := execCount(ctx, tx,
			`INSERT INTO categories (slug, name, created_at) VALUES (?, ?, ?)
			 ON CONFLICT(slug) DO NOTHING`,
			c.Slug, name, ts,
		)
		if err != nil {
			return 0, fmt.Errorf("insert category %s: %w", c.Slug, err)
		}
		inserted += n
	}
	return inserted, nil
}

func (s *Seeder) posts(ctx context.Context, tx *sql.Tx, ts string) (int, error) {
	inserted := 0
	for _, p := range s.fixtures.Posts {
		var authorID int64
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM users WHERE email = ?`, p.Author,
		).Scan(&authorID); err != nil {
			return 0, fmt.Errorf("resolve author %q for post %s: %w", p.Author, p.Slug, err)
		}

		var categoryID sql.NullInt64
		if p.Category != "" {
			if err := tx.QueryRowContext(ctx,
				`SELECT id FROM categories WHERE slug = ?`, p.Category,
			).Scan(&categoryID); err != nil {
				return 0, fmt.Errorf("resolve category %q for post %s: %w", p.Category, p.Slug, err)
			}
		}

		n, err := execCount(ctx, tx,
			`INSERT INTO posts (slug, title, body, author_id, category_id, published, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(slug) DO NOTHING`,
			p.Slug, p.Title, p.Body, authorID, categoryID, p.Published, ts,
		)
		if err != nil {
			return 0, fmt.Errorf("insert post %s: %w", p.Slug, err)
		}
		inserted += n
	}
	return inserted, nil
}

func execCount(ctx context.Context, tx *sql.Tx, query string, args ...any) (int, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
