package database

// migrations is an ordered list of SQL migration groups. Each entry is a slice
// of SQL statements executed together in a single transaction. The version
// number is the 1-based index into this slice.
var migrations = [][]string{
	// Migration 1: seeded content tables
	{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'member',
			created_at TEXT NOT NULL
		)`,

		`CREATE TABLE categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slug TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,

		`CREATE TABLE posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slug TEXT UNIQUE NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			author_id INTEGER NOT NULL,
			category_id INTEGER,
			published BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TEXT NOT NULL,
			FOREIGN KEY (author_id) REFERENCES users(id),
			FOREIGN KEY (category_id) REFERENCES categories(id)
		)`,
		`CREATE INDEX idx_posts_author ON posts(author_id)`,
		`CREATE INDEX idx_posts_category ON posts(category_id, published)`,
	},
}
