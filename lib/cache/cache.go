// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/quill-foundation/quill/lib/digest"
	"github.com/quill-foundation/quill/lib/schema"
	"github.com/quill-foundation/quill/lib/sqlitepool"
)

// articleSchema is the cache table. One row per article, keyed by
// slug. Tags are a JSON array — the cache is a materialized view, not
// a relational model, and nothing queries individual tags in SQL.
const articleSchema = `
	CREATE TABLE IF NOT EXISTS articles (
		slug                TEXT PRIMARY KEY,
		path                TEXT NOT NULL,
		date                TEXT,
		draft               INTEGER NOT NULL DEFAULT 0,
		digest              TEXT NOT NULL,
		title               TEXT NOT NULL,
		tags                TEXT NOT NULL,
		layout              TEXT NOT NULL,
		author              TEXT NOT NULL,
		show_author_profile INTEGER NOT NULL DEFAULT 0,
		body                TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_articles_date ON articles(date);
	CREATE INDEX IF NOT EXISTS idx_articles_author ON articles(author);
`

// Config holds the parameters for opening an article cache.
type Config struct {
	// Path is the SQLite database file. The parent directory must
	// exist.
	Path string

	// PoolSize is the connection pool size. Defaults to 4.
	PoolSize int

	// Logger receives operational messages. Nil means silent.
	Logger *slog.Logger
}

// Cache is a SQLite-backed article cache. Safe for concurrent use.
type Cache struct {
	pool   *sqlitepool.Pool
	logger *slog.Logger
}

// Open creates or opens the cache database and ensures the schema
// exists. The caller must Close the cache when done.
func Open(cfg Config) (*Cache, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     cfg.Path,
		PoolSize: poolSize,
		Logger:   logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, articleSchema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("article cache: %w", err)
	}

	return &Cache{pool: pool, logger: logger}, nil
}

// Close closes the underlying connection pool.
func (c *Cache) Close() error {
	return c.pool.Close()
}

// SyncStats reports what one Sync pass did.
type SyncStats struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Deleted   int `json:"deleted"`
	Unchanged int `json:"unchanged"`
}

// Sync reconciles the cache with the given articles: new slugs are
// inserted, slugs whose digest changed are rewritten, slugs absent
// from the input are deleted, and matching digests are left alone.
// The whole pass runs in a single IMMEDIATE transaction.
func (c *Cache) Sync(ctx context.Context, articles []schema.Article) (SyncStats, error) {
	conn, err := c.pool.Take(ctx)
	if err != nil {
		return SyncStats{}, fmt.Errorf("article cache: sync: %w", err)
	}
	defer c.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return SyncStats{}, fmt.Errorf("article cache: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	stored, err := storedDigests(conn)
	if err != nil {
		return SyncStats{}, err
	}

	var stats SyncStats
	fresh := make(map[string]struct{}, len(articles))
	for i := range articles {
		article := &articles[i]
		fresh[article.Slug] = struct{}{}

		storedDigest, exists := stored[article.Slug]
		if exists && storedDigest == article.Digest {
			stats.Unchanged++
			continue
		}
		if err := upsertArticle(conn, article); err != nil {
			return SyncStats{}, err
		}
		if exists {
			stats.Updated++
		} else {
			stats.Inserted++
		}
	}

	for slug := range stored {
		if _, survives := fresh[slug]; survives {
			continue
		}
		err := sqlitex.Execute(conn, "DELETE FROM articles WHERE slug = ?", &sqlitex.ExecOptions{
			Args: []any{slug},
		})
		if err != nil {
			return SyncStats{}, fmt.Errorf("article cache: delete %s: %w", slug, err)
		}
		stats.Deleted++
	}

	c.logger.Info("cache synced",
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"deleted", stats.Deleted,
		"unchanged", stats.Unchanged,
	)
	return stats, nil
}

// Load returns every cached article. The result carries the same
// fields the store produces from the markdown tree.
func (c *Cache) Load(ctx context.Context) ([]schema.Article, error) {
	conn, err := c.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("article cache: load: %w", err)
	}
	defer c.pool.Put(conn)

	var articles []schema.Article
	err = sqlitex.Execute(conn, `
		SELECT slug, path, date, draft, digest, title, tags, layout,
		       author, show_author_profile, body
		FROM articles ORDER BY slug`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			article, err := scanArticle(stmt)
			if err != nil {
				return err
			}
			articles = append(articles, article)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("article cache: load: %w", err)
	}
	return articles, nil
}

// Digests returns the slug → digest map of the cached state. The CLI
// uses it to report staleness without loading full bodies.
func (c *Cache) Digests(ctx context.Context) (map[string]digest.Digest, error) {
	conn, err := c.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("article cache: digests: %w", err)
	}
	defer c.pool.Put(conn)

	return storedDigests(conn)
}

// storedDigests reads the slug → digest map on an already-held
// connection.
func storedDigests(conn *sqlite.Conn) (map[string]digest.Digest, error) {
	stored := make(map[string]digest.Digest)
	err := sqlitex.Execute(conn, "SELECT slug, digest FROM articles", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			parsed, err := digest.Parse(stmt.ColumnText(1))
			if err != nil {
				return fmt.Errorf("row %q: %w", stmt.ColumnText(0), err)
			}
			stored[stmt.ColumnText(0)] = parsed
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("article cache: reading digests: %w", err)
	}
	return stored, nil
}

// upsertArticle writes one article row, replacing any existing row
// for the slug.
func upsertArticle(conn *sqlite.Conn, article *schema.Article) error {
	tagsJSON, err := json.Marshal([]string(article.Content.Tags))
	if err != nil {
		return fmt.Errorf("article cache: marshal tags for %s: %w", article.Slug, err)
	}

	var date any
	if !article.Date.IsZero() {
		date = article.Date.Format(schema.DateLayout)
	}

	err = sqlitex.Execute(conn, `
		INSERT INTO articles
			(slug, path, date, draft, digest, title, tags, layout,
			 author, show_author_profile, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			path = excluded.path,
			date = excluded.date,
			draft = excluded.draft,
			digest = excluded.digest,
			title = excluded.title,
			tags = excluded.tags,
			layout = excluded.layout,
			author = excluded.author,
			show_author_profile = excluded.show_author_profile,
			body = excluded.body`, &sqlitex.ExecOptions{
		Args: []any{
			article.Slug,
			article.Path,
			date,
			boolToInt(article.IsDraft),
			article.Digest.String(),
			article.Content.Title,
			string(tagsJSON),
			article.Content.Layout,
			article.Content.Author,
			boolToInt(article.Content.ShowAuthorProfile),
			article.Content.Body,
		},
	})
	if err != nil {
		return fmt.Errorf("article cache: upsert %s: %w", article.Slug, err)
	}
	return nil
}

// scanArticle rebuilds a schema.Article from a row.
func scanArticle(stmt *sqlite.Stmt) (schema.Article, error) {
	var article schema.Article

	// Columns: slug(0), path(1), date(2), draft(3), digest(4),
	// title(5), tags(6), layout(7), author(8),
	// show_author_profile(9), body(10)

	article.Slug = stmt.ColumnText(0)
	article.Path = stmt.ColumnText(1)

	if !stmt.ColumnIsNull(2) {
		date, err := time.Parse(schema.DateLayout, stmt.ColumnText(2))
		if err != nil {
			return article, fmt.Errorf("row %q: bad date: %w", article.Slug, err)
		}
		article.Date = date
	}
	article.IsDraft = stmt.ColumnInt(3) != 0

	parsed, err := digest.Parse(stmt.ColumnText(4))
	if err != nil {
		return article, fmt.Errorf("row %q: %w", article.Slug, err)
	}
	article.Digest = parsed

	article.Content.Title = stmt.ColumnText(5)

	var tags []string
	if err := json.Unmarshal([]byte(stmt.ColumnText(6)), &tags); err != nil {
		return article, fmt.Errorf("row %q: bad tags: %w", article.Slug, err)
	}
	if len(tags) > 0 {
		article.Content.Tags = schema.TagList(tags)
	}

	article.Content.Layout = stmt.ColumnText(7)
	article.Content.Author = stmt.ColumnText(8)
	article.Content.ShowAuthorProfile = stmt.ColumnInt(9) != 0
	article.Content.Body = stmt.ColumnText(10)
	return article, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
