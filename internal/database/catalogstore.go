// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package database

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/wallreel/scheduler/internal/config"
	"github.com/wallreel/scheduler/internal/models"
)

// CatalogStore is a read-only connection to the externally-ingested
// video_posts table (spec.md §3.1, "Out of scope: catalog ingestion").
// Core only ever counts and selects against it.
type CatalogStore struct {
	conn *sql.DB
}

// NewCatalogStore opens the catalog database, in read-only mode when
// cfg.ReadOnly is set and read-write otherwise. The schema
// is owned entirely by the external crawler; this store never creates or
// migrates it.
func NewCatalogStore(cfg config.CatalogStoreConfig) (*CatalogStore, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	accessMode := "read_write"
	if cfg.ReadOnly {
		accessMode = "read_only"
	}

	connStr := fmt.Sprintf("%s?access_mode=%s&threads=%d", cfg.Path, accessMode, threads)
	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog store: %w", err)
	}

	conn.SetMaxOpenConns(runtime.NumCPU())
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.Ping(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to catalog store at %s: %w", cfg.Path, err)
	}

	return &CatalogStore{conn: conn}, nil
}

// Close closes the underlying connection.
func (c *CatalogStore) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Ping verifies connectivity, used by the /readyz handler.
func (c *CatalogStore) Ping(ctx context.Context) error {
	if c.conn == nil {
		return fmt.Errorf("catalog store connection is nil")
	}
	return c.conn.PingContext(ctx)
}

// searchTerm splits a raw block search_term into its positive substring and
// any leading-minus negative sub-terms (spec.md §4.1 "Exclusion semantics").
type searchTerm struct {
	positive  string
	negatives []string
}

// parseSearchTerm tokenizes on whitespace; any token beginning with '-' is a
// negative sub-term excluded from `text`, all other tokens are re-joined
// (preserving order) into the positive substring query.
func parseSearchTerm(raw string) searchTerm {
	fields := strings.Fields(raw)
	var positives, negatives []string
	for _, f := range fields {
		if strings.HasPrefix(f, "-") && len(f) > 1 {
			negatives = append(negatives, strings.TrimPrefix(f, "-"))
			continue
		}
		positives = append(positives, f)
	}
	return searchTerm{positive: strings.Join(positives, " "), negatives: negatives}
}

// buildWhereClause constructs the parameterized predicate shared by Count
// and Select: a case-insensitive substring match on text, the negative
// sub-term exclusions, the orientation filter, and an optional id exclusion
// set. Grounded on the teacher's appendInClause/buildFilterConditions
// dynamic-WHERE-clause pattern (internal/database/filter.go).
func buildWhereClause(term searchTerm, orientation models.Orientation, excludeIDs []string) (string, []interface{}) {
	clauses := []string{"LOWER(text) LIKE ?"}
	args := []interface{}{"%" + strings.ToLower(term.positive) + "%"}

	for _, neg := range term.negatives {
		clauses = append(clauses, "LOWER(text) NOT LIKE ?")
		args = append(args, "%"+strings.ToLower(neg)+"%")
	}

	switch orientation {
	case models.OrientationWide:
		clauses = append(clauses, "width > height")
	case models.OrientationTall:
		clauses = append(clauses, "height > width")
	}

	if len(excludeIDs) > 0 {
		placeholders := make([]string, len(excludeIDs))
		for i, id := range excludeIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		clauses = append(clauses, fmt.Sprintf("video_id NOT IN (%s)", strings.Join(placeholders, ", ")))
	}

	return strings.Join(clauses, " AND "), args
}

// videoColumns is the fixed projection used by every query against
// video_posts, matching models.Video field order.
const videoColumns = `video_id, creator_id, text, posted_at, permalink, width, height,
	url_source, url_md, url_thumbnail, url_gif, creator_username, creator_display_name`

func scanVideo(row interface {
	Scan(dest ...interface{}) error
}) (models.Video, error) {
	var v models.Video
	err := row.Scan(&v.VideoID, &v.CreatorID, &v.Text, &v.PostedAt, &v.Permalink, &v.Width, &v.Height,
		&v.URLSource, &v.URLMd, &v.URLThumbnail, &v.URLGif, &v.CreatorUsername, &v.CreatorDisplayName)
	return v, err
}

// CountUncached runs a fresh COUNT(*) against video_posts for (term,
// orientation), with the negative sub-terms applied but no id exclusion set — it
// answers "how big is this block's matching universe", which is what the
// count cache (A4) fronts. term must already be non-empty per spec.md §4.1.
func (c *CatalogStore) CountUncached(ctx context.Context, term string, orientation models.Orientation) (int, error) {
	parsed := parseSearchTerm(term)
	where, args := buildWhereClause(parsed, orientation, nil)
	query := fmt.Sprintf("SELECT COUNT(*) FROM video_posts WHERE %s", where)

	var count int
	if err := c.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("catalog count query failed: %w", err)
	}
	return count, nil
}

// SelectNewest returns up to count matching Video Records ordered by
// posted_at descending, video_id ascending as a tiebreak, per spec.md
// §4.1's "newest" mode determinism requirement.
func (c *CatalogStore) SelectNewest(ctx context.Context, term string, count int, orientation models.Orientation, excludeIDs []string) ([]models.Video, error) {
	parsed := parseSearchTerm(term)
	where, args := buildWhereClause(parsed, orientation, excludeIDs)
	query := fmt.Sprintf(
		"SELECT %s FROM video_posts WHERE %s ORDER BY posted_at DESC, video_id ASC LIMIT ?",
		videoColumns, where,
	)
	args = append(args, count)

	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog newest-select query failed: %w", err)
	}
	defer closeQuietly(rows)

	var videos []models.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog newest-select scan failed: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// SelectOffset is the building block for random-offset probing (spec.md
// §4.1 "random" mode): it returns at most one Video Record at the given
// offset into the deterministic (posted_at DESC, video_id ASC) ordering of
// the matching universe, or zero records if offset is out of range.
func (c *CatalogStore) SelectOffset(ctx context.Context, term string, offset int, orientation models.Orientation, excludeIDs []string) (models.Video, bool, error) {
	parsed := parseSearchTerm(term)
	where, args := buildWhereClause(parsed, orientation, excludeIDs)
	query := fmt.Sprintf(
		"SELECT %s FROM video_posts WHERE %s ORDER BY posted_at DESC, video_id ASC LIMIT 1 OFFSET ?",
		videoColumns, where,
	)
	args = append(args, offset)

	row := c.conn.QueryRowContext(ctx, query, args...)
	v, err := scanVideo(row)
	if err == sql.ErrNoRows {
		return models.Video{}, false, nil
	}
	if err != nil {
		return models.Video{}, false, fmt.Errorf("catalog offset-select query failed: %w", err)
	}
	return v, true, nil
}
