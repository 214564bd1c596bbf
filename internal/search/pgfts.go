package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PgFTS implements Searcher using PostgreSQL full-text search as a fallback.
type PgFTS struct {
	db *sql.DB
}

// NewPgFTS creates a PostgreSQL FTS searcher.
func NewPgFTS(db *sql.DB) *PgFTS {
	return &PgFTS{db: db}
}

// Healthy always returns true. If Postgres is down, the whole app is down.
func (p *PgFTS) Healthy() bool {
	return true
}

// Search matches trades by name or by the content of any of their documents,
// using plainto_tsquery with ts_headline snippets.
func (p *PgFTS) Search(q Query) ([]Result, int, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, 0, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	const matchSQL = `
		SELECT t.id, t.name,
			ts_headline('simple', coalesce(string_agg(d.content, ' '), ''),
				plainto_tsquery('simple', $1), 'MaxFragments=1,MaxWords=30') AS snippet,
			max(ts_rank(
				to_tsvector('simple', t.name || ' ' || coalesce(d.content, '')),
				plainto_tsquery('simple', $1))) AS rank
		FROM trades t
		LEFT JOIN documents d ON d.trade_id = t.id
		WHERE to_tsvector('simple', t.name) @@ plainto_tsquery('simple', $1)
			OR to_tsvector('simple', coalesce(d.content, '')) @@ plainto_tsquery('simple', $1)
		GROUP BY t.id, t.name
	`

	ctx := context.Background()

	var total int
	countSQL := "SELECT count(*) FROM (" + matchSQL + ") sub"
	if err := p.db.QueryRowContext(ctx, countSQL, q.Text).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgfts count: %w", err)
	}

	dataSQL := fmt.Sprintf(`SELECT id, name, snippet FROM (%s) sub
		ORDER BY rank DESC
		LIMIT %d OFFSET %d`, matchSQL, limit, offset)

	rows, err := p.db.QueryContext(ctx, dataSQL, q.Text)
	if err != nil {
		return nil, 0, fmt.Errorf("pgfts query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.Name, &r.Snippet); err != nil {
			return nil, 0, fmt.Errorf("pgfts scan: %w", err)
		}
		results = append(results, r)
	}

	return results, total, rows.Err()
}

// LoadAllRecords returns every trade as an indexable record, for full
// reindexing into Meilisearch.
func (p *PgFTS) LoadAllRecords(ctx context.Context) ([]TradeRecord, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT t.id, t.name,
			coalesce(string_agg(d.content, ' '), ''),
			extract(epoch FROM t.updated_at)::bigint
		FROM trades t
		LEFT JOIN documents d ON d.trade_id = t.id
		GROUP BY t.id, t.name, t.updated_at
	`)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	defer rows.Close()

	records := make([]TradeRecord, 0)
	for rows.Next() {
		var r TradeRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Body, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	return records, nil
}
