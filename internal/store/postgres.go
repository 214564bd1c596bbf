package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound marks lookups that matched nothing.
var ErrNotFound = errors.New("not found")

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateTrade inserts a trade and one empty document row per workflow slot.
func (s *PostgresStore) CreateTrade(ctx context.Context, name string, slots []string) (Trade, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Trade{}, fmt.Errorf("begin create trade: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var trade Trade
	err = tx.QueryRowContext(ctx, `
		INSERT INTO trades (name)
		VALUES ($1)
		RETURNING id, name, created_at, updated_at
	`, name).Scan(&trade.ID, &trade.Name, &trade.CreatedAt, &trade.UpdatedAt)
	if err != nil {
		return Trade{}, fmt.Errorf("insert trade: %w", err)
	}

	for _, slot := range slots {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (trade_id, slot, mode)
			VALUES ($1, $2, $3)
		`, trade.ID, slot, ModeManual); err != nil {
			return Trade{}, fmt.Errorf("insert document %s: %w", slot, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Trade{}, fmt.Errorf("commit create trade: %w", err)
	}
	return trade, nil
}

func (s *PostgresStore) GetTrade(ctx context.Context, tradeID string) (Trade, error) {
	var trade Trade
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at FROM trades WHERE id=$1
	`, tradeID).Scan(&trade.ID, &trade.Name, &trade.CreatedAt, &trade.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Trade{}, fmt.Errorf("trade %s: %w", tradeID, ErrNotFound)
	}
	if err != nil {
		return Trade{}, fmt.Errorf("get trade: %w", err)
	}
	return trade, nil
}

func (s *PostgresStore) ListTrades(ctx context.Context) ([]Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at FROM trades ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()

	var trades []Trade
	for rows.Next() {
		var trade Trade
		if err := rows.Scan(&trade.ID, &trade.Name, &trade.CreatedAt, &trade.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		trades = append(trades, trade)
	}
	return trades, rows.Err()
}

func (s *PostgresStore) DeleteTrade(ctx context.Context, tradeID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE id=$1`, tradeID)
	if err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("trade %s: %w", tradeID, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) TouchTrade(ctx context.Context, tradeID string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE trades SET updated_at=NOW() WHERE id=$1`, tradeID); err != nil {
		return fmt.Errorf("touch trade: %w", err)
	}
	return nil
}

const documentColumns = `id, trade_id, slot, content, mode, upload_name, upload_status, created_at, updated_at`

func (s *PostgresStore) ListDocuments(ctx context.Context, tradeID string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+documentColumns+` FROM documents WHERE trade_id=$1 ORDER BY slot
	`, tradeID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *PostgresStore) GetDocument(ctx context.Context, tradeID, slot string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+` FROM documents WHERE trade_id=$1 AND slot=$2
	`, tradeID, slot)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("document %s/%s: %w", tradeID, slot, ErrNotFound)
	}
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

// SetDocumentContent stores a document's content. A nil content marks the
// step as not started.
func (s *PostgresStore) SetDocumentContent(ctx context.Context, tradeID, slot string, content *string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET content=$3, updated_at=NOW() WHERE trade_id=$1 AND slot=$2
	`, tradeID, slot, content)
	if err != nil {
		return fmt.Errorf("set document content: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("document %s/%s: %w", tradeID, slot, ErrNotFound)
	}
	return s.TouchTrade(ctx, tradeID)
}

func (s *PostgresStore) SetDocumentMode(ctx context.Context, tradeID, slot, mode string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET mode=$3, updated_at=NOW() WHERE trade_id=$1 AND slot=$2
	`, tradeID, slot, mode)
	if err != nil {
		return fmt.Errorf("set document mode: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("document %s/%s: %w", tradeID, slot, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) SetDocumentUpload(ctx context.Context, tradeID, slot, uploadName, uploadStatus string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET upload_name=$3, upload_status=$4, updated_at=NOW()
		WHERE trade_id=$1 AND slot=$2
	`, tradeID, slot, uploadName, uploadStatus)
	if err != nil {
		return fmt.Errorf("set document upload: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("document %s/%s: %w", tradeID, slot, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var content sql.NullString
	var uploadName, uploadStatus sql.NullString
	err := row.Scan(&doc.ID, &doc.TradeID, &doc.Slot, &content, &doc.Mode,
		&uploadName, &uploadStatus, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, err
		}
		return Document{}, fmt.Errorf("scan document: %w", err)
	}
	if content.Valid {
		doc.Content = &content.String
	}
	doc.UploadName = uploadName.String
	doc.UploadStatus = uploadStatus.String
	return doc, nil
}
