package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NextDocNumber allocates the next value of a per-kind, per-year sequence and
// formats it as PREFIX-YEAR-NNNN. The upsert makes allocation safe under
// concurrent saves, unlike the time-based numbers it replaces.
func NextDocNumber(ctx context.Context, pool *pgxpool.Pool, kind, prefix string, year int) (string, error) {
	var seq int
	err := pool.QueryRow(ctx, `
		INSERT INTO doc_numbers (kind, year, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (kind, year) DO UPDATE SET seq = doc_numbers.seq + 1
		RETURNING seq`, kind, year).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("platform/db: next doc number: %w", err)
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq), nil
}
