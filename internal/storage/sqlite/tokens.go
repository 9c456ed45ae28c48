package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RevokeToken records a token ID in the blacklist. Revoking the same ID
// twice is a no-op.
func (s *SQLiteStore) RevokeToken(ctx context.Context, jti string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO revoked_tokens (jti, revoked_at) VALUES (?, ?)",
		jti, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// IsTokenRevoked reports whether the token ID is blacklisted.
func (s *SQLiteStore) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM revoked_tokens WHERE jti = ?",
		jti,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}

	return true, nil
}
