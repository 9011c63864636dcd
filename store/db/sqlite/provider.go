package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/reviewpulse/reviewpulse/store"
)

func (d *DB) CreateProvider(ctx context.Context, create *store.Provider) (*store.Provider, error) {
	fields := []string{"uid", "creator_id", "created_ts", "name"}
	args := []any{create.UID, create.CreatorID, create.CreatedTs, create.Name}

	stmt := `INSERT INTO provider (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	return create, nil
}

func (d *DB) ListProviders(ctx context.Context, find *store.FindProvider) ([]*store.Provider, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "provider.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "provider.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "provider.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, creator_id, created_ts, name
		FROM provider
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY provider.name ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query providers: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Provider, 0)
	for rows.Next() {
		var provider store.Provider
		if err := rows.Scan(
			&provider.ID,
			&provider.UID,
			&provider.CreatorID,
			&provider.CreatedTs,
			&provider.Name,
		); err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		list = append(list, &provider)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate providers: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteProvider(ctx context.Context, delete *store.DeleteProvider) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM provider WHERE id = "+placeholder(1), delete.ID); err != nil {
		return fmt.Errorf("failed to delete provider: %w", err)
	}
	return nil
}
