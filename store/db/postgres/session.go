package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/reviewpulse/reviewpulse/store"
)

func (d *DB) CreateSession(ctx context.Context, create *store.Session) (*store.Session, error) {
	fields := []string{"uid", "creator_id", "created_ts", "client_first_name", "phone_number", "provider_id"}
	args := []any{create.UID, create.CreatorID, create.CreatedTs, create.ClientFirstName, create.PhoneNumber, create.ProviderID}

	stmt := `INSERT INTO session_record (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return create, nil
}

func (d *DB) ListSessions(ctx context.Context, find *store.FindSession) ([]*store.Session, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "session_record.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "session_record.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "session_record.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, creator_id, created_ts, client_first_name, phone_number, provider_id
		FROM session_record
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY session_record.created_ts DESC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Session, 0)
	for rows.Next() {
		var session store.Session
		var providerID sql.NullInt32
		if err := rows.Scan(
			&session.ID,
			&session.UID,
			&session.CreatorID,
			&session.CreatedTs,
			&session.ClientFirstName,
			&session.PhoneNumber,
			&providerID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if providerID.Valid {
			session.ProviderID = &providerID.Int32
		}
		list = append(list, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return list, nil
}
