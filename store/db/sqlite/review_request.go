package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/reviewpulse/reviewpulse/store"
)

func (d *DB) CreateReviewRequest(ctx context.Context, create *store.ReviewRequest) (*store.ReviewRequest, error) {
	fields := []string{"uid", "creator_id", "created_ts", "updated_ts", "status", "client_first_name", "phone_number", "provider_name", "physician_name", "response_time_minutes"}
	args := []any{create.UID, create.CreatorID, create.CreatedTs, create.UpdatedTs, create.Status, create.ClientFirstName, create.PhoneNumber, create.ProviderName, create.PhysicianName, create.ResponseTimeMinutes}

	stmt := `INSERT INTO review_request (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create review request: %w", err)
	}

	return create, nil
}

func (d *DB) ListReviewRequests(ctx context.Context, find *store.FindReviewRequest) ([]*store.ReviewRequest, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "review_request.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "review_request.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "review_request.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatedTsAfter; v != nil {
		where, args = append(where, "review_request.created_ts >= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatedTsBefore; v != nil {
		where, args = append(where, "review_request.created_ts <= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "review_request.status = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			id, uid, creator_id, created_ts, updated_ts, status,
			client_first_name, phone_number,
			provider_name, physician_name, response_time_minutes
		FROM review_request
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY review_request.created_ts DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query review requests: %w", err)
	}
	defer rows.Close()

	list := make([]*store.ReviewRequest, 0)
	for rows.Next() {
		var reviewRequest store.ReviewRequest
		var providerName, physicianName sql.NullString
		var responseTimeMinutes sql.NullFloat64

		if err := rows.Scan(
			&reviewRequest.ID,
			&reviewRequest.UID,
			&reviewRequest.CreatorID,
			&reviewRequest.CreatedTs,
			&reviewRequest.UpdatedTs,
			&reviewRequest.Status,
			&reviewRequest.ClientFirstName,
			&reviewRequest.PhoneNumber,
			&providerName,
			&physicianName,
			&responseTimeMinutes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review request: %w", err)
		}

		if providerName.Valid {
			reviewRequest.ProviderName = &providerName.String
		}
		if physicianName.Valid {
			reviewRequest.PhysicianName = &physicianName.String
		}
		if responseTimeMinutes.Valid {
			reviewRequest.ResponseTimeMinutes = &responseTimeMinutes.Float64
		}
		list = append(list, &reviewRequest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate review requests: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateReviewRequest(ctx context.Context, update *store.UpdateReviewRequest) (*store.ReviewRequest, error) {
	set, args := []string{}, []any{}

	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Status; v != nil {
		set, args = append(set, "status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.ResponseTimeMinutes; v != nil {
		set, args = append(set, "response_time_minutes = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.ProviderName; v != nil {
		set, args = append(set, "provider_name = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.PhysicianName; v != nil {
		set, args = append(set, "physician_name = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, update.ID)
	stmt := `UPDATE review_request SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to update review request: %w", err)
	}

	list, err := d.ListReviewRequests(ctx, &store.FindReviewRequest{ID: &update.ID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("review request %d not found", update.ID)
	}
	return list[0], nil
}

func (d *DB) DeleteReviewRequest(ctx context.Context, delete *store.DeleteReviewRequest) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM review_request WHERE id = "+placeholder(1), delete.ID); err != nil {
		return fmt.Errorf("failed to delete review request: %w", err)
	}
	return nil
}
