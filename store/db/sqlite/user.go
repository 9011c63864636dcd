package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/reviewpulse/reviewpulse/store"
)

func (d *DB) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	fields := []string{"uid", "created_ts", "updated_ts", "email", "nickname", "password_hash", "business_name", "google_review_url", "clinic_mode", "onboarding_step", "onboarding_completed"}
	args := []any{create.UID, create.CreatedTs, create.UpdatedTs, create.Email, create.Nickname, create.PasswordHash, create.BusinessName, create.GoogleReviewURL, create.ClinicMode, create.OnboardingStep, create.OnboardingCompleted}

	stmt := `INSERT INTO user (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return create, nil
}

func (d *DB) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "user.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "user.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Email; v != nil {
		where, args = append(where, "user.email = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			id, uid, created_ts, updated_ts, email, nickname, password_hash,
			business_name, google_review_url, clinic_mode,
			onboarding_step, onboarding_completed
		FROM user
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY user.id ASC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	list := make([]*store.User, 0)
	for rows.Next() {
		var user store.User
		if err := rows.Scan(
			&user.ID,
			&user.UID,
			&user.CreatedTs,
			&user.UpdatedTs,
			&user.Email,
			&user.Nickname,
			&user.PasswordHash,
			&user.BusinessName,
			&user.GoogleReviewURL,
			&user.ClinicMode,
			&user.OnboardingStep,
			&user.OnboardingCompleted,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		list = append(list, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateUser(ctx context.Context, update *store.UpdateUser) (*store.User, error) {
	set, args := []string{}, []any{}

	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Nickname; v != nil {
		set, args = append(set, "nickname = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.PasswordHash; v != nil {
		set, args = append(set, "password_hash = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.BusinessName; v != nil {
		set, args = append(set, "business_name = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.GoogleReviewURL; v != nil {
		set, args = append(set, "google_review_url = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.ClinicMode; v != nil {
		set, args = append(set, "clinic_mode = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.OnboardingStep; v != nil {
		set, args = append(set, "onboarding_step = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.OnboardingCompleted; v != nil {
		set, args = append(set, "onboarding_completed = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, update.ID)
	stmt := `UPDATE user SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	list, err := d.ListUsers(ctx, &store.FindUser{ID: &update.ID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("user %d not found", update.ID)
	}
	return list[0], nil
}
