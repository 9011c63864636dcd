package webhook

import (
	"context"

	"github.com/reviewpulse/reviewpulse/store"
)

type userRow struct {
	ID                  int32  `json:"id"`
	UID                 string `json:"uid"`
	CreatedTs           int64  `json:"created_ts"`
	UpdatedTs           int64  `json:"updated_ts"`
	Email               string `json:"email"`
	Nickname            string `json:"nickname"`
	PasswordHash        string `json:"password_hash"`
	BusinessName        string `json:"business_name"`
	GoogleReviewURL     string `json:"google_review_url"`
	ClinicMode          bool   `json:"clinic_mode"`
	OnboardingStep      string `json:"onboarding_step"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
}

func (r *userRow) toStore() *store.User {
	return &store.User{
		ID:                  r.ID,
		UID:                 r.UID,
		CreatedTs:           r.CreatedTs,
		UpdatedTs:           r.UpdatedTs,
		Email:               r.Email,
		Nickname:            r.Nickname,
		PasswordHash:        r.PasswordHash,
		BusinessName:        r.BusinessName,
		GoogleReviewURL:     r.GoogleReviewURL,
		ClinicMode:          r.ClinicMode,
		OnboardingStep:      r.OnboardingStep,
		OnboardingCompleted: r.OnboardingCompleted,
	}
}

func (d *Driver) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	data := map[string]any{
		"uid":                  create.UID,
		"created_ts":           create.CreatedTs,
		"updated_ts":           create.UpdatedTs,
		"email":                create.Email,
		"nickname":             create.Nickname,
		"password_hash":        create.PasswordHash,
		"business_name":        create.BusinessName,
		"google_review_url":    create.GoogleReviewURL,
		"clinic_mode":          create.ClinicMode,
		"onboarding_step":      create.OnboardingStep,
		"onboarding_completed": create.OnboardingCompleted,
	}

	var row userRow
	if err := d.client.insert(ctx, "user", data, &row); err != nil {
		return nil, err
	}
	return row.toStore(), nil
}

func (d *Driver) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error) {
	filters := map[string]any{}
	if v := find.ID; v != nil {
		filters["id"] = *v
	}
	if v := find.UID; v != nil {
		filters["uid"] = *v
	}
	if v := find.Email; v != nil {
		filters["email"] = *v
	}
	if v := find.Limit; v != nil {
		filters["limit"] = *v
	}

	rows := []*userRow{}
	if err := d.client.query(ctx, "user", filters, &rows); err != nil {
		return nil, err
	}
	list := make([]*store.User, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toStore())
	}
	return list, nil
}

func (d *Driver) UpdateUser(ctx context.Context, update *store.UpdateUser) (*store.User, error) {
	data := map[string]any{}
	if v := update.UpdatedTs; v != nil {
		data["updated_ts"] = *v
	}
	if v := update.Nickname; v != nil {
		data["nickname"] = *v
	}
	if v := update.PasswordHash; v != nil {
		data["password_hash"] = *v
	}
	if v := update.BusinessName; v != nil {
		data["business_name"] = *v
	}
	if v := update.GoogleReviewURL; v != nil {
		data["google_review_url"] = *v
	}
	if v := update.ClinicMode; v != nil {
		data["clinic_mode"] = *v
	}
	if v := update.OnboardingStep; v != nil {
		data["onboarding_step"] = *v
	}
	if v := update.OnboardingCompleted; v != nil {
		data["onboarding_completed"] = *v
	}

	var row userRow
	if err := d.client.update(ctx, "user", update.ID, data, &row); err != nil {
		return nil, err
	}
	return row.toStore(), nil
}
