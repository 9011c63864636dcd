package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/reviewpulse/reviewpulse/server/auth"
	"github.com/reviewpulse/reviewpulse/server/onboarding"
	"github.com/reviewpulse/reviewpulse/store"
)

type signUpRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Nickname   string `json:"nickname"`
	ClinicMode bool   `json:"clinicMode"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string        `json:"accessToken"`
	User        *userResponse `json:"user"`
}

type userResponse struct {
	UID                 string `json:"uid"`
	Email               string `json:"email"`
	Nickname            string `json:"nickname"`
	BusinessName        string `json:"businessName"`
	GoogleReviewURL     string `json:"googleReviewUrl"`
	ClinicMode          bool   `json:"clinicMode"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
}

func toUserResponse(user *store.User) *userResponse {
	return &userResponse{
		UID:                 user.UID,
		Email:               user.Email,
		Nickname:            user.Nickname,
		BusinessName:        user.BusinessName,
		GoogleReviewURL:     user.GoogleReviewURL,
		ClinicMode:          user.ClinicMode,
		OnboardingCompleted: user.OnboardingCompleted,
	}
}

func (s *APIV1Service) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	request := &signUpRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	email := strings.ToLower(strings.TrimSpace(request.Email))
	if email == "" || !strings.Contains(email, "@") {
		return echo.NewHTTPError(http.StatusBadRequest, "a valid email is required")
	}
	if len(request.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	existing, err := s.Store.GetUser(ctx, &store.FindUser{Email: &email})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to check existing user").SetInternal(err)
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "an account with this email already exists")
	}

	passwordHash, err := auth.HashPassword(request.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to hash password").SetInternal(err)
	}

	now := time.Now().Unix()
	user, err := s.Store.CreateUser(ctx, &store.User{
		UID:            uuid.NewString(),
		CreatedTs:      now,
		UpdatedTs:      now,
		Email:          email,
		Nickname:       request.Nickname,
		PasswordHash:   passwordHash,
		ClinicMode:     request.ClinicMode,
		OnboardingStep: string(onboarding.StepWelcome),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create user").SetInternal(err)
	}

	return s.respondWithToken(c, user)
}

func (s *APIV1Service) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	request := &signInRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	email := strings.ToLower(strings.TrimSpace(request.Email))
	user, err := s.Store.GetUser(ctx, &store.FindUser{Email: &email})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up user").SetInternal(err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, request.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	return s.respondWithToken(c, user)
}

func (s *APIV1Service) GetCurrentUser(c echo.Context) error {
	return c.JSON(http.StatusOK, toUserResponse(currentUser(c)))
}

func (s *APIV1Service) respondWithToken(c echo.Context, user *store.User) error {
	token, err := auth.GenerateAccessToken(user, s.Secret, time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue access token").SetInternal(err)
	}
	return c.JSON(http.StatusOK, &authResponse{
		AccessToken: token,
		User:        toUserResponse(user),
	})
}
