package v1

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestSignUp(t *testing.T) {
	t.Run("creates an account and returns a token", func(t *testing.T) {
		service, driver := newTestService(t)
		c, recorder := newTestContext(http.MethodPost, "/api/v1/auth/signup",
			`{"email":"Owner@Example.com","password":"hunter2hunter2","nickname":"Sam"}`, nil)

		require.NoError(t, service.SignUp(c))
		require.Equal(t, http.StatusOK, recorder.Code)

		response := &authResponse{}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), response))
		require.NotEmpty(t, response.AccessToken)
		require.Equal(t, "owner@example.com", response.User.Email)
		require.False(t, response.User.OnboardingCompleted)

		require.Len(t, driver.users, 1)
		require.NotEqual(t, "hunter2hunter2", driver.users[0].PasswordHash)
		require.Equal(t, "welcome", driver.users[0].OnboardingStep)
	})

	t.Run("rejects a short password", func(t *testing.T) {
		service, _ := newTestService(t)
		c, _ := newTestContext(http.MethodPost, "/api/v1/auth/signup",
			`{"email":"owner@example.com","password":"short"}`, nil)

		err := service.SignUp(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		service, _ := newTestService(t)
		c, _ := newTestContext(http.MethodPost, "/api/v1/auth/signup",
			`{"email":"owner@example.com","password":"hunter2hunter2"}`, nil)
		require.NoError(t, service.SignUp(c))

		c, _ = newTestContext(http.MethodPost, "/api/v1/auth/signup",
			`{"email":"OWNER@example.com","password":"hunter2hunter2"}`, nil)
		err := service.SignUp(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, http.StatusConflict, httpErr.Code)
	})
}

func TestSignIn(t *testing.T) {
	service, _ := newTestService(t)
	c, _ := newTestContext(http.MethodPost, "/api/v1/auth/signup",
		`{"email":"owner@example.com","password":"hunter2hunter2"}`, nil)
	require.NoError(t, service.SignUp(c))

	t.Run("valid credentials", func(t *testing.T) {
		c, recorder := newTestContext(http.MethodPost, "/api/v1/auth/signin",
			`{"email":"owner@example.com","password":"hunter2hunter2"}`, nil)
		require.NoError(t, service.SignIn(c))
		require.Equal(t, http.StatusOK, recorder.Code)

		response := &authResponse{}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), response))
		require.NotEmpty(t, response.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		c, _ := newTestContext(http.MethodPost, "/api/v1/auth/signin",
			`{"email":"owner@example.com","password":"wrong-password"}`, nil)
		err := service.SignIn(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		c, _ := newTestContext(http.MethodPost, "/api/v1/auth/signin",
			`{"email":"nobody@example.com","password":"hunter2hunter2"}`, nil)
		err := service.SignIn(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}
