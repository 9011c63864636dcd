// Package v1 exposes the JSON REST API under /api/v1.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/reviewpulse/reviewpulse/internal/profile"
	"github.com/reviewpulse/reviewpulse/server/auth"
	"github.com/reviewpulse/reviewpulse/server/metrics"
	"github.com/reviewpulse/reviewpulse/server/middleware"
	"github.com/reviewpulse/reviewpulse/server/onboarding"
	"github.com/reviewpulse/reviewpulse/server/payments"
	"github.com/reviewpulse/reviewpulse/store"
)

// userContextKey is the echo context key the auth middleware stores the
// resolved user under.
const userContextKey = "reviewpulse/user"

type APIV1Service struct {
	Secret     string
	Profile    *profile.Profile
	Store      *store.Store
	Collector  *metrics.Collector
	Onboarding *onboarding.Service
	// Payments is nil when no API key is configured; billing endpoints then
	// answer 503.
	Payments *payments.Client

	authenticator *auth.Authenticator
	publicLimiter *middleware.RateLimiter
}

// NewAPIV1Service wires the API service. paymentsClient may be nil.
func NewAPIV1Service(secret string, profile *profile.Profile, st *store.Store, collector *metrics.Collector, paymentsClient *payments.Client) *APIV1Service {
	return &APIV1Service{
		Secret:        secret,
		Profile:       profile,
		Store:         st,
		Collector:     collector,
		Onboarding:    onboarding.NewService(st),
		Payments:      paymentsClient,
		authenticator: auth.NewAuthenticator(st, secret),
		// 5 req/s with burst 10 per IP is plenty for interactive auth flows.
		publicLimiter: middleware.NewRateLimiter(rate.Limit(5), 10),
	}
}

// RegisterRoutes mounts all API routes on the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	limited := s.publicLimiter.Middleware()

	api := e.Group("/api/v1")
	api.POST("/auth/signup", s.SignUp, limited)
	api.POST("/auth/signin", s.SignIn, limited)
	api.POST("/webhooks/payments", s.HandlePaymentsWebhook, limited)

	authed := api.Group("", s.authMiddleware)
	authed.GET("/auth/me", s.GetCurrentUser)

	authed.GET("/metrics", s.GetMetrics)
	authed.GET("/metrics/export", s.ExportMetrics)

	authed.GET("/review-requests", s.ListReviewRequests)
	authed.POST("/review-requests", s.CreateReviewRequest)
	authed.PATCH("/review-requests/:uid", s.UpdateReviewRequest)
	authed.DELETE("/review-requests/:uid", s.DeleteReviewRequest)

	authed.GET("/onboarding", s.GetOnboarding)
	authed.POST("/onboarding/advance", s.AdvanceOnboarding)
	authed.POST("/onboarding/back", s.BackOnboarding)
	authed.POST("/onboarding/skip", s.SkipOnboarding)
	authed.POST("/onboarding/complete", s.CompleteOnboarding)

	authed.POST("/sessions", s.CreateSession)

	authed.GET("/providers", s.ListProviders)
	authed.POST("/providers", s.CreateProvider)
	authed.DELETE("/providers/:uid", s.DeleteProvider)

	authed.POST("/billing/checkout", s.CreateCheckout)
	authed.GET("/billing/subscription", s.GetSubscription)
}

// authMiddleware rejects requests without a valid bearer token and stores
// the resolved user on the request context.
func (s *APIV1Service) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := s.authenticator.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials").SetInternal(err)
		}
		if user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

// currentUser returns the user the auth middleware resolved.
func currentUser(c echo.Context) *store.User {
	user, _ := c.Get(userContextKey).(*store.User)
	return user
}
