package v1

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/reviewpulse/reviewpulse/server/payments"
	"github.com/reviewpulse/reviewpulse/store"
)

// signatureHeader carries the payment processor's webhook signature.
const signatureHeader = "Stripe-Signature"

type createCheckoutRequest struct {
	PriceID    string `json:"priceId"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

type subscriptionResponse struct {
	PlanID           string `json:"planId"`
	Status           string `json:"status"`
	CurrentPeriodEnd int64  `json:"currentPeriodEnd"`
}

// CreateCheckout opens a hosted checkout session for the authenticated
// account and returns the page URL the browser should redirect to.
func (s *APIV1Service) CreateCheckout(c echo.Context) error {
	if s.Payments == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "billing is not configured")
	}

	user := currentUser(c)
	request := &createCheckoutRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	if request.PriceID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "priceId is required")
	}
	if request.SuccessURL == "" || request.CancelURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "successUrl and cancelUrl are required")
	}

	session, err := s.Payments.CreateCheckoutSession(c.Request().Context(), &payments.CheckoutParams{
		PriceID:           request.PriceID,
		Mode:              "subscription",
		SuccessURL:        request.SuccessURL,
		CancelURL:         request.CancelURL,
		ClientReferenceID: user.UID,
		CustomerEmail:     user.Email,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to create checkout session").SetInternal(err)
	}
	return c.JSON(http.StatusOK, &checkoutResponse{URL: session.URL})
}

// GetSubscription returns the account's mirrored subscription, or null when
// the account has never subscribed.
func (s *APIV1Service) GetSubscription(c echo.Context) error {
	user := currentUser(c)
	subscription, err := s.Store.GetSubscription(c.Request().Context(), &store.FindSubscription{CreatorID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up subscription").SetInternal(err)
	}
	if subscription == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, &subscriptionResponse{
		PlanID:           subscription.PlanID,
		Status:           subscription.Status,
		CurrentPeriodEnd: subscription.CurrentPeriodEnd,
	})
}

// HandlePaymentsWebhook verifies and applies a webhook delivery from the
// payment processor. Unknown event types are acknowledged without action so
// the processor does not retry them.
func (s *APIV1Service) HandlePaymentsWebhook(c echo.Context) error {
	if s.Profile.PaymentsSigningSecret == "" {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "billing is not configured")
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read payload").SetInternal(err)
	}

	event, err := payments.ParseEvent(payload, c.Request().Header.Get(signatureHeader), s.Profile.PaymentsSigningSecret, time.Now())
	if err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid signature")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "malformed event").SetInternal(err)
	}

	switch event.Type {
	case payments.EventCheckoutSessionCompleted:
		object := &payments.CheckoutSessionObject{}
		if err := json.Unmarshal(event.Data.Object, object); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed checkout session").SetInternal(err)
		}
		if err := s.applyCheckoutCompleted(c, object); err != nil {
			return err
		}
	case payments.EventSubscriptionUpdated, payments.EventSubscriptionDeleted:
		object := &payments.SubscriptionObject{}
		if err := json.Unmarshal(event.Data.Object, object); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed subscription").SetInternal(err)
		}
		status := object.Status
		if event.Type == payments.EventSubscriptionDeleted {
			status = "canceled"
		}
		if err := s.applySubscriptionChange(c, object, status); err != nil {
			return err
		}
	default:
		slog.Debug("ignoring payments webhook event", "type", event.Type)
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}

// applyCheckoutCompleted ties the processor's customer and subscription ids
// to the local account named by client_reference_id.
func (s *APIV1Service) applyCheckoutCompleted(c echo.Context, object *payments.CheckoutSessionObject) error {
	ctx := c.Request().Context()
	if object.ClientReferenceID == "" {
		slog.Warn("checkout session completed without client reference", "session", object.ID)
		return nil
	}

	user, err := s.Store.GetUser(ctx, &store.FindUser{UID: &object.ClientReferenceID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up account").SetInternal(err)
	}
	if user == nil {
		slog.Warn("checkout session references unknown account", "session", object.ID)
		return nil
	}

	if _, err := s.Store.UpsertSubscription(ctx, &store.Subscription{
		CreatorID:      user.ID,
		UpdatedTs:      time.Now().Unix(),
		CustomerID:     object.Customer,
		SubscriptionID: object.Subscription,
		Status:         "active",
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to record subscription").SetInternal(err)
	}
	return nil
}

// applySubscriptionChange mirrors a subscription state change onto the row
// matched by customer id.
func (s *APIV1Service) applySubscriptionChange(c echo.Context, object *payments.SubscriptionObject, status string) error {
	ctx := c.Request().Context()
	existing, err := s.Store.GetSubscription(ctx, &store.FindSubscription{CustomerID: &object.Customer})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up subscription").SetInternal(err)
	}
	if existing == nil {
		slog.Warn("subscription event for unknown customer", "customer", object.Customer)
		return nil
	}

	if _, err := s.Store.UpsertSubscription(ctx, &store.Subscription{
		CreatorID:        existing.CreatorID,
		UpdatedTs:        time.Now().Unix(),
		CustomerID:       object.Customer,
		SubscriptionID:   object.ID,
		PlanID:           object.PlanID(),
		Status:           status,
		CurrentPeriodEnd: object.CurrentPeriodEnd,
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to record subscription").SetInternal(err)
	}
	return nil
}
