// Package onboarding models the account setup wizard as an explicit finite
// state machine. The current step is persisted on the user row so the wizard
// resumes where it was left; transitions are validated rather than clamped.
package onboarding

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/reviewpulse/reviewpulse/store"
)

// Step is a named wizard state.
type Step string

const (
	StepWelcome      Step = "welcome"
	StepBusinessName Step = "businessName"
	StepGoogleReview Step = "googleReview"
	StepCompletion   Step = "completion"
)

// steps lists the wizard states in order.
var steps = []Step{StepWelcome, StepBusinessName, StepGoogleReview, StepCompletion}

// next is the forward transition table. Completion has no forward edge;
// leaving it goes through Complete or Skip.
var next = map[Step]Step{
	StepWelcome:      StepBusinessName,
	StepBusinessName: StepGoogleReview,
	StepGoogleReview: StepCompletion,
}

// prev is the backward transition table.
var prev = map[Step]Step{
	StepBusinessName: StepWelcome,
	StepGoogleReview: StepBusinessName,
	StepCompletion:   StepGoogleReview,
}

// ErrInvalidTransition is returned for a step change the transition tables
// do not allow.
var ErrInvalidTransition = errors.New("invalid onboarding transition")

// ErrBusinessNameRequired is returned when completing the wizard without a
// business name.
var ErrBusinessNameRequired = errors.New("business name is required to complete onboarding")

// IsValidStep reports whether s names a wizard state.
func IsValidStep(s Step) bool {
	for _, step := range steps {
		if step == s {
			return true
		}
	}
	return false
}

// Next returns the state after s.
func Next(s Step) (Step, error) {
	to, ok := next[s]
	if !ok {
		return s, ErrInvalidTransition
	}
	return to, nil
}

// Prev returns the state before s.
func Prev(s Step) (Step, error) {
	to, ok := prev[s]
	if !ok {
		return s, ErrInvalidTransition
	}
	return to, nil
}

// State is the wizard view exposed to the API.
type State struct {
	Step            Step   `json:"step"`
	BusinessName    string `json:"businessName"`
	GoogleReviewURL string `json:"googleReviewUrl"`
	Completed       bool   `json:"completed"`
}

// Input carries the fields a wizard step may save while advancing.
type Input struct {
	BusinessName    *string
	GoogleReviewURL *string
}

// Service drives the wizard for one account, persisting progress through the
// store.
type Service struct {
	store *store.Store
}

// NewService creates an onboarding service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// StateFor returns the persisted wizard state of user. An unknown persisted
// step (from an older build) resets to welcome instead of wedging the wizard.
func (*Service) StateFor(user *store.User) *State {
	step := Step(user.OnboardingStep)
	if !IsValidStep(step) {
		step = StepWelcome
	}
	return &State{
		Step:            step,
		BusinessName:    user.BusinessName,
		GoogleReviewURL: user.GoogleReviewURL,
		Completed:       user.OnboardingCompleted,
	}
}

// Advance saves the step's input and moves the wizard forward.
func (s *Service) Advance(ctx context.Context, user *store.User, input *Input) (*State, error) {
	state := s.StateFor(user)
	to, err := Next(state.Step)
	if err != nil {
		return nil, err
	}

	update := &store.UpdateUser{ID: user.ID}
	if input != nil {
		update.BusinessName = input.BusinessName
		update.GoogleReviewURL = input.GoogleReviewURL
	}
	return s.persist(ctx, update, to, nil)
}

// Back moves the wizard one step backward without saving input.
func (s *Service) Back(ctx context.Context, user *store.User) (*State, error) {
	state := s.StateFor(user)
	to, err := Prev(state.Step)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, &store.UpdateUser{ID: user.ID}, to, nil)
}

// Skip marks onboarding complete without requiring any business info. The
// user can fill it in later from the profile screen.
func (s *Service) Skip(ctx context.Context, user *store.User) (*State, error) {
	completed := true
	return s.persist(ctx, &store.UpdateUser{ID: user.ID}, StepWelcome, &completed)
}

// Complete finishes the wizard. A business name is required; the Google
// review URL is not.
func (s *Service) Complete(ctx context.Context, user *store.User, input *Input) (*State, error) {
	update := &store.UpdateUser{ID: user.ID}
	businessName := user.BusinessName
	if input != nil {
		if input.BusinessName != nil {
			businessName = *input.BusinessName
		}
		update.BusinessName = input.BusinessName
		update.GoogleReviewURL = input.GoogleReviewURL
	}
	if businessName == "" {
		return nil, ErrBusinessNameRequired
	}

	completed := true
	return s.persist(ctx, update, StepWelcome, &completed)
}

func (s *Service) persist(ctx context.Context, update *store.UpdateUser, to Step, completed *bool) (*State, error) {
	step := string(to)
	now := time.Now().Unix()
	update.OnboardingStep = &step
	update.OnboardingCompleted = completed
	update.UpdatedTs = &now

	user, err := s.store.UpdateUser(ctx, update)
	if err != nil {
		return nil, errors.Wrap(err, "failed to save onboarding progress")
	}
	return s.StateFor(user), nil
}
