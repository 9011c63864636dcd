package onboarding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reviewpulse/reviewpulse/store"
)

func TestTransitions(t *testing.T) {
	t.Run("forward walks the wizard in order", func(t *testing.T) {
		step := StepWelcome
		var err error
		for _, want := range []Step{StepBusinessName, StepGoogleReview, StepCompletion} {
			step, err = Next(step)
			require.NoError(t, err)
			require.Equal(t, want, step)
		}
	})

	t.Run("forward from completion is rejected", func(t *testing.T) {
		_, err := Next(StepCompletion)
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("backward from welcome is rejected", func(t *testing.T) {
		_, err := Prev(StepWelcome)
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("backward inverts forward", func(t *testing.T) {
		for from, to := range next {
			back, err := Prev(to)
			require.NoError(t, err)
			require.Equal(t, from, back)
		}
	})
}

func TestIsValidStep(t *testing.T) {
	for _, step := range steps {
		require.True(t, IsValidStep(step))
	}
	require.False(t, IsValidStep(Step("done")))
	require.False(t, IsValidStep(Step("")))
}

func TestStateFor(t *testing.T) {
	service := &Service{}

	t.Run("reflects the persisted user row", func(t *testing.T) {
		state := service.StateFor(&store.User{
			OnboardingStep:      string(StepGoogleReview),
			BusinessName:        "North Clinic",
			GoogleReviewURL:     "https://g.page/north",
			OnboardingCompleted: true,
		})
		require.Equal(t, StepGoogleReview, state.Step)
		require.Equal(t, "North Clinic", state.BusinessName)
		require.Equal(t, "https://g.page/north", state.GoogleReviewURL)
		require.True(t, state.Completed)
	})

	t.Run("unknown persisted step resets to welcome", func(t *testing.T) {
		state := service.StateFor(&store.User{OnboardingStep: "setup-phone"})
		require.Equal(t, StepWelcome, state.Step)
	})
}
