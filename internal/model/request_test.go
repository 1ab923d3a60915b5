package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    RequestStatus
		to      RequestStatus
		allowed bool
	}{
		{StatusEnAttente, StatusApprouvee, true},
		{StatusEnAttente, StatusRejetee, true},
		{StatusEnAttente, StatusArchivee, true},
		{StatusEnAttente, StatusEnPreparation, false},
		{StatusEnAttente, StatusLivree, false},

		{StatusApprouvee, StatusEnPreparation, true},
		{StatusApprouvee, StatusArchivee, true},
		{StatusApprouvee, StatusLivree, false},
		{StatusApprouvee, StatusEnAttente, false},
		{StatusApprouvee, StatusRejetee, false},

		{StatusEnPreparation, StatusLivree, true},
		{StatusEnPreparation, StatusArchivee, true},
		{StatusEnPreparation, StatusApprouvee, false},

		// Terminal states admit nothing, livree in particular can never
		// be archived.
		{StatusLivree, StatusArchivee, false},
		{StatusLivree, StatusEnAttente, false},
		{StatusRejetee, StatusApprouvee, false},
		{StatusRejetee, StatusArchivee, false},
		{StatusArchivee, StatusEnAttente, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	require.True(t, StatusLivree.Terminal())
	require.True(t, StatusRejetee.Terminal())
	require.True(t, StatusArchivee.Terminal())

	require.False(t, StatusEnAttente.Terminal())
	require.False(t, StatusApprouvee.Terminal())
	require.False(t, StatusEnPreparation.Terminal())
}

func TestStatusValid(t *testing.T) {
	require.True(t, StatusEnAttente.Valid())
	require.False(t, RequestStatus("supprimee").Valid())
	require.False(t, RequestStatus("").Valid())
}

func TestPriorityValid(t *testing.T) {
	require.True(t, PriorityUrgente.Valid())
	require.True(t, PriorityBasse.Valid())
	require.False(t, RequestPriority("critique").Valid())
	require.False(t, RequestPriority("").Valid())
}
