package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLeadStatusFlow(t *testing.T) {
	cases := []struct {
		from    LeadStatusType
		to      LeadStatusType
		allowed bool
	}{
		{LeadStatusNew, LeadStatusPhotoRequested, true},
		{LeadStatusNew, LeadStatusQuoted, true},
		{LeadStatusNew, LeadStatusWon, false},
		{LeadStatusNew, LeadStatusLost, false},
		{LeadStatusPhotoRequested, LeadStatusQuoted, true},
		{LeadStatusPhotoRequested, LeadStatusNew, false},
		{LeadStatusQuoted, LeadStatusWon, true},
		{LeadStatusQuoted, LeadStatusLost, true},
		{LeadStatusQuoted, LeadStatusNew, false},
		{LeadStatusWon, LeadStatusLost, false},
		{LeadStatusLost, LeadStatusQuoted, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestLeadTerminalStatuses(t *testing.T) {
	require.True(t, LeadStatusWon.IsTerminal())
	require.True(t, LeadStatusLost.IsTerminal())
	require.False(t, LeadStatusNew.IsTerminal())
	require.False(t, LeadStatusPhotoRequested.IsTerminal())
	require.False(t, LeadStatusQuoted.IsTerminal())
}

func TestLeadHasQuote(t *testing.T) {
	lead := &Lead{}
	require.False(t, lead.HasQuote())

	pkgID := newTestUUID(t)
	price := int64(49700)
	lead.QuotedPackageID = &pkgID
	require.False(t, lead.HasQuote(), "package alone is not a quote")

	lead.QuotedPriceCents = &price
	require.True(t, lead.HasQuote())
}
