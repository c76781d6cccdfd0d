package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func TestJobStatusFlow(t *testing.T) {
	cases := []struct {
		from    JobStatusType
		to      JobStatusType
		allowed bool
	}{
		{JobStatusBooked, JobStatusPendingClaim, true},
		{JobStatusBooked, JobStatusCancelled, true},
		{JobStatusBooked, JobStatusAssigned, false},
		{JobStatusBooked, JobStatusCompleted, false},
		{JobStatusPendingClaim, JobStatusAssigned, true},
		{JobStatusPendingClaim, JobStatusCancelled, true},
		{JobStatusPendingClaim, JobStatusInProgress, false},
		{JobStatusAssigned, JobStatusInProgress, true},
		{JobStatusAssigned, JobStatusCancelled, true},
		{JobStatusAssigned, JobStatusCompleted, false},
		{JobStatusInProgress, JobStatusCompleted, true},
		{JobStatusInProgress, JobStatusCancelled, true},
		{JobStatusInProgress, JobStatusBooked, false},
		{JobStatusCompleted, JobStatusCancelled, false},
		{JobStatusCancelled, JobStatusBooked, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestJobTerminalStatuses(t *testing.T) {
	require.True(t, JobStatusCompleted.IsTerminal())
	require.True(t, JobStatusCancelled.IsTerminal())
	require.False(t, JobStatusBooked.IsTerminal())
	require.False(t, JobStatusPendingClaim.IsTerminal())
	require.False(t, JobStatusAssigned.IsTerminal())
	require.False(t, JobStatusInProgress.IsTerminal())
}

func TestNeedsSubAssignment(t *testing.T) {
	job := &Job{Status: JobStatusPendingClaim}
	require.True(t, job.NeedsSubAssignment())

	subID := newTestUUID(t)
	job.AssignedSubID = &subID
	require.False(t, job.NeedsSubAssignment())

	job.AssignedSubID = nil
	job.Status = JobStatusBooked
	require.False(t, job.NeedsSubAssignment())
}
