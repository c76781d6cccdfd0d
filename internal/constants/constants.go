package constants

import "time"

// StaleClaimThreshold is how long a dispatched job may sit unclaimed before
// the escalation sweep flags it to the account owner.
const StaleClaimThreshold = 2 * time.Hour

// EscalationCronSpec runs the stale-dispatch sweep every 15 minutes.
const EscalationCronSpec = "*/15 * * * *"

// MaxUpdateRetries bounds the optimistic-lock retry loop.
const MaxUpdateRetries = 3

// AccountIDHeader carries the tenant on every API request.
const AccountIDHeader = "X-Account-ID"
