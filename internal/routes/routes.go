package routes

const (
	// Health
	Health = "/health"

	// Leads
	LeadsBase  = "/api/v1/leads"
	LeadByID   = "/api/v1/leads/{lead_id}"
	LeadStatus = "/api/v1/leads/{lead_id}/status"
	LeadQuote  = "/api/v1/leads/{lead_id}/quote"
	LeadBook   = "/api/v1/leads/{lead_id}/book"

	// Jobs
	JobsBase    = "/api/v1/jobs"
	JobByID     = "/api/v1/jobs/{job_id}"
	JobStatus   = "/api/v1/jobs/{job_id}/status"
	JobDispatch = "/api/v1/jobs/{job_id}/dispatch"
	JobAssign   = "/api/v1/jobs/{job_id}/assign"
	JobUnassign = "/api/v1/jobs/{job_id}/unassign"

	// Payouts
	PayoutsBase    = "/api/v1/payouts"
	PayoutsSummary = "/api/v1/payouts/summary"
	PayoutMarkPaid = "/api/v1/payouts/{payout_id}/mark-paid"

	// Packages
	PackagesBase        = "/api/v1/packages"
	PackageByID         = "/api/v1/packages/{package_id}"
	PackageSuggestPrice = "/api/v1/packages/{package_id}/suggest-price"

	// Subs
	SubsBase  = "/api/v1/subs"
	SubByID   = "/api/v1/subs/{sub_id}"
	SubStatus = "/api/v1/subs/{sub_id}/status"
)
