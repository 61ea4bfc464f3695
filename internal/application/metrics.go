package application

import "expvar"

// Counters published under /debug/vars as "referral".
var metrics = expvar.NewMap("referral")

const (
	metricRegistrations   = "registrations"
	metricLogins          = "logins"
	metricLoginsPending   = "logins_pending_approval"
	metricApprovalChanges = "approval_changes"
	metricCasesCreated    = "cases_created"
)
