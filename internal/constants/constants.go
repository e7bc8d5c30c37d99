package constants

import "time"

// Session and context keys
const (
	SessionCookieName      = "planning_session"
	ContextKeyUserID       = "user_id"
	ContextKeyRequestID    = "request_id"
	ContextKeyOrganization = "organization"
	ContextKeyMembership   = "organization_member"
	SessionKeyLoginEmail   = "login_email"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// One-time codes
const (
	OTPLength     = 6
	DefaultOTPTTL = 10 * time.Minute
)

// Allocation bounds and dashboard thresholds
const (
	MinAllocation         = 1
	MaxAllocation         = 100
	AvailableBelowPercent = 50
)

// Leave sync
const (
	LeavePageLimit     = 100
	LeaveSyncStateKey  = "zenhr_holidays"
	DefaultOrgMaxUsers = 5
)
