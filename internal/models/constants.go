package models

// Booking statuses. StatusCompleted has no producing transition in the
// current flows; history listing still recognizes it.
const (
	StatusUpcoming  = "Upcoming"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// Toast severities.
const (
	SeveritySuccess = "success"
	SeverityError   = "error"
	SeverityInfo    = "info"
)

// Chat message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Persistence keys. Same names the browser demo used in localStorage so the
// stored JSON stays recognizable.
const (
	KeyCurrentUser    = "urbanlink_user"
	KeyUserTable      = "urbanlink_users"
	KeyBookingsPrefix = "urbanlink_bookings_"
)

const (
	// DefaultSearchDelayMS simulated network latency for catalog searches.
	DefaultSearchDelayMS = 1000

	// DefaultToastTTLMS visible lifetime of a toast before auto-dismiss.
	DefaultToastTTLMS = 3000

	// DefaultAssistTimeoutSec bounded wait for the generative API.
	DefaultAssistTimeoutSec = 15
)
