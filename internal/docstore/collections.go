package docstore

// Collection names used across the service.
const (
	CollUsers         = "users"
	CollMechanics     = "mechanics"
	CollRequests      = "breakdown_requests"
	CollFeedback      = "mechanic_feedback"
	CollReports       = "mechanic_reports"
	CollPosts         = "posts"
	CollNotifications = "mechanic_system_notifications"
)
