package domain

// NotificationMessage is the envelope placed on the notification
// queue. The API server only constructs it; delivery is the notifier
// worker's problem.
type NotificationMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type SchedulePublishedData struct {
	ScheduleID   int64   `json:"scheduleID"`
	BusinessID   int64   `json:"businessID"`
	WeekStart    string  `json:"weekStart"`
	Action       string  `json:"action"`
	ActorName    string  `json:"actorName"`
	RecipientIDs []int64 `json:"recipientIDs"`
}

type ResetPasswordData struct {
	To         string `json:"to"`
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type NewAccountData struct {
	To       string `json:"to"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}
