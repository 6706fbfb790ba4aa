package domain

import "time"

// Session records a credential issued for a consultation room. Sessions are
// dashboard hints only: the media platform owns real presence, so a session
// simply expires with its token instead of tracking joins and leaves.
type Session struct {
	RoomName       RoomName  `json:"roomName"`
	ConsultationID string    `json:"consultationId"`
	Identity       Identity  `json:"identity"`
	UserID         string    `json:"userId"`
	Role           Role      `json:"role"`
	IssuedAt       time.Time `json:"issuedAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// Expired reports whether the session's credential ttl has elapsed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SessionStats aggregates active sessions for the specialist dashboard.
type SessionStats struct {
	ActiveConsultations int   `json:"activeConsultations"`
	Participants        int   `json:"participants"`
	TokensIssued        int64 `json:"tokensIssued"`
}
