package domain

import "fmt"

// Role is the participant role within a consultation. It is an open set at
// the API boundary: the media platform treats it as an opaque label, so
// unknown roles pass through (observer-style roles may appear later).
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// RoomName identifies a consultation room on the media platform.
type RoomName string

// Identity is the platform-visible participant label within a room.
type Identity string

// JoinRequest is a request to join a consultation call. It is transient:
// constructed per HTTP call, never persisted.
type JoinRequest struct {
	UserID         string `json:"userId"`
	Role           Role   `json:"role"`
	ConsultationID string `json:"consultationId"`
}

// HasRequiredFields reports whether all three required fields are present.
func (r JoinRequest) HasRequiredFields() bool {
	return r.UserID != "" && r.Role != "" && r.ConsultationID != ""
}

// RoomNameFor derives the canonical room name for a consultation. The same
// consultation always maps to the same room, so participants rendezvous
// without a lookup table.
func RoomNameFor(consultationID string) RoomName {
	return RoomName("consultation-" + consultationID)
}

// IdentityFor derives the participant identity for a (role, userId) pair.
// Distinct roles for the same user produce distinct identities.
func IdentityFor(role Role, userID string) Identity {
	return Identity(fmt.Sprintf("%s:%s", role, userID))
}
