package validation

import (
	"fmt"
	"strings"
	"unicode"
)

// Identifiers are opaque labels the media platform passes through, so any
// non-empty string a client sends is accepted. Only length is capped and
// control characters are rejected; email-style ids, dots and unicode are all
// fine. The one structural rule lives on roles: no ':' there, so the
// role:userId identity encoding stays parseable at the first colon.

func hasControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// ValidateUserID validates a user identifier
func ValidateUserID(userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("userId is required")
	}
	if len(userID) > 128 {
		return fmt.Errorf("userId is too long (max 128 characters)")
	}
	if hasControlChars(userID) {
		return fmt.Errorf("userId must not contain control characters")
	}
	return nil
}

// ValidateConsultationID validates a consultation identifier
func ValidateConsultationID(consultationID string) error {
	consultationID = strings.TrimSpace(consultationID)
	if consultationID == "" {
		return fmt.Errorf("consultationId is required")
	}
	if len(consultationID) > 128 {
		return fmt.Errorf("consultationId is too long (max 128 characters)")
	}
	if hasControlChars(consultationID) {
		return fmt.Errorf("consultationId must not contain control characters")
	}
	return nil
}

// ValidateRole validates a participant role. Roles outside the known set are
// allowed through; the media platform treats the role as an opaque label.
func ValidateRole(role string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return fmt.Errorf("role is required")
	}
	if len(role) > 64 {
		return fmt.Errorf("role is too long (max 64 characters)")
	}
	if strings.Contains(role, ":") {
		return fmt.Errorf("role must not contain ':'")
	}
	if hasControlChars(role) {
		return fmt.Errorf("role must not contain control characters")
	}
	return nil
}

// ValidateRoomName validates a room name. Room names end up in egress file
// paths, so path separators are rejected on top of the usual rules.
func ValidateRoomName(roomName string) error {
	roomName = strings.TrimSpace(roomName)
	if roomName == "" {
		return fmt.Errorf("roomName is required")
	}
	if len(roomName) > 256 {
		return fmt.Errorf("roomName is too long (max 256 characters)")
	}
	if hasControlChars(roomName) {
		return fmt.Errorf("roomName must not contain control characters")
	}
	if strings.ContainsAny(roomName, `/\`) {
		return fmt.Errorf("roomName must not contain path separators")
	}
	return nil
}
