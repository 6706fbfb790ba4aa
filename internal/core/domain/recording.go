package domain

import "time"

// Recording describes an egress started for a consultation room.
type Recording struct {
	RoomName  RoomName  `json:"roomName"`
	EgressID  string    `json:"egressId"`
	FilePath  string    `json:"filePath"`
	StartedAt time.Time `json:"startedAt"`
}
