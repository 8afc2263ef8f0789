package domain

// RoomInfo is a read-only view of one live room.
type RoomInfo struct {
	ID          RoomID `json:"roomId"`
	MemberCount int    `json:"memberCount"`
}
