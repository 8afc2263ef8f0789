// Package domain contains entity without logic, just meta-data
package domain

// Participant is what other members learn about a user: the payload of
// user-joined and one entry of the participants snapshot.
// Username and IsSpeaker are taken from the client as is.
type Participant struct {
	UserID    UserID `json:"userId"`
	Username  string `json:"username"`
	IsSpeaker bool   `json:"isSpeaker"`
}
