package domain

import "time"

// Participant is a connection that has announced itself with user_joined
type Participant struct {
	ConnectionID string    `json:"id"`
	DisplayName  string    `json:"username"`
	JoinedAt     time.Time `json:"joinedAt"`
}

// NewParticipant stamps JoinedAt with the current time
func NewParticipant(connectionID, displayName string) Participant {
	return Participant{
		ConnectionID: connectionID,
		DisplayName:  displayName,
		JoinedAt:     time.Now().UTC(),
	}
}
