package models

import "time"

type NotificationType string

const (
	NotificationChallengeReceived NotificationType = "challenge-received"
	NotificationChallengeSent     NotificationType = "challenge-sent"
	NotificationChallengeAccepted NotificationType = "challenge-accepted"
	NotificationChallengeRejected NotificationType = "challenge-rejected"
	NotificationMatchReminder     NotificationType = "match-reminder"
	NotificationGeneral           NotificationType = "general"
)

// ChallengeDetails is the extra payload attached to challenge notifications,
// enough to decide the accept flow (singles vs doubles) without another fetch.
type ChallengeDetails struct {
	IsSingles             bool   `json:"isSingles"`
	ChallengerID          string `json:"challengerId"`
	ChallengerName        string `json:"challengerName"`
	ChallengerPartnerID   string `json:"challengerPartnerId,omitempty"`
	ChallengerPartnerName string `json:"challengerPartnerName,omitempty"`
}

// Notification is a server-owned notification record; the client holds a
// read-through list of these.
type Notification struct {
	ID               string            `json:"_id"`
	UserID           string            `json:"userId"`
	Title            string            `json:"title"`
	Message          string            `json:"message"`
	Type             NotificationType  `json:"type"`
	RelatedID        string            `json:"relatedId,omitempty"`
	Read             bool              `json:"read"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	ChallengeDetails *ChallengeDetails `json:"challengeDetails,omitempty"`
}
