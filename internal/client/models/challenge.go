package models

import "time"

type ChallengeState string

const (
	ChallengePending  ChallengeState = "pending"
	ChallengeAccepted ChallengeState = "accepted"
	ChallengeRejected ChallengeState = "rejected"
	ChallengeExpired  ChallengeState = "expired"
)

// MatchChallenge is a head-to-head (or doubles) challenge between players.
type MatchChallenge struct {
	ID        string         `json:"_id"`
	FromUser  UserRef        `json:"fromUser"`
	ToUser    UserRef        `json:"toUser"`
	Status    ChallengeState `json:"status"`
	Message   string         `json:"message,omitempty"`
	IsSingles bool           `json:"isSingles"`
	Partner   *UserRef       `json:"partnerId,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

type ChallengeReason string

const (
	ReasonNone         ChallengeReason = ""
	ReasonPending      ChallengeReason = "pending"
	ReasonLimitReached ChallengeReason = "limit_reached"
)

// ChallengeStatus is the per-target eligibility record returned by the
// status endpoints. Reason is only set when CanChallenge is false.
type ChallengeStatus struct {
	CanChallenge       bool            `json:"canChallenge"`
	Reason             ChallengeReason `json:"reason,omitempty"`
	ChallengeID        string          `json:"challengeId,omitempty"`
	IsSender           bool            `json:"isSender,omitempty"`
	ChallengesThisWeek int             `json:"challengesThisWeek,omitempty"`
}

// SendChallengeRequest is the payload for creating a challenge.
type SendChallengeRequest struct {
	ToUserID  string `json:"toUserId"`
	Message   string `json:"message,omitempty"`
	IsSingles bool   `json:"isSingles"`
	PartnerID string `json:"partnerId,omitempty"`
}
