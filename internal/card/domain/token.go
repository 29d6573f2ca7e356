package domain

import (
	"time"
)

// ThreeDSecureStatus is the 3-D Secure verification state of a tokenized card.
type ThreeDSecureStatus string

const (
	ThreeDSecureUnverified ThreeDSecureStatus = "unverified"
	ThreeDSecureVerified   ThreeDSecureStatus = "verified"
	ThreeDSecureAttempted  ThreeDSecureStatus = "attempted"
	ThreeDSecureFailed     ThreeDSecureStatus = "failed"
	ThreeDSecureError      ThreeDSecureStatus = "error"
)

// Card is the non-sensitive view of a tokenized card returned by the gateway.
type Card struct {
	ID                 string
	Brand              Brand
	Last4              string
	ExpMonth           int
	ExpYear            int
	Name               string
	Fingerprint        string
	ThreeDSecureStatus *ThreeDSecureStatus
	CreatedAt          time.Time
}

// Token is a single-use card token created by the gateway.
type Token struct {
	ID        string
	Livemode  bool
	Used      bool
	Card      Card
	CreatedAt time.Time
}

// RequiresThreeDSecureFinish reports whether the card went through a challenge that
// still has to be finalized with tds_finish.
func (t *Token) RequiresThreeDSecureFinish() bool {
	return t.Card.ThreeDSecureStatus != nil && *t.Card.ThreeDSecureStatus == ThreeDSecureUnverified
}
