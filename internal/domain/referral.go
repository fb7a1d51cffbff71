package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferralStatus enumerates referral lifecycle states.
type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "pending"
	ReferralStatusContacted ReferralStatus = "contacted"
	ReferralStatusConverted ReferralStatus = "converted"
	ReferralStatusExpired   ReferralStatus = "expired"
)

// Referral records a client introducing a prospect to the agency.
// RewardAmount is set when the referral converts.
type Referral struct {
	ID            string
	ReferrerID    string
	ReferredName  string
	ReferredEmail string
	Status        ReferralStatus
	RewardAmount  decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var referralTransitions = map[ReferralStatus][]ReferralStatus{
	ReferralStatusPending:   {ReferralStatusContacted, ReferralStatusConverted, ReferralStatusExpired},
	ReferralStatusContacted: {ReferralStatusConverted, ReferralStatusExpired},
	ReferralStatusConverted: {},
	ReferralStatusExpired:   {},
}

// CanTransitionTo reports whether the edge s -> next is meaningful.
func (s ReferralStatus) CanTransitionTo(next ReferralStatus) bool {
	if s == next {
		return true
	}
	for _, candidate := range referralTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}
