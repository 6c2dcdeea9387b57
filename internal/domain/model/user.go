package model

import (
	"strings"
	"time"

	"projectnest/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusFree     SubscriptionStatus = "free"
	SubscriptionStatusPremium  SubscriptionStatus = "premium"
	SubscriptionStatusLifetime SubscriptionStatus = "lifetime"
)

// UnlimitedCredits is stored for lifetime users.
const UnlimitedCredits = 999999

// User mirrors the identity handed to us by the auth provider plus its entitlement.
type User struct {
	ID                 string             `json:"id"`
	Username           string             `json:"username"`
	Email              string             `json:"email"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	PremiumCredits     int                `json:"premiumCredits"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

func NewUser(id, username, email string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		ID:                 id,
		Username:           username,
		Email:              email,
		SubscriptionStatus: SubscriptionStatusFree,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func (u *User) IsZero() bool     { return u == nil || u.ID == "" }
func (u *User) IsLifetime() bool { return u.SubscriptionStatus == SubscriptionStatusLifetime }

// CanDownloadPremium reports whether the gate for premium PDFs passes.
func (u *User) CanDownloadPremium() bool {
	return u.IsLifetime() || u.PremiumCredits > 0
}

// Entitlement is the (status, credits) pair written by a grant.
type Entitlement struct {
	Status  SubscriptionStatus
	Credits int
}

// EntitlementAfter computes the user's entitlement after buying pack.
// Grants never lower the tier: a lifetime user stays lifetime.
func EntitlementAfter(u *User, pack *PremiumPack) Entitlement {
	if pack.AccessType == AccessTypeLifetime || u.IsLifetime() {
		return Entitlement{Status: SubscriptionStatusLifetime, Credits: UnlimitedCredits}
	}
	credits := u.PremiumCredits
	if credits < 0 {
		credits = 0
	}
	return Entitlement{Status: SubscriptionStatusPremium, Credits: credits + pack.Credits()}
}
