package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTP purposes.
const (
	OtpPurposeSignup = "signup"
	OtpPurposeReset  = "reset"
)

// OTP is a one-time email verification code. Records expire via a TTL
// index on ExpiresAt; verification always picks the most recent unused
// record for an (email, purpose) pair, so stale codes are simply ignored.
type OTP struct {
	Id        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Purpose   string             `bson:"purpose" json:"purpose"`
	Code      string             `bson:"code" json:"-"`
	Used      bool               `bson:"used" json:"used"`
	Attempts  int                `bson:"attempts" json:"attempts"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
