package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CollectionClaimRequests = "claimrequests"
)

type ClaimStatus string

const (
	ClaimStatusPending   ClaimStatus = "pending"
	ClaimStatusApproved  ClaimStatus = "approved"
	ClaimStatusRejected  ClaimStatus = "rejected"
	ClaimStatusCompleted ClaimStatus = "completed"
)

func (self ClaimStatus) IsValid() bool {
	switch self {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected, ClaimStatusCompleted:
		return true
	}
	return false
}

// Rejected and completed requests accept no further transitions
func (self ClaimStatus) IsTerminal() bool {
	return self == ClaimStatusRejected || self == ClaimStatusCompleted
}

// A user's ask for a trusted issuer to attest a claim on their Identity contract
type ClaimRequest struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequesterAddress string             `bson:"requesterAddress" json:"requesterAddress"`
	IdentityAddress  string             `bson:"identityAddress" json:"identityAddress"`
	Topic            int64              `bson:"topic" json:"topic"`
	Scheme           int64              `bson:"scheme" json:"scheme"`
	IssuerAddress    string             `bson:"issuerAddress" json:"issuerAddress"`
	Signature        string             `bson:"signature,omitempty" json:"signature,omitempty"`

	// Hex encoded claim data
	Data string `bson:"data,omitempty" json:"data,omitempty"`
	URI  string `bson:"uri,omitempty" json:"uri,omitempty"`

	Status ClaimStatus `bson:"status" json:"status"`

	// Hash of the issuer-signed addClaim transaction, set upon approval
	ClaimTxHash     string `bson:"claimTxHash,omitempty" json:"claimTxHash,omitempty"`
	RejectionReason string `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	IssuerNotes     string `bson:"issuerNotes,omitempty" json:"issuerNotes,omitempty"`

	ReviewedBy string     `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Address equality is case-insensitive, addresses are stored lower-cased
func (self *ClaimRequest) Normalize() {
	self.RequesterAddress = NormalizeAddress(self.RequesterAddress)
	self.IdentityAddress = NormalizeAddress(self.IdentityAddress)
	self.IssuerAddress = NormalizeAddress(self.IssuerAddress)
	self.ReviewedBy = NormalizeAddress(self.ReviewedBy)
}

func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

type ClaimRequestFilter struct {
	Requester string
	Issuer    string
	Identity  string
	Status    ClaimStatus
	Limit     int64
}

type ClaimRequestStatistics struct {
	Total              int64                 `json:"total"`
	StatusDistribution map[ClaimStatus]int64 `json:"statusDistribution"`
	TopicDistribution  map[int64]int64       `json:"topicDistribution"`
}
