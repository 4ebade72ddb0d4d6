package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CollectionTrustedIssuerRequests = "trustedissuerrequests"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

func (self RequestStatus) IsValid() bool {
	switch self {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// An organization's application to become a trusted claim issuer
type TrustedIssuerRequest struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequesterAddress string             `bson:"requesterAddress" json:"requesterAddress"`
	OrganizationName string             `bson:"organizationName" json:"organizationName"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	Email            string             `bson:"email,omitempty" json:"email,omitempty"`
	Website          string             `bson:"website,omitempty" json:"website,omitempty"`

	// Claim topics the organization wants to attest
	Topics []int64 `bson:"topics" json:"topics"`

	Status RequestStatus `bson:"status" json:"status"`

	// Address of the ONCHAINID the registry entry points at, set upon approval
	IssuerContractAddress string `bson:"issuerContractAddress,omitempty" json:"issuerContractAddress,omitempty"`
	ApprovalTxHash        string `bson:"approvalTxHash,omitempty" json:"approvalTxHash,omitempty"`
	RejectionReason       string `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`

	ReviewedBy string     `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
}

func (self *TrustedIssuerRequest) Normalize() {
	self.RequesterAddress = NormalizeAddress(self.RequesterAddress)
	self.IssuerContractAddress = NormalizeAddress(self.IssuerContractAddress)
	self.ReviewedBy = NormalizeAddress(self.ReviewedBy)
}

type TrustedIssuerRequestFilter struct {
	Requester string
	Status    RequestStatus
	Limit     int64
}
