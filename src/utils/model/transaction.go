package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CollectionTransactions = "transactions"
)

type TransactionType string

const (
	TransactionTypeIdentityRegistration TransactionType = "identity-registration"
	TransactionTypeIdentityClaimAdd     TransactionType = "identity-claim-add"
	TransactionTypeIdentityClaimRemove  TransactionType = "identity-claim-remove"
	TransactionTypeTrustedIssuerRequest TransactionType = "trusted-issuer-request"
	TransactionTypeTrustedIssuerApprove TransactionType = "trusted-issuer-approval"
	TransactionTypeTokenCreation        TransactionType = "token-creation"
	TransactionTypeTokenPurchase        TransactionType = "token-purchase"
	TransactionTypeTokenTransfer        TransactionType = "token-transfer"
	TransactionTypeOther                TransactionType = "other"
)

func (self TransactionType) IsValid() bool {
	switch self {
	case TransactionTypeIdentityRegistration,
		TransactionTypeIdentityClaimAdd,
		TransactionTypeIdentityClaimRemove,
		TransactionTypeTrustedIssuerRequest,
		TransactionTypeTrustedIssuerApprove,
		TransactionTypeTokenCreation,
		TransactionTypeTokenPurchase,
		TransactionTypeTokenTransfer,
		TransactionTypeOther:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

func (self TransactionStatus) IsValid() bool {
	switch self {
	case TransactionStatusPending, TransactionStatusConfirmed, TransactionStatusFailed:
		return true
	}
	return false
}

// Audit record mirroring a submitted on-chain transaction.
// The chain stays authoritative, this is bookkeeping.
type Transaction struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TxHash          string             `bson:"txHash" json:"txHash"`
	From            string             `bson:"from" json:"from"`
	ContractAddress string             `bson:"contractAddress,omitempty" json:"contractAddress,omitempty"`

	Type   TransactionType   `bson:"type" json:"type"`
	Status TransactionStatus `bson:"status" json:"status"`

	// Filled by the confirmer once a receipt shows up
	BlockNumber uint64 `bson:"blockNumber,omitempty" json:"blockNumber,omitempty"`
	GasUsed     uint64 `bson:"gasUsed,omitempty" json:"gasUsed,omitempty"`

	Metadata map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (self *Transaction) Normalize() {
	self.TxHash = NormalizeAddress(self.TxHash)
	self.From = NormalizeAddress(self.From)
	self.ContractAddress = NormalizeAddress(self.ContractAddress)
}

type TransactionFilter struct {
	From   string
	Type   TransactionType
	Status TransactionStatus
	Limit  int64
}
