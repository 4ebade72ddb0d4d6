package publisher

import (
	"encoding/json"
	"time"
)

// Published to the Redis channel whenever a document changes state
type Event struct {
	Kind      string    `json:"kind"`
	Id        string    `json:"id"`
	Status    string    `json:"status,omitempty"`
	TxHash    string    `json:"tx_hash,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventClaimRequestCreated         = "claim-request-created"
	EventClaimRequestCompleted       = "claim-request-completed"
	EventClaimRequestRejected        = "claim-request-rejected"
	EventTrustedIssuerRequestCreated = "trusted-issuer-request-created"
	EventTrustedIssuerRequestClosed  = "trusted-issuer-request-closed"
	EventTransactionRecorded         = "transaction-recorded"
	EventTransactionConfirmed        = "transaction-confirmed"
	EventTransactionFailed           = "transaction-failed"
)

func (self Event) MarshalBinary() ([]byte, error) {
	return json.Marshal(self)
}
