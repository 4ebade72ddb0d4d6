package response

import (
	"claimgate/src/utils/model"
)

type ClaimRequest struct {
	Success bool                `json:"success"`
	Request *model.ClaimRequest `json:"request"`
}

type ClaimRequestList struct {
	Success  bool                  `json:"success"`
	Requests []*model.ClaimRequest `json:"requests"`

	// Set when chain-side enrichment failed and results are db-only
	Partial bool `json:"partial,omitempty"`
}

// On-chain view of a single claim, served by the chain check endpoint
type ClaimCheck struct {
	Success bool   `json:"success"`
	Exists  bool   `json:"exists"`
	Topic   int64  `json:"topic"`
	Issuer  string `json:"issuer"`
	Scheme  int64  `json:"scheme,omitempty"`
	Data    string `json:"data,omitempty"`
	URI     string `json:"uri,omitempty"`
}
