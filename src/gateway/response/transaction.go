package response

import (
	"claimgate/src/utils/model"
)

type TransactionList struct {
	Success      bool                 `json:"success"`
	Transactions []*model.Transaction `json:"transactions"`
	Partial      bool                 `json:"partial,omitempty"`
}

// Returned with 202 Accepted, persistence happens in the background
type TransactionAccepted struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash"`
	Status  string `json:"status"`
}
