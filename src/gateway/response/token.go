package response

import (
	"claimgate/src/utils/model"
)

// A deployed token address plus the off-chain documents tied to it
type Token struct {
	Address     string              `json:"address"`
	Attachments []*model.Attachment `json:"attachments,omitempty"`
}

type TokenList struct {
	Success bool    `json:"success"`
	Tokens  []Token `json:"tokens"`

	// Set when attachment lookups failed for some tokens
	Partial bool `json:"partial,omitempty"`
}

type TokenCreated struct {
	Success     bool                `json:"success"`
	Transaction *model.Transaction  `json:"transaction"`
	Attachments []*model.Attachment `json:"attachments,omitempty"`
}
