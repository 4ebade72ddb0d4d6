package response

import (
	"claimgate/src/utils/model"
)

type TrustedIssuerRequest struct {
	Success bool                        `json:"success"`
	Request *model.TrustedIssuerRequest `json:"request"`
}

type TrustedIssuerRequestList struct {
	Success  bool                          `json:"success"`
	Requests []*model.TrustedIssuerRequest `json:"requests"`
	Partial  bool                          `json:"partial,omitempty"`
}

type TrustedIssuerRequestCreated struct {
	Success     bool                        `json:"success"`
	Request     *model.TrustedIssuerRequest `json:"request"`
	Attachments []*model.Attachment         `json:"attachments,omitempty"`
}
