package request

// Bound from a multipart form, attachments ride along as files
type CreateTrustedIssuerRequest struct {
	RequesterAddress string  `form:"requesterAddress" json:"requesterAddress"`
	OrganizationName string  `form:"organizationName" json:"organizationName"`
	Description      string  `form:"description" json:"description"`
	Email            string  `form:"email" json:"email"`
	Website          string  `form:"website" json:"website"`
	Topics           []int64 `form:"topics" json:"topics"`
}

type ApproveTrustedIssuerRequest struct {
	RequestId             string `json:"requestId"`
	IssuerContractAddress string `json:"issuerContractAddress"`
	TxHash                string `json:"txHash"`
	ReviewedBy            string `json:"reviewedBy"`
}

type RejectTrustedIssuerRequest struct {
	RequestId  string `json:"requestId"`
	Reason     string `json:"reason"`
	ReviewedBy string `json:"reviewedBy"`
}
