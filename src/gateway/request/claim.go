package request

type CreateClaimRequest struct {
	RequesterAddress string `json:"requesterAddress"`
	IdentityAddress  string `json:"identityAddress"`
	Topic            int64  `json:"topic"`
	Scheme           int64  `json:"scheme"`
	IssuerAddress    string `json:"issuerAddress"`
	Data             string `json:"data"`
	URI              string `json:"uri"`
}

type ApproveClaim struct {
	RequestId     string `json:"requestId"`
	IssuerAddress string `json:"issuerAddress"`

	// Hash of the addClaim transaction the issuer already submitted
	TxHash      string `json:"txHash"`
	IssuerNotes string `json:"issuerNotes"`
}

type RejectClaim struct {
	RequestId     string `json:"requestId"`
	IssuerAddress string `json:"issuerAddress"`
	Reason        string `json:"reason"`
}
