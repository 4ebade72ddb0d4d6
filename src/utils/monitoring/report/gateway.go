package report

import "go.uber.org/atomic"

type GatewayErrors struct {
	BadRequest           atomic.Uint64 `json:"bad_request"`
	Unauthorized         atomic.Uint64 `json:"unauthorized"`
	NotFound             atomic.Uint64 `json:"not_found"`
	DuplicateKey         atomic.Uint64 `json:"duplicate_key"`
	DbConnectivity       atomic.Uint64 `json:"db_connectivity"`
	DbError              atomic.Uint64 `json:"db_error"`
	PartialListResponses atomic.Uint64 `json:"partial_list_responses"`
	ChainCallFailures    atomic.Uint64 `json:"chain_call_failures"`
	UploadFailures       atomic.Uint64 `json:"upload_failures"`
	RecorderFailures     atomic.Uint64 `json:"recorder_failures"`
}

type GatewayState struct {
	ClaimRequestsCreated         atomic.Uint64 `json:"claim_requests_created"`
	ClaimRequestsCompleted       atomic.Uint64 `json:"claim_requests_completed"`
	ClaimRequestsRejected        atomic.Uint64 `json:"claim_requests_rejected"`
	TrustedIssuerRequestsCreated atomic.Uint64 `json:"trusted_issuer_requests_created"`
	TrustedIssuerRequestsClosed  atomic.Uint64 `json:"trusted_issuer_requests_closed"`
	TransactionsRecorded         atomic.Uint64 `json:"transactions_recorded"`
	AttachmentsStored            atomic.Uint64 `json:"attachments_stored"`
}

type GatewayReport struct {
	State  GatewayState  `json:"state"`
	Errors GatewayErrors `json:"errors"`
}
