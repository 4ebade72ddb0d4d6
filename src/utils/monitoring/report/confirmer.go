package report

import "go.uber.org/atomic"

type ConfirmerErrors struct {
	PollFailures    atomic.Uint64 `json:"poll_failures"`
	ReceiptFailures atomic.Uint64 `json:"receipt_failures"`
	UpdateFailures  atomic.Uint64 `json:"update_failures"`
	DecodeFailures  atomic.Uint64 `json:"decode_failures"`
}

type ConfirmerState struct {
	TxsChecked    atomic.Uint64 `json:"txs_checked"`
	TxsConfirmed  atomic.Uint64 `json:"txs_confirmed"`
	TxsFailed     atomic.Uint64 `json:"txs_failed"`
	TxsAgedOut    atomic.Uint64 `json:"txs_aged_out"`
	InputsDecoded atomic.Uint64 `json:"inputs_decoded"`
}

type ConfirmerReport struct {
	State  ConfirmerState  `json:"state"`
	Errors ConfirmerErrors `json:"errors"`
}
