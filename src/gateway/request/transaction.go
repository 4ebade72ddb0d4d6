package request

type RecordTransaction struct {
	TxHash          string            `json:"txHash"`
	From            string            `json:"from"`
	ContractAddress string            `json:"contractAddress"`
	Type            string            `json:"type"`
	Metadata        map[string]string `json:"metadata"`
}
