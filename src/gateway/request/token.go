package request

// Bound from a multipart form, token documents ride along as files
type CreateToken struct {
	TokenAddress string `form:"tokenAddress" json:"tokenAddress"`
	Creator      string `form:"creator" json:"creator"`
	TxHash       string `form:"txHash" json:"txHash"`
	Name         string `form:"name" json:"name"`
	Symbol       string `form:"symbol" json:"symbol"`
}
