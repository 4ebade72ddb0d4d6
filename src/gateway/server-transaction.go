package gateway

import (
	"errors"
	"net/http"

	"claimgate/src/gateway/request"
	"claimgate/src/gateway/response"
	. "claimgate/src/utils/logger"
	"claimgate/src/utils/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// Accepts a transaction for background recording, 202 means queued
func (self *Server) onRecordTransaction(c *gin.Context) {
	var in = new(request.RecordTransaction)
	err := c.ShouldBindJSON(in)
	if err != nil {
		self.failBadRequest(c, err, "Failed to parse request")
		return
	}

	if !isTxHash(in.TxHash) {
		self.failBadRequest(c, ErrMissingTxHash, "Invalid transaction")
		return
	}
	if !common.IsHexAddress(in.From) {
		self.failBadRequest(c, ErrMissingAddress, "Invalid transaction")
		return
	}
	if in.ContractAddress != "" && !common.IsHexAddress(in.ContractAddress) {
		self.failBadRequest(c, ErrMissingAddress, "Invalid transaction")
		return
	}

	transactionType := model.TransactionType(in.Type)
	if in.Type == "" {
		transactionType = model.TransactionTypeOther
	}
	if !transactionType.IsValid() {
		self.failBadRequest(c, errors.New("invalid transaction type"), "Invalid transaction")
		return
	}

	queued := self.record(&model.Transaction{
		TxHash:          in.TxHash,
		From:            in.From,
		ContractAddress: in.ContractAddress,
		Type:            transactionType,
		Metadata:        in.Metadata,
	})
	if !queued {
		LOGE(c, nil, http.StatusServiceUnavailable).Error("Transaction recorder is not accepting submissions")
		return
	}

	c.JSON(http.StatusAccepted, &response.TransactionAccepted{
		Success: true,
		TxHash:  model.NormalizeAddress(in.TxHash),
		Status:  string(model.TransactionStatusPending),
	})
}

func (self *Server) onGetTransactions(c *gin.Context) {
	address := c.Query("address")
	if address != "" && !common.IsHexAddress(address) {
		self.failBadRequest(c, ErrMissingAddress, "Invalid address")
		return
	}

	filter := model.TransactionFilter{
		From:   address,
		Type:   model.TransactionType(c.Query("type")),
		Status: model.TransactionStatus(c.Query("status")),
		Limit:  self.listLimit(queryInt(c, "limit")),
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		self.failBadRequest(c, errors.New("invalid transaction type"), "Invalid type")
		return
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		self.failBadRequest(c, errors.New("invalid transaction status"), "Invalid status")
		return
	}

	transactions, err := self.store.ListTransactions(c, filter)
	if err != nil {
		self.failStore(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, &response.TransactionList{Success: true, Transactions: transactions})
}
