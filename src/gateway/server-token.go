package gateway

import (
	"errors"
	"net/http"

	"claimgate/src/gateway/request"
	"claimgate/src/gateway/response"
	. "claimgate/src/utils/logger"
	"claimgate/src/utils/model"
	"claimgate/src/utils/publisher"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

const tokensCacheKey = "tokens"

// Lists deployed tokens from the clone factory, decorated with their
// off-chain documents. Per-token attachment failures degrade the
// response to partial instead of failing it.
func (self *Server) onGetTokens(c *gin.Context) {
	if self.contracts == nil || self.contracts.TokenCloneFactory == nil {
		self.monitor.Report.Gateway.Errors.ChainCallFailures.Inc()
		LOGE(c, nil, http.StatusServiceUnavailable).Error("Token factory is not configured")
		return
	}

	var addresses []common.Address
	if cached, ok := self.chainCache.Get(tokensCacheKey); ok {
		addresses = cached.([]common.Address)
	} else {
		var err error
		addresses, err = self.contracts.TokenCloneFactory.GetTokens(c)
		if err != nil {
			self.monitor.Report.Gateway.Errors.ChainCallFailures.Inc()
			LOGE(c, err, http.StatusServiceUnavailable).Error("Failed to list tokens from chain")
			return
		}
		self.chainCache.Set(tokensCacheKey, addresses, cache.DefaultExpiration)
	}

	out := &response.TokenList{Success: true, Tokens: make([]response.Token, 0, len(addresses))}
	for _, address := range addresses {
		token := response.Token{Address: model.NormalizeAddress(address.Hex())}

		attachments, err := self.store.ListAttachments(c, model.RelatedTypeToken, token.Address)
		if err != nil {
			LOG(c).WithError(err).WithField("token", token.Address).Warn("Failed to list token attachments")
			out.Partial = true
		} else {
			token.Attachments = attachments
		}

		out.Tokens = append(out.Tokens, token)
	}
	if out.Partial {
		self.monitor.Report.Gateway.Errors.PartialListResponses.Inc()
	}

	c.JSON(http.StatusOK, out)
}

// Records a token deployment and stores its documents
func (self *Server) onCreateToken(c *gin.Context) {
	var in = new(request.CreateToken)
	err := c.ShouldBind(in)
	if err != nil {
		self.failBadRequest(c, err, "Failed to parse request")
		return
	}

	if !common.IsHexAddress(in.TokenAddress) || !common.IsHexAddress(in.Creator) {
		self.failBadRequest(c, ErrMissingAddress, "Invalid token creation")
		return
	}
	if !isTxHash(in.TxHash) {
		self.failBadRequest(c, ErrMissingTxHash, "Invalid token creation")
		return
	}

	transaction := &model.Transaction{
		TxHash:          in.TxHash,
		From:            in.Creator,
		ContractAddress: in.TokenAddress,
		Type:            model.TransactionTypeTokenCreation,
		Metadata: map[string]string{
			"name":   in.Name,
			"symbol": in.Symbol,
		},
	}

	err = self.store.InsertTransaction(c, transaction)
	if err != nil {
		self.failStore(c, err, "Failed to record token creation")
		return
	}
	self.monitor.Report.Gateway.State.TransactionsRecorded.Inc()

	var attachments []*model.Attachment
	if form, formErr := c.MultipartForm(); formErr == nil && form != nil {
		attachments, err = self.saveAttachments(c, form.File["attachments"],
			model.RelatedTypeToken, model.NormalizeAddress(in.TokenAddress), in.Creator)
		if err != nil {
			self.monitor.Report.Gateway.Errors.UploadFailures.Inc()
			if errors.Is(err, ErrTooManyFiles) || errors.Is(err, ErrFileTooLarge) {
				self.failBadRequest(c, err, "Rejected attachments")
			} else {
				LOGE(c, err, http.StatusInternalServerError).Error("Failed to store attachments")
			}
			return
		}
	}

	// New deployment invalidates the cached token list
	self.chainCache.Delete(tokensCacheKey)

	self.emit(publisher.Event{
		Kind:   publisher.EventTransactionRecorded,
		Id:     transaction.ID.Hex(),
		Status: string(transaction.Status),
		TxHash: transaction.TxHash,
	})

	LOG(c).WithField("token", model.NormalizeAddress(in.TokenAddress)).Debug("Token creation recorded")
	c.JSON(http.StatusCreated, &response.TokenCreated{
		Success:     true,
		Transaction: transaction,
		Attachments: attachments,
	})
}
