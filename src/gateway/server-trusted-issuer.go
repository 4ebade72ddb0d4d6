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
)

var ErrMissingTopics = errors.New("at least one claim topic is required")

func (self *Server) onCreateTrustedIssuerRequest(c *gin.Context) {
	var in = new(request.CreateTrustedIssuerRequest)
	err := c.ShouldBind(in)
	if err != nil {
		self.failBadRequest(c, err, "Failed to parse request")
		return
	}

	if !common.IsHexAddress(in.RequesterAddress) {
		self.failBadRequest(c, ErrMissingAddress, "Invalid trusted issuer request")
		return
	}
	if in.OrganizationName == "" {
		self.failBadRequest(c, errors.New("missing organization name"), "Invalid trusted issuer request")
		return
	}
	if len(in.Topics) == 0 {
		self.failBadRequest(c, ErrMissingTopics, "Invalid trusted issuer request")
		return
	}
	for _, topic := range in.Topics {
		if topic <= 0 {
			self.failBadRequest(c, ErrMissingTopic, "Invalid trusted issuer request")
			return
		}
	}

	issuerRequest := &model.TrustedIssuerRequest{
		RequesterAddress: in.RequesterAddress,
		OrganizationName: in.OrganizationName,
		Description:      in.Description,
		Email:            in.Email,
		Website:          in.Website,
		Topics:           in.Topics,
	}

	err = self.store.InsertTrustedIssuerRequest(c, issuerRequest)
	if err != nil {
		self.failStore(c, err, "Failed to insert trusted issuer request")
		return
	}

	// Supporting documents are optional
	var attachments []*model.Attachment
	if form, formErr := c.MultipartForm(); formErr == nil && form != nil {
		attachments, err = self.saveAttachments(c, form.File["attachments"],
			model.RelatedTypeTrustedIssuerRequest, issuerRequest.ID.Hex(), in.RequesterAddress)
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

	self.monitor.Report.Gateway.State.TrustedIssuerRequestsCreated.Inc()
	self.emit(publisher.Event{
		Kind:   publisher.EventTrustedIssuerRequestCreated,
		Id:     issuerRequest.ID.Hex(),
		Status: string(issuerRequest.Status),
	})

	LOG(c).WithField("id", issuerRequest.ID.Hex()).Debug("Trusted issuer request created")
	c.JSON(http.StatusCreated, &response.TrustedIssuerRequestCreated{
		Success:     true,
		Request:     issuerRequest,
		Attachments: attachments,
	})
}

func (self *Server) onGetTrustedIssuerRequests(c *gin.Context) {
	address := c.Query("address")
	if address != "" && !common.IsHexAddress(address) {
		self.failBadRequest(c, ErrMissingAddress, "Invalid address")
		return
	}

	filter := model.TrustedIssuerRequestFilter{
		Requester: address,
		Status:    model.RequestStatus(c.Query("status")),
		Limit:     self.listLimit(queryInt(c, "limit")),
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		self.failBadRequest(c, errors.New("invalid status"), "Invalid status")
		return
	}

	requests, err := self.store.ListTrustedIssuerRequests(c, filter)
	if err != nil {
		self.failStore(c, err, "Failed to list trusted issuer requests")
		return
	}

	c.JSON(http.StatusOK, &response.TrustedIssuerRequestList{Success: true, Requests: requests})
}

func (self *Server) onApproveTrustedIssuer(c *gin.Context) {
	var in = new(request.ApproveTrustedIssuerRequest)
	err := c.ShouldBindJSON(in)
	if err != nil {
		self.failBadRequest(c, err, "Failed to parse request")
		return
	}

	if in.RequestId == "" {
		self.failBadRequest(c, ErrMissingRequestId, "Invalid approval")
		return
	}
	if !common.IsHexAddress(in.IssuerContractAddress) || !common.IsHexAddress(in.ReviewedBy) {
		self.failBadRequest(c, ErrMissingAddress, "Invalid approval")
		return
	}
	if !isTxHash(in.TxHash) {
		self.failBadRequest(c, ErrMissingTxHash, "Invalid approval")
		return
	}

	issuerRequest, err := self.store.GetTrustedIssuerRequest(c, in.RequestId)
	if err != nil {
		self.failStore(c, err, "Failed to get trusted issuer request")
		return
	}

	ok, err := self.store.ApproveTrustedIssuerRequest(c, in.RequestId, in.IssuerContractAddress, in.TxHash, in.ReviewedBy)
	if err != nil {
		self.failStore(c, err, "Failed to approve trusted issuer request")
		return
	}
	if !ok {
		self.failBadRequest(c, ErrRequestNotPending, "Trusted issuer request is not pending")
		return
	}

	self.monitor.Report.Gateway.State.TrustedIssuerRequestsClosed.Inc()
	self.emit(publisher.Event{
		Kind:   publisher.EventTrustedIssuerRequestClosed,
		Id:     in.RequestId,
		Status: string(model.RequestStatusApproved),
		TxHash: model.NormalizeAddress(in.TxHash),
	})

	self.record(&model.Transaction{
		TxHash:          in.TxHash,
		From:            in.ReviewedBy,
		ContractAddress: in.IssuerContractAddress,
		Type:            model.TransactionTypeTrustedIssuerApprove,
		Metadata: map[string]string{
			"requestId":    in.RequestId,
			"organization": issuerRequest.OrganizationName,
		},
	})

	updated, err := self.store.GetTrustedIssuerRequest(c, in.RequestId)
	if err != nil {
		self.failStore(c, err, "Failed to get trusted issuer request")
		return
	}

	LOG(c).WithField("id", in.RequestId).Debug("Trusted issuer request approved")
	c.JSON(http.StatusOK, &response.TrustedIssuerRequest{Success: true, Request: updated})
}

func (self *Server) onRejectTrustedIssuer(c *gin.Context) {
	var in = new(request.RejectTrustedIssuerRequest)
	err := c.ShouldBindJSON(in)
	if err != nil {
		self.failBadRequest(c, err, "Failed to parse request")
		return
	}

	if in.RequestId == "" {
		self.failBadRequest(c, ErrMissingRequestId, "Invalid rejection")
		return
	}
	if !common.IsHexAddress(in.ReviewedBy) {
		self.failBadRequest(c, ErrMissingAddress, "Invalid rejection")
		return
	}

	_, err = self.store.GetTrustedIssuerRequest(c, in.RequestId)
	if err != nil {
		self.failStore(c, err, "Failed to get trusted issuer request")
		return
	}

	ok, err := self.store.RejectTrustedIssuerRequest(c, in.RequestId, in.Reason, in.ReviewedBy)
	if err != nil {
		self.failStore(c, err, "Failed to reject trusted issuer request")
		return
	}
	if !ok {
		self.failBadRequest(c, ErrRequestNotPending, "Trusted issuer request is not pending")
		return
	}

	self.monitor.Report.Gateway.State.TrustedIssuerRequestsClosed.Inc()
	self.emit(publisher.Event{
		Kind:   publisher.EventTrustedIssuerRequestClosed,
		Id:     in.RequestId,
		Status: string(model.RequestStatusRejected),
	})

	updated, err := self.store.GetTrustedIssuerRequest(c, in.RequestId)
	if err != nil {
		self.failStore(c, err, "Failed to get trusted issuer request")
		return
	}

	LOG(c).WithField("id", in.RequestId).Debug("Trusted issuer request rejected")
	c.JSON(http.StatusOK, &response.TrustedIssuerRequest{Success: true, Request: updated})
}
