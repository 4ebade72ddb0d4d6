package gateway

import (
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"

	"claimgate/src/gateway/request"
	"claimgate/src/gateway/response"
	"claimgate/src/utils/eth"
	. "claimgate/src/utils/logger"
	"claimgate/src/utils/model"
	"claimgate/src/utils/publisher"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
)

var (
	ErrMissingAddress    = errors.New("missing or invalid address")
	ErrMissingTopic      = errors.New("missing or invalid topic")
	ErrMissingRequestId  = errors.New("missing request id")
	ErrMissingTxHash     = errors.New("missing transaction hash")
	ErrRequestNotPending = errors.New("request is not pending")
)

func (self *Server) onCreateClaimRequest(c *gin.Context) {
	var in = new(request.CreateClaimRequest)
	err := c.ShouldBindJSON(in)
	if err != nil {
		self.failBadRequest(c, err, "Failed to parse request")
		return
	}

	if !common.IsHexAddress(in.RequesterAddress) ||
		!common.IsHexAddress(in.IdentityAddress) ||
		!common.IsHexAddress(in.IssuerAddress) {
		self.failBadRequest(c, ErrMissingAddress, "Invalid claim request")
		return
	}
	if in.Topic <= 0 {
		self.failBadRequest(c, ErrMissingTopic, "Invalid claim request")
		return
	}

	claimRequest := &model.ClaimRequest{
		RequesterAddress: in.RequesterAddress,
		IdentityAddress:  in.IdentityAddress,
		Topic:            in.Topic,
		Scheme:           in.Scheme,
		IssuerAddress:    in.IssuerAddress,
		Data:             encodeClaimData(in.Data),
		URI:              in.URI,
	}

	err = self.store.InsertClaimRequest(c, claimRequest)
	if err != nil {
		self.failStore(c, err, "Failed to insert claim request")
		return
	}

	self.monitor.Report.Gateway.State.ClaimRequestsCreated.Inc()
	self.emit(publisher.Event{
		Kind:   publisher.EventClaimRequestCreated,
		Id:     claimRequest.ID.Hex(),
		Status: string(claimRequest.Status),
	})

	LOG(c).WithField("id", claimRequest.ID.Hex()).Debug("Claim request created")
	c.JSON(http.StatusCreated, &response.ClaimRequest{Success: true, Request: claimRequest})
}

// Requester, issuer and status filters combine freely, none is required
func (self *Server) onGetClaimRequests(c *gin.Context) {
	address := c.Query("address")
	if address != "" && !common.IsHexAddress(address) {
		self.failBadRequest(c, ErrMissingAddress, "Invalid address")
		return
	}
	issuer := c.Query("issuer")
	if issuer != "" && !common.IsHexAddress(issuer) {
		self.failBadRequest(c, ErrMissingAddress, "Invalid issuer address")
		return
	}

	filter := model.ClaimRequestFilter{
		Requester: address,
		Issuer:    issuer,
		Status:    model.ClaimStatus(c.Query("status")),
		Limit:     self.listLimit(queryInt(c, "limit")),
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		self.failBadRequest(c, errors.New("invalid status"), "Invalid status")
		return
	}

	requests, err := self.store.ListClaimRequests(c, filter)
	if err != nil {
		self.failStore(c, err, "Failed to list claim requests")
		return
	}

	c.JSON(http.StatusOK, &response.ClaimRequestList{Success: true, Requests: requests})
}

func (self *Server) onApproveClaim(c *gin.Context) {
	var in = new(request.ApproveClaim)
	err := c.ShouldBindJSON(in)
	if err != nil {
		self.failBadRequest(c, err, "Failed to parse request")
		return
	}

	if in.RequestId == "" {
		self.failBadRequest(c, ErrMissingRequestId, "Invalid approval")
		return
	}
	if !common.IsHexAddress(in.IssuerAddress) {
		self.failBadRequest(c, ErrMissingAddress, "Invalid approval")
		return
	}
	if !isTxHash(in.TxHash) {
		self.failBadRequest(c, ErrMissingTxHash, "Invalid approval")
		return
	}

	claimRequest, err := self.store.GetClaimRequest(c, in.RequestId)
	if err != nil {
		self.failStore(c, err, "Failed to get claim request")
		return
	}

	if claimRequest.IssuerAddress != model.NormalizeAddress(in.IssuerAddress) {
		self.failUnauthorized(c, "Issuer does not match the request")
		return
	}

	// Best effort chain-side sanity check, connectivity problems don't
	// block the approval
	self.checkIssuerTrusted(c, in.IssuerAddress, claimRequest.Topic)
	if c.IsAborted() {
		return
	}

	ok, err := self.store.CompleteClaimRequest(c, in.RequestId, in.TxHash, in.IssuerAddress)
	if err != nil {
		self.failStore(c, err, "Failed to complete claim request")
		return
	}
	if !ok {
		self.failBadRequest(c, ErrRequestNotPending, "Claim request is not pending")
		return
	}

	self.monitor.Report.Gateway.State.ClaimRequestsCompleted.Inc()
	self.emit(publisher.Event{
		Kind:   publisher.EventClaimRequestCompleted,
		Id:     in.RequestId,
		Status: string(model.ClaimStatusCompleted),
		TxHash: model.NormalizeAddress(in.TxHash),
	})

	self.record(&model.Transaction{
		TxHash:          in.TxHash,
		From:            in.IssuerAddress,
		ContractAddress: claimRequest.IdentityAddress,
		Type:            model.TransactionTypeIdentityClaimAdd,
		Metadata: map[string]string{
			"requestId": in.RequestId,
			"topic":     strconv.FormatInt(claimRequest.Topic, 10),
		},
	})

	updated, err := self.store.GetClaimRequest(c, in.RequestId)
	if err != nil {
		self.failStore(c, err, "Failed to get claim request")
		return
	}

	LOG(c).WithField("id", in.RequestId).Debug("Claim request completed")
	c.JSON(http.StatusOK, &response.ClaimRequest{Success: true, Request: updated})
}

func (self *Server) onRejectClaim(c *gin.Context) {
	var in = new(request.RejectClaim)
	err := c.ShouldBindJSON(in)
	if err != nil {
		self.failBadRequest(c, err, "Failed to parse request")
		return
	}

	if in.RequestId == "" {
		self.failBadRequest(c, ErrMissingRequestId, "Invalid rejection")
		return
	}
	if !common.IsHexAddress(in.IssuerAddress) {
		self.failBadRequest(c, ErrMissingAddress, "Invalid rejection")
		return
	}

	claimRequest, err := self.store.GetClaimRequest(c, in.RequestId)
	if err != nil {
		self.failStore(c, err, "Failed to get claim request")
		return
	}

	// The guarded update filters on the issuer, a mismatch looks like a
	// missing document on purpose
	if claimRequest.IssuerAddress != model.NormalizeAddress(in.IssuerAddress) {
		self.failNotFound(c, "No pending claim request for this issuer")
		return
	}

	ok, err := self.store.RejectClaimRequest(c, in.RequestId, in.IssuerAddress, in.Reason)
	if err != nil {
		self.failStore(c, err, "Failed to reject claim request")
		return
	}
	if !ok {
		self.failBadRequest(c, ErrRequestNotPending, "Claim request is not pending")
		return
	}

	self.monitor.Report.Gateway.State.ClaimRequestsRejected.Inc()
	self.emit(publisher.Event{
		Kind:   publisher.EventClaimRequestRejected,
		Id:     in.RequestId,
		Status: string(model.ClaimStatusRejected),
	})

	updated, err := self.store.GetClaimRequest(c, in.RequestId)
	if err != nil {
		self.failStore(c, err, "Failed to get claim request")
		return
	}

	LOG(c).WithField("id", in.RequestId).Debug("Claim request rejected")
	c.JSON(http.StatusOK, &response.ClaimRequest{Success: true, Request: updated})
}

// Issuer work queue, pending unless another status is requested
func (self *Server) onListPendingClaims(c *gin.Context) {
	issuer := c.Query("issuer")
	if !common.IsHexAddress(issuer) {
		self.failBadRequest(c, ErrMissingAddress, "Invalid issuer address")
		return
	}

	filter := model.ClaimRequestFilter{
		Issuer: issuer,
		Status: model.ClaimStatusPending,
		Limit:  self.listLimit(queryInt(c, "limit")),
	}
	if status := c.Query("status"); status != "" {
		filter.Status = model.ClaimStatus(status)
		if !filter.Status.IsValid() {
			self.failBadRequest(c, errors.New("invalid status"), "Invalid status")
			return
		}
	}

	requests, err := self.store.ListClaimRequests(c, filter)
	if err != nil {
		self.failStore(c, err, "Failed to list claim requests")
		return
	}

	c.JSON(http.StatusOK, &response.ClaimRequestList{Success: true, Requests: requests})
}

func (self *Server) onListCompletedClaims(c *gin.Context) {
	identity := c.Query("identity")
	if !common.IsHexAddress(identity) {
		self.failBadRequest(c, ErrMissingAddress, "Invalid identity address")
		return
	}

	filter := model.ClaimRequestFilter{
		Identity: identity,
		Status:   model.ClaimStatusCompleted,
		Limit:    self.listLimit(queryInt(c, "limit")),
	}

	requests, err := self.store.ListClaimRequests(c, filter)
	if err != nil {
		self.failStore(c, err, "Failed to list claim requests")
		return
	}

	c.JSON(http.StatusOK, &response.ClaimRequestList{Success: true, Requests: requests})
}

func (self *Server) onStatistics(c *gin.Context) {
	stats, err := self.store.ClaimRequestStatistics(c)
	if err != nil {
		self.failStore(c, err, "Failed to compute statistics")
		return
	}

	c.JSON(http.StatusOK, response.StatisticsToResponse(stats))
}

// Serves the on-chain view of a single claim
func (self *Server) onCheckClaim(c *gin.Context) {
	identityAddress := c.Query("identity")
	issuerAddress := c.Query("issuer")
	if !common.IsHexAddress(identityAddress) || !common.IsHexAddress(issuerAddress) {
		self.failBadRequest(c, ErrMissingAddress, "Invalid address")
		return
	}
	topic, err := strconv.ParseInt(c.Query("topic"), 10, 64)
	if err != nil || topic <= 0 {
		self.failBadRequest(c, ErrMissingTopic, "Invalid topic")
		return
	}

	if self.contracts == nil {
		self.monitor.Report.Gateway.Errors.ChainCallFailures.Inc()
		LOGE(c, nil, http.StatusServiceUnavailable).Error("Chain access is not configured")
		return
	}

	identity := self.contracts.Identity(common.HexToAddress(identityAddress))
	issuer := common.HexToAddress(issuerAddress)

	claim, err := identity.GetClaim(c, eth.ClaimId(issuer, topic))
	if err != nil {
		self.monitor.Report.Gateway.Errors.ChainCallFailures.Inc()
		LOGE(c, err, http.StatusServiceUnavailable).Error("Failed to read claim from chain")
		return
	}

	out := &response.ClaimCheck{
		Success: true,
		Exists:  claim.Issuer != (common.Address{}),
		Topic:   topic,
		Issuer:  model.NormalizeAddress(issuerAddress),
	}
	if out.Exists {
		out.Scheme = claim.Scheme.Int64()
		out.Data = "0x" + hex.EncodeToString(claim.Data)
		out.URI = claim.Uri
	}

	c.JSON(http.StatusOK, out)
}

// Rejects the approval when the registry explicitly denies the issuer.
// Chain connectivity problems are swallowed, the database stays authoritative.
func (self *Server) checkIssuerTrusted(c *gin.Context, issuerAddress string, topic int64) {
	if self.contracts == nil || self.contracts.TrustedIssuersRegistry == nil {
		return
	}

	issuer := common.HexToAddress(issuerAddress)

	trusted, err := self.contracts.TrustedIssuersRegistry.IsTrustedIssuer(c, issuer)
	if err != nil {
		self.monitor.Report.Gateway.Errors.ChainCallFailures.Inc()
		LOG(c).WithError(err).Warn("Failed to check trusted issuer on chain")
		return
	}
	if !trusted {
		self.failUnauthorized(c, "Issuer is not trusted on chain")
		return
	}

	hasTopic, err := self.contracts.TrustedIssuersRegistry.HasClaimTopic(c, issuer, topic)
	if err != nil {
		self.monitor.Report.Gateway.Errors.ChainCallFailures.Inc()
		LOG(c).WithError(err).Warn("Failed to check claim topic on chain")
		return
	}
	if !hasTopic {
		self.failUnauthorized(c, "Issuer is not trusted for this claim topic")
		return
	}
}

func queryInt(c *gin.Context, name string) int64 {
	v, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// Claim data is stored hex-encoded. Values that already parse as
// 0x-prefixed hex are kept as submitted.
func encodeClaimData(data string) string {
	if data == "" {
		return ""
	}
	if _, err := hexutil.Decode(data); err == nil {
		return data
	}
	return hexutil.Encode([]byte(data))
}

func isTxHash(v string) bool {
	if len(v) != 66 || v[0] != '0' || (v[1] != 'x' && v[1] != 'X') {
		return false
	}
	_, err := hex.DecodeString(v[2:])
	return err == nil
}
