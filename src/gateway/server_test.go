package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"claimgate/src/utils/config"
	"claimgate/src/utils/model"
	monitor_gateway "claimgate/src/utils/monitoring/gateway"
	"claimgate/src/utils/publisher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const (
	testRequester = "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	testIdentity  = "0x1111111111111111111111111111111111111111"
	testIssuer    = "0x2222222222222222222222222222222222222222"
	testOther     = "0x3333333333333333333333333333333333333333"
	testTxHash    = "0x4444444444444444444444444444444444444444444444444444444444444444"
)

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

type ServerTestSuite struct {
	suite.Suite
	config *config.Config

	store    *fakeStore
	monitor  *monitor_gateway.Monitor
	server   *Server
	recorder chan *model.Transaction
	events   chan publisher.Event
}

func (s *ServerTestSuite) SetupSuite() {
	s.config = config.Default()
}

func (s *ServerTestSuite) SetupTest() {
	s.store = newFakeStore()
	s.monitor = monitor_gateway.NewMonitor()
	s.recorder = make(chan *model.Transaction, 10)
	s.events = make(chan publisher.Event, 10)
	s.server = NewServer(s.config).
		WithStore(s.store).
		WithMonitor(s.monitor).
		WithRecorderChannel(s.recorder).
		WithEventChannel(s.events)
}

func (s *ServerTestSuite) doJSON(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		assert.Nil(s.T(), err)
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.server.Router.ServeHTTP(w, req)
	return w
}

func (s *ServerTestSuite) doForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.server.Router.ServeHTTP(w, req)
	return w
}

func (s *ServerTestSuite) createClaimRequest() *model.ClaimRequest {
	w := s.doJSON(http.MethodPost, "/api/identity/claim/request", map[string]interface{}{
		"requesterAddress": testRequester,
		"identityAddress":  testIdentity,
		"issuerAddress":    testIssuer,
		"topic":            1,
		"scheme":           1,
	})
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	var out struct {
		Success bool               `json:"success"`
		Request model.ClaimRequest `json:"request"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &out)
	assert.Nil(s.T(), err)
	assert.True(s.T(), out.Success)
	return &out.Request
}

func (s *ServerTestSuite) TestCreateClaimRequest() {
	created := s.createClaimRequest()

	// Addresses are stored lower-cased
	assert.Equal(s.T(), strings.ToLower(testRequester), created.RequesterAddress)
	assert.Equal(s.T(), strings.ToLower(testIssuer), created.IssuerAddress)
	assert.Equal(s.T(), model.ClaimStatusPending, created.Status)
	assert.Equal(s.T(), uint64(1), s.monitor.Report.Gateway.State.ClaimRequestsCreated.Load())

	event := <-s.events
	assert.Equal(s.T(), publisher.EventClaimRequestCreated, event.Kind)
}

func (s *ServerTestSuite) TestCreateClaimRequestValidation() {
	w := s.doJSON(http.MethodPost, "/api/identity/claim/request", map[string]interface{}{
		"requesterAddress": "not-an-address",
		"identityAddress":  testIdentity,
		"issuerAddress":    testIssuer,
		"topic":            1,
	})
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)

	w = s.doJSON(http.MethodPost, "/api/identity/claim/request", map[string]interface{}{
		"requesterAddress": testRequester,
		"identityAddress":  testIdentity,
		"issuerAddress":    testIssuer,
		"topic":            0,
	})
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), uint64(2), s.monitor.Report.Gateway.Errors.BadRequest.Load())
}

func (s *ServerTestSuite) TestApproveClaim() {
	created := s.createClaimRequest()

	w := s.doJSON(http.MethodPost, "/api/identity/claim/approve", map[string]interface{}{
		"requestId":     created.ID.Hex(),
		"issuerAddress": testIssuer,
		"txHash":        testTxHash,
	})
	assert.Equal(s.T(), http.StatusOK, w.Code)

	var approved struct {
		Request model.ClaimRequest `json:"request"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &approved)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), model.ClaimStatusCompleted, approved.Request.Status)
	assert.Equal(s.T(), strings.ToLower(testTxHash), approved.Request.ClaimTxHash)

	// The issuer-signed transaction lands in the recorder queue
	recorded := <-s.recorder
	assert.Equal(s.T(), model.TransactionTypeIdentityClaimAdd, recorded.Type)

	// Completed requests accept no further transitions
	w = s.doJSON(http.MethodPost, "/api/identity/claim/approve", map[string]interface{}{
		"requestId":     created.ID.Hex(),
		"issuerAddress": testIssuer,
		"txHash":        testTxHash,
	})
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ServerTestSuite) TestApproveClaimWrongIssuer() {
	created := s.createClaimRequest()

	w := s.doJSON(http.MethodPost, "/api/identity/claim/approve", map[string]interface{}{
		"requestId":     created.ID.Hex(),
		"issuerAddress": testOther,
		"txHash":        testTxHash,
	})
	assert.Equal(s.T(), http.StatusForbidden, w.Code)
	assert.Equal(s.T(), uint64(1), s.monitor.Report.Gateway.Errors.Unauthorized.Load())
}

func (s *ServerTestSuite) TestRejectClaim() {
	created := s.createClaimRequest()

	w := s.doJSON(http.MethodPost, "/api/identity/claim/reject", map[string]interface{}{
		"requestId":     created.ID.Hex(),
		"issuerAddress": testIssuer,
		"reason":        "insufficient documents",
	})
	assert.Equal(s.T(), http.StatusOK, w.Code)

	var rejected struct {
		Request model.ClaimRequest `json:"request"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &rejected)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), model.ClaimStatusRejected, rejected.Request.Status)
	assert.Equal(s.T(), "insufficient documents", rejected.Request.RejectionReason)
}

func (s *ServerTestSuite) TestRejectClaimWrongIssuerLooksMissing() {
	created := s.createClaimRequest()

	w := s.doJSON(http.MethodPost, "/api/identity/claim/reject", map[string]interface{}{
		"requestId":     created.ID.Hex(),
		"issuerAddress": testOther,
		"reason":        "not mine",
	})
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *ServerTestSuite) TestListClaimRequestsCapsLimit() {
	w := s.doJSON(http.MethodGet, "/api/identity/claim/request?address="+testRequester+"&limit=100000", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), s.config.Gateway.ListLimit, s.store.lastClaimFilter.Limit)

	w = s.doJSON(http.MethodGet, "/api/identity/claim/request?address="+testRequester+"&limit=5", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), int64(5), s.store.lastClaimFilter.Limit)
}

func (s *ServerTestSuite) TestCreateClaimRequestEncodesData() {
	w := s.doJSON(http.MethodPost, "/api/identity/claim/request", map[string]interface{}{
		"requesterAddress": testRequester,
		"identityAddress":  testIdentity,
		"issuerAddress":    testIssuer,
		"topic":            1,
		"scheme":           1,
		"data":             "hello",
	})
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	var out struct {
		Request model.ClaimRequest `json:"request"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &out)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), "0x68656c6c6f", out.Request.Data)

	// Hex payloads are stored as submitted
	w = s.doJSON(http.MethodPost, "/api/identity/claim/request", map[string]interface{}{
		"requesterAddress": testRequester,
		"identityAddress":  testIdentity,
		"issuerAddress":    testIssuer,
		"topic":            2,
		"scheme":           1,
		"data":             "0xdeadbeef",
	})
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &out)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), "0xdeadbeef", out.Request.Data)
}

func (s *ServerTestSuite) TestListClaimRequestsOptionalFilters() {
	w := s.doJSON(http.MethodGet, "/api/identity/claim/request?status=pending", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "", s.store.lastClaimFilter.Requester)
	assert.Equal(s.T(), model.ClaimStatusPending, s.store.lastClaimFilter.Status)

	w = s.doJSON(http.MethodGet, "/api/identity/claim/request?issuer="+testIssuer, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), model.NormalizeAddress(testIssuer), model.NormalizeAddress(s.store.lastClaimFilter.Issuer))

	w = s.doJSON(http.MethodGet, "/api/identity/claim/request?address=bogus", nil)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ServerTestSuite) TestListPendingClaimsDefaultsToPending() {
	w := s.doJSON(http.MethodGet, "/api/claims/request?issuer="+testIssuer, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), model.ClaimStatusPending, s.store.lastClaimFilter.Status)
	assert.Equal(s.T(), model.NormalizeAddress(testIssuer), model.NormalizeAddress(s.store.lastClaimFilter.Issuer))
}

func (s *ServerTestSuite) TestListCompletedClaimsByIdentity() {
	w := s.doJSON(http.MethodGet, "/api/identity/claims?identity="+testIdentity, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), model.ClaimStatusCompleted, s.store.lastClaimFilter.Status)
	assert.Equal(s.T(), model.NormalizeAddress(testIdentity), model.NormalizeAddress(s.store.lastClaimFilter.Identity))

	w = s.doJSON(http.MethodGet, "/api/identity/claims", nil)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ServerTestSuite) TestListClaimRequestsInvalidStatus() {
	w := s.doJSON(http.MethodGet, "/api/identity/claim/request?address="+testRequester+"&status=bogus", nil)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ServerTestSuite) TestStatistics() {
	s.store.stats = &model.ClaimRequestStatistics{
		Total: 4,
		StatusDistribution: map[model.ClaimStatus]int64{
			model.ClaimStatusPending:   1,
			model.ClaimStatusCompleted: 3,
		},
		TopicDistribution: map[int64]int64{1: 4},
	}

	w := s.doJSON(http.MethodGet, "/api/identity/statistics", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	var out struct {
		Total             int64                         `json:"total"`
		StatusPercentages map[model.ClaimStatus]float64 `json:"statusPercentages"`
		CompletionRate    float64                       `json:"completionRate"`
		RejectionRate     float64                       `json:"rejectionRate"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &out)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), int64(4), out.Total)
	assert.Equal(s.T(), 25.0, out.StatusPercentages[model.ClaimStatusPending])
	assert.Equal(s.T(), 75.0, out.StatusPercentages[model.ClaimStatusCompleted])
	assert.Equal(s.T(), 75.0, out.CompletionRate)
	assert.Equal(s.T(), 0.0, out.RejectionRate)
}

func (s *ServerTestSuite) TestTrustedIssuerRequestLifecycle() {
	w := s.doForm("/api/trusted-issuers/request", url.Values{
		"requesterAddress": {testRequester},
		"organizationName": {"Acme Attestations"},
		"topics":           {"1", "7"},
	})
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	var created struct {
		Success bool                       `json:"success"`
		Request model.TrustedIssuerRequest `json:"request"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &created)
	assert.Nil(s.T(), err)
	assert.True(s.T(), created.Success)
	assert.Equal(s.T(), model.RequestStatusPending, created.Request.Status)
	assert.Equal(s.T(), []int64{1, 7}, created.Request.Topics)

	w = s.doJSON(http.MethodPost, "/api/trusted-issuers/approve", map[string]interface{}{
		"requestId":             created.Request.ID.Hex(),
		"issuerContractAddress": testIssuer,
		"txHash":                testTxHash,
		"reviewedBy":            testOther,
	})
	assert.Equal(s.T(), http.StatusOK, w.Code)

	var approved struct {
		Request model.TrustedIssuerRequest `json:"request"`
	}
	err = json.Unmarshal(w.Body.Bytes(), &approved)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), model.RequestStatusApproved, approved.Request.Status)
	assert.Equal(s.T(), strings.ToLower(testIssuer), approved.Request.IssuerContractAddress)

	// Approved requests accept no further transitions
	w = s.doJSON(http.MethodPost, "/api/trusted-issuers/reject", map[string]interface{}{
		"requestId":  created.Request.ID.Hex(),
		"reason":     "changed our minds",
		"reviewedBy": testOther,
	})
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ServerTestSuite) TestTrustedIssuerRequestValidation() {
	w := s.doForm("/api/trusted-issuers/request", url.Values{
		"requesterAddress": {testRequester},
		"organizationName": {"Acme Attestations"},
	})
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ServerTestSuite) TestCreateTokenDuplicate() {
	form := url.Values{
		"tokenAddress": {testIdentity},
		"creator":      {testRequester},
		"txHash":       {testTxHash},
		"name":         {"Estate Fund"},
		"symbol":       {"EST"},
	}

	w := s.doForm("/api/tokens/create", form)
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	w = s.doForm("/api/tokens/create", form)
	assert.Equal(s.T(), http.StatusConflict, w.Code)
	assert.Equal(s.T(), uint64(1), s.monitor.Report.Gateway.Errors.DuplicateKey.Load())
}

func (s *ServerTestSuite) TestGetTokensWithoutChainAccess() {
	w := s.doJSON(http.MethodGet, "/api/tokens", nil)
	assert.Equal(s.T(), http.StatusServiceUnavailable, w.Code)
}

func (s *ServerTestSuite) TestRecordTransaction() {
	w := s.doJSON(http.MethodPost, "/api/transactions", map[string]interface{}{
		"txHash": testTxHash,
		"from":   testRequester,
		"type":   "token-purchase",
	})
	assert.Equal(s.T(), http.StatusAccepted, w.Code)

	queued := <-s.recorder
	assert.Equal(s.T(), model.TransactionTypeTokenPurchase, queued.Type)

	var out struct {
		Success bool   `json:"success"`
		TxHash  string `json:"txHash"`
		Status  string `json:"status"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &out)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), strings.ToLower(testTxHash), out.TxHash)
	assert.Equal(s.T(), string(model.TransactionStatusPending), out.Status)
}

func (s *ServerTestSuite) TestRecordTransactionInvalidType() {
	w := s.doJSON(http.MethodPost, "/api/transactions", map[string]interface{}{
		"txHash": testTxHash,
		"from":   testRequester,
		"type":   "bogus",
	})
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ServerTestSuite) TestListTransactionsConnectivityError() {
	s.store.forcedErr = context.DeadlineExceeded

	w := s.doJSON(http.MethodGet, "/api/transactions", nil)
	assert.Equal(s.T(), http.StatusServiceUnavailable, w.Code)
	assert.Equal(s.T(), uint64(1), s.monitor.Report.Gateway.Errors.DbConnectivity.Load())
}
