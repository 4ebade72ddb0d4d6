package gateway

import (
	"context"
	"time"

	"claimgate/src/utils/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory Store mimicking the mongo semantics the handlers rely on:
// normalization at write, guarded pending-only transitions and
// filter-based listing.
type fakeStore struct {
	claims         map[string]*model.ClaimRequest
	issuerRequests map[string]*model.TrustedIssuerRequest
	transactions   map[string]*model.Transaction
	attachments    []*model.Attachment

	stats *model.ClaimRequestStatistics

	// When set, every operation fails with it
	forcedErr error

	lastClaimFilter       model.ClaimRequestFilter
	lastTransactionFilter model.TransactionFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		claims:         make(map[string]*model.ClaimRequest),
		issuerRequests: make(map[string]*model.TrustedIssuerRequest),
		transactions:   make(map[string]*model.Transaction),
	}
}

func (self *fakeStore) InsertClaimRequest(ctx context.Context, r *model.ClaimRequest) error {
	if self.forcedErr != nil {
		return self.forcedErr
	}
	r.Normalize()
	r.ID = primitive.NewObjectID()
	r.Status = model.ClaimStatusPending
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt
	self.claims[r.ID.Hex()] = r
	return nil
}

func (self *fakeStore) GetClaimRequest(ctx context.Context, id string) (*model.ClaimRequest, error) {
	if self.forcedErr != nil {
		return nil, self.forcedErr
	}
	r, ok := self.claims[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return r, nil
}

func (self *fakeStore) ListClaimRequests(ctx context.Context, filter model.ClaimRequestFilter) ([]*model.ClaimRequest, error) {
	self.lastClaimFilter = filter
	if self.forcedErr != nil {
		return nil, self.forcedErr
	}
	out := make([]*model.ClaimRequest, 0)
	for _, r := range self.claims {
		if filter.Requester != "" && r.RequesterAddress != model.NormalizeAddress(filter.Requester) {
			continue
		}
		if filter.Issuer != "" && r.IssuerAddress != model.NormalizeAddress(filter.Issuer) {
			continue
		}
		if filter.Identity != "" && r.IdentityAddress != model.NormalizeAddress(filter.Identity) {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (self *fakeStore) CompleteClaimRequest(ctx context.Context, id, txHash, reviewer string) (bool, error) {
	if self.forcedErr != nil {
		return false, self.forcedErr
	}
	r, ok := self.claims[id]
	if !ok || r.Status != model.ClaimStatusPending {
		return false, nil
	}
	r.Status = model.ClaimStatusCompleted
	r.ClaimTxHash = model.NormalizeAddress(txHash)
	r.ReviewedBy = model.NormalizeAddress(reviewer)
	return true, nil
}

func (self *fakeStore) RejectClaimRequest(ctx context.Context, id, issuer, reason string) (bool, error) {
	if self.forcedErr != nil {
		return false, self.forcedErr
	}
	r, ok := self.claims[id]
	if !ok || r.Status != model.ClaimStatusPending || r.IssuerAddress != model.NormalizeAddress(issuer) {
		return false, nil
	}
	r.Status = model.ClaimStatusRejected
	r.RejectionReason = reason
	return true, nil
}

func (self *fakeStore) ClaimRequestStatistics(ctx context.Context) (*model.ClaimRequestStatistics, error) {
	if self.forcedErr != nil {
		return nil, self.forcedErr
	}
	if self.stats != nil {
		return self.stats, nil
	}
	return &model.ClaimRequestStatistics{
		StatusDistribution: make(map[model.ClaimStatus]int64),
		TopicDistribution:  make(map[int64]int64),
	}, nil
}

func (self *fakeStore) InsertTrustedIssuerRequest(ctx context.Context, r *model.TrustedIssuerRequest) error {
	if self.forcedErr != nil {
		return self.forcedErr
	}
	r.Normalize()
	r.ID = primitive.NewObjectID()
	r.Status = model.RequestStatusPending
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt
	self.issuerRequests[r.ID.Hex()] = r
	return nil
}

func (self *fakeStore) GetTrustedIssuerRequest(ctx context.Context, id string) (*model.TrustedIssuerRequest, error) {
	if self.forcedErr != nil {
		return nil, self.forcedErr
	}
	r, ok := self.issuerRequests[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return r, nil
}

func (self *fakeStore) ListTrustedIssuerRequests(ctx context.Context, filter model.TrustedIssuerRequestFilter) ([]*model.TrustedIssuerRequest, error) {
	if self.forcedErr != nil {
		return nil, self.forcedErr
	}
	out := make([]*model.TrustedIssuerRequest, 0)
	for _, r := range self.issuerRequests {
		if filter.Requester != "" && r.RequesterAddress != model.NormalizeAddress(filter.Requester) {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (self *fakeStore) ApproveTrustedIssuerRequest(ctx context.Context, id, issuerContract, txHash, reviewer string) (bool, error) {
	if self.forcedErr != nil {
		return false, self.forcedErr
	}
	r, ok := self.issuerRequests[id]
	if !ok || r.Status != model.RequestStatusPending {
		return false, nil
	}
	r.Status = model.RequestStatusApproved
	r.IssuerContractAddress = model.NormalizeAddress(issuerContract)
	r.ApprovalTxHash = model.NormalizeAddress(txHash)
	r.ReviewedBy = model.NormalizeAddress(reviewer)
	return true, nil
}

func (self *fakeStore) RejectTrustedIssuerRequest(ctx context.Context, id, reason, reviewer string) (bool, error) {
	if self.forcedErr != nil {
		return false, self.forcedErr
	}
	r, ok := self.issuerRequests[id]
	if !ok || r.Status != model.RequestStatusPending {
		return false, nil
	}
	r.Status = model.RequestStatusRejected
	r.RejectionReason = reason
	r.ReviewedBy = model.NormalizeAddress(reviewer)
	return true, nil
}

func (self *fakeStore) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	if self.forcedErr != nil {
		return self.forcedErr
	}
	t.Normalize()
	if _, ok := self.transactions[t.TxHash]; ok {
		return model.ErrDuplicate
	}
	t.ID = primitive.NewObjectID()
	t.Status = model.TransactionStatusPending
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	self.transactions[t.TxHash] = t
	return nil
}

func (self *fakeStore) InsertTransactions(ctx context.Context, ts []*model.Transaction) (int, error) {
	if self.forcedErr != nil {
		return 0, self.forcedErr
	}
	inserted := 0
	for _, t := range ts {
		if err := self.InsertTransaction(ctx, t); err == nil {
			inserted++
		}
	}
	return inserted, nil
}

func (self *fakeStore) ListTransactions(ctx context.Context, filter model.TransactionFilter) ([]*model.Transaction, error) {
	self.lastTransactionFilter = filter
	if self.forcedErr != nil {
		return nil, self.forcedErr
	}
	out := make([]*model.Transaction, 0)
	for _, t := range self.transactions {
		if filter.From != "" && t.From != model.NormalizeAddress(filter.From) {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (self *fakeStore) ListPendingTransactions(ctx context.Context, limit int64) ([]*model.Transaction, error) {
	if self.forcedErr != nil {
		return nil, self.forcedErr
	}
	out := make([]*model.Transaction, 0)
	for _, t := range self.transactions {
		if t.Status == model.TransactionStatusPending {
			out = append(out, t)
		}
	}
	return out, nil
}

func (self *fakeStore) ConfirmTransaction(ctx context.Context, txHash string, blockNumber, gasUsed uint64, metadata map[string]string) (bool, error) {
	if self.forcedErr != nil {
		return false, self.forcedErr
	}
	t, ok := self.transactions[model.NormalizeAddress(txHash)]
	if !ok || t.Status != model.TransactionStatusPending {
		return false, nil
	}
	t.Status = model.TransactionStatusConfirmed
	t.BlockNumber = blockNumber
	t.GasUsed = gasUsed
	for k, v := range metadata {
		if t.Metadata == nil {
			t.Metadata = make(map[string]string)
		}
		t.Metadata[k] = v
	}
	return true, nil
}

func (self *fakeStore) FailTransaction(ctx context.Context, txHash, reason string) (bool, error) {
	if self.forcedErr != nil {
		return false, self.forcedErr
	}
	t, ok := self.transactions[model.NormalizeAddress(txHash)]
	if !ok || t.Status != model.TransactionStatusPending {
		return false, nil
	}
	t.Status = model.TransactionStatusFailed
	if t.Metadata == nil {
		t.Metadata = make(map[string]string)
	}
	t.Metadata["failureReason"] = reason
	return true, nil
}

func (self *fakeStore) InsertAttachment(ctx context.Context, a *model.Attachment) error {
	if self.forcedErr != nil {
		return self.forcedErr
	}
	a.Normalize()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	self.attachments = append(self.attachments, a)
	return nil
}

func (self *fakeStore) ListAttachments(ctx context.Context, relatedType model.RelatedType, relatedId string) ([]*model.Attachment, error) {
	if self.forcedErr != nil {
		return nil, self.forcedErr
	}
	out := make([]*model.Attachment, 0)
	for _, a := range self.attachments {
		if a.RelatedType == relatedType && a.RelatedId == relatedId {
			out = append(out, a)
		}
	}
	return out, nil
}
