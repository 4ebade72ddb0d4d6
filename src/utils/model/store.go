package model

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the document-store boundary. Handlers and background tasks
// depend on it so tests can substitute an in-memory implementation.
type Store interface {
	// Claim requests
	InsertClaimRequest(ctx context.Context, r *ClaimRequest) error
	GetClaimRequest(ctx context.Context, id string) (*ClaimRequest, error)
	ListClaimRequests(ctx context.Context, filter ClaimRequestFilter) ([]*ClaimRequest, error)
	CompleteClaimRequest(ctx context.Context, id, txHash, reviewer string) (bool, error)
	RejectClaimRequest(ctx context.Context, id, issuer, reason string) (bool, error)
	ClaimRequestStatistics(ctx context.Context) (*ClaimRequestStatistics, error)

	// Trusted issuer requests
	InsertTrustedIssuerRequest(ctx context.Context, r *TrustedIssuerRequest) error
	GetTrustedIssuerRequest(ctx context.Context, id string) (*TrustedIssuerRequest, error)
	ListTrustedIssuerRequests(ctx context.Context, filter TrustedIssuerRequestFilter) ([]*TrustedIssuerRequest, error)
	ApproveTrustedIssuerRequest(ctx context.Context, id, issuerContract, txHash, reviewer string) (bool, error)
	RejectTrustedIssuerRequest(ctx context.Context, id, reason, reviewer string) (bool, error)

	// Transactions
	InsertTransaction(ctx context.Context, t *Transaction) error
	InsertTransactions(ctx context.Context, ts []*Transaction) (int, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*Transaction, error)
	ListPendingTransactions(ctx context.Context, limit int64) ([]*Transaction, error)
	ConfirmTransaction(ctx context.Context, txHash string, blockNumber, gasUsed uint64, metadata map[string]string) (bool, error)
	FailTransaction(ctx context.Context, txHash, reason string) (bool, error)

	// Attachments
	InsertAttachment(ctx context.Context, a *Attachment) error
	ListAttachments(ctx context.Context, relatedType RelatedType, relatedId string) ([]*Attachment, error)
}

type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (self *MongoStore) InsertClaimRequest(ctx context.Context, r *ClaimRequest) (err error) {
	r.Normalize()
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	r.Status = ClaimStatusPending

	res, err := self.db.Collection(CollectionClaimRequests).InsertOne(ctx, r)
	if err != nil {
		return
	}
	r.ID = res.InsertedID.(primitive.ObjectID)
	return
}

func (self *MongoStore) GetClaimRequest(ctx context.Context, id string) (r *ClaimRequest, err error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	r = new(ClaimRequest)
	err = self.db.Collection(CollectionClaimRequests).
		FindOne(ctx, bson.M{"_id": oid}).
		Decode(r)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return
}

func (self *MongoStore) ListClaimRequests(ctx context.Context, filter ClaimRequestFilter) (out []*ClaimRequest, err error) {
	query := bson.M{}
	if filter.Requester != "" {
		query["requesterAddress"] = NormalizeAddress(filter.Requester)
	}
	if filter.Issuer != "" {
		query["issuerAddress"] = NormalizeAddress(filter.Issuer)
	}
	if filter.Identity != "" {
		query["identityAddress"] = NormalizeAddress(filter.Identity)
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	cursor, err := self.db.Collection(CollectionClaimRequests).
		Find(ctx, query, options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(filter.Limit))
	if err != nil {
		return
	}
	defer cursor.Close(ctx)

	out = make([]*ClaimRequest, 0)
	err = cursor.All(ctx, &out)
	return
}

// Guarded transition pending -> completed. Returns false when the
// request isn't pending anymore (or is gone).
func (self *MongoStore) CompleteClaimRequest(ctx context.Context, id, txHash, reviewer string) (ok bool, err error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrNotFound
	}

	now := time.Now().UTC()
	res, err := self.db.Collection(CollectionClaimRequests).UpdateOne(ctx,
		bson.M{"_id": oid, "status": ClaimStatusPending},
		bson.M{"$set": bson.M{
			"status":      ClaimStatusCompleted,
			"claimTxHash": NormalizeAddress(txHash),
			"reviewedBy":  NormalizeAddress(reviewer),
			"reviewedAt":  now,
			"updatedAt":   now,
		}})
	if err != nil {
		return
	}
	return res.MatchedCount > 0, nil
}

// The issuer is part of the match, a mismatched caller simply finds nothing
func (self *MongoStore) RejectClaimRequest(ctx context.Context, id, issuer, reason string) (ok bool, err error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrNotFound
	}

	now := time.Now().UTC()
	res, err := self.db.Collection(CollectionClaimRequests).UpdateOne(ctx,
		bson.M{"_id": oid, "issuerAddress": NormalizeAddress(issuer), "status": ClaimStatusPending},
		bson.M{"$set": bson.M{
			"status":          ClaimStatusRejected,
			"rejectionReason": reason,
			"reviewedBy":      NormalizeAddress(issuer),
			"reviewedAt":      now,
			"updatedAt":       now,
		}})
	if err != nil {
		return
	}
	return res.MatchedCount > 0, nil
}

func (self *MongoStore) ClaimRequestStatistics(ctx context.Context) (stats *ClaimRequestStatistics, err error) {
	stats = &ClaimRequestStatistics{
		StatusDistribution: make(map[ClaimStatus]int64),
		TopicDistribution:  make(map[int64]int64),
	}

	cursor, err := self.db.Collection(CollectionClaimRequests).Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var byStatus []struct {
		Status ClaimStatus `bson:"_id"`
		Count  int64       `bson:"count"`
	}
	err = cursor.All(ctx, &byStatus)
	if err != nil {
		return nil, err
	}
	for _, group := range byStatus {
		stats.StatusDistribution[group.Status] = group.Count
		stats.Total += group.Count
	}

	cursor, err = self.db.Collection(CollectionClaimRequests).Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$topic", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var byTopic []struct {
		Topic int64 `bson:"_id"`
		Count int64 `bson:"count"`
	}
	err = cursor.All(ctx, &byTopic)
	if err != nil {
		return nil, err
	}
	for _, group := range byTopic {
		stats.TopicDistribution[group.Topic] = group.Count
	}

	return
}

func (self *MongoStore) InsertTrustedIssuerRequest(ctx context.Context, r *TrustedIssuerRequest) (err error) {
	r.Normalize()
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	r.Status = RequestStatusPending

	res, err := self.db.Collection(CollectionTrustedIssuerRequests).InsertOne(ctx, r)
	if err != nil {
		return
	}
	r.ID = res.InsertedID.(primitive.ObjectID)
	return
}

func (self *MongoStore) GetTrustedIssuerRequest(ctx context.Context, id string) (r *TrustedIssuerRequest, err error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	r = new(TrustedIssuerRequest)
	err = self.db.Collection(CollectionTrustedIssuerRequests).
		FindOne(ctx, bson.M{"_id": oid}).
		Decode(r)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return
}

func (self *MongoStore) ListTrustedIssuerRequests(ctx context.Context, filter TrustedIssuerRequestFilter) (out []*TrustedIssuerRequest, err error) {
	query := bson.M{}
	if filter.Requester != "" {
		query["requesterAddress"] = NormalizeAddress(filter.Requester)
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	cursor, err := self.db.Collection(CollectionTrustedIssuerRequests).
		Find(ctx, query, options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(filter.Limit))
	if err != nil {
		return
	}
	defer cursor.Close(ctx)

	out = make([]*TrustedIssuerRequest, 0)
	err = cursor.All(ctx, &out)
	return
}

func (self *MongoStore) ApproveTrustedIssuerRequest(ctx context.Context, id, issuerContract, txHash, reviewer string) (ok bool, err error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrNotFound
	}

	now := time.Now().UTC()
	res, err := self.db.Collection(CollectionTrustedIssuerRequests).UpdateOne(ctx,
		bson.M{"_id": oid, "status": RequestStatusPending},
		bson.M{"$set": bson.M{
			"status":                RequestStatusApproved,
			"issuerContractAddress": NormalizeAddress(issuerContract),
			"approvalTxHash":        NormalizeAddress(txHash),
			"reviewedBy":            NormalizeAddress(reviewer),
			"reviewedAt":            now,
			"updatedAt":             now,
		}})
	if err != nil {
		return
	}
	return res.MatchedCount > 0, nil
}

func (self *MongoStore) RejectTrustedIssuerRequest(ctx context.Context, id, reason, reviewer string) (ok bool, err error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrNotFound
	}

	now := time.Now().UTC()
	res, err := self.db.Collection(CollectionTrustedIssuerRequests).UpdateOne(ctx,
		bson.M{"_id": oid, "status": RequestStatusPending},
		bson.M{"$set": bson.M{
			"status":          RequestStatusRejected,
			"rejectionReason": reason,
			"reviewedBy":      NormalizeAddress(reviewer),
			"reviewedAt":      now,
			"updatedAt":       now,
		}})
	if err != nil {
		return
	}
	return res.MatchedCount > 0, nil
}

func (self *MongoStore) InsertTransaction(ctx context.Context, t *Transaction) (err error) {
	t.Normalize()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = TransactionStatusPending
	}

	res, err := self.db.Collection(CollectionTransactions).InsertOne(ctx, t)
	if err != nil {
		return
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return
}

// Unordered batch insert, duplicate hashes are skipped not failed.
// Returns the number of records actually inserted.
func (self *MongoStore) InsertTransactions(ctx context.Context, ts []*Transaction) (inserted int, err error) {
	if len(ts) == 0 {
		return
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(ts))
	for _, t := range ts {
		t.Normalize()
		t.CreatedAt = now
		t.UpdatedAt = now
		if t.Status == "" {
			t.Status = TransactionStatusPending
		}
		docs = append(docs, t)
	}

	res, err := self.db.Collection(CollectionTransactions).
		InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	if mongo.IsDuplicateKeyError(err) {
		// Audit records, repeated submissions are expected
		err = nil
	}
	return
}

func (self *MongoStore) ListTransactions(ctx context.Context, filter TransactionFilter) (out []*Transaction, err error) {
	query := bson.M{}
	if filter.From != "" {
		query["from"] = NormalizeAddress(filter.From)
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	cursor, err := self.db.Collection(CollectionTransactions).
		Find(ctx, query, options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(filter.Limit))
	if err != nil {
		return
	}
	defer cursor.Close(ctx)

	out = make([]*Transaction, 0)
	err = cursor.All(ctx, &out)
	return
}

func (self *MongoStore) ListPendingTransactions(ctx context.Context, limit int64) (out []*Transaction, err error) {
	cursor, err := self.db.Collection(CollectionTransactions).
		Find(ctx, bson.M{"status": TransactionStatusPending}, options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: 1}}).
			SetLimit(limit))
	if err != nil {
		return
	}
	defer cursor.Close(ctx)

	out = make([]*Transaction, 0)
	err = cursor.All(ctx, &out)
	return
}

func (self *MongoStore) ConfirmTransaction(ctx context.Context, txHash string, blockNumber, gasUsed uint64, metadata map[string]string) (ok bool, err error) {
	set := bson.M{
		"status":      TransactionStatusConfirmed,
		"blockNumber": blockNumber,
		"gasUsed":     gasUsed,
		"updatedAt":   time.Now().UTC(),
	}
	for key, value := range metadata {
		set["metadata."+key] = value
	}

	res, err := self.db.Collection(CollectionTransactions).UpdateOne(ctx,
		bson.M{"txHash": NormalizeAddress(txHash), "status": TransactionStatusPending},
		bson.M{"$set": set})
	if err != nil {
		return
	}
	return res.MatchedCount > 0, nil
}

func (self *MongoStore) FailTransaction(ctx context.Context, txHash, reason string) (ok bool, err error) {
	res, err := self.db.Collection(CollectionTransactions).UpdateOne(ctx,
		bson.M{"txHash": NormalizeAddress(txHash), "status": TransactionStatusPending},
		bson.M{"$set": bson.M{
			"status":          TransactionStatusFailed,
			"metadata.reason": reason,
			"updatedAt":       time.Now().UTC(),
		}})
	if err != nil {
		return
	}
	return res.MatchedCount > 0, nil
}

func (self *MongoStore) InsertAttachment(ctx context.Context, a *Attachment) (err error) {
	a.Normalize()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	res, err := self.db.Collection(CollectionAttachments).InsertOne(ctx, a)
	if err != nil {
		return
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return
}

func (self *MongoStore) ListAttachments(ctx context.Context, relatedType RelatedType, relatedId string) (out []*Attachment, err error) {
	cursor, err := self.db.Collection(CollectionAttachments).
		Find(ctx, bson.M{"relatedType": relatedType, "relatedId": relatedId},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return
	}
	defer cursor.Close(ctx)

	out = make([]*Attachment, 0)
	err = cursor.All(ctx, &out)
	return
}
