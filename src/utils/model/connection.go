package model

import (
	"context"
	"fmt"

	"claimgate/src/utils/build_info"
	"claimgate/src/utils/config"
	l "claimgate/src/utils/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// One pooled client per process, the driver handles connection sharing internally
func Connect(ctx context.Context, dbConfig *config.Database, applicationName string) (self *mongo.Database, err error) {
	log := l.NewSublogger("db")

	opts := options.Client().
		ApplyURI(dbConfig.URI).
		SetAppName(fmt.Sprintf("%s/claimgate/%s", applicationName, build_info.Version)).
		SetMaxPoolSize(dbConfig.MaxPoolSize).
		SetServerSelectionTimeout(dbConfig.ConnectTimeout).
		SetConnectTimeout(dbConfig.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return
	}

	err = ping(ctx, dbConfig, client)
	if err != nil {
		return
	}

	self = client.Database(dbConfig.Name)

	if dbConfig.CreateIndexes {
		err = ensureIndexes(ctx, self)
		if err != nil {
			log.WithError(err).Error("Failed to create indexes")
			return
		}
	}

	return
}

func ping(ctx context.Context, dbConfig *config.Database, client *mongo.Client) (err error) {
	if dbConfig.PingTimeout < 0 {
		// Ping disabled
		return nil
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbConfig.PingTimeout)
	defer cancel()

	return client.Ping(dbCtx, readpref.Primary())
}

func ensureIndexes(ctx context.Context, db *mongo.Database) (err error) {
	indexes := map[string][]mongo.IndexModel{
		CollectionTransactions: {
			{
				Keys:    bson.D{{Key: "txHash", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
			{Keys: bson.D{{Key: "from", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		CollectionClaimRequests: {
			{Keys: bson.D{{Key: "requesterAddress", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "issuerAddress", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "identityAddress", Value: 1}, {Key: "status", Value: 1}}},
		},
		CollectionTrustedIssuerRequests: {
			{Keys: bson.D{{Key: "requesterAddress", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		CollectionAttachments: {
			{Keys: bson.D{{Key: "relatedType", Value: 1}, {Key: "relatedId", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		_, err = db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return
		}
	}
	return
}
