package model

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// True for unique index violations (maps to 409 at the gateway)
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrDuplicate) || mongo.IsDuplicateKeyError(err)
}

func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound) || errors.Is(err, mongo.ErrNoDocuments)
}

// True for server-selection, network and deadline failures (maps to 503).
// Driver errors don't expose a stable type for server selection,
// hence the message check.
func IsConnectivity(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	return strings.Contains(err.Error(), "server selection")
}
