package config

import (
	"time"

	"github.com/spf13/viper"
)

type Confirmer struct {
	// How often pending transactions are polled from the store
	PollInterval time.Duration

	// Pending records fetched per poll
	BatchSize int64

	// Receipt checks running in parallel
	MaxWorkers   int
	MaxQueueSize int

	// RPC requests per second
	RpcRateLimit int

	// Pending transactions older than this are marked failed
	MaxPendingAge time.Duration

	// Decode tx input into the record's metadata
	DecodeInput bool

	BackoffMaxElapsedTime time.Duration
	BackoffMaxInterval    time.Duration
}

func setConfirmerDefaults() {
	viper.SetDefault("Confirmer.PollInterval", "15s")
	viper.SetDefault("Confirmer.BatchSize", "50")
	viper.SetDefault("Confirmer.MaxWorkers", "8")
	viper.SetDefault("Confirmer.MaxQueueSize", "100")
	viper.SetDefault("Confirmer.RpcRateLimit", "10")
	viper.SetDefault("Confirmer.MaxPendingAge", "24h")
	viper.SetDefault("Confirmer.DecodeInput", "true")
	viper.SetDefault("Confirmer.BackoffMaxElapsedTime", "1m")
	viper.SetDefault("Confirmer.BackoffMaxInterval", "10s")
}
