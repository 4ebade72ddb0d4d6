package config

import (
	"time"

	"github.com/spf13/viper"
)

type Gateway struct {
	// REST API address
	ListenAddress string

	// Monitoring REST API address (health + metrics)
	MonitoringListenAddress string

	ServerRequestTimeout time.Duration

	// Hard cap on list endpoint results
	ListLimit int64

	// How long chain reads serving list endpoints are cached
	ChainReadCacheTTL time.Duration

	// Transaction recorder batching
	RecorderBatchSize             int
	RecorderFlushInterval         time.Duration
	RecorderChannelSize           int
	RecorderBackoffMaxElapsedTime time.Duration
	RecorderBackoffMaxInterval    time.Duration
}

func setGatewayDefaults() {
	viper.SetDefault("Gateway.ListenAddress", "0.0.0.0:4000")
	viper.SetDefault("Gateway.MonitoringListenAddress", "0.0.0.0:7777")
	viper.SetDefault("Gateway.ServerRequestTimeout", "30s")
	viper.SetDefault("Gateway.ListLimit", "100")
	viper.SetDefault("Gateway.ChainReadCacheTTL", "30s")
	viper.SetDefault("Gateway.RecorderBatchSize", "50")
	viper.SetDefault("Gateway.RecorderFlushInterval", "2s")
	viper.SetDefault("Gateway.RecorderChannelSize", "100")
	viper.SetDefault("Gateway.RecorderBackoffMaxElapsedTime", "1m")
	viper.SetDefault("Gateway.RecorderBackoffMaxInterval", "10s")
}
