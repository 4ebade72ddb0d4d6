package config

import (
	"time"

	"github.com/spf13/viper"
)

type Redis struct {
	// Empty host disables event publishing
	Host     string
	Port     uint16
	User     string
	Password string
	DB       int

	// Pub/sub channel document events are published to
	ChannelName string

	MinIdleConns    int
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration

	MaxWorkers   int
	MaxQueueSize int

	MaxElapsedTime time.Duration
	MaxInterval    time.Duration
}

func setRedisDefaults() {
	viper.SetDefault("Redis.Host", "")
	viper.SetDefault("Redis.Port", "6379")
	viper.SetDefault("Redis.User", "")
	viper.SetDefault("Redis.Password", "")
	viper.SetDefault("Redis.DB", "0")
	viper.SetDefault("Redis.ChannelName", "claimgate:events")
	viper.SetDefault("Redis.MinIdleConns", "1")
	viper.SetDefault("Redis.MaxIdleConns", "2")
	viper.SetDefault("Redis.MaxOpenConns", "5")
	viper.SetDefault("Redis.ConnMaxIdleTime", "1m")
	viper.SetDefault("Redis.ConnMaxLifetime", "10m")
	viper.SetDefault("Redis.MaxWorkers", "2")
	viper.SetDefault("Redis.MaxQueueSize", "100")
	viper.SetDefault("Redis.MaxElapsedTime", "30s")
	viper.SetDefault("Redis.MaxInterval", "5s")
}
