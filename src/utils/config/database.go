package config

import (
	"time"

	"github.com/spf13/viper"
)

type Database struct {
	// Mongo connection string
	URI string

	// Database holding the platform's collections
	Name string

	// Server selection / connect deadline
	ConnectTimeout time.Duration

	PingTimeout time.Duration

	MaxPoolSize uint64

	// Created on startup when missing
	CreateIndexes bool
}

func setDatabaseDefaults() {
	viper.SetDefault("Database.URI", "mongodb://127.0.0.1:27017")
	viper.SetDefault("Database.Name", "rwa-platform")
	viper.SetDefault("Database.ConnectTimeout", "10s")
	viper.SetDefault("Database.PingTimeout", "10s")
	viper.SetDefault("Database.MaxPoolSize", "10")
	viper.SetDefault("Database.CreateIndexes", "true")
}
