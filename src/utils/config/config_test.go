package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

type ConfigTestSuite struct {
	suite.Suite
}

func (s *ConfigTestSuite) TestDefaults() {
	config, err := Load("")
	assert.Nil(s.T(), err)

	assert.Equal(s.T(), "0.0.0.0:4000", config.Gateway.ListenAddress)
	assert.Equal(s.T(), "0.0.0.0:7777", config.Gateway.MonitoringListenAddress)
	assert.Equal(s.T(), int64(100), config.Gateway.ListLimit)
	assert.Equal(s.T(), "rwa-platform", config.Database.Name)
	assert.Equal(s.T(), 15*time.Second, config.Confirmer.PollInterval)
	assert.Equal(s.T(), 24*time.Hour, config.Confirmer.MaxPendingAge)
	assert.Equal(s.T(), "claimgate:events", config.Redis.ChannelName)
	assert.Equal(s.T(), int64(10485760), config.Uploads.MaxFileSize)
}

func (s *ConfigTestSuite) TestEnvOverride() {
	s.T().Setenv("CLAIMGATE_GATEWAY_LIST_LIMIT", "25")
	s.T().Setenv("CLAIMGATE_LOG_LEVEL", "INFO")

	config, err := Load("")
	assert.Nil(s.T(), err)

	assert.Equal(s.T(), int64(25), config.Gateway.ListLimit)
	assert.Equal(s.T(), "INFO", config.LogLevel)
}

func (s *ConfigTestSuite) TestLegacyEnvAliases() {
	s.T().Setenv("MONGODB_URI", "mongodb://db.internal:27017")
	s.T().Setenv("RPC_URL", "https://rpc.internal:8545")
	s.T().Setenv("NEXT_PUBLIC_IDENTITY_REGISTRY_ADDRESS", "0x1111111111111111111111111111111111111111")

	config, err := Load("")
	assert.Nil(s.T(), err)

	assert.Equal(s.T(), "mongodb://db.internal:27017", config.Database.URI)
	assert.Equal(s.T(), "https://rpc.internal:8545", config.Eth.RpcUrl)
	assert.Equal(s.T(), "0x1111111111111111111111111111111111111111", config.Eth.IdentityRegistryAddress)
}
