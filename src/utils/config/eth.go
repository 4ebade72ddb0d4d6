package config

import (
	"time"

	"github.com/spf13/viper"
)

type Eth struct {
	// JSON-RPC endpoint of the chain the contracts are deployed on
	RpcUrl string

	// Expected chain id, verified on dial when non-zero
	ChainId int64

	// Deployed contract addresses
	IdentityRegistryAddress       string
	TrustedIssuersRegistryAddress string
	ClaimTopicsRegistryAddress    string
	TokenCloneFactoryAddress      string

	CallTimeout time.Duration

	// Etherscan-compatible API used to resolve ABIs of unknown contracts.
	// Empty disables the explorer client.
	ExplorerApiUrl string
	ExplorerApiKey string

	ExplorerRequestTimeout time.Duration

	// Requests per second towards the explorer API
	ExplorerRateLimit float64
}

func setEthDefaults() {
	viper.SetDefault("Eth.RpcUrl", "")
	viper.SetDefault("Eth.ChainId", "0")
	viper.SetDefault("Eth.IdentityRegistryAddress", "")
	viper.SetDefault("Eth.TrustedIssuersRegistryAddress", "")
	viper.SetDefault("Eth.ClaimTopicsRegistryAddress", "")
	viper.SetDefault("Eth.TokenCloneFactoryAddress", "")
	viper.SetDefault("Eth.CallTimeout", "10s")
	viper.SetDefault("Eth.ExplorerApiUrl", "")
	viper.SetDefault("Eth.ExplorerApiKey", "")
	viper.SetDefault("Eth.ExplorerRequestTimeout", "15s")
	viper.SetDefault("Eth.ExplorerRateLimit", "4")
}
