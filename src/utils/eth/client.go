package eth

import (
	"context"
	"fmt"
	"math/big"

	"claimgate/src/utils/config"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

// Dials the configured JSON-RPC endpoint and, when a chain id is set,
// refuses to talk to the wrong chain.
func GetEthClient(ctx context.Context, log *logrus.Entry, ethConfig *config.Eth) (client *ethclient.Client, err error) {
	client, err = ethclient.DialContext(ctx, ethConfig.RpcUrl)
	if err != nil {
		log.WithError(err).Error("Cannot get ETH client")
		return
	}

	if ethConfig.ChainId != 0 {
		var chainId *big.Int
		chainId, err = client.ChainID(ctx)
		if err != nil {
			log.WithError(err).Error("Failed to get chain id")
			return
		}
		if chainId.Int64() != ethConfig.ChainId {
			err = fmt.Errorf("unexpected chain id %d, want %d", chainId.Int64(), ethConfig.ChainId)
			log.WithError(err).Error("Chain id mismatch")
			return
		}
	}

	return
}
