package eth

import (
	"context"
	"fmt"
	"strings"

	"claimgate/src/utils/build_info"
	"claimgate/src/utils/config"
	"claimgate/src/utils/logger"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type RawABIResponse struct {
	Status  *string `json:"status"`
	Message *string `json:"message"`
	Result  *string `json:"result"`
}

// Resolves verified-contract ABIs through an Etherscan-compatible API.
// Responses are cached, requests are rate limited.
type ExplorerClient struct {
	client  *resty.Client
	limiter *rate.Limiter
	cache   *cache.Cache
	log     *logrus.Entry

	apiUrl string
	apiKey string
}

func NewExplorerClient(ethConfig *config.Eth) (self *ExplorerClient) {
	if ethConfig.ExplorerApiUrl == "" {
		return nil
	}

	self = new(ExplorerClient)
	self.log = logger.NewSublogger("explorer-client")
	self.apiUrl = ethConfig.ExplorerApiUrl
	self.apiKey = ethConfig.ExplorerApiKey
	self.limiter = rate.NewLimiter(rate.Limit(ethConfig.ExplorerRateLimit), 1)
	self.cache = cache.New(cache.NoExpiration, 0)

	self.client = resty.New().
		SetTimeout(ethConfig.ExplorerRequestTimeout).
		SetHeader("User-Agent", "claimgate/"+build_info.Version).
		SetRetryCount(1).
		AddRetryAfterErrorCondition()

	return
}

func (self *ExplorerClient) GetContractABI(ctx context.Context, address string) (contractABI *abi.ABI, err error) {
	address = strings.ToLower(address)

	if cached, ok := self.cache.Get(address); ok {
		return cached.(*abi.ABI), nil
	}

	err = self.limiter.Wait(ctx)
	if err != nil {
		return
	}

	rawABIResponse := &RawABIResponse{}
	resp, err := self.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"module":  "contract",
			"action":  "getabi",
			"address": address,
			"apikey":  self.apiKey,
		}).
		SetResult(rawABIResponse).
		Get(self.apiUrl)
	if err != nil {
		return
	}

	if !resp.IsSuccess() {
		err = fmt.Errorf("get contract raw abi was not successful: %s", resp.Status())
		return
	}

	if rawABIResponse.Status == nil || *rawABIResponse.Status != "1" {
		err = fmt.Errorf("get contract raw abi failed: %s", resp.String())
		return
	}

	parsed, err := abi.JSON(strings.NewReader(*rawABIResponse.Result))
	if err != nil {
		return
	}

	contractABI = &parsed
	self.cache.Set(address, contractABI, cache.DefaultExpiration)
	return
}
