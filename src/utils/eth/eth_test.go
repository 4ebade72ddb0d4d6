package eth

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func TestEthTestSuite(t *testing.T) {
	suite.Run(t, new(EthTestSuite))
}

type EthTestSuite struct {
	suite.Suite
}

func (s *EthTestSuite) TestParsedABIs() {
	abis := KnownABIs()
	assert.Len(s.T(), abis, 5)
	for _, parsed := range abis {
		assert.NotNil(s.T(), parsed)
	}

	_, ok := identityABI.Methods["getClaim"]
	assert.True(s.T(), ok)
	_, ok = identityRegistryABI.Methods["isVerified"]
	assert.True(s.T(), ok)
	_, ok = trustedIssuersRegistryABI.Methods["isTrustedIssuer"]
	assert.True(s.T(), ok)
	_, ok = tokenCloneFactoryABI.Methods["getTokens"]
	assert.True(s.T(), ok)
}

func (s *EthTestSuite) TestClaimId() {
	issuer := common.HexToAddress("0x2222222222222222222222222222222222222222")
	other := common.HexToAddress("0x3333333333333333333333333333333333333333")

	id := ClaimId(issuer, 1)
	assert.NotEqual(s.T(), [32]byte{}, id)

	// Deterministic, distinct per issuer and per topic
	assert.Equal(s.T(), id, ClaimId(issuer, 1))
	assert.NotEqual(s.T(), id, ClaimId(issuer, 2))
	assert.NotEqual(s.T(), id, ClaimId(other, 1))
}

func (s *EthTestSuite) TestDecodeTransactionInputData() {
	issuer := common.HexToAddress("0x2222222222222222222222222222222222222222")

	data, err := identityABI.Pack("addClaim",
		big.NewInt(1), big.NewInt(1), issuer, []byte{0x01}, []byte{0x02}, "https://example.com")
	assert.Nil(s.T(), err)

	method, inputs, err := DecodeTransactionInputData(&identityABI, data)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), "addClaim", method.Name)
	assert.Equal(s.T(), big.NewInt(1), inputs["_topic"])

	// Calldata of an unknown selector doesn't decode
	_, _, err = DecodeTransactionInputData(&claimTopicsRegistryABI, data)
	assert.NotNil(s.T(), err)

	// Too short to carry a selector
	_, _, err = DecodeTransactionInputData(&identityABI, []byte{0x01})
	assert.NotNil(s.T(), err)
}
