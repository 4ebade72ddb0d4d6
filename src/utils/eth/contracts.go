package eth

import (
	"context"
	"errors"
	"math/big"
	"time"

	"claimgate/src/utils/config"
	"claimgate/src/utils/logger"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

var ErrUnexpectedOutput = errors.New("unexpected contract call output")

// Read-only view over one deployed contract
type Contract struct {
	address common.Address
	abi     abi.ABI
	client  *ethclient.Client
	log     *logrus.Entry
	timeout time.Duration
}

func (self *Contract) Address() common.Address {
	return self.address
}

func (self *Contract) call(ctx context.Context, method string, args ...interface{}) (out []interface{}, err error) {
	data, err := self.abi.Pack(method, args...)
	if err != nil {
		return
	}

	if self.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, self.timeout)
		defer cancel()
	}

	raw, err := self.client.CallContract(ctx, ethereum.CallMsg{To: &self.address, Data: data}, nil)
	if err != nil {
		self.log.WithError(err).WithField("method", method).Error("Contract call failed")
		return
	}

	return self.abi.Unpack(method, raw)
}

func (self *Contract) callBool(ctx context.Context, method string, args ...interface{}) (v bool, err error) {
	out, err := self.call(ctx, method, args...)
	if err != nil {
		return
	}
	v, ok := out[0].(bool)
	if !ok {
		err = ErrUnexpectedOutput
	}
	return
}

// Per-user ONCHAINID contract holding the user's claims
type Identity struct {
	*Contract
}

type Claim struct {
	Topic     *big.Int
	Scheme    *big.Int
	Issuer    common.Address
	Signature []byte
	Data      []byte
	Uri       string
}

// Claim ids are keccak256(abi.encode(issuer, topic)) per ERC-735
func ClaimId(issuer common.Address, topic int64) (id [32]byte) {
	packed := make([]byte, 0, 64)
	packed = append(packed, common.LeftPadBytes(issuer.Bytes(), 32)...)
	packed = append(packed, common.LeftPadBytes(big.NewInt(topic).Bytes(), 32)...)
	copy(id[:], crypto.Keccak256(packed))
	return
}

func (self *Identity) GetClaim(ctx context.Context, claimId [32]byte) (claim *Claim, err error) {
	out, err := self.call(ctx, "getClaim", claimId)
	if err != nil {
		return
	}
	if len(out) != 6 {
		err = ErrUnexpectedOutput
		return
	}

	claim = &Claim{
		Topic:     out[0].(*big.Int),
		Scheme:    out[1].(*big.Int),
		Issuer:    out[2].(common.Address),
		Signature: out[3].([]byte),
		Data:      out[4].([]byte),
		Uri:       out[5].(string),
	}
	return
}

// A claim exists when its issuer slot is filled
func (self *Identity) ClaimExists(ctx context.Context, issuer common.Address, topic int64) (exists bool, err error) {
	claim, err := self.GetClaim(ctx, ClaimId(issuer, topic))
	if err != nil {
		return
	}
	exists = claim.Issuer != (common.Address{})
	return
}

// Maps wallet addresses to their Identity contracts
type IdentityRegistry struct {
	*Contract
}

func (self *IdentityRegistry) IsRegistered(ctx context.Context, user common.Address) (bool, error) {
	return self.callBool(ctx, "contains", user)
}

func (self *IdentityRegistry) IsVerified(ctx context.Context, user common.Address) (bool, error) {
	return self.callBool(ctx, "isVerified", user)
}

func (self *IdentityRegistry) GetIdentity(ctx context.Context, user common.Address) (identity common.Address, err error) {
	out, err := self.call(ctx, "identity", user)
	if err != nil {
		return
	}
	identity, ok := out[0].(common.Address)
	if !ok {
		err = ErrUnexpectedOutput
	}
	return
}

type TrustedIssuersRegistry struct {
	*Contract
}

func (self *TrustedIssuersRegistry) IsTrustedIssuer(ctx context.Context, issuer common.Address) (bool, error) {
	return self.callBool(ctx, "isTrustedIssuer", issuer)
}

func (self *TrustedIssuersRegistry) HasClaimTopic(ctx context.Context, issuer common.Address, topic int64) (bool, error) {
	return self.callBool(ctx, "hasClaimTopic", issuer, big.NewInt(topic))
}

func (self *TrustedIssuersRegistry) GetTrustedIssuers(ctx context.Context) (issuers []common.Address, err error) {
	out, err := self.call(ctx, "getTrustedIssuers")
	if err != nil {
		return
	}
	issuers, ok := out[0].([]common.Address)
	if !ok {
		err = ErrUnexpectedOutput
	}
	return
}

func (self *TrustedIssuersRegistry) GetTrustedIssuerClaimTopics(ctx context.Context, issuer common.Address) (topics []*big.Int, err error) {
	out, err := self.call(ctx, "getTrustedIssuerClaimTopics", issuer)
	if err != nil {
		return
	}
	topics, ok := out[0].([]*big.Int)
	if !ok {
		err = ErrUnexpectedOutput
	}
	return
}

type ClaimTopicsRegistry struct {
	*Contract
}

func (self *ClaimTopicsRegistry) GetClaimTopics(ctx context.Context) (topics []*big.Int, err error) {
	out, err := self.call(ctx, "getClaimTopics")
	if err != nil {
		return
	}
	topics, ok := out[0].([]*big.Int)
	if !ok {
		err = ErrUnexpectedOutput
	}
	return
}

type TokenCloneFactory struct {
	*Contract
}

func (self *TokenCloneFactory) GetTokens(ctx context.Context) (tokens []common.Address, err error) {
	out, err := self.call(ctx, "getTokens")
	if err != nil {
		return
	}
	tokens, ok := out[0].([]common.Address)
	if !ok {
		err = ErrUnexpectedOutput
	}
	return
}

// Contracts bundles the wrappers for the configured deployment.
// Wrappers for unconfigured addresses stay nil, callers check before use.
type Contracts struct {
	Client *ethclient.Client

	IdentityRegistry       *IdentityRegistry
	TrustedIssuersRegistry *TrustedIssuersRegistry
	ClaimTopicsRegistry    *ClaimTopicsRegistry
	TokenCloneFactory      *TokenCloneFactory

	timeout time.Duration
}

func NewContracts(ethConfig *config.Eth, client *ethclient.Client) (self *Contracts) {
	self = new(Contracts)
	self.Client = client
	self.timeout = ethConfig.CallTimeout

	log := logger.NewSublogger("eth-contracts")

	newContract := func(address string, parsed abi.ABI) *Contract {
		if address == "" {
			return nil
		}
		return &Contract{
			address: common.HexToAddress(address),
			abi:     parsed,
			client:  client,
			log:     log,
			timeout: ethConfig.CallTimeout,
		}
	}

	if c := newContract(ethConfig.IdentityRegistryAddress, identityRegistryABI); c != nil {
		self.IdentityRegistry = &IdentityRegistry{c}
	}
	if c := newContract(ethConfig.TrustedIssuersRegistryAddress, trustedIssuersRegistryABI); c != nil {
		self.TrustedIssuersRegistry = &TrustedIssuersRegistry{c}
	}
	if c := newContract(ethConfig.ClaimTopicsRegistryAddress, claimTopicsRegistryABI); c != nil {
		self.ClaimTopicsRegistry = &ClaimTopicsRegistry{c}
	}
	if c := newContract(ethConfig.TokenCloneFactoryAddress, tokenCloneFactoryABI); c != nil {
		self.TokenCloneFactory = &TokenCloneFactory{c}
	}

	return
}

// Identities are per-user contracts, wrapped on demand
func (self *Contracts) Identity(address common.Address) *Identity {
	return &Identity{&Contract{
		address: address,
		abi:     identityABI,
		client:  self.Client,
		log:     logger.NewSublogger("eth-identity"),
		timeout: self.timeout,
	}}
}
