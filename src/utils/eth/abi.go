package eth

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Interface fragments of the platform's deployed contracts.
// Only the functions the service actually calls or decodes.
const (
	IdentityABI = `[
		{"type":"function","name":"getClaim","stateMutability":"view","inputs":[{"name":"_claimId","type":"bytes32"}],"outputs":[{"name":"topic","type":"uint256"},{"name":"scheme","type":"uint256"},{"name":"issuer","type":"address"},{"name":"signature","type":"bytes"},{"name":"data","type":"bytes"},{"name":"uri","type":"string"}]},
		{"type":"function","name":"getClaimIdsByTopic","stateMutability":"view","inputs":[{"name":"_topic","type":"uint256"}],"outputs":[{"name":"claimIds","type":"bytes32[]"}]},
		{"type":"function","name":"addClaim","stateMutability":"nonpayable","inputs":[{"name":"_topic","type":"uint256"},{"name":"_scheme","type":"uint256"},{"name":"_issuer","type":"address"},{"name":"_signature","type":"bytes"},{"name":"_data","type":"bytes"},{"name":"_uri","type":"string"}],"outputs":[{"name":"claimRequestId","type":"bytes32"}]},
		{"type":"function","name":"removeClaim","stateMutability":"nonpayable","inputs":[{"name":"_claimId","type":"bytes32"}],"outputs":[{"name":"success","type":"bool"}]}
	]`

	IdentityRegistryABI = `[
		{"type":"function","name":"contains","stateMutability":"view","inputs":[{"name":"_userAddress","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
		{"type":"function","name":"identity","stateMutability":"view","inputs":[{"name":"_userAddress","type":"address"}],"outputs":[{"name":"","type":"address"}]},
		{"type":"function","name":"isVerified","stateMutability":"view","inputs":[{"name":"_userAddress","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
		{"type":"function","name":"registerIdentity","stateMutability":"nonpayable","inputs":[{"name":"_userAddress","type":"address"},{"name":"_identity","type":"address"},{"name":"_country","type":"uint16"}],"outputs":[]}
	]`

	TrustedIssuersRegistryABI = `[
		{"type":"function","name":"getTrustedIssuers","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
		{"type":"function","name":"isTrustedIssuer","stateMutability":"view","inputs":[{"name":"_issuer","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
		{"type":"function","name":"getTrustedIssuerClaimTopics","stateMutability":"view","inputs":[{"name":"_trustedIssuer","type":"address"}],"outputs":[{"name":"","type":"uint256[]"}]},
		{"type":"function","name":"hasClaimTopic","stateMutability":"view","inputs":[{"name":"_issuer","type":"address"},{"name":"_claimTopic","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
		{"type":"function","name":"addTrustedIssuer","stateMutability":"nonpayable","inputs":[{"name":"_trustedIssuer","type":"address"},{"name":"_claimTopics","type":"uint256[]"}],"outputs":[]},
		{"type":"function","name":"removeTrustedIssuer","stateMutability":"nonpayable","inputs":[{"name":"_trustedIssuer","type":"address"}],"outputs":[]}
	]`

	ClaimTopicsRegistryABI = `[
		{"type":"function","name":"getClaimTopics","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256[]"}]},
		{"type":"function","name":"addClaimTopic","stateMutability":"nonpayable","inputs":[{"name":"_claimTopic","type":"uint256"}],"outputs":[]}
	]`

	TokenCloneFactoryABI = `[
		{"type":"function","name":"getTokens","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
		{"type":"function","name":"createToken","stateMutability":"nonpayable","inputs":[{"name":"_name","type":"string"},{"name":"_symbol","type":"string"},{"name":"_decimals","type":"uint8"},{"name":"_identityRegistry","type":"address"}],"outputs":[{"name":"","type":"address"}]}
	]`
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

var (
	identityABI               = mustParseABI(IdentityABI)
	identityRegistryABI       = mustParseABI(IdentityRegistryABI)
	trustedIssuersRegistryABI = mustParseABI(TrustedIssuersRegistryABI)
	claimTopicsRegistryABI    = mustParseABI(ClaimTopicsRegistryABI)
	tokenCloneFactoryABI      = mustParseABI(TokenCloneFactoryABI)
)
