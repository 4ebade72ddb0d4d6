package eth

import (
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Splits calldata into the 4-byte selector and the packed arguments
func DecodeTransactionInputData(contractABI *abi.ABI, data []byte) (method *abi.Method, inputsMap map[string]interface{}, err error) {
	if len(data) < 4 {
		err = errors.New("no data to decode")
		return
	}
	methodSigData := data[:4]
	inputsSigData := data[4:]
	method, err = contractABI.MethodById(methodSigData)
	if err != nil {
		return
	}
	inputsMap = make(map[string]interface{})
	err = method.Inputs.UnpackIntoMap(inputsMap, inputsSigData)
	return
}

// The parsed fragments of the platform's own contracts,
// tried in order when decoding confirmed transactions
func KnownABIs() []*abi.ABI {
	return []*abi.ABI{
		&identityABI,
		&identityRegistryABI,
		&trustedIssuersRegistryABI,
		&claimTopicsRegistryABI,
		&tokenCloneFactoryABI,
	}
}
