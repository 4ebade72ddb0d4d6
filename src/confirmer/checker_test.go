package confirmer

import (
	"context"
	"math/big"
	"testing"
	"time"

	"claimgate/src/utils/config"
	"claimgate/src/utils/eth"
	"claimgate/src/utils/model"
	monitor_confirmer "claimgate/src/utils/monitoring/confirmer"
	"claimgate/src/utils/publisher"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	checkerTxHash   = "0x5555555555555555555555555555555555555555555555555555555555555555"
	checkerContract = "0x6666666666666666666666666666666666666666"
	checkerIssuer   = "0x7777777777777777777777777777777777777777"
)

// In-memory stand-in for the transaction collection, only the methods
// the checker touches are implemented
type settlementStore struct {
	model.Store

	pending   []*model.Transaction
	confirmed map[string]uint64
	metadata  map[string]map[string]string
	failed    map[string]string
	settled   map[string]bool
}

func newSettlementStore() *settlementStore {
	return &settlementStore{
		confirmed: make(map[string]uint64),
		metadata:  make(map[string]map[string]string),
		failed:    make(map[string]string),
		settled:   make(map[string]bool),
	}
}

func (self *settlementStore) ListPendingTransactions(ctx context.Context, limit int64) ([]*model.Transaction, error) {
	return self.pending, nil
}

func (self *settlementStore) ConfirmTransaction(ctx context.Context, txHash string, blockNumber, gasUsed uint64, metadata map[string]string) (bool, error) {
	if self.settled[txHash] {
		return false, nil
	}
	self.settled[txHash] = true
	self.confirmed[txHash] = blockNumber
	self.metadata[txHash] = metadata
	return true, nil
}

func (self *settlementStore) FailTransaction(ctx context.Context, txHash, reason string) (bool, error) {
	if self.settled[txHash] {
		return false, nil
	}
	self.settled[txHash] = true
	self.failed[txHash] = reason
	return true, nil
}

type fakeReceiptSource struct {
	receipts map[common.Hash]*types.Receipt
	txs      map[common.Hash]*types.Transaction
}

func (self *fakeReceiptSource) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	receipt, ok := self.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (self *fakeReceiptSource) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	transaction, ok := self.txs[hash]
	if !ok {
		return nil, false, ethereum.NotFound
	}
	return transaction, false, nil
}

func TestCheckerTestSuite(t *testing.T) {
	suite.Run(t, new(CheckerTestSuite))
}

type CheckerTestSuite struct {
	suite.Suite
	config *config.Config

	store   *settlementStore
	client  *fakeReceiptSource
	monitor *monitor_confirmer.Monitor
	events  chan publisher.Event
	checker *Checker
}

func (s *CheckerTestSuite) SetupTest() {
	s.config = config.Default()
	s.config.Confirmer.DecodeInput = false
	s.config.Confirmer.MaxPendingAge = time.Hour
	s.config.Confirmer.BackoffMaxElapsedTime = 100 * time.Millisecond
	s.config.Confirmer.BackoffMaxInterval = 10 * time.Millisecond

	s.store = newSettlementStore()
	s.client = &fakeReceiptSource{
		receipts: make(map[common.Hash]*types.Receipt),
		txs:      make(map[common.Hash]*types.Transaction),
	}
	s.monitor = monitor_confirmer.NewMonitor()
	s.events = make(chan publisher.Event, 10)
	s.checker = NewChecker(s.config).
		WithStore(s.store).
		WithClient(s.client).
		WithMonitor(s.monitor).
		WithEventChannel(s.events)
}

func (s *CheckerTestSuite) pendingTransaction(age time.Duration) *model.Transaction {
	return &model.Transaction{
		ID:              primitive.NewObjectID(),
		TxHash:          checkerTxHash,
		ContractAddress: checkerContract,
		Type:            model.TransactionTypeIdentityClaimAdd,
		Status:          model.TransactionStatusPending,
		CreatedAt:       time.Now().Add(-age),
	}
}

func (s *CheckerTestSuite) successfulReceipt() *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(123),
		GasUsed:     21000,
	}
}

func (s *CheckerTestSuite) TestConfirmsSuccessfulReceipt() {
	transaction := s.pendingTransaction(time.Minute)
	s.client.receipts[common.HexToHash(checkerTxHash)] = s.successfulReceipt()

	s.checker.check(transaction)

	assert.Equal(s.T(), uint64(123), s.store.confirmed[checkerTxHash])
	assert.Empty(s.T(), s.store.failed)
	assert.Equal(s.T(), uint64(1), s.monitor.Report.Confirmer.State.TxsConfirmed.Load())

	event := <-s.events
	assert.Equal(s.T(), publisher.EventTransactionConfirmed, event.Kind)
	assert.Equal(s.T(), checkerTxHash, event.TxHash)
}

func (s *CheckerTestSuite) TestFailsRevertedReceipt() {
	transaction := s.pendingTransaction(time.Minute)
	s.client.receipts[common.HexToHash(checkerTxHash)] = &types.Receipt{
		Status:      types.ReceiptStatusFailed,
		BlockNumber: big.NewInt(123),
	}

	s.checker.check(transaction)

	assert.Equal(s.T(), "reverted on chain", s.store.failed[checkerTxHash])
	assert.Empty(s.T(), s.store.confirmed)
	assert.Equal(s.T(), uint64(1), s.monitor.Report.Confirmer.State.TxsFailed.Load())

	event := <-s.events
	assert.Equal(s.T(), publisher.EventTransactionFailed, event.Kind)
}

func (s *CheckerTestSuite) TestFreshPendingStaysPending() {
	transaction := s.pendingTransaction(time.Minute)

	s.checker.check(transaction)

	assert.Empty(s.T(), s.store.confirmed)
	assert.Empty(s.T(), s.store.failed)
	assert.Equal(s.T(), uint64(0), s.monitor.Report.Confirmer.State.TxsAgedOut.Load())
	assert.Len(s.T(), s.events, 0)
}

func (s *CheckerTestSuite) TestAgesOutStalePending() {
	transaction := s.pendingTransaction(2 * time.Hour)

	s.checker.check(transaction)

	assert.Equal(s.T(), "no receipt within max pending age", s.store.failed[checkerTxHash])
	assert.Equal(s.T(), uint64(1), s.monitor.Report.Confirmer.State.TxsAgedOut.Load())

	event := <-s.events
	assert.Equal(s.T(), publisher.EventTransactionFailed, event.Kind)
	assert.Equal(s.T(), string(model.TransactionStatusFailed), event.Status)
}

func (s *CheckerTestSuite) TestSettledRecordUntouched() {
	transaction := s.pendingTransaction(time.Minute)
	s.store.settled[checkerTxHash] = true
	s.client.receipts[common.HexToHash(checkerTxHash)] = s.successfulReceipt()

	s.checker.check(transaction)

	assert.Empty(s.T(), s.store.confirmed)
	assert.Equal(s.T(), uint64(0), s.monitor.Report.Confirmer.State.TxsConfirmed.Load())
	assert.Len(s.T(), s.events, 0)
}

func (s *CheckerTestSuite) TestDecodesKnownCalldata() {
	s.config.Confirmer.DecodeInput = true

	var identityABI *abi.ABI
	for _, known := range eth.KnownABIs() {
		if _, ok := known.Methods["addClaim"]; ok {
			identityABI = known
		}
	}
	assert.NotNil(s.T(), identityABI)

	data, err := identityABI.Pack("addClaim",
		big.NewInt(1), big.NewInt(1), common.HexToAddress(checkerIssuer),
		[]byte{0x01}, []byte{0x02}, "https://example.com")
	assert.Nil(s.T(), err)

	to := common.HexToAddress(checkerContract)
	s.client.txs[common.HexToHash(checkerTxHash)] = types.NewTx(&types.LegacyTx{
		To:       &to,
		Gas:      100000,
		GasPrice: big.NewInt(1),
		Value:    big.NewInt(0),
		Data:     data,
	})
	s.client.receipts[common.HexToHash(checkerTxHash)] = s.successfulReceipt()

	transaction := s.pendingTransaction(time.Minute)
	s.checker.check(transaction)

	assert.Equal(s.T(), "addClaim", s.store.metadata[checkerTxHash]["method"])
	assert.Equal(s.T(), uint64(1), s.monitor.Report.Confirmer.State.InputsDecoded.Load())
}
