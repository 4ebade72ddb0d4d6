package confirmer

import (
	"context"
	"errors"
	"time"

	"claimgate/src/utils/config"
	"claimgate/src/utils/eth"
	"claimgate/src/utils/model"
	monitor_confirmer "claimgate/src/utils/monitoring/confirmer"
	"claimgate/src/utils/publisher"
	"claimgate/src/utils/task"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/ratelimit"
)

// The part of the eth client the checker relies on, satisfied by
// ethclient.Client
type ReceiptSource interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (tx *types.Transaction, isPending bool, err error)
}

// Polls pending transactions from the store and settles them against
// chain receipts. Receipts that never show up age the record out.
type Checker struct {
	*task.Task

	store    model.Store
	client   ReceiptSource
	explorer *eth.ExplorerClient
	monitor  *monitor_confirmer.Monitor

	// Limits RPC requests towards the node
	rateLimiter ratelimit.Limiter

	// Document events, nil when Redis is disabled
	events chan publisher.Event
}

func NewChecker(config *config.Config) (self *Checker) {
	self = new(Checker)

	self.rateLimiter = ratelimit.New(config.Confirmer.RpcRateLimit)

	self.Task = task.NewTask(config, "checker").
		WithPeriodicSubtaskFunc(config.Confirmer.PollInterval, self.poll).
		WithWorkerPool(config.Confirmer.MaxWorkers, config.Confirmer.MaxQueueSize)

	return
}

func (self *Checker) WithStore(store model.Store) *Checker {
	self.store = store
	return self
}

func (self *Checker) WithClient(client ReceiptSource) *Checker {
	self.client = client
	return self
}

func (self *Checker) WithExplorer(explorer *eth.ExplorerClient) *Checker {
	self.explorer = explorer
	return self
}

func (self *Checker) WithMonitor(monitor *monitor_confirmer.Monitor) *Checker {
	self.monitor = monitor
	return self
}

func (self *Checker) WithEventChannel(events chan publisher.Event) *Checker {
	self.events = events
	return self
}

func (self *Checker) poll() (err error) {
	transactions, err := self.store.ListPendingTransactions(self.Ctx, self.Config.Confirmer.BatchSize)
	if err != nil {
		self.monitor.Report.Confirmer.Errors.PollFailures.Inc()
		self.Log.WithError(err).Error("Failed to poll pending transactions")
		return nil
	}

	for _, transaction := range transactions {
		transaction := transaction
		self.SubmitToWorker(func() {
			self.check(transaction)
		})
	}
	return nil
}

func (self *Checker) check(transaction *model.Transaction) {
	self.monitor.Report.Confirmer.State.TxsChecked.Inc()

	self.rateLimiter.Take()

	ctx, cancel := context.WithTimeout(self.Ctx, self.Config.Eth.CallTimeout)
	defer cancel()

	receipt, err := self.client.TransactionReceipt(ctx, common.HexToHash(transaction.TxHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			self.ageOut(transaction)
			return
		}
		self.monitor.Report.Confirmer.Errors.ReceiptFailures.Inc()
		self.Log.WithError(err).WithField("txHash", transaction.TxHash).Error("Failed to fetch receipt")
		return
	}

	if receipt.Status == types.ReceiptStatusSuccessful {
		self.confirm(transaction, receipt)
	} else {
		self.fail(transaction, "reverted on chain")
	}
}

// Transactions with no receipt past the configured age are closed as
// failed, otherwise they'd be re-polled forever
func (self *Checker) ageOut(transaction *model.Transaction) {
	if time.Since(transaction.CreatedAt) < self.Config.Confirmer.MaxPendingAge {
		return
	}

	ok := self.updateWithRetry(func() (bool, error) {
		return self.store.FailTransaction(self.Ctx, transaction.TxHash, "no receipt within max pending age")
	})
	if !ok {
		return
	}

	self.monitor.Report.Confirmer.State.TxsAgedOut.Inc()
	self.emit(publisher.Event{
		Kind:   publisher.EventTransactionFailed,
		Id:     transaction.ID.Hex(),
		Status: string(model.TransactionStatusFailed),
		TxHash: transaction.TxHash,
	})
	self.Log.WithField("txHash", transaction.TxHash).Warn("Pending transaction aged out")
}

func (self *Checker) confirm(transaction *model.Transaction, receipt *types.Receipt) {
	metadata := self.decodeInput(transaction)

	ok := self.updateWithRetry(func() (bool, error) {
		return self.store.ConfirmTransaction(self.Ctx, transaction.TxHash,
			receipt.BlockNumber.Uint64(), receipt.GasUsed, metadata)
	})
	if !ok {
		return
	}

	self.monitor.Report.Confirmer.State.TxsConfirmed.Inc()
	self.emit(publisher.Event{
		Kind:   publisher.EventTransactionConfirmed,
		Id:     transaction.ID.Hex(),
		Status: string(model.TransactionStatusConfirmed),
		TxHash: transaction.TxHash,
	})
	self.Log.WithField("txHash", transaction.TxHash).Debug("Transaction confirmed")
}

func (self *Checker) fail(transaction *model.Transaction, reason string) {
	ok := self.updateWithRetry(func() (bool, error) {
		return self.store.FailTransaction(self.Ctx, transaction.TxHash, reason)
	})
	if !ok {
		return
	}

	self.monitor.Report.Confirmer.State.TxsFailed.Inc()
	self.emit(publisher.Event{
		Kind:   publisher.EventTransactionFailed,
		Id:     transaction.ID.Hex(),
		Status: string(model.TransactionStatusFailed),
		TxHash: transaction.TxHash,
	})
	self.Log.WithField("txHash", transaction.TxHash).Info("Transaction failed")
}

// Guarded status updates are retried with backoff, a false result means
// another worker settled the record first
func (self *Checker) updateWithRetry(update func() (bool, error)) (ok bool) {
	err := task.NewRetry().
		WithContext(self.Ctx).
		WithMaxElapsedTime(self.Config.Confirmer.BackoffMaxElapsedTime).
		WithMaxInterval(self.Config.Confirmer.BackoffMaxInterval).
		WithOnError(func(err error, isDurationAcceptable bool) error {
			self.Log.WithError(err).Error("Failed to update transaction, retrying")
			return err
		}).
		Run(func() (err error) {
			ok, err = update()
			return
		})
	if err != nil {
		self.monitor.Report.Confirmer.Errors.UpdateFailures.Inc()
		self.Log.WithError(err).Error("Failed to update transaction, giving up")
		return false
	}
	return ok
}

// Resolves the called method name from the transaction calldata.
// Tries the platform ABIs first, then the explorer when configured.
func (self *Checker) decodeInput(transaction *model.Transaction) (metadata map[string]string) {
	if !self.Config.Confirmer.DecodeInput {
		return nil
	}

	self.rateLimiter.Take()

	ctx, cancel := context.WithTimeout(self.Ctx, self.Config.Eth.CallTimeout)
	defer cancel()

	ethTransaction, _, err := self.client.TransactionByHash(ctx, common.HexToHash(transaction.TxHash))
	if err != nil {
		self.monitor.Report.Confirmer.Errors.DecodeFailures.Inc()
		self.Log.WithError(err).WithField("txHash", transaction.TxHash).Warn("Failed to fetch transaction for decoding")
		return nil
	}

	data := ethTransaction.Data()
	if len(data) < 4 {
		return nil
	}

	for _, knownABI := range eth.KnownABIs() {
		method, _, err := eth.DecodeTransactionInputData(knownABI, data)
		if err == nil {
			self.monitor.Report.Confirmer.State.InputsDecoded.Inc()
			return map[string]string{"method": method.Name}
		}
	}

	if self.explorer != nil && transaction.ContractAddress != "" {
		contractABI, err := self.explorer.GetContractABI(ctx, transaction.ContractAddress)
		if err == nil {
			method, _, err := eth.DecodeTransactionInputData(contractABI, data)
			if err == nil {
				self.monitor.Report.Confirmer.State.InputsDecoded.Inc()
				return map[string]string{"method": method.Name}
			}
		}
	}

	self.monitor.Report.Confirmer.Errors.DecodeFailures.Inc()
	return nil
}

// Drops the event when the channel is full, events are best effort
func (self *Checker) emit(event publisher.Event) {
	if self.events == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	select {
	case self.events <- event:
	default:
		self.Log.WithField("kind", event.Kind).Warn("Event channel full, dropping event")
	}
}
