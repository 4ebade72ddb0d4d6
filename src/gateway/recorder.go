package gateway

import (
	"context"

	"claimgate/src/utils/config"
	"claimgate/src/utils/model"
	monitor_gateway "claimgate/src/utils/monitoring/gateway"
	"claimgate/src/utils/task"
)

// Batches submitted transactions and writes them to the database in the
// background. Duplicate hashes within a batch are dropped by the store.
type Recorder struct {
	*task.SinkTask[*model.Transaction]

	store   model.Store
	monitor *monitor_gateway.Monitor

	input chan *model.Transaction
}

func NewRecorder(config *config.Config) (self *Recorder) {
	self = new(Recorder)

	self.input = make(chan *model.Transaction, config.Gateway.RecorderChannelSize)

	self.SinkTask = task.NewSinkTask[*model.Transaction](config, "recorder").
		WithBatchSize(config.Gateway.RecorderBatchSize).
		WithInputChannel(self.input).
		WithOnFlush(config.Gateway.RecorderFlushInterval, self.flush)

	return
}

func (self *Recorder) WithStore(store model.Store) *Recorder {
	self.store = store
	return self
}

func (self *Recorder) WithMonitor(monitor *monitor_gateway.Monitor) *Recorder {
	self.monitor = monitor
	return self
}

// Handlers submit through this channel
func (self *Recorder) Input() chan *model.Transaction {
	return self.input
}

func (self *Recorder) flush(batch []*model.Transaction) error {
	// The last flush runs while the task is stopping, after the task
	// context is already cancelled. The write must still go through.
	ctx := context.WithoutCancel(self.Ctx)

	err := task.NewRetry().
		WithContext(self.Ctx).
		WithMaxElapsedTime(self.Config.Gateway.RecorderBackoffMaxElapsedTime).
		WithMaxInterval(self.Config.Gateway.RecorderBackoffMaxInterval).
		WithOnError(func(err error, isDurationAcceptable bool) error {
			self.Log.WithError(err).Error("Failed to insert transactions, retrying")
			return err
		}).
		Run(func() (err error) {
			inserted, err := self.store.InsertTransactions(ctx, batch)
			if err != nil {
				return
			}
			self.monitor.Report.Gateway.State.TransactionsRecorded.Add(uint64(inserted))
			return
		})
	if err != nil {
		// Batch is dropped, the chain still has the authoritative record
		self.monitor.Report.Gateway.Errors.RecorderFailures.Inc()
		self.Log.WithError(err).WithField("len", len(batch)).Error("Failed to insert transactions, giving up")
	}
	return nil
}
