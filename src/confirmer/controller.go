package confirmer

import (
	"errors"

	"claimgate/src/utils/config"
	"claimgate/src/utils/eth"
	"claimgate/src/utils/model"
	"claimgate/src/utils/monitoring"
	monitor_confirmer "claimgate/src/utils/monitoring/confirmer"
	"claimgate/src/utils/publisher"
	"claimgate/src/utils/task"
)

type Controller struct {
	*task.Task
}

// Main class that orchestrates the confirmer functionalities.
// Polls pending transactions and settles them against chain receipts.
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)

	self.Task = task.NewTask(config, "confirmer")

	if config.Eth.RpcUrl == "" {
		err = errors.New("confirmer requires a configured RPC endpoint")
		return
	}

	monitor := monitor_confirmer.NewMonitor()

	monitoringServer := monitoring.NewServer(config).
		WithMonitor(monitor)

	db, err := model.Connect(self.Ctx, &config.Database, "confirmer")
	if err != nil {
		return
	}
	store := model.NewMongoStore(db)

	client, err := eth.GetEthClient(self.Ctx, self.Log, &config.Eth)
	if err != nil {
		return
	}

	checker := NewChecker(config).
		WithStore(store).
		WithClient(client).
		WithExplorer(eth.NewExplorerClient(&config.Eth)).
		WithMonitor(monitor)

	self.Task = self.Task.
		WithSubtask(monitor.Task).
		WithSubtask(monitoringServer.Task)

	if config.Redis.Host != "" {
		events := make(chan publisher.Event, config.Redis.MaxQueueSize)

		redisPublisher := publisher.NewRedisPublisher[publisher.Event](config, "publisher").
			WithInputChannel(events).
			WithChannelName(config.Redis.ChannelName).
			WithMonitor(monitor)

		checker.WithEventChannel(events)

		self.Task = self.Task.
			WithSubtask(redisPublisher.Task)
	}

	self.Task = self.Task.
		WithSubtask(checker.Task)

	return
}
