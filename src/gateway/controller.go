package gateway

import (
	"claimgate/src/utils/config"
	"claimgate/src/utils/eth"
	"claimgate/src/utils/model"
	"claimgate/src/utils/monitoring"
	monitor_gateway "claimgate/src/utils/monitoring/gateway"
	"claimgate/src/utils/publisher"
	"claimgate/src/utils/task"

	"github.com/ethereum/go-ethereum/ethclient"
)

type Controller struct {
	*task.Task
}

// Main class that orchestrates the gateway functionalities.
// Wires the REST server, the transaction recorder, monitoring and
// the optional Redis event publisher.
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)

	self.Task = task.NewTask(config, "gateway")

	monitor := monitor_gateway.NewMonitor()

	monitoringServer := monitoring.NewServer(config).
		WithMonitor(monitor)

	db, err := model.Connect(self.Ctx, &config.Database, "gateway")
	if err != nil {
		return
	}
	store := model.NewMongoStore(db)

	// Chain access is optional, endpoints depending on it answer 503
	// when it is not configured
	var contracts *eth.Contracts
	if config.Eth.RpcUrl != "" {
		var client *ethclient.Client
		client, err = eth.GetEthClient(self.Ctx, self.Log, &config.Eth)
		if err != nil {
			return
		}
		contracts = eth.NewContracts(&config.Eth, client)
	}

	recorder := NewRecorder(config).
		WithStore(store).
		WithMonitor(monitor)

	server := NewServer(config).
		WithStore(store).
		WithContracts(contracts).
		WithMonitor(monitor).
		WithRecorderChannel(recorder.Input())

	self.Task = self.Task.
		WithSubtask(monitor.Task).
		WithSubtask(monitoringServer.Task).
		WithSubtask(recorder.Task)

	if config.Redis.Host != "" {
		events := make(chan publisher.Event, config.Redis.MaxQueueSize)

		redisPublisher := publisher.NewRedisPublisher[publisher.Event](config, "publisher").
			WithInputChannel(events).
			WithChannelName(config.Redis.ChannelName).
			WithMonitor(monitor)

		server.WithEventChannel(events)

		self.Task = self.Task.
			WithSubtask(redisPublisher.Task)
	}

	self.Task = self.Task.
		WithSubtask(server.Task)

	return
}
