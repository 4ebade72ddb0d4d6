package publisher

import (
	"context"
	"encoding"
	"fmt"
	"time"

	"claimgate/src/utils/config"
	"claimgate/src/utils/monitoring"
	"claimgate/src/utils/task"

	"github.com/redis/go-redis/v9"
)

// Forwards document events to a Redis pub/sub channel
type RedisPublisher[In encoding.BinaryMarshaler] struct {
	*task.Task

	redisConfig config.Redis

	monitor monitoring.Monitor

	client      *redis.Client
	channelName string
	input       chan In
}

func NewRedisPublisher[In encoding.BinaryMarshaler](config *config.Config, name string) (self *RedisPublisher[In]) {
	self = new(RedisPublisher[In])

	self.redisConfig = config.Redis

	// The pool drains before the connection closes
	self.Task = task.NewTask(config, name).
		WithSubtaskFunc(self.run).
		WithOnBeforeStart(self.connect).
		WithWorkerPool(config.Redis.MaxWorkers, config.Redis.MaxQueueSize).
		WithOnAfterStop(self.disconnect)

	return
}

func (self *RedisPublisher[In]) WithInputChannel(v chan In) *RedisPublisher[In] {
	self.input = v
	return self
}

func (self *RedisPublisher[In]) WithChannelName(v string) *RedisPublisher[In] {
	self.channelName = v
	return self
}

func (self *RedisPublisher[In]) WithMonitor(monitor monitoring.Monitor) *RedisPublisher[In] {
	self.monitor = monitor
	return self
}

func (self *RedisPublisher[In]) disconnect() {
	err := self.client.Close()
	if err != nil {
		self.Log.WithError(err).Error("Failed to close connection")
	}
}

func (self *RedisPublisher[In]) connect() (err error) {
	opts := redis.Options{
		ClientName:      fmt.Sprintf("claimgate/%s", self.Name),
		Addr:            fmt.Sprintf("%s:%d", self.redisConfig.Host, self.redisConfig.Port),
		Password:        self.redisConfig.Password,
		Username:        self.redisConfig.User,
		DB:              self.redisConfig.DB,
		MinIdleConns:    self.redisConfig.MinIdleConns,
		MaxIdleConns:    self.redisConfig.MaxIdleConns,
		ConnMaxIdleTime: self.redisConfig.ConnMaxIdleTime,
		PoolSize:        self.redisConfig.MaxOpenConns,
		ConnMaxLifetime: self.redisConfig.ConnMaxLifetime,
	}

	self.client = redis.NewClient(&opts)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err = self.client.Ping(ctx).Err()
	if err != nil {
		self.Log.WithError(err).Error("Failed to ping Redis")
		return
	}

	return
}

// Forwards queued events to the worker pool. A stop request drains the
// channel first, the pool is stopped only after draining finishes so
// pending publishes still go out.
func (self *RedisPublisher[In]) run() (err error) {
	for {
		select {
		case <-self.StopChannel:
			for {
				select {
				case payload, ok := <-self.input:
					if !ok {
						return nil
					}
					self.publish(payload)
				default:
					return nil
				}
			}
		case payload, ok := <-self.input:
			if !ok {
				return nil
			}
			self.publish(payload)
		}
	}
}

func (self *RedisPublisher[In]) publish(payload In) {
	self.SubmitToWorker(func() {
		self.Log.Debug("Redis publish...")
		defer self.Log.Debug("...Redis publish done")

		// Publishing outlives the task context during shutdown
		ctx := context.WithoutCancel(self.Ctx)

		err := task.NewRetry().
			WithContext(self.Ctx).
			WithMaxElapsedTime(self.redisConfig.MaxElapsedTime).
			WithMaxInterval(self.redisConfig.MaxInterval).
			WithOnError(func(err error, isDurationAcceptable bool) error {
				self.Log.WithError(err).Error("Failed to publish message, retrying")
				self.monitor.GetReport().RedisPublisher.Errors.Publish.Inc()
				return err
			}).
			Run(func() (err error) {
				return self.client.Publish(ctx, self.channelName, payload).Err()
			})
		if err != nil {
			self.Log.WithError(err).Error("Failed to publish message, giving up")
			self.monitor.GetReport().RedisPublisher.Errors.PersistentFailure.Inc()
			return
		}
		self.monitor.GetReport().RedisPublisher.State.MessagesPublished.Inc()
	})
}
