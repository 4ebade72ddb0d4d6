package report

type Report struct {
	Run       *RunReport       `json:"run,omitempty"`
	Gateway   *GatewayReport   `json:"gateway,omitempty"`
	Confirmer *ConfirmerReport `json:"confirmer,omitempty"`

	RedisPublisher *RedisPublisherReport `json:"redis_publisher,omitempty"`
}
