package monitor_confirmer

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	// Run
	UpForSeconds *prometheus.Desc

	// Errors
	PollFailures    *prometheus.Desc
	ReceiptFailures *prometheus.Desc
	UpdateFailures  *prometheus.Desc
	DecodeFailures  *prometheus.Desc

	// State
	TxsChecked    *prometheus.Desc
	TxsConfirmed  *prometheus.Desc
	TxsFailed     *prometheus.Desc
	TxsAgedOut    *prometheus.Desc
	InputsDecoded *prometheus.Desc

	// Redis publisher
	RedisPublishErrors      *prometheus.Desc
	RedisPersistentFailures *prometheus.Desc
	RedisMessagesPublished  *prometheus.Desc
}

func NewCollector() *Collector {
	return &Collector{
		UpForSeconds: prometheus.NewDesc("up_for_seconds", "", nil, nil),

		// Errors
		PollFailures:    prometheus.NewDesc("confirmer_poll_failures", "", nil, nil),
		ReceiptFailures: prometheus.NewDesc("confirmer_receipt_failures", "", nil, nil),
		UpdateFailures:  prometheus.NewDesc("confirmer_update_failures", "", nil, nil),
		DecodeFailures:  prometheus.NewDesc("confirmer_decode_failures", "", nil, nil),

		// State
		TxsChecked:    prometheus.NewDesc("confirmer_txs_checked", "", nil, nil),
		TxsConfirmed:  prometheus.NewDesc("confirmer_txs_confirmed", "", nil, nil),
		TxsFailed:     prometheus.NewDesc("confirmer_txs_failed", "", nil, nil),
		TxsAgedOut:    prometheus.NewDesc("confirmer_txs_aged_out", "", nil, nil),
		InputsDecoded: prometheus.NewDesc("confirmer_inputs_decoded", "", nil, nil),

		// Redis publisher
		RedisPublishErrors:      prometheus.NewDesc("redis_publish_errors", "", nil, nil),
		RedisPersistentFailures: prometheus.NewDesc("redis_persistent_failures", "", nil, nil),
		RedisMessagesPublished:  prometheus.NewDesc("redis_messages_published", "", nil, nil),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	// Run
	ch <- self.UpForSeconds

	// Errors
	ch <- self.PollFailures
	ch <- self.ReceiptFailures
	ch <- self.UpdateFailures
	ch <- self.DecodeFailures

	// State
	ch <- self.TxsChecked
	ch <- self.TxsConfirmed
	ch <- self.TxsFailed
	ch <- self.TxsAgedOut
	ch <- self.InputsDecoded

	// Redis publisher
	ch <- self.RedisPublishErrors
	ch <- self.RedisPersistentFailures
	ch <- self.RedisMessagesPublished
}

// Collect implements required collect function for all prometheus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	// Run
	ch <- prometheus.MustNewConstMetric(self.UpForSeconds, prometheus.GaugeValue, float64(self.monitor.Report.Run.State.UpForSeconds.Load()))

	// Errors
	ch <- prometheus.MustNewConstMetric(self.PollFailures, prometheus.CounterValue, float64(self.monitor.Report.Confirmer.Errors.PollFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.ReceiptFailures, prometheus.CounterValue, float64(self.monitor.Report.Confirmer.Errors.ReceiptFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.UpdateFailures, prometheus.CounterValue, float64(self.monitor.Report.Confirmer.Errors.UpdateFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.DecodeFailures, prometheus.CounterValue, float64(self.monitor.Report.Confirmer.Errors.DecodeFailures.Load()))

	// State
	ch <- prometheus.MustNewConstMetric(self.TxsChecked, prometheus.CounterValue, float64(self.monitor.Report.Confirmer.State.TxsChecked.Load()))
	ch <- prometheus.MustNewConstMetric(self.TxsConfirmed, prometheus.CounterValue, float64(self.monitor.Report.Confirmer.State.TxsConfirmed.Load()))
	ch <- prometheus.MustNewConstMetric(self.TxsFailed, prometheus.CounterValue, float64(self.monitor.Report.Confirmer.State.TxsFailed.Load()))
	ch <- prometheus.MustNewConstMetric(self.TxsAgedOut, prometheus.CounterValue, float64(self.monitor.Report.Confirmer.State.TxsAgedOut.Load()))
	ch <- prometheus.MustNewConstMetric(self.InputsDecoded, prometheus.CounterValue, float64(self.monitor.Report.Confirmer.State.InputsDecoded.Load()))

	// Redis publisher
	ch <- prometheus.MustNewConstMetric(self.RedisPublishErrors, prometheus.CounterValue, float64(self.monitor.Report.RedisPublisher.Errors.Publish.Load()))
	ch <- prometheus.MustNewConstMetric(self.RedisPersistentFailures, prometheus.CounterValue, float64(self.monitor.Report.RedisPublisher.Errors.PersistentFailure.Load()))
	ch <- prometheus.MustNewConstMetric(self.RedisMessagesPublished, prometheus.CounterValue, float64(self.monitor.Report.RedisPublisher.State.MessagesPublished.Load()))
}
