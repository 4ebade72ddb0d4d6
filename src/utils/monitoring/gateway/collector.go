package monitor_gateway

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	// Run
	UpForSeconds *prometheus.Desc

	// Errors
	BadRequest           *prometheus.Desc
	Unauthorized         *prometheus.Desc
	NotFound             *prometheus.Desc
	DuplicateKey         *prometheus.Desc
	DbConnectivity       *prometheus.Desc
	DbError              *prometheus.Desc
	PartialListResponses *prometheus.Desc
	ChainCallFailures    *prometheus.Desc
	UploadFailures       *prometheus.Desc
	RecorderFailures     *prometheus.Desc

	// State
	ClaimRequestsCreated         *prometheus.Desc
	ClaimRequestsCompleted       *prometheus.Desc
	ClaimRequestsRejected        *prometheus.Desc
	TrustedIssuerRequestsCreated *prometheus.Desc
	TrustedIssuerRequestsClosed  *prometheus.Desc
	TransactionsRecorded         *prometheus.Desc
	AttachmentsStored            *prometheus.Desc

	// Redis publisher
	RedisPublishErrors      *prometheus.Desc
	RedisPersistentFailures *prometheus.Desc
	RedisMessagesPublished  *prometheus.Desc
}

func NewCollector() *Collector {
	return &Collector{
		UpForSeconds: prometheus.NewDesc("up_for_seconds", "", nil, nil),

		// Errors
		BadRequest:           prometheus.NewDesc("gateway_bad_request", "", nil, nil),
		Unauthorized:         prometheus.NewDesc("gateway_unauthorized", "", nil, nil),
		NotFound:             prometheus.NewDesc("gateway_not_found", "", nil, nil),
		DuplicateKey:         prometheus.NewDesc("gateway_duplicate_key", "", nil, nil),
		DbConnectivity:       prometheus.NewDesc("gateway_db_connectivity", "", nil, nil),
		DbError:              prometheus.NewDesc("gateway_db_error", "", nil, nil),
		PartialListResponses: prometheus.NewDesc("gateway_partial_list_responses", "", nil, nil),
		ChainCallFailures:    prometheus.NewDesc("gateway_chain_call_failures", "", nil, nil),
		UploadFailures:       prometheus.NewDesc("gateway_upload_failures", "", nil, nil),
		RecorderFailures:     prometheus.NewDesc("gateway_recorder_failures", "", nil, nil),

		// State
		ClaimRequestsCreated:         prometheus.NewDesc("gateway_claim_requests_created", "", nil, nil),
		ClaimRequestsCompleted:       prometheus.NewDesc("gateway_claim_requests_completed", "", nil, nil),
		ClaimRequestsRejected:        prometheus.NewDesc("gateway_claim_requests_rejected", "", nil, nil),
		TrustedIssuerRequestsCreated: prometheus.NewDesc("gateway_trusted_issuer_requests_created", "", nil, nil),
		TrustedIssuerRequestsClosed:  prometheus.NewDesc("gateway_trusted_issuer_requests_closed", "", nil, nil),
		TransactionsRecorded:         prometheus.NewDesc("gateway_transactions_recorded", "", nil, nil),
		AttachmentsStored:            prometheus.NewDesc("gateway_attachments_stored", "", nil, nil),

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
	ch <- self.BadRequest
	ch <- self.Unauthorized
	ch <- self.NotFound
	ch <- self.DuplicateKey
	ch <- self.DbConnectivity
	ch <- self.DbError
	ch <- self.PartialListResponses
	ch <- self.ChainCallFailures
	ch <- self.UploadFailures
	ch <- self.RecorderFailures

	// State
	ch <- self.ClaimRequestsCreated
	ch <- self.ClaimRequestsCompleted
	ch <- self.ClaimRequestsRejected
	ch <- self.TrustedIssuerRequestsCreated
	ch <- self.TrustedIssuerRequestsClosed
	ch <- self.TransactionsRecorded
	ch <- self.AttachmentsStored

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
	ch <- prometheus.MustNewConstMetric(self.BadRequest, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.BadRequest.Load()))
	ch <- prometheus.MustNewConstMetric(self.Unauthorized, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.Unauthorized.Load()))
	ch <- prometheus.MustNewConstMetric(self.NotFound, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.NotFound.Load()))
	ch <- prometheus.MustNewConstMetric(self.DuplicateKey, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.DuplicateKey.Load()))
	ch <- prometheus.MustNewConstMetric(self.DbConnectivity, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.DbConnectivity.Load()))
	ch <- prometheus.MustNewConstMetric(self.DbError, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.DbError.Load()))
	ch <- prometheus.MustNewConstMetric(self.PartialListResponses, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.PartialListResponses.Load()))
	ch <- prometheus.MustNewConstMetric(self.ChainCallFailures, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.ChainCallFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.UploadFailures, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.UploadFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.RecorderFailures, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.RecorderFailures.Load()))

	// State
	ch <- prometheus.MustNewConstMetric(self.ClaimRequestsCreated, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.ClaimRequestsCreated.Load()))
	ch <- prometheus.MustNewConstMetric(self.ClaimRequestsCompleted, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.ClaimRequestsCompleted.Load()))
	ch <- prometheus.MustNewConstMetric(self.ClaimRequestsRejected, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.ClaimRequestsRejected.Load()))
	ch <- prometheus.MustNewConstMetric(self.TrustedIssuerRequestsCreated, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.TrustedIssuerRequestsCreated.Load()))
	ch <- prometheus.MustNewConstMetric(self.TrustedIssuerRequestsClosed, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.TrustedIssuerRequestsClosed.Load()))
	ch <- prometheus.MustNewConstMetric(self.TransactionsRecorded, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.TransactionsRecorded.Load()))
	ch <- prometheus.MustNewConstMetric(self.AttachmentsStored, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.AttachmentsStored.Load()))

	// Redis publisher
	ch <- prometheus.MustNewConstMetric(self.RedisPublishErrors, prometheus.CounterValue, float64(self.monitor.Report.RedisPublisher.Errors.Publish.Load()))
	ch <- prometheus.MustNewConstMetric(self.RedisPersistentFailures, prometheus.CounterValue, float64(self.monitor.Report.RedisPublisher.Errors.PersistentFailure.Load()))
	ch <- prometheus.MustNewConstMetric(self.RedisMessagesPublished, prometheus.CounterValue, float64(self.monitor.Report.RedisPublisher.State.MessagesPublished.Load()))
}
