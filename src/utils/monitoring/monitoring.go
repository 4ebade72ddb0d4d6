package monitoring

import (
	"claimgate/src/utils/monitoring/report"
	"claimgate/src/utils/task"

	"github.com/prometheus/client_golang/prometheus"
)

// Implemented by the per-command monitors
type Monitor interface {
	GetReport() *report.Report
	GetPrometheusCollector() prometheus.Collector
	GetTask() *task.Task
}
