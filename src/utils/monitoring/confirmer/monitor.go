package monitor_confirmer

import (
	"time"

	"claimgate/src/utils/monitoring/report"
	"claimgate/src/utils/task"

	"github.com/prometheus/client_golang/prometheus"
)

// Stores and computes monitor counters
type Monitor struct {
	*task.Task

	Report report.Report

	collector *Collector
}

func NewMonitor() (self *Monitor) {
	self = new(Monitor)

	self.Report = report.Report{
		Run:            &report.RunReport{},
		Confirmer:      &report.ConfirmerReport{},
		RedisPublisher: &report.RedisPublisherReport{},
	}

	// Initialization
	self.Report.Run.State.StartTimestamp.Store(time.Now().Unix())

	self.collector = NewCollector().WithMonitor(self)

	self.Task = task.NewTask(nil, "monitor").
		WithPeriodicSubtaskFunc(time.Minute, self.monitorUptime)
	return
}

func (self *Monitor) GetReport() *report.Report {
	return &self.Report
}

func (self *Monitor) GetPrometheusCollector() (collector prometheus.Collector) {
	return self.collector
}

func (self *Monitor) GetTask() *task.Task {
	return self.Task
}

func (self *Monitor) monitorUptime() (err error) {
	self.Report.Run.State.UpForSeconds.Store(time.Now().Unix() - self.Report.Run.State.StartTimestamp.Load())
	return
}
