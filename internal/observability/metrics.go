/*
 Licensed to the Apache Software Foundation (ASF) under one
 or more contributor license agreements.  See the NOTICE file
 distributed with this work for additional information
 regarding copyright ownership.  The ASF licenses this file
 to you under the Apache License, Version 2.0 (the
 "License"); you may not use this file except in compliance
 with the License.  You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package observability carries the Prometheus counters and histograms
// around the demo driver's calls into the placement core, adapted from
// pkg/metrics/scheduler.go. The core package itself never imports
// prometheus: metrics are an out-of-scope collaborator per the core's
// spec, so this package exists entirely outside pkg/rapc.
package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rapc/rapc-scheduler/pkg/rapc"
)

const (
	namespace = "rapc"
	subsystem = "schedule"
)

// SchedulerMetrics is a struct of pre-built Prometheus collectors, built
// once and registered once.
type SchedulerMetrics struct {
	callsTotal  *prometheus.CounterVec
	callLatency prometheus.Histogram
	placedTotal prometheus.Counter
	failedTotal prometheus.Counter
}

var (
	once sync.Once
	m    *SchedulerMetrics
)

// Init builds and registers the demo driver's metrics exactly once.
// Subsequent calls return the already-registered instance.
func Init() *SchedulerMetrics {
	once.Do(func() {
		m = &SchedulerMetrics{
			callsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "calls_total",
				Help:      "Total number of Schedule calls, labelled by outcome status.",
			}, []string{"status"}),
			callLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "call_duration_seconds",
				Help:      "Wall-clock duration of one Schedule call.",
				Buckets:   prometheus.DefBuckets,
			}),
			placedTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "executors_placed_total",
				Help:      "Total number of executors successfully placed across all Schedule calls.",
			}),
			failedTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "executors_unplaced_total",
				Help:      "Total number of executors left unplaced across all Schedule calls.",
			}),
		}
		prometheus.MustRegister(m.callsTotal, m.callLatency, m.placedTotal, m.failedTotal)
	})
	return m
}

// Observe records one Schedule call's outcome and wall-clock duration.
func (s *SchedulerMetrics) Observe(result rapc.Result, elapsed time.Duration, totalExecutors int) {
	s.callsTotal.WithLabelValues(result.Status.String()).Inc()
	s.callLatency.Observe(elapsed.Seconds())

	placed := 0
	for _, execs := range result.Assignment {
		placed += len(execs)
	}
	s.placedTotal.Add(float64(placed))
	if unplaced := totalExecutors - placed; unplaced > 0 {
		s.failedTotal.Add(float64(unplaced))
	}
}
