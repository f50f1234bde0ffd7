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

// Package trace wraps each phase of a Schedule call in an opentracing span,
// using the same level/phase tagging convention as a partition-level
// scheduler trace, simplified to one helper since a scheduling call has no
// queue/app/partition hierarchy to thread through a span stack.
package trace

import (
	"context"
	"fmt"
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-client-go/log/zap"
	"github.com/uber/jaeger-lib/metrics"

	"github.com/rapc/rapc-scheduler/pkg/log"
)

const (
	PhaseKey = "phase"

	RootLevel    = "root"
	NodesLevel   = "nodes"
	RequestLevel = "request"
	NodeLevel    = "node"
)

// NewConstTracer returns a Jaeger tracer that samples every trace and logs
// spans via the core logger. Adapted from pkg/trace/utils.go's
// NewConstTracer.
func NewConstTracer(serviceName string) (opentracing.Tracer, io.Closer, error) {
	if serviceName == "" {
		return nil, nil, fmt.Errorf("service name is empty")
	}
	cfg := jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans: true,
		},
	}
	return cfg.NewTracer(
		jaegercfg.Logger(zap.NewLogger(log.Logger().Named(serviceName))),
		jaegercfg.Metrics(metrics.NullFactory),
	)
}

// InitGlobal installs a const-sampling Jaeger tracer as the global
// opentracing tracer used by StartSpan. Callers that want their own tracer
// wiring can instead call opentracing.SetGlobalTracer directly and skip
// this -- StartSpan only ever consults opentracing.GlobalTracer().
func InitGlobal(serviceName string) (io.Closer, error) {
	t, closer, err := NewConstTracer(serviceName)
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(t)
	return closer, nil
}

// StartSpan starts a span named name tagged with phase, as a child of ctx's
// active span if any.
func StartSpan(ctx context.Context, name, phase string) (opentracing.Span, context.Context) {
	span, childCtx := opentracing.StartSpanFromContext(ctx, name)
	span.SetTag(PhaseKey, phase)
	return span, childCtx
}
