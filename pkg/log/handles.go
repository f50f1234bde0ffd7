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

package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerHandle names a component-scoped logger. Handles are registered once
// at package init and passed to Log, mirroring the core's convention of
// passing a named handle rather than a raw string at every call site.
type LoggerHandle struct {
	name string
	// anomalyFloor mutes Debug/Info chatter on this handle so that only
	// anomaly-grade (Warn+) logging stands out.
	anomalyFloor bool
}

var handles = map[string]*LoggerHandle{}

func newHandle(name string, anomalyFloor bool) *LoggerHandle {
	h := &LoggerHandle{name: name, anomalyFloor: anomalyFloor}
	handles[name] = h
	return h
}

var (
	Core         = newHandle("core", false)
	ClusterView  = newHandle("clusterview", true)
	Walker       = newHandle("walker", false)
	Interleaver  = newHandle("interleaver", false)
	NodeRanker   = newHandle("noderanker", true)
	SlotSelector = newHandle("slotselector", false)
	Ledger       = newHandle("ledger", false)
	RackPicker   = newHandle("rackpicker", true)
	CLI          = newHandle("cli", false)
	Test         = newHandle("test", false)
)

// Log returns a logger named after handle, lazily derived from the package
// singleton so log level/encoder changes applied to Logger() still apply.
func Log(handle *LoggerHandle) *zap.Logger {
	named := Logger().Named(handle.name)
	if handle.anomalyFloor {
		named = named.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return NewFilteredCore(zapcore.WarnLevel, c)
		}))
	}
	return named
}
