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

package observability

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"gotest.tools/v3/assert"

	"github.com/rapc/rapc-scheduler/pkg/rapc"
)

func TestInitIsASingleton(t *testing.T) {
	a := Init()
	b := Init()
	assert.Equal(t, a, b)
}

func TestObserveCountsPlacedAndUnplaced(t *testing.T) {
	m := Init()
	result := rapc.Result{
		Status: rapc.Success,
		Assignment: rapc.Assignment{
			{NodeID: "N1", Port: 6700}: {{ID: "A1"}},
		},
	}
	m.Observe(result, 5*time.Millisecond, 2)

	var metric dto.Metric
	assert.NilError(t, m.placedTotal.Write(&metric))
	assert.Equal(t, metric.GetCounter().GetValue() >= 1, true)

	var unplaced dto.Metric
	assert.NilError(t, m.failedTotal.Write(&unplaced))
	assert.Equal(t, unplaced.GetCounter().GetValue() >= 1, true)
}
