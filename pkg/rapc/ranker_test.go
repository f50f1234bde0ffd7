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

package rapc

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/rapc/rapc-scheduler/pkg/log"
)

func logRateLimiterForTest() *log.RateLimitedLogger {
	return log.RateLimitedLog(log.Test, time.Second)
}

func clusterOf(nodes ...*Node) (*ClusterState, *ClusterView) {
	s := NewClusterState()
	for _, n := range nodes {
		s.Nodes[n.ID] = n
	}
	return s, NewClusterView(s)
}

func TestRankNodesFiltersInsufficientResources(t *testing.T) {
	n1 := &Node{ID: "N1", AvailCPU: 1, AvailMem: 1, FreeSlots: []WorkerSlot{{NodeID: "N1", Port: 1}}}
	n2 := &Node{ID: "N2", AvailCPU: 10, AvailMem: 10, FreeSlots: []WorkerSlot{{NodeID: "N2", Port: 1}}}
	_, cv := clusterOf(n1, n2)

	ranked := RankNodes(cv, cv.FreeNodes(), resourceDemand{CPU: 2, Mem: 2}, nil, "", DefaultWeights)
	assert.Equal(t, len(ranked), 1)
	assert.Equal(t, ranked[0].ID, "N2")
}

func TestRankNodesTieBreaksByNodeID(t *testing.T) {
	n1 := &Node{ID: "N2", AvailCPU: 10, AvailMem: 10, FreeSlots: []WorkerSlot{{NodeID: "N2", Port: 1}}}
	n2 := &Node{ID: "N1", AvailCPU: 10, AvailMem: 10, FreeSlots: []WorkerSlot{{NodeID: "N1", Port: 1}}}
	_, cv := clusterOf(n1, n2)

	ranked := RankNodes(cv, cv.FreeNodes(), resourceDemand{CPU: 1, Mem: 1}, nil, "", DefaultWeights)
	assert.Equal(t, len(ranked), 2)
	assert.Equal(t, ranked[0].ID, "N1")
	assert.Equal(t, ranked[1].ID, "N2")
}

func TestRankNodesRestrictsToRack(t *testing.T) {
	n1 := &Node{ID: "N1", RackID: "R1", AvailCPU: 10, AvailMem: 10, FreeSlots: []WorkerSlot{{NodeID: "N1", Port: 1}}}
	n2 := &Node{ID: "N2", RackID: "R2", AvailCPU: 10, AvailMem: 10, FreeSlots: []WorkerSlot{{NodeID: "N2", Port: 1}}}
	_, cv := clusterOf(n1, n2)

	ranked := RankNodes(cv, cv.FreeNodes(), resourceDemand{CPU: 1, Mem: 1}, nil, "R2", DefaultWeights)
	assert.Equal(t, len(ranked), 1)
	assert.Equal(t, ranked[0].ID, "N2")
}

func TestTopoDistSameNodeIsZero(t *testing.T) {
	n1 := &Node{ID: "N1"}
	_, cv := clusterOf(n1)
	rl := logRateLimiterForTest()
	assert.Equal(t, topoDist(cv, n1, n1, rl), 0.0)
}

func TestTopoDistSameRackIsHalf(t *testing.T) {
	n1 := &Node{ID: "N1", Hostname: "h1"}
	n2 := &Node{ID: "N2", Hostname: "h2"}
	s, cv := clusterOf(n1, n2)
	s.NetworkTopography["R1"] = []string{"h1", "h2"}
	cv = NewClusterView(s)
	rl := logRateLimiterForTest()
	assert.Equal(t, topoDist(cv, n1, n2, rl), 0.5)
}

func TestTopoDistDifferentRackIsOne(t *testing.T) {
	n1 := &Node{ID: "N1", Hostname: "h1"}
	n2 := &Node{ID: "N2", Hostname: "h2"}
	s, _ := clusterOf(n1, n2)
	s.NetworkTopography["R1"] = []string{"h1"}
	s.NetworkTopography["R2"] = []string{"h2"}
	cv := NewClusterView(s)
	rl := logRateLimiterForTest()
	assert.Equal(t, topoDist(cv, n1, n2, rl), 1.0)
}
