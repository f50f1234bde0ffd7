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
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rapc/rapc-scheduler/pkg/log"
)

// ClusterView is a read-only wrapper over one ClusterState snapshot. It
// exclusively owns mutable Node state for the duration of a scheduling call;
// every other component consumes nodes through its accessors or through
// Consume.
type ClusterView struct {
	byID       map[string]*Node
	byHostname map[string]*Node
	racks      map[string]*Rack
	rackOfNode map[string]string // nodeID -> rackID

	hostnameAnomaly *log.RateLimitedLogger
}

// NewClusterView indexes state's nodes by id, hostname, and rack.
func NewClusterView(state *ClusterState) *ClusterView {
	cv := &ClusterView{
		byID:            make(map[string]*Node, len(state.Nodes)),
		byHostname:      make(map[string]*Node, len(state.Nodes)),
		racks:           make(map[string]*Rack, len(state.NetworkTopography)),
		rackOfNode:      map[string]string{},
		hostnameAnomaly: log.RateLimitedLog(log.ClusterView, time.Second),
	}
	for id, n := range state.Nodes {
		cv.byID[id] = n
		if n.Hostname != "" {
			cv.byHostname[n.Hostname] = n
		}
	}
	for rackID, hostnames := range state.NetworkTopography {
		cv.racks[rackID] = &Rack{ID: rackID, Hostnames: hostnames}
		for _, hostname := range hostnames {
			if n, ok := cv.byHostname[hostname]; ok {
				n.RackID = rackID
				cv.rackOfNode[n.ID] = rackID
			} else {
				cv.hostnameAnomaly.Warn("rack references unknown hostname, skipping",
					zap.String("rack", rackID), zap.String("hostname", hostname))
			}
		}
	}
	return cv
}

// NodeByID returns the node with the given id.
func (cv *ClusterView) NodeByID(id string) (*Node, bool) {
	n, ok := cv.byID[id]
	return n, ok
}

// NodeByHostname returns the node with the given hostname. A miss is logged
// as an anomaly, not a fatal error, and treated by callers as "skip".
func (cv *ClusterView) NodeByHostname(hostname string) (*Node, bool) {
	n, ok := cv.byHostname[hostname]
	if !ok {
		cv.hostnameAnomaly.Warn("hostname not found in cluster view", zap.String("hostname", hostname))
	}
	return n, ok
}

// RackOf returns the rack a node belongs to. Nodes whose rack cannot be
// identified are reported with ok=false; callers treat that as distance 1.0
// and log the anomaly.
func (cv *ClusterView) RackOf(n *Node) (*Rack, bool) {
	rackID, ok := cv.rackOfNode[n.ID]
	if !ok {
		return nil, false
	}
	r, ok := cv.racks[rackID]
	return r, ok
}

// Racks returns every rack, sorted by id for deterministic iteration.
func (cv *ClusterView) Racks() []*Rack {
	out := make([]*Rack, 0, len(cv.racks))
	for _, r := range cv.racks {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FreeNodes returns every node with at least one worker slot, sorted by id.
func (cv *ClusterView) FreeNodes() []*Node {
	out := make([]*Node, 0, len(cv.byID))
	for _, n := range cv.byID {
		if len(n.FreeSlots) > 0 {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Consume atomically decrements node's available cpu and memory. By design
// a worker slot is never removed from a node's FreeSlots on placement: the
// per-slot heap cap (enforced by the
// Slot Selector) is the only thing that makes a slot stop accepting further
// executors, so co-location of executors on the same slot stays possible.
func (cv *ClusterView) Consume(node *Node, cpu, mem float64) {
	node.AvailCPU -= cpu
	node.AvailMem -= mem
	if node.AvailCPU < 0 {
		log.Log(log.ClusterView).Error("node available cpu went negative",
			zap.String("node", node.ID), zap.Float64("availCpu", node.AvailCPU))
	}
	if node.AvailMem < 0 {
		log.Log(log.ClusterView).Error("node available mem went negative",
			zap.String("node", node.ID), zap.Float64("availMem", node.AvailMem))
	}
}

// DebugString dumps rack/node resource state, adapted from the original
// strategy's getClusterInfo(); only worth the allocation at Debug level.
func (cv *ClusterView) DebugString() string {
	var b strings.Builder
	b.WriteString("cluster view:\n")
	for _, r := range cv.Racks() {
		b.WriteString("rack " + r.ID + "\n")
		for _, hostname := range r.Hostnames {
			n, ok := cv.byHostname[hostname]
			if !ok {
				continue
			}
			b.WriteString("  node " + n.Hostname + " " + n.ID + "\n")
		}
	}
	return b.String()
}
