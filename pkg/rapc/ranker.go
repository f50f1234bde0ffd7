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
	"math"
	"time"

	"github.com/google/btree"
	"go.uber.org/zap"

	"github.com/rapc/rapc-scheduler/pkg/log"
)

// Weights scale the three terms of the node-ranking distance.
type Weights struct {
	CPU     float64
	Mem     float64
	Network float64
}

// DefaultWeights is cpuWeight=memWeight=networkWeight=1.0.
var DefaultWeights = Weights{CPU: 1.0, Mem: 1.0, Network: 1.0}

// rankedNode orders candidates by ascending distance, breaking ties by node
// id. It is the btree.Item backing the Node Ranker's ordered map.
type rankedNode struct {
	distance float64
	node     *Node
}

var _ btree.Item = (*rankedNode)(nil)

func (a *rankedNode) Less(than btree.Item) bool {
	b := than.(*rankedNode)
	if a.distance != b.distance {
		return a.distance < b.distance
	}
	return a.node.ID < b.node.ID
}

// RankNodes scores every node in candidates eligible for demand (has a free
// slot, and availCpu/availMem each at least demand's) against ref, the
// current reference node, and returns them ordered from nearest to
// farthest. When restrictRackID is non-empty only nodes of that rack are
// considered -- the Rack Picker's first-placement anchor.
//
// The ordered map is a google/btree tree keyed by (distance, nodeID) rather
// than a sorted slice: insertion is the natural operation as each
// node's distance is computed, and Ascend walks it back out in rank order
// without a separate sort pass.
func RankNodes(cv *ClusterView, candidates []*Node, demand resourceDemand, ref *Node, restrictRackID string, weights Weights) []*Node {
	tree := btree.New(32)
	rackAnomaly := log.RateLimitedLog(log.NodeRanker, time.Second)
	for _, n := range candidates {
		if len(n.FreeSlots) == 0 {
			continue
		}
		if n.AvailCPU < demand.CPU || n.AvailMem < demand.Mem {
			continue
		}
		if restrictRackID != "" && n.RackID != restrictRackID {
			continue
		}
		a := ((demand.CPU - n.AvailCPU) / (n.AvailCPU + 1)) * weights.CPU
		b := ((demand.Mem - n.AvailMem) / (n.AvailMem + 1)) * weights.Mem
		c := 0.0
		if ref != nil {
			c = topoDist(cv, ref, n, rackAnomaly) * weights.Network
		}
		distance := math.Sqrt(a*a + b*b + c*c)
		tree.ReplaceOrInsert(&rankedNode{distance: distance, node: n})
	}

	out := make([]*Node, 0, tree.Len())
	tree.Ascend(func(it btree.Item) bool {
		out = append(out, it.(*rankedNode).node)
		return true
	})
	return out
}

// topoDist is 0.0 for the same node, 0.5 for nodes on the same rack, 1.0
// otherwise. A node whose rack cannot be identified is treated as distance
// 1.0 and the anomaly is logged.
func topoDist(cv *ClusterView, u, v *Node, anomaly *log.RateLimitedLogger) float64 {
	if u.ID == v.ID {
		return 0.0
	}
	ur, uok := cv.RackOf(u)
	vr, vok := cv.RackOf(v)
	if !uok || !vok {
		anomaly.Warn("node rack could not be identified, treating as maximum distance",
			zap.String("nodeU", u.ID), zap.String("nodeV", v.ID))
		return 1.0
	}
	if ur.ID == vr.ID {
		return 0.5
	}
	return 1.0
}
