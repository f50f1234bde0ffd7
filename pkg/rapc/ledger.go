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
	"go.uber.org/zap"

	"github.com/rapc/rapc-scheduler/pkg/log"
)

// Ledger exclusively owns the growing assignment and the reference-node
// that anchors network-distance ranking. A Ledger is scoped to a single
// scheduling call -- it is passed explicitly rather than held in a package
// global, so the core stays re-entrant.
type Ledger struct {
	cv      *ClusterView
	topo    *Topology
	weights Weights

	assignment  Assignment
	slotMemUsed map[WorkerSlot]float64
	placed      map[Executor]bool

	refNode    *Node
	anchorRack string // restricts candidates while refNode is nil; ignored once refNode is set
}

// NewLedger creates an empty Ledger anchored to anchorRack for its first
// placement. Pass an empty anchorRack if no rack could be chosen (no racks
// defined).
func NewLedger(cv *ClusterView, topo *Topology, weights Weights, anchorRack string) *Ledger {
	return &Ledger{
		cv:          cv,
		topo:        topo,
		weights:     weights,
		assignment:  Assignment{},
		slotMemUsed: map[WorkerSlot]float64{},
		placed:      map[Executor]bool{},
		anchorRack:  anchorRack,
	}
}

// Placed reports whether exec has already been recorded in the assignment.
func (l *Ledger) Placed(exec Executor) bool {
	return l.placed[exec]
}

// PlaceCount returns how many distinct executors have been placed so far.
func (l *Ledger) PlaceCount() int {
	return len(l.placed)
}

// AssignmentView returns the ledger's current slot->executors mapping. Callers
// must not mutate the returned map.
func (l *Ledger) AssignmentView() Assignment {
	return l.assignment
}

// PlaceOne attempts to place exec: rank candidate nodes, select a slot, and
// on success append exec to the assignment, consume the node's resources,
// and advance refNode. It returns false, leaving state unchanged, when no
// slot could be found; the executor is simply recorded as unschedulable and
// the call proceeds.
//
// Calling PlaceOne again for an already-placed exec is a no-op that reports
// success -- the Topology Walker's undirected BFS can emit the same
// component (and so the same executors) more than once (see walker.go), and
// the Priority Interleaver and the system-task leftover pass must not
// double-place an executor as a result.
func (l *Ledger) PlaceOne(exec Executor) bool {
	if l.placed[exec] {
		return true
	}
	if !l.topo.hasDemand(exec) {
		log.Log(log.Ledger).Error("executor has no recorded resource demand",
			zap.String("executor", exec.ID))
		return false
	}
	demand := resourceDemand{CPU: l.topo.TotalCPUReqTask(exec), Mem: l.topo.TotalMemReqTask(exec)}

	restrict := ""
	if l.refNode == nil {
		restrict = l.anchorRack
	}

	candidates := l.cv.FreeNodes()
	ranked := RankNodes(l.cv, candidates, demand, l.refNode, restrict, l.weights)
	slot, ok := SelectSlot(ranked, demand, l.topo.PerWorkerMaxHeap, func(s WorkerSlot) float64 {
		return l.slotMemUsed[s]
	})
	if !ok {
		log.Log(log.Ledger).Debug("no slot could be found for executor",
			zap.String("executor", exec.ID), zap.Float64("cpu", demand.CPU), zap.Float64("mem", demand.Mem))
		return false
	}

	node, _ := l.cv.NodeByID(slot.NodeID)
	l.assignment[slot] = append(l.assignment[slot], exec)
	l.slotMemUsed[slot] += demand.Mem
	l.cv.Consume(node, demand.CPU, demand.Mem)
	l.refNode = node
	l.placed[exec] = true

	log.Log(log.Ledger).Debug("placed executor",
		zap.String("executor", exec.ID), zap.String("slot", slot.String()), zap.String("node", node.ID))
	return true
}
