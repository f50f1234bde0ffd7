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
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/rapc/rapc-scheduler/pkg/log"
	"github.com/rapc/rapc-scheduler/pkg/rapc/trace"
)

// fsm states and events for the overall placement algorithm. Each step of
// the pipeline is one transition, giving the six-phase pipeline an
// explicit, inspectable state machine, the same way an application's
// lifecycle is driven by a looplab/fsm instance elsewhere in this codebase.
const (
	stateInit        = "init"
	stateClustered   = "clustered"
	stateWalked      = "walked"
	stateInterleaved = "interleaved"
	stateDone        = "done"
	stateFailed      = "failed"

	evClusterOK       = "cluster_ok"
	evClusterEmpty    = "cluster_empty"
	evTopologyWalked  = "topology_walked"
	evTopologyInvalid = "topology_invalid"
	evInterleaved     = "interleaved"
	evPlacingDone     = "placing_done"
	evPlacingFailed   = "placing_failed"
)

func newScheduleFSM(callID string) *fsm.FSM {
	return fsm.NewFSM(stateInit,
		fsm.Events{
			{Name: evClusterOK, Src: []string{stateInit}, Dst: stateClustered},
			{Name: evClusterEmpty, Src: []string{stateInit}, Dst: stateFailed},
			{Name: evTopologyWalked, Src: []string{stateClustered}, Dst: stateWalked},
			{Name: evTopologyInvalid, Src: []string{stateClustered}, Dst: stateFailed},
			{Name: evInterleaved, Src: []string{stateWalked}, Dst: stateInterleaved},
			{Name: evPlacingDone, Src: []string{stateInterleaved}, Dst: stateDone},
			{Name: evPlacingFailed, Src: []string{stateInterleaved}, Dst: stateFailed},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Log(log.Core).Debug("schedule call state transition",
					zap.String("callId", callID), zap.String("event", e.Event),
					zap.String("from", e.Src), zap.String("to", e.Dst))
			},
		},
	)
}

// Option configures a Schedule call's node-ranking weights.
type Option func(*Weights)

// WithCPUWeight scales the CPU pressure term of the Node Ranker's distance.
func WithCPUWeight(w float64) Option { return func(ws *Weights) { ws.CPU = w } }

// WithMemWeight scales the memory pressure term of the Node Ranker's distance.
func WithMemWeight(w float64) Option { return func(ws *Weights) { ws.Mem = w } }

// WithNetworkWeight scales the topoDist term of the Node Ranker's distance.
func WithNetworkWeight(w float64) Option { return func(ws *Weights) { ws.Network = w } }

// Schedule is the core's single public entrypoint: it maps topo's
// unassigned executors onto state's free worker slots and returns either a
// full assignment or a structured failure.
//
// Schedule takes exclusive logical ownership of state for its duration; it
// performs no I/O, spawns no goroutines, and returns a value wholly
// determined by its inputs and a fixed set of tie-break rules: identical
// inputs must produce a byte-identical assignment, across runs and across
// implementations.
func Schedule(state *ClusterState, topo *Topology, opts ...Option) Result {
	callID := uuid.New().String()
	span, ctx := trace.StartSpan(context.Background(), "Schedule", trace.RootLevel)
	defer span.Finish()
	span.SetTag("callId", callID)

	weights := DefaultWeights
	for _, opt := range opts {
		opt(&weights)
	}

	sm := newScheduleFSM(callID)
	logger := log.Log(log.Core).With(zap.String("callId", callID), zap.String("topology", topo.ID))

	cv := func() *ClusterView {
		s, _ := trace.StartSpan(ctx, "ClusterView", trace.NodesLevel)
		defer s.Finish()
		return NewClusterView(state)
	}()

	if len(cv.FreeNodes()) == 0 {
		_ = sm.Event(ctx, evClusterEmpty)
		logger.Warn("no available nodes to schedule tasks on")
		return Result{Status: FailNotEnoughResources, Message: "no available nodes to schedule tasks on"}
	}
	_ = sm.Event(ctx, evClusterOK)

	var order []*Component
	var err error
	func() {
		s, _ := trace.StartSpan(ctx, "TopologyWalker", trace.RequestLevel)
		defer s.Finish()
		order, err = WalkComponents(topo)
	}()
	if err != nil {
		_ = sm.Event(ctx, evTopologyInvalid)
		logger.Error("cannot find a source component", zap.Error(err))
		return Result{Status: FailInvalidTopology, Message: err.Error()}
	}
	_ = sm.Event(ctx, evTopologyWalked)

	unassigned := state.UnassignedExecutors(topo.ID)
	unassignedSet := make(map[Executor]bool, len(unassigned))
	for _, e := range unassigned {
		unassignedSet[e] = true
	}

	var interleaved []Executor
	func() {
		s, _ := trace.StartSpan(ctx, "PriorityInterleaver", trace.RequestLevel)
		defer s.Finish()
		priority := BuildPriorityMap(order, unassignedSet)
		interleaved = Interleave(priority, len(order))
	}()
	_ = sm.Event(ctx, evInterleaved)

	anchorRack := PickRack(cv)
	ledger := NewLedger(cv, topo, weights, anchorRack)

	func() {
		s, _ := trace.StartSpan(ctx, "PlaceInterleaved", trace.NodeLevel)
		defer s.Finish()
		for _, e := range interleaved {
			ledger.PlaceOne(e)
		}
	}()

	// Second, best-effort pass: anything still unplaced, including system
	// tasks that belong to no component at all. Iteration order over a
	// component-less leftover set has no natural tie-break of its own, so
	// it is sorted by executor id to keep the whole call deterministic.
	var leftover []Executor
	for e := range unassignedSet {
		if !ledger.Placed(e) {
			leftover = append(leftover, e)
		}
	}
	sort.Slice(leftover, func(i, j int) bool { return leftover[i].ID < leftover[j].ID })

	func() {
		s, _ := trace.StartSpan(ctx, "PlaceLeftover", trace.NodeLevel)
		defer s.Finish()
		for _, e := range leftover {
			ledger.PlaceOne(e)
		}
	}()

	placedCount := ledger.PlaceCount()
	total := len(unassignedSet)
	if placedCount < total {
		_ = sm.Event(ctx, evPlacingFailed)
		msg := fmt.Sprintf("%d/%d executors scheduled", placedCount, total)
		logger.Error("not all executors successfully scheduled", zap.Int("placed", placedCount), zap.Int("total", total))
		return Result{Status: FailNotEnoughResources, Message: msg}
	}
	_ = sm.Event(ctx, evPlacingDone)
	logger.Debug("all resources successfully scheduled")
	return Result{
		Status:     Success,
		Assignment: ledger.AssignmentView(),
		Message:    "fully scheduled by resource-aware placement core",
	}
}
