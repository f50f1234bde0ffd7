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

import "sort"

// slotMemoryUsed reports how much memory is already committed to a worker
// slot by prior placements in the current assignment.
type slotMemoryUsed func(WorkerSlot) float64

// SelectSlot iterates ranked (ascending distance order) and, within each
// node, its free slots in ascending port order, returning the first slot
// whose committed memory plus demand.Mem still fits under maxHeap.
//
// Only memory is checked at slot granularity -- cpu was already filtered at
// node granularity by the Node Ranker, reflecting that the per-worker heap
// cap is the binding per-slot resource.
func SelectSlot(ranked []*Node, demand resourceDemand, maxHeap float64, used slotMemoryUsed) (WorkerSlot, bool) {
	for _, n := range ranked {
		slots := make([]WorkerSlot, len(n.FreeSlots))
		copy(slots, n.FreeSlots)
		sort.Slice(slots, func(i, j int) bool { return slots[i].Port < slots[j].Port })
		for _, s := range slots {
			if maxHeap-used(s) >= demand.Mem {
				return s, true
			}
		}
	}
	return WorkerSlot{}, false
}
