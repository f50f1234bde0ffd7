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

	"gotest.tools/v3/assert"
)

func TestSelectSlotPicksFirstQualifyingPort(t *testing.T) {
	n := &Node{ID: "N1", FreeSlots: []WorkerSlot{
		{NodeID: "N1", Port: 6701},
		{NodeID: "N1", Port: 6700},
	}}
	used := map[WorkerSlot]float64{}
	slot, ok := SelectSlot([]*Node{n}, resourceDemand{Mem: 2}, 4, func(s WorkerSlot) float64 { return used[s] })
	assert.Equal(t, ok, true)
	assert.Equal(t, slot.Port, 6700)
}

func TestSelectSlotRespectsHeapCap(t *testing.T) {
	slotA := WorkerSlot{NodeID: "N1", Port: 6700}
	n := &Node{ID: "N1", FreeSlots: []WorkerSlot{slotA, {NodeID: "N1", Port: 6701}}}
	used := map[WorkerSlot]float64{slotA: 4}

	slot, ok := SelectSlot([]*Node{n}, resourceDemand{Mem: 2}, 4, func(s WorkerSlot) float64 { return used[s] })
	assert.Equal(t, ok, true)
	assert.Equal(t, slot.Port, 6701)
}

func TestSelectSlotNoneQualify(t *testing.T) {
	n := &Node{ID: "N1", FreeSlots: []WorkerSlot{{NodeID: "N1", Port: 6700}}}
	used := map[WorkerSlot]float64{}
	_, ok := SelectSlot([]*Node{n}, resourceDemand{Mem: 8}, 4, func(s WorkerSlot) float64 { return used[s] })
	assert.Equal(t, ok, false)
}
