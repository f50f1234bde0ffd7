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

// BuildPriorityMap groups order's components' still-unassigned executors by
// rank, rank being the component's 0-based position in order.
func BuildPriorityMap(order []*Component, unassigned map[Executor]bool) map[int][]Executor {
	priority := make(map[int][]Executor, len(order))
	for rank, c := range order {
		var execs []Executor
		for _, e := range c.Execs {
			if unassigned[e] {
				execs = append(execs, e)
			}
		}
		priority[rank] = execs
	}
	return priority
}

// Interleave emits executors round-robin across ranks: position 0 of every
// rank, then position 1 of every rank, and so on, skipping ranks that have
// been exhausted. This is the core's load-spreading policy -- it keeps any
// single component from monopolizing the first, most desirable nodes.
func Interleave(priority map[int][]Executor, numRanks int) []Executor {
	var out []Executor
	for pos := 0; ; pos++ {
		emittedAny := false
		for rank := 0; rank < numRanks; rank++ {
			list := priority[rank]
			if pos < len(list) {
				out = append(out, list[pos])
				emittedAny = true
			}
		}
		if !emittedAny {
			return out
		}
	}
}
