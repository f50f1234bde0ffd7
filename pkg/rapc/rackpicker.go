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
	"github.com/rapc/rapc-scheduler/pkg/log"
)

// PickRack picks the rack whose nodes' availCpu+availMem sums to the
// greatest value -- a cheap, dimensionally inconsistent "fattest rack"
// heuristic, deliberately so. Ties go to the first rack encountered
// in cv.Racks() order (sorted by rack id).
//
// The comparison seeds at -1, not 0: the original DefaultResourceAwareStrategy
// keeps the currently-best cluster only on a strict improvement over a
// Double seeded at 0.0, so a rack whose nodes are all fully consumed (sum
// 0.0) never displaces another such rack -- the first one touched simply
// wins. Seeding at -1 here reproduces that exact first-wins-at-zero
// behavior while still preferring any rack with positive resources.
func PickRack(cv *ClusterView) string {
	best := ""
	bestSum := -1.0
	for _, r := range cv.Racks() {
		sum := 0.0
		for _, hostname := range r.Hostnames {
			n, ok := cv.NodeByHostname(hostname)
			if !ok {
				continue
			}
			sum += n.AvailCPU + n.AvailMem
		}
		if sum > bestSum {
			bestSum = sum
			best = r.ID
		}
	}
	if best == "" {
		log.Log(log.RackPicker).Warn("no rack could be selected as placement anchor")
	}
	return best
}
