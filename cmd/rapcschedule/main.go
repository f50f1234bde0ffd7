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

// A utility command to run one resource-aware placement call against a
// cluster/topology fixture and print the resulting assignment, adapted from
// cmd/queueconfigchecker's "load a file, validate/run it, report the
// outcome" shape.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rapc/rapc-scheduler/internal/observability"
	"github.com/rapc/rapc-scheduler/pkg/log"
	"github.com/rapc/rapc-scheduler/pkg/rapc"
	"github.com/rapc/rapc-scheduler/pkg/rapc/config"
)

var (
	clusterFile  = flag.String("cluster", "", "path to a cluster fixture YAML file")
	topologyFile = flag.String("topology", "", "path to a topology fixture YAML file")
	weightsFile  = flag.String("weights", "", "optional path to a weight config YAML file")
)

// fixture mirrors the shape a caller hand-writes to exercise Schedule from
// the command line: flat slices of nodes, racks and components rather than
// the core's internal maps, so the YAML stays easy to author by hand.
type clusterFixture struct {
	Nodes []struct {
		ID       string  `yaml:"id"`
		Hostname string  `yaml:"hostname"`
		CPU      float64 `yaml:"cpu"`
		Mem      float64 `yaml:"mem"`
		Slots    []int   `yaml:"slots"`
	} `yaml:"nodes"`
	Racks []struct {
		ID        string   `yaml:"id"`
		Hostnames []string `yaml:"hostnames"`
	} `yaml:"racks"`
}

type topologyFixture struct {
	ID               string  `yaml:"id"`
	PerWorkerMaxHeap float64 `yaml:"perWorkerMaxHeap"`
	Components       []struct {
		ID       string   `yaml:"id"`
		Source   bool     `yaml:"source"`
		Parents  []string `yaml:"parents"`
		Children []string `yaml:"children"`
		Execs    []struct {
			ID  string  `yaml:"id"`
			CPU float64 `yaml:"cpu"`
			Mem float64 `yaml:"mem"`
		} `yaml:"execs"`
	} `yaml:"components"`
}

func main() {
	flag.Parse()
	if *clusterFile == "" || *topologyFile == "" {
		fmt.Fprintf(os.Stderr, "usage: %s -cluster <file> -topology <file> [-weights <file>]\n", os.Args[0])
		os.Exit(1)
	}

	state, err := loadClusterState(*clusterFile)
	if err != nil {
		log.Log(log.CLI).Error("failed to load cluster fixture")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	topo, execIDs, err := loadTopology(*topologyFile)
	if err != nil {
		log.Log(log.CLI).Error("failed to load topology fixture")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	state.SetUnassignedExecutors(topo.ID, execIDs)

	var opts []rapc.Option
	if *weightsFile != "" {
		raw, rerr := os.ReadFile(*weightsFile)
		if rerr != nil {
			fmt.Fprintln(os.Stderr, rerr)
			os.Exit(2)
		}
		weights, werr := config.LoadWeightsFromBytes(raw)
		if werr != nil {
			fmt.Fprintln(os.Stderr, werr)
			os.Exit(3)
		}
		opts = config.Options(weights)
	}

	metrics := observability.Init()
	start := time.Now()
	result := rapc.Schedule(state, topo, opts...)
	metrics.Observe(result, time.Since(start), len(execIDs))

	printResult(result)
	if result.Status != rapc.Success {
		os.Exit(4)
	}
}

func loadClusterState(path string) (*rapc.ClusterState, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fx clusterFixture
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fx); err != nil {
		return nil, fmt.Errorf("cluster fixture: %w", err)
	}

	state := rapc.NewClusterState()
	for _, n := range fx.Nodes {
		slots := make([]rapc.WorkerSlot, 0, len(n.Slots))
		for _, port := range n.Slots {
			slots = append(slots, rapc.WorkerSlot{NodeID: n.ID, Port: port})
		}
		state.Nodes[n.ID] = &rapc.Node{
			ID:        n.ID,
			Hostname:  n.Hostname,
			TotalCPU:  n.CPU,
			TotalMem:  n.Mem,
			AvailCPU:  n.CPU,
			AvailMem:  n.Mem,
			FreeSlots: slots,
		}
	}
	for _, r := range fx.Racks {
		state.NetworkTopography[r.ID] = r.Hostnames
	}
	return state, nil
}

func loadTopology(path string) (*rapc.Topology, []rapc.Executor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var fx topologyFixture
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fx); err != nil {
		return nil, nil, fmt.Errorf("topology fixture: %w", err)
	}

	components := make(map[string]*rapc.Component, len(fx.Components))
	order := make([]string, 0, len(fx.Components))
	var execIDs []rapc.Executor
	demands := map[rapc.Executor][2]float64{}

	for _, c := range fx.Components {
		typ := rapc.ComponentProcessor
		if c.Source {
			typ = rapc.ComponentSource
		}
		execs := make([]rapc.Executor, 0, len(c.Execs))
		for _, e := range c.Execs {
			ex := rapc.Executor{ID: e.ID}
			execs = append(execs, ex)
			execIDs = append(execIDs, ex)
			demands[ex] = [2]float64{e.CPU, e.Mem}
		}
		components[c.ID] = &rapc.Component{
			ID:       c.ID,
			Type:     typ,
			Execs:    execs,
			Parents:  c.Parents,
			Children: c.Children,
		}
		order = append(order, c.ID)
	}

	topo := rapc.NewTopology(fx.ID, components, order, fx.PerWorkerMaxHeap)
	for ex, d := range demands {
		if err := topo.SetTaskDemand(ex, d[0], d[1]); err != nil {
			return nil, nil, err
		}
	}
	sort.Slice(execIDs, func(i, j int) bool { return execIDs[i].ID < execIDs[j].ID })
	return topo, execIDs, nil
}

func printResult(r rapc.Result) {
	fmt.Printf("status: %s\n", r.Status)
	if r.Message != "" {
		fmt.Printf("message: %s\n", r.Message)
	}
	if r.Status != rapc.Success {
		return
	}
	slots := make([]rapc.WorkerSlot, 0, len(r.Assignment))
	for s := range r.Assignment {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].NodeID != slots[j].NodeID {
			return slots[i].NodeID < slots[j].NodeID
		}
		return slots[i].Port < slots[j].Port
	})
	for _, s := range slots {
		execs := r.Assignment[s]
		ids := make([]string, 0, len(execs))
		for _, e := range execs {
			ids = append(ids, e.ID)
		}
		sort.Strings(ids)
		fmt.Printf("  %s -> %v\n", s, ids)
	}
}
