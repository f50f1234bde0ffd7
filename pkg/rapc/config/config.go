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

// Package config loads the node-ranking weights from YAML, the way
// pkg/common/configs loads a SchedulerConfig: strict-field decode, then
// validate, with the zero value of an omitted weight defaulting to 1.0
// rather than 0.0 so an empty or partial document still ranks sensibly.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/rapc/rapc-scheduler/pkg/log"
	"github.com/rapc/rapc-scheduler/pkg/rapc"
)

// WeightConfig is the YAML-facing mirror of rapc.Weights. A field omitted
// from the document is left nil by the decoder and then set to 1.0 by
// Weights, matching DefaultWeights.
type WeightConfig struct {
	CPUWeight     *float64 `yaml:"cpuWeight,omitempty"`
	MemWeight     *float64 `yaml:"memWeight,omitempty"`
	NetworkWeight *float64 `yaml:"networkWeight,omitempty"`
}

// Weights converts c to rapc.Weights, defaulting any unset field to 1.0.
func (c WeightConfig) Weights() rapc.Weights {
	w := rapc.DefaultWeights
	if c.CPUWeight != nil {
		w.CPU = *c.CPUWeight
	}
	if c.MemWeight != nil {
		w.Mem = *c.MemWeight
	}
	if c.NetworkWeight != nil {
		w.Network = *c.NetworkWeight
	}
	return w
}

// LoadWeightsFromBytes decodes a weight configuration document and returns
// its rapc.Weights, validating that no weight is negative. Unknown fields
// are rejected the way the scheduler config loader rejects them, so a typo
// in a hand-edited YAML file surfaces immediately instead of silently
// defaulting.
func LoadWeightsFromBytes(content []byte) (rapc.Weights, error) {
	var c WeightConfig
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return rapc.Weights{}, fmt.Errorf("rapc/config: %w", err)
	}
	w := c.Weights()
	if w.CPU < 0 || w.Mem < 0 || w.Network < 0 {
		log.Log(log.CLI).Error("weight config has a negative weight")
		return rapc.Weights{}, fmt.Errorf("rapc/config: weights must be non-negative, got %+v", w)
	}
	return w, nil
}

// Options converts w into the rapc.Option slice Schedule expects.
func Options(w rapc.Weights) []rapc.Option {
	return []rapc.Option{
		rapc.WithCPUWeight(w.CPU),
		rapc.WithMemWeight(w.Mem),
		rapc.WithNetworkWeight(w.Network),
	}
}
