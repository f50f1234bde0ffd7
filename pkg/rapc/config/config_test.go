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

package config

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestLoadWeightsFromBytesDefaultsOmittedFields(t *testing.T) {
	w, err := LoadWeightsFromBytes([]byte(`cpuWeight: 2.0`))
	assert.NilError(t, err)
	assert.Equal(t, w.CPU, 2.0)
	assert.Equal(t, w.Mem, 1.0)
	assert.Equal(t, w.Network, 1.0)
}

func TestLoadWeightsFromBytesEmptyDocumentIsDefault(t *testing.T) {
	w, err := LoadWeightsFromBytes([]byte(``))
	assert.NilError(t, err)
	assert.Equal(t, w.CPU, 1.0)
	assert.Equal(t, w.Mem, 1.0)
	assert.Equal(t, w.Network, 1.0)
}

func TestLoadWeightsFromBytesRejectsUnknownField(t *testing.T) {
	_, err := LoadWeightsFromBytes([]byte(`bogusWeight: 1.0`))
	assert.ErrorContains(t, err, "rapc/config")
}

func TestLoadWeightsFromBytesRejectsNegative(t *testing.T) {
	_, err := LoadWeightsFromBytes([]byte(`cpuWeight: -1.0`))
	assert.ErrorContains(t, err, "non-negative")
}
