// Copyright (c) 2025 Arcus Compute, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package filters

import (
	"testing"

	"github.com/arcus-compute/arcus/pkg/scheduler/models"

	"github.com/stretchr/testify/assert"
)

func isolationRequest(isolated bool) *models.Request {
	return &models.Request{
		ID:           "req-1",
		NumInstances: 1,
		ImageProps:   &models.ImageProps{Isolated: isolated},
	}
}

func TestIsolatedHostsFilterIsolatedImageNeedsIsolatedHost(t *testing.T) {
	f := NewIsolatedHostsFilter(filtersConfig())

	assert.True(t, f.Passes(&models.HostState{Hostname: "h1", Isolated: true}, isolationRequest(true)))
	assert.False(t, f.Passes(&models.HostState{Hostname: "h2"}, isolationRequest(true)))
}

func TestIsolatedHostsFilterRegularImageUnrestricted(t *testing.T) {
	// Without the restriction a regular image may land anywhere.
	f := NewIsolatedHostsFilter(filtersConfig())

	assert.True(t, f.Passes(&models.HostState{Hostname: "h1", Isolated: true}, isolationRequest(false)))
	assert.True(t, f.Passes(&models.HostState{Hostname: "h2"}, isolationRequest(false)))
	assert.True(t, f.Passes(&models.HostState{Hostname: "h2"}, demandRequest(1, 0, 0)))
}

func TestIsolatedHostsFilterRestrictedKeepsIsolatedHostsFree(t *testing.T) {
	cfg := filtersConfig()
	cfg.RestrictIsolatedHostsToIsolatedImages = true
	f := NewIsolatedHostsFilter(cfg)

	assert.False(t, f.Passes(&models.HostState{Hostname: "h1", Isolated: true}, isolationRequest(false)))
	assert.True(t, f.Passes(&models.HostState{Hostname: "h2"}, isolationRequest(false)))
	// Isolated images are unaffected by the restriction.
	assert.True(t, f.Passes(&models.HostState{Hostname: "h1", Isolated: true}, isolationRequest(true)))
}
