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

func TestIOOpsFilter(t *testing.T) {
	// Default cap is 8 concurrent I/O heavy operations.
	f := NewIOOpsFilter(filtersConfig())

	assert.True(t, f.Passes(&models.HostState{Hostname: "h1", NumIOOps: 7}, demandRequest(1, 0, 0)))
	assert.False(t, f.Passes(&models.HostState{Hostname: "h1", NumIOOps: 8}, demandRequest(1, 0, 0)))
}

func TestIOOpsFilterConfiguredCap(t *testing.T) {
	cfg := filtersConfig()
	cfg.MaxIOOpsPerHost = 2
	f := NewIOOpsFilter(cfg)

	assert.True(t, f.Passes(&models.HostState{Hostname: "h1", NumIOOps: 1}, demandRequest(1, 0, 0)))
	assert.False(t, f.Passes(&models.HostState{Hostname: "h1", NumIOOps: 2}, demandRequest(1, 0, 0)))
}

func TestAggregateIOOpsFilterMinCapWins(t *testing.T) {
	f := NewAggregateIOOpsFilter(filtersConfig())
	host := &models.HostState{
		Hostname: "h1",
		NumIOOps: 4,
		Aggregates: []*models.Aggregate{
			{ID: "a1", Name: "loose", Metadata: map[string]string{_maxIOOpsKey: "10"}},
			{ID: "a2", Name: "tight", Metadata: map[string]string{_maxIOOpsKey: "4"}},
		},
	}

	assert.False(t, f.Passes(host, demandRequest(1, 0, 0)))
	host.NumIOOps = 3
	assert.True(t, f.Passes(host, demandRequest(1, 0, 0)))
}

func TestAggregateIOOpsFilterUnparseableFallsBackToGlobal(t *testing.T) {
	f := NewAggregateIOOpsFilter(filtersConfig())
	host := &models.HostState{
		Hostname: "h1",
		NumIOOps: 8,
		Aggregates: []*models.Aggregate{
			{ID: "a1", Name: "broken", Metadata: map[string]string{_maxIOOpsKey: "many"}},
		},
	}

	assert.False(t, f.Passes(host, demandRequest(1, 0, 0)))
	host.NumIOOps = 7
	assert.True(t, f.Passes(host, demandRequest(1, 0, 0)))
}
