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

package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arcus-compute/arcus/pkg/scheduler/models"
)

func hostInAggregates(aggs ...*models.Aggregate) *models.HostState {
	return &models.HostState{
		Hostname:   "compute-0001",
		Aggregates: aggs,
	}
}

func aggregate(id string, metadata map[string]string) *models.Aggregate {
	return &models.Aggregate{ID: id, Name: id, Metadata: metadata}
}

func TestValuesFromKey(t *testing.T) {
	host := hostInAggregates(
		aggregate("agg-1", map[string]string{"cpu_allocation_ratio": "1.5"}),
		aggregate("agg-2", map[string]string{"other_key": "x"}),
		aggregate("agg-3", map[string]string{"cpu_allocation_ratio": "2.0"}),
		aggregate("agg-4", nil),
	)

	vals := ValuesFromKey(host, "cpu_allocation_ratio")
	assert.Equal(t, []string{"1.5", "2.0"}, vals)

	assert.Empty(t, ValuesFromKey(host, "missing"))
	assert.Empty(t, ValuesFromKey(hostInAggregates(), "cpu_allocation_ratio"))
}

func TestResolveFloatMinWins(t *testing.T) {
	host := hostInAggregates(
		aggregate("agg-1", map[string]string{"cpu_allocation_ratio": "1.5"}),
		aggregate("agg-2", map[string]string{"cpu_allocation_ratio": "2.0"}),
	)

	assert.Equal(t, 1.5, ResolveFloat(host, "cpu_allocation_ratio", 16.0))
}

func TestResolveFloatFallbacks(t *testing.T) {
	// No aggregate defines the key.
	host := hostInAggregates(aggregate("agg-1", map[string]string{"x": "y"}))
	assert.Equal(t, 16.0, ResolveFloat(host, "cpu_allocation_ratio", 16.0))

	// Exactly one value.
	host = hostInAggregates(
		aggregate("agg-1", map[string]string{"cpu_allocation_ratio": "4.0"}))
	assert.Equal(t, 4.0, ResolveFloat(host, "cpu_allocation_ratio", 16.0))

	// An unparseable value falls the resolution back to the global.
	host = hostInAggregates(
		aggregate("agg-1", map[string]string{"cpu_allocation_ratio": "0.5"}),
		aggregate("agg-2", map[string]string{"cpu_allocation_ratio": "lots"}),
	)
	assert.Equal(t, 16.0, ResolveFloat(host, "cpu_allocation_ratio", 16.0))
}

func TestResolveInt(t *testing.T) {
	host := hostInAggregates(
		aggregate("agg-1", map[string]string{"max_io_ops_per_host": "10"}),
		aggregate("agg-2", map[string]string{"max_io_ops_per_host": "8"}),
	)
	assert.Equal(t, int64(8), ResolveInt(host, "max_io_ops_per_host", 15))

	assert.Equal(t, int64(15),
		ResolveInt(hostInAggregates(), "max_io_ops_per_host", 15))

	// Integer parsing is strict: a float string is unparseable.
	host = hostInAggregates(
		aggregate("agg-1", map[string]string{"max_io_ops_per_host": "8.5"}))
	assert.Equal(t, int64(15), ResolveInt(host, "max_io_ops_per_host", 15))
}
