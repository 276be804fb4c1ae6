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

func aggregateHost(metadata ...map[string]string) *models.HostState {
	host := &models.HostState{Hostname: "h1"}
	for i, md := range metadata {
		host.Aggregates = append(host.Aggregates, &models.Aggregate{
			ID:       string(rune('a' + i)),
			Name:     "agg",
			Metadata: md,
		})
	}
	return host
}

func TestAggregateExtraSpecsFilterNoSpecs(t *testing.T) {
	f := NewAggregateExtraSpecsFilter(filtersConfig())

	assert.True(t, f.Passes(aggregateHost(), specsRequest(nil)))
}

func TestAggregateExtraSpecsFilterScopedKey(t *testing.T) {
	f := NewAggregateExtraSpecsFilter(filtersConfig())
	host := aggregateHost(map[string]string{"ssd_ready": "true"})

	assert.True(t, f.Passes(host, specsRequest(map[string]string{
		"aggregate_instance_extra_specs:ssd_ready": "true",
	})))
	assert.False(t, f.Passes(host, specsRequest(map[string]string{
		"aggregate_instance_extra_specs:ssd_ready": "false",
	})))
}

func TestAggregateExtraSpecsFilterUnscopedKey(t *testing.T) {
	f := NewAggregateExtraSpecsFilter(filtersConfig())
	host := aggregateHost(map[string]string{"tier": "gold"})

	assert.True(t, f.Passes(host, specsRequest(map[string]string{"tier": "gold"})))
	assert.False(t, f.Passes(host, specsRequest(map[string]string{"tier": "silver"})))
}

func TestAggregateExtraSpecsFilterSkipsForeignScopes(t *testing.T) {
	f := NewAggregateExtraSpecsFilter(filtersConfig())
	host := aggregateHost()

	assert.True(t, f.Passes(host, specsRequest(map[string]string{
		"capabilities:gpu_model": "a100",
		"trust:trusted_host":     "trusted",
	})))
}

func TestAggregateExtraSpecsFilterMissingKeyFails(t *testing.T) {
	f := NewAggregateExtraSpecsFilter(filtersConfig())
	host := aggregateHost(map[string]string{"tier": "gold"})

	assert.False(t, f.Passes(host, specsRequest(map[string]string{
		"aggregate_instance_extra_specs:ssd_ready": "true",
	})))
}

func TestAggregateExtraSpecsFilterAnyAggregateValueMatches(t *testing.T) {
	f := NewAggregateExtraSpecsFilter(filtersConfig())
	host := aggregateHost(
		map[string]string{"tier": "silver"},
		map[string]string{"tier": "gold"},
	)

	assert.True(t, f.Passes(host, specsRequest(map[string]string{"tier": "gold"})))
}

func TestAggregateExtraSpecsFilterOperatorSpecs(t *testing.T) {
	f := NewAggregateExtraSpecsFilter(filtersConfig())
	host := aggregateHost(map[string]string{"local_gb": "500"})

	assert.True(t, f.Passes(host, specsRequest(map[string]string{"local_gb": ">= 250"})))
	assert.False(t, f.Passes(host, specsRequest(map[string]string{"local_gb": ">= 1000"})))
	assert.True(t, f.Passes(host, specsRequest(map[string]string{
		"aggregate_instance_extra_specs:local_gb": "<or> 250 <or> 500",
	})))
}
