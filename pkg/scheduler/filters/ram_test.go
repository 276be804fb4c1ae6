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
	"github.com/stretchr/testify/require"
)

func ramHost(totalMB, freeMB int64) *models.HostState {
	return &models.HostState{
		Hostname:         "host1",
		TotalUsableRAMMB: totalMB,
		FreeRAMMB:        freeMB,
	}
}

func TestRAMFilterOvercommit(t *testing.T) {
	// Default ratio 1.5 stretches 1024 MB of empty RAM to 1536.
	f := NewRAMFilter(filtersConfig())

	assert.True(t, f.Passes(ramHost(1024, 1024), demandRequest(1, 1536, 0)))
	assert.False(t, f.Passes(ramHost(1024, 1024), demandRequest(1, 1537, 0)))
}

func TestRAMFilterAccountsUsedMemory(t *testing.T) {
	cfg := filtersConfig()
	cfg.RAMAllocationRatio = 1.0
	f := NewRAMFilter(cfg)
	// 768 MB used leaves 256 usable at ratio 1.0.
	host := ramHost(1024, 256)

	assert.True(t, f.Passes(host, demandRequest(1, 256, 0)))
	assert.False(t, f.Passes(host, demandRequest(1, 257, 0)))
}

func TestRAMFilterRecordsLimit(t *testing.T) {
	f := NewRAMFilter(filtersConfig())
	host := ramHost(1024, 1024)

	require.True(t, f.Passes(host, demandRequest(1, 512, 0)))
	require.NotNil(t, host.Limits)
	assert.Equal(t, 1536.0, host.Limits.MemoryMB)
}

func TestRAMFilterHostRatioWins(t *testing.T) {
	f := NewRAMFilter(filtersConfig())
	host := ramHost(1024, 1024)
	host.RAMAllocationRatio = 1.0

	assert.True(t, f.Passes(host, demandRequest(1, 1024, 0)))
	assert.False(t, f.Passes(host, demandRequest(1, 1025, 0)))
}

func TestAggregateRAMFilterMinRatioWins(t *testing.T) {
	f := NewAggregateRAMFilter(filtersConfig())
	host := ramHost(1024, 1024)
	host.Aggregates = []*models.Aggregate{
		{ID: "a1", Name: "general", Metadata: map[string]string{_ramRatioKey: "3.0"}},
		{ID: "a2", Name: "packed", Metadata: map[string]string{_ramRatioKey: "2.0"}},
	}

	// min(3.0, 2.0) = 2.0 caps the host at 2048.
	assert.True(t, f.Passes(host, demandRequest(1, 2048, 0)))
	assert.False(t, f.Passes(host, demandRequest(1, 2049, 0)))
}

func TestAggregateRAMFilterUnparseableFallsBackToGlobal(t *testing.T) {
	f := NewAggregateRAMFilter(filtersConfig())
	host := ramHost(1024, 1024)
	host.Aggregates = []*models.Aggregate{
		{ID: "a1", Name: "broken", Metadata: map[string]string{_ramRatioKey: "abc"}},
	}

	// Global default 1.5 applies.
	assert.True(t, f.Passes(host, demandRequest(1, 1536, 0)))
	assert.False(t, f.Passes(host, demandRequest(1, 1537, 0)))
}

func TestExactRAMFilter(t *testing.T) {
	f := NewExactRAMFilter(filtersConfig())

	assert.True(t, f.Passes(ramHost(2048, 2048), demandRequest(1, 2048, 0)))
	assert.False(t, f.Passes(ramHost(2048, 2047), demandRequest(1, 2048, 0)))
	assert.False(t, f.Passes(ramHost(4096, 4096), demandRequest(1, 2048, 0)))
}
