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

func diskHost(totalGB, freeMB int64) *models.HostState {
	return &models.HostState{
		Hostname:          "host1",
		TotalUsableDiskGB: totalGB,
		FreeDiskMB:        freeMB,
	}
}

func TestDiskFilterCapacity(t *testing.T) {
	// Default ratio is 1.0, so an empty 100 GB host fits exactly 100 GB.
	f := NewDiskFilter(filtersConfig())

	assert.True(t, f.Passes(diskHost(100, 100*1024), demandRequest(1, 0, 100)))
	assert.False(t, f.Passes(diskHost(100, 100*1024), demandRequest(1, 0, 101)))
}

func TestDiskFilterOvercommit(t *testing.T) {
	cfg := filtersConfig()
	cfg.DiskAllocationRatio = 1.5
	f := NewDiskFilter(cfg)
	host := diskHost(100, 100*1024)

	assert.True(t, f.Passes(host, demandRequest(1, 0, 150)))
	assert.False(t, f.Passes(host, demandRequest(1, 0, 151)))
	require.NotNil(t, host.Limits)
	assert.Equal(t, 150.0, host.Limits.DiskGB)
}

func TestDiskFilterAccountsUsedDisk(t *testing.T) {
	f := NewDiskFilter(filtersConfig())
	// 50 GB already consumed.
	host := diskHost(100, 50*1024)

	assert.True(t, f.Passes(host, demandRequest(1, 0, 50)))
	assert.False(t, f.Passes(host, demandRequest(1, 0, 51)))
}

func TestDiskFilterHostRatioWins(t *testing.T) {
	f := NewDiskFilter(filtersConfig())
	host := diskHost(100, 100*1024)
	host.DiskAllocationRatio = 2.0

	assert.True(t, f.Passes(host, demandRequest(1, 0, 200)))
	assert.False(t, f.Passes(host, demandRequest(1, 0, 201)))
}

func TestAggregateDiskFilterMinRatioWins(t *testing.T) {
	f := NewAggregateDiskFilter(filtersConfig())
	host := diskHost(100, 100*1024)
	host.Aggregates = []*models.Aggregate{
		{ID: "a1", Name: "loose", Metadata: map[string]string{_diskRatioKey: "3.0"}},
		{ID: "a2", Name: "tight", Metadata: map[string]string{_diskRatioKey: "1.5"}},
	}

	assert.True(t, f.Passes(host, demandRequest(1, 0, 150)))
	assert.False(t, f.Passes(host, demandRequest(1, 0, 151)))
}

func TestExactDiskFilter(t *testing.T) {
	f := NewExactDiskFilter(filtersConfig())

	assert.True(t, f.Passes(diskHost(100, 10*1024), demandRequest(1, 0, 10)))
	assert.False(t, f.Passes(diskHost(100, 10*1024+1), demandRequest(1, 0, 10)))
	assert.False(t, f.Passes(diskHost(100, 20*1024), demandRequest(1, 0, 10)))
}
