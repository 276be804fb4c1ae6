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
	log "github.com/sirupsen/logrus"

	"github.com/arcus-compute/arcus/pkg/scheduler/aggregates"
	"github.com/arcus-compute/arcus/pkg/scheduler/config"
	"github.com/arcus-compute/arcus/pkg/scheduler/models"
)

const _diskRatioKey = "disk_allocation_ratio"

// diskPasses checks the requested disk against the host's
// oversubscribed capacity and, on success, records the disk limit in GB
// for the external claim step.
func diskPasses(host *models.HostState, request *models.Request, ratio float64) bool {
	requestedMB := request.Demand.DiskGB * 1024
	totalMB := float64(host.TotalUsableDiskGB) * 1024
	limitMB := totalMB * ratio
	usedMB := totalMB - float64(host.FreeDiskMB)
	usableMB := limitMB - usedMB
	if usableMB < float64(requestedMB) {
		log.WithFields(log.Fields{
			"hostname":     host.Hostname,
			"requested_mb": requestedMB,
			"usable_mb":    usableMB,
		}).Debug("Not enough usable disk")
		return false
	}
	ensureLimits(host).DiskGB = limitMB / 1024
	return true
}

// diskFilter admits hosts able to fit the requested disk under the disk
// overcommit ratio. A ratio set on the host wins over the global one.
type diskFilter struct {
	ratio float64
}

// NewDiskFilter creates the disk capacity filter.
func NewDiskFilter(cfg *config.FiltersConfig) Filter {
	return &diskFilter{ratio: cfg.DiskAllocationRatio}
}

func (f *diskFilter) Name() string {
	return Disk
}

func (f *diskFilter) RunOncePerRequest() bool {
	return false
}

func (f *diskFilter) Passes(host *models.HostState, request *models.Request) bool {
	ratio := f.ratio
	if host.DiskAllocationRatio > 0 {
		ratio = host.DiskAllocationRatio
	}
	return diskPasses(host, request, ratio)
}

// aggregateDiskFilter is the diskFilter with the ratio resolved from
// the host's aggregate metadata.
type aggregateDiskFilter struct {
	ratio float64
}

// NewAggregateDiskFilter creates the aggregate-aware disk capacity filter.
func NewAggregateDiskFilter(cfg *config.FiltersConfig) Filter {
	return &aggregateDiskFilter{ratio: cfg.DiskAllocationRatio}
}

func (f *aggregateDiskFilter) Name() string {
	return AggregateDisk
}

func (f *aggregateDiskFilter) RunOncePerRequest() bool {
	return false
}

func (f *aggregateDiskFilter) Passes(host *models.HostState, request *models.Request) bool {
	ratio := aggregates.ResolveFloat(host, _diskRatioKey, f.ratio)
	return diskPasses(host, request, ratio)
}

// exactDiskFilter admits only hosts whose free disk matches the request
// exactly, for baremetal flavors mapping one instance to a whole host.
type exactDiskFilter struct{}

// NewExactDiskFilter creates the exact disk match filter.
func NewExactDiskFilter(_ *config.FiltersConfig) Filter {
	return &exactDiskFilter{}
}

func (f *exactDiskFilter) Name() string {
	return ExactDisk
}

func (f *exactDiskFilter) RunOncePerRequest() bool {
	return false
}

func (f *exactDiskFilter) Passes(host *models.HostState, request *models.Request) bool {
	return request.Demand.DiskGB*1024 == host.FreeDiskMB
}
