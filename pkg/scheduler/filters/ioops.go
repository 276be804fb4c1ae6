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

const _maxIOOpsKey = "max_io_ops_per_host"

func ioOpsPasses(host *models.HostState, max int64) bool {
	if host.NumIOOps >= max {
		log.WithFields(log.Fields{
			"hostname":   host.Hostname,
			"num_io_ops": host.NumIOOps,
			"max_io_ops": max,
		}).Debug("Too many concurrent I/O heavy operations")
		return false
	}
	return true
}

// ioOpsFilter rejects hosts already running too many instances in an
// I/O heavy state, such as builds, resizes and migrations.
type ioOpsFilter struct {
	max int64
}

// NewIOOpsFilter creates the I/O operations cap filter.
func NewIOOpsFilter(cfg *config.FiltersConfig) Filter {
	return &ioOpsFilter{max: cfg.MaxIOOpsPerHost}
}

func (f *ioOpsFilter) Name() string {
	return IOOps
}

func (f *ioOpsFilter) RunOncePerRequest() bool {
	return false
}

func (f *ioOpsFilter) Passes(host *models.HostState, _ *models.Request) bool {
	return ioOpsPasses(host, f.max)
}

// aggregateIOOpsFilter is the ioOpsFilter with the cap resolved from
// the host's aggregate metadata.
type aggregateIOOpsFilter struct {
	max int64
}

// NewAggregateIOOpsFilter creates the aggregate-aware I/O operations
// cap filter.
func NewAggregateIOOpsFilter(cfg *config.FiltersConfig) Filter {
	return &aggregateIOOpsFilter{max: cfg.MaxIOOpsPerHost}
}

func (f *aggregateIOOpsFilter) Name() string {
	return AggregateIOOps
}

func (f *aggregateIOOpsFilter) RunOncePerRequest() bool {
	return false
}

func (f *aggregateIOOpsFilter) Passes(host *models.HostState, _ *models.Request) bool {
	return ioOpsPasses(host, aggregates.ResolveInt(host, _maxIOOpsKey, f.max))
}
