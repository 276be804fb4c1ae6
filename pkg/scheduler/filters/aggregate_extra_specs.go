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
	"github.com/arcus-compute/arcus/pkg/scheduler/specops"
)

const _aggregateSpecScope = "aggregate_instance_extra_specs"

// aggregateExtraSpecsFilter matches the request's extra specs against
// the metadata of the host's aggregates with the full operator grammar.
// Unscoped keys and keys under the aggregate_instance_extra_specs:
// scope are checked; other scopes are skipped. A spec passes when any
// aggregate value for its key matches; a key no aggregate carries
// fails.
type aggregateExtraSpecsFilter struct{}

// NewAggregateExtraSpecsFilter creates the aggregate extra specs filter.
func NewAggregateExtraSpecsFilter(_ *config.FiltersConfig) Filter {
	return &aggregateExtraSpecsFilter{}
}

func (f *aggregateExtraSpecsFilter) Name() string {
	return AggregateExtraSpecs
}

func (f *aggregateExtraSpecsFilter) RunOncePerRequest() bool {
	return false
}

func (f *aggregateExtraSpecsFilter) Passes(host *models.HostState, request *models.Request) bool {
	for key, spec := range request.ExtraSpecs {
		scope, bare := specops.Scope(key)
		if scope != "" && scope != _aggregateSpecScope {
			continue
		}
		values := aggregates.ValuesFromKey(host, bare)
		if len(values) == 0 {
			log.WithFields(log.Fields{
				"hostname": host.Hostname,
				"key":      bare,
			}).Debug("No aggregate of the host carries the extra-spec key")
			return false
		}
		if !anyValueMatches(values, spec) {
			log.WithFields(log.Fields{
				"hostname": host.Hostname,
				"key":      bare,
				"values":   values,
				"spec":     spec,
			}).Debug("No aggregate value satisfies the extra spec")
			return false
		}
	}
	return true
}

func anyValueMatches(values []string, spec string) bool {
	for _, value := range values {
		if specops.Match(value, spec) {
			return true
		}
	}
	return false
}
