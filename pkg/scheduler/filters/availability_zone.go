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
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/arcus-compute/arcus/pkg/scheduler/aggregates"
	"github.com/arcus-compute/arcus/pkg/scheduler/config"
	"github.com/arcus-compute/arcus/pkg/scheduler/models"
)

const _availabilityZoneKey = "availability_zone"

// availabilityZoneFilter keeps hosts in the zone the request asks for.
// Zone membership comes from aggregate metadata when any aggregate
// carries it, falling back to the zone in the host snapshot; a metadata
// value may name several zones separated by commas.
type availabilityZoneFilter struct{}

// NewAvailabilityZoneFilter creates the availability zone filter.
func NewAvailabilityZoneFilter(_ *config.FiltersConfig) Filter {
	return &availabilityZoneFilter{}
}

func (f *availabilityZoneFilter) Name() string {
	return AvailabilityZone
}

// RunOncePerRequest is true: availability zones do not change within a
// request.
func (f *availabilityZoneFilter) RunOncePerRequest() bool {
	return true
}

func (f *availabilityZoneFilter) Passes(host *models.HostState, request *models.Request) bool {
	requested := request.AvailabilityZone
	if requested == "" {
		return true
	}

	values := aggregates.ValuesFromKey(host, _availabilityZoneKey)
	if len(values) == 0 && host.AvailabilityZone != "" {
		values = []string{host.AvailabilityZone}
	}
	for _, value := range values {
		for _, zone := range strings.Split(value, ",") {
			if strings.TrimSpace(zone) == requested {
				return true
			}
		}
	}

	log.WithFields(log.Fields{
		"hostname":       host.Hostname,
		"requested_zone": requested,
		"host_zones":     values,
	}).Debug("Host is not in the requested availability zone")
	return false
}
