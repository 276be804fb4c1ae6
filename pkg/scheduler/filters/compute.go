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

	"github.com/arcus-compute/arcus/pkg/scheduler/config"
	"github.com/arcus-compute/arcus/pkg/scheduler/models"
)

// computeFilter passes hosts whose compute service is operational. The
// tracker snapshot still carries hosts administratively disabled or
// draining; they must never take new instances.
type computeFilter struct{}

// NewComputeFilter creates the compute status filter.
func NewComputeFilter(_ *config.FiltersConfig) Filter {
	return &computeFilter{}
}

func (f *computeFilter) Name() string {
	return Compute
}

func (f *computeFilter) RunOncePerRequest() bool {
	return false
}

func (f *computeFilter) Passes(host *models.HostState, _ *models.Request) bool {
	if host.Disabled {
		log.WithField("hostname", host.Hostname).
			Debug("Host is disabled")
		return false
	}
	return true
}
