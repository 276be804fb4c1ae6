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

// retryFilter skips hosts a previous attempt of the same request
// already failed on. A request without retry context passes everywhere.
type retryFilter struct{}

// NewRetryFilter creates the attempted-host filter.
func NewRetryFilter(_ *config.FiltersConfig) Filter {
	return &retryFilter{}
}

func (f *retryFilter) Name() string {
	return Retry
}

func (f *retryFilter) RunOncePerRequest() bool {
	return false
}

func (f *retryFilter) Passes(host *models.HostState, request *models.Request) bool {
	if request.Retry == nil || len(request.Retry.Hosts) == 0 {
		return true
	}
	for _, attempted := range request.Retry.Hosts {
		if attempted == host.Hostname {
			log.WithFields(log.Fields{
				"hostname":   host.Hostname,
				"request_id": request.ID,
				"attempted":  request.Retry.Hosts,
			}).Debug("Host was previously attempted")
			return false
		}
	}
	return true
}
