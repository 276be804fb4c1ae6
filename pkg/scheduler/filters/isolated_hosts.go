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
	"github.com/arcus-compute/arcus/pkg/scheduler/config"
	"github.com/arcus-compute/arcus/pkg/scheduler/models"
)

// isolatedHostsFilter pins instances built from isolated images onto
// isolated hosts. With the restriction toggle set, isolated hosts are
// additionally reserved for isolated images only.
type isolatedHostsFilter struct {
	restrict bool
}

// NewIsolatedHostsFilter creates the isolated hosts filter.
func NewIsolatedHostsFilter(cfg *config.FiltersConfig) Filter {
	return &isolatedHostsFilter{
		restrict: cfg.RestrictIsolatedHostsToIsolatedImages,
	}
}

func (f *isolatedHostsFilter) Name() string {
	return IsolatedHosts
}

// RunOncePerRequest is true: the image and the host isolation flags do
// not change within a request.
func (f *isolatedHostsFilter) RunOncePerRequest() bool {
	return true
}

func (f *isolatedHostsFilter) Passes(host *models.HostState, request *models.Request) bool {
	imageIsolated := request.ImageProps != nil && request.ImageProps.Isolated
	if imageIsolated {
		return host.Isolated
	}
	return !f.restrict || !host.Isolated
}
