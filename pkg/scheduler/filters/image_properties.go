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

// imagePropertiesFilter keeps hosts able to run the image's declared
// architecture, hypervisor type and VM mode. An image not declaring a
// property accepts any host; a host declaring no supported instance
// combinations cannot serve an image that declares any.
type imagePropertiesFilter struct{}

// NewImagePropertiesFilter creates the image properties filter.
func NewImagePropertiesFilter(_ *config.FiltersConfig) Filter {
	return &imagePropertiesFilter{}
}

func (f *imagePropertiesFilter) Name() string {
	return ImageProperties
}

// RunOncePerRequest is true: image properties do not change within a
// request.
func (f *imagePropertiesFilter) RunOncePerRequest() bool {
	return true
}

func (f *imagePropertiesFilter) Passes(host *models.HostState, request *models.Request) bool {
	props := request.ImageProps
	if props == nil ||
		(props.Arch == "" && props.HypervisorType == "" && props.VMMode == "") {
		return true
	}
	if len(host.SupportedInstances) == 0 {
		log.WithFields(log.Fields{
			"hostname": host.Hostname,
		}).Debug("Image declares properties but host reports no supported instances")
		return false
	}
	for _, supported := range host.SupportedInstances {
		if supportedMatches(props, supported) {
			return true
		}
	}
	return false
}

// supportedMatches treats empty image properties as wildcards.
func supportedMatches(props *models.ImageProps, supported *models.SupportedInstance) bool {
	if props.Arch != "" && props.Arch != supported.Arch {
		return false
	}
	if props.HypervisorType != "" && props.HypervisorType != supported.HypervisorType {
		return false
	}
	if props.VMMode != "" && props.VMMode != supported.VMMode {
		return false
	}
	return true
}
