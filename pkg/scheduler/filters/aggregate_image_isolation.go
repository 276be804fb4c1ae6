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

// aggregateImageIsolationFilter reserves hosts for images matching the
// metadata of the hosts' aggregates: for every aggregate metadata key
// (optionally restricted to a configured namespace), an image declaring
// the same-named property must match one of the aggregate values. Keys
// the image does not declare are ignored.
type aggregateImageIsolationFilter struct {
	namespace string
	separator string
}

// NewAggregateImageIsolationFilter creates the aggregate image
// isolation filter.
func NewAggregateImageIsolationFilter(cfg *config.FiltersConfig) Filter {
	return &aggregateImageIsolationFilter{
		namespace: cfg.ImageIsolationNamespace,
		separator: cfg.ImageIsolationSeparator,
	}
}

func (f *aggregateImageIsolationFilter) Name() string {
	return AggregateImageIsolation
}

// RunOncePerRequest is true: aggregate metadata and image properties do
// not change within a request.
func (f *aggregateImageIsolationFilter) RunOncePerRequest() bool {
	return true
}

func (f *aggregateImageIsolationFilter) Passes(host *models.HostState, request *models.Request) bool {
	var props map[string]string
	if request.ImageProps != nil {
		props = request.ImageProps.Properties
	}
	prefix := ""
	if f.namespace != "" {
		prefix = f.namespace + f.separator
	}

	checked := make(map[string]struct{})
	for _, aggregate := range host.Aggregates {
		for key := range aggregate.Metadata {
			if prefix != "" && !strings.HasPrefix(key, prefix) {
				continue
			}
			if _, done := checked[key]; done {
				continue
			}
			checked[key] = struct{}{}

			prop := props[key]
			if prop == "" {
				continue
			}
			if !containsValue(aggregates.ValuesFromKey(host, key), prop) {
				log.WithFields(log.Fields{
					"hostname": host.Hostname,
					"key":      key,
					"prop":     prop,
				}).Debug("Image property does not match aggregate metadata")
				return false
			}
		}
	}
	return true
}

// containsValue checks the wanted value against every comma-separated
// alternative the aggregates carry.
func containsValue(values []string, want string) bool {
	for _, value := range values {
		for _, alternative := range strings.Split(value, ",") {
			if strings.TrimSpace(alternative) == want {
				return true
			}
		}
	}
	return false
}
