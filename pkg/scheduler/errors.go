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

package scheduler

import (
	"fmt"

	"github.com/arcus-compute/arcus/pkg/scheduler/filters"
)

// NoValidHostError is returned when some instance of a request's batch
// has no host left after filtering. Placement is batch atomic: no
// selection from the failed invocation survives. Stages carries the
// per-filter elimination breakdown of the exhausted iteration so the
// rejection is diagnosable without host-by-host logs.
type NoValidHostError struct {
	RequestID string
	Reason    string
	Stages    []filters.StageCount
}

func (e *NoValidHostError) Error() string {
	return fmt.Sprintf("no valid host found for request %s: %s",
		e.RequestID, e.Reason)
}

// ConfigurationError reports an unusable pipeline configuration, such
// as unknown filter or weigher names. It is returned at construction
// time, before any request is served; Err aggregates every offending
// name.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return "invalid scheduler configuration: " + e.Err.Error()
}
