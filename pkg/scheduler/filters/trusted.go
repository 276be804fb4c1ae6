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
	"github.com/arcus-compute/arcus/pkg/scheduler/specops"
)

const (
	_trustScope = "trust"

	// _trustedHostKey is the extra-spec key naming the attestation
	// level a flavor demands, e.g. trust:trusted_host=trusted.
	_trustedHostKey = "trusted_host"
)

// trustedFilter matches the trust: scoped extra specs against the
// host's attestation level. Requests without trust specs pass
// everywhere; a host whose attestation is unknown only serves those.
type trustedFilter struct{}

// NewTrustedFilter creates the attestation filter.
func NewTrustedFilter(_ *config.FiltersConfig) Filter {
	return &trustedFilter{}
}

func (f *trustedFilter) Name() string {
	return Trusted
}

func (f *trustedFilter) RunOncePerRequest() bool {
	return false
}

func (f *trustedFilter) Passes(host *models.HostState, request *models.Request) bool {
	for key, want := range request.ExtraSpecs {
		scope, bare := specops.Scope(key)
		if scope != _trustScope || bare != _trustedHostKey {
			continue
		}
		if host.TrustLevel != want {
			return false
		}
	}
	return true
}
