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
	"testing"

	"github.com/arcus-compute/arcus/pkg/scheduler/models"

	"github.com/stretchr/testify/assert"
)

func trustRequest(specs map[string]string) *models.Request {
	return &models.Request{ID: "req-1", NumInstances: 1, ExtraSpecs: specs}
}

func TestTrustedFilterNoTrustSpecs(t *testing.T) {
	f := NewTrustedFilter(filtersConfig())

	assert.True(t, f.Passes(&models.HostState{Hostname: "h1"}, trustRequest(nil)))
	assert.True(t, f.Passes(&models.HostState{Hostname: "h1"},
		trustRequest(map[string]string{"hw:cpu_policy": "dedicated"})))
}

func TestTrustedFilterMatchesAttestationLevel(t *testing.T) {
	f := NewTrustedFilter(filtersConfig())
	request := trustRequest(map[string]string{"trust:trusted_host": "trusted"})

	assert.True(t, f.Passes(&models.HostState{Hostname: "h1", TrustLevel: "trusted"}, request))
	assert.False(t, f.Passes(&models.HostState{Hostname: "h2", TrustLevel: "untrusted"}, request))
	assert.False(t, f.Passes(&models.HostState{Hostname: "h3"}, request))
}

func TestTrustedFilterIgnoresOtherTrustKeys(t *testing.T) {
	f := NewTrustedFilter(filtersConfig())
	request := trustRequest(map[string]string{"trust:unrelated": "trusted"})

	assert.True(t, f.Passes(&models.HostState{Hostname: "h1"}, request))
}
