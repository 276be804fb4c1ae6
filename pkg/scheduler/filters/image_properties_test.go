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

func imageRequest(props *models.ImageProps) *models.Request {
	return &models.Request{ID: "req-1", NumInstances: 1, ImageProps: props}
}

func kvmHost() *models.HostState {
	return &models.HostState{
		Hostname: "h1",
		SupportedInstances: []*models.SupportedInstance{
			{Arch: "x86_64", HypervisorType: "qemu", VMMode: "hvm"},
			{Arch: "aarch64", HypervisorType: "qemu", VMMode: "hvm"},
		},
	}
}

func TestImagePropertiesFilterNoDeclaredProperties(t *testing.T) {
	f := NewImagePropertiesFilter(filtersConfig())

	assert.True(t, f.Passes(kvmHost(), imageRequest(nil)))
	assert.True(t, f.Passes(kvmHost(), imageRequest(&models.ImageProps{})))
	// A host with no combinations still serves undeclared images.
	assert.True(t, f.Passes(&models.HostState{Hostname: "h2"}, imageRequest(nil)))
}

func TestImagePropertiesFilterMatchesCombination(t *testing.T) {
	f := NewImagePropertiesFilter(filtersConfig())

	assert.True(t, f.Passes(kvmHost(), imageRequest(&models.ImageProps{
		Arch: "x86_64", HypervisorType: "qemu", VMMode: "hvm",
	})))
	assert.False(t, f.Passes(kvmHost(), imageRequest(&models.ImageProps{
		Arch: "x86_64", HypervisorType: "xen", VMMode: "hvm",
	})))
	assert.False(t, f.Passes(kvmHost(), imageRequest(&models.ImageProps{
		Arch: "ppc64",
	})))
}

func TestImagePropertiesFilterPartialDeclarationIsWildcard(t *testing.T) {
	f := NewImagePropertiesFilter(filtersConfig())

	assert.True(t, f.Passes(kvmHost(), imageRequest(&models.ImageProps{Arch: "aarch64"})))
	assert.True(t, f.Passes(kvmHost(), imageRequest(&models.ImageProps{HypervisorType: "qemu"})))
}

func TestImagePropertiesFilterHostWithoutSupportedInstances(t *testing.T) {
	f := NewImagePropertiesFilter(filtersConfig())
	host := &models.HostState{Hostname: "h2"}

	assert.False(t, f.Passes(host, imageRequest(&models.ImageProps{Arch: "x86_64"})))
}
