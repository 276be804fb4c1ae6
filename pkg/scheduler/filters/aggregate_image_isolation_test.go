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

func isolationImageRequest(properties map[string]string) *models.Request {
	return &models.Request{
		ID:           "req-1",
		NumInstances: 1,
		ImageProps:   &models.ImageProps{Properties: properties},
	}
}

func TestAggregateImageIsolationFilterMatchingProperty(t *testing.T) {
	f := NewAggregateImageIsolationFilter(filtersConfig())
	host := aggregateHost(map[string]string{"os_distro": "windows"})

	assert.True(t, f.Passes(host, isolationImageRequest(map[string]string{"os_distro": "windows"})))
	assert.False(t, f.Passes(host, isolationImageRequest(map[string]string{"os_distro": "linux"})))
}

func TestAggregateImageIsolationFilterUndeclaredPropertyIgnored(t *testing.T) {
	f := NewAggregateImageIsolationFilter(filtersConfig())
	host := aggregateHost(map[string]string{"os_distro": "windows"})

	// An image silent on os_distro is not excluded by it.
	assert.True(t, f.Passes(host, isolationImageRequest(nil)))
	assert.True(t, f.Passes(host, isolationImageRequest(map[string]string{"os_type": "server"})))
	assert.True(t, f.Passes(host, demandRequest(1, 0, 0)))
}

func TestAggregateImageIsolationFilterUnionAcrossAggregates(t *testing.T) {
	f := NewAggregateImageIsolationFilter(filtersConfig())
	host := aggregateHost(
		map[string]string{"os_distro": "windows"},
		map[string]string{"os_distro": "linux"},
	)

	// Either aggregate's value satisfies the key.
	assert.True(t, f.Passes(host, isolationImageRequest(map[string]string{"os_distro": "windows"})))
	assert.True(t, f.Passes(host, isolationImageRequest(map[string]string{"os_distro": "linux"})))
	assert.False(t, f.Passes(host, isolationImageRequest(map[string]string{"os_distro": "freebsd"})))
}

func TestAggregateImageIsolationFilterCommaSeparatedValues(t *testing.T) {
	f := NewAggregateImageIsolationFilter(filtersConfig())
	host := aggregateHost(map[string]string{"os_distro": "windows, linux"})

	assert.True(t, f.Passes(host, isolationImageRequest(map[string]string{"os_distro": "linux"})))
	assert.False(t, f.Passes(host, isolationImageRequest(map[string]string{"os_distro": "freebsd"})))
}

func TestAggregateImageIsolationFilterNamespaceRestriction(t *testing.T) {
	cfg := filtersConfig()
	cfg.ImageIsolationNamespace = "isolation"
	f := NewAggregateImageIsolationFilter(cfg)
	host := aggregateHost(map[string]string{
		"isolation.os_distro": "windows",
		"tier":                "gold",
	})

	// Only keys under the namespace participate; tier is not an
	// isolation key even though the image declares a different value.
	assert.True(t, f.Passes(host, isolationImageRequest(map[string]string{
		"isolation.os_distro": "windows",
		"tier":                "silver",
	})))
	assert.False(t, f.Passes(host, isolationImageRequest(map[string]string{
		"isolation.os_distro": "linux",
	})))
}

func TestAggregateImageIsolationFilterNoAggregates(t *testing.T) {
	f := NewAggregateImageIsolationFilter(filtersConfig())

	assert.True(t, f.Passes(&models.HostState{Hostname: "h1"},
		isolationImageRequest(map[string]string{"os_distro": "windows"})))
}
