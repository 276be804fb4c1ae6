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

package weights

import (
	"github.com/arcus-compute/arcus/pkg/scheduler/config"
	"github.com/arcus-compute/arcus/pkg/scheduler/models"
)

// groupMembers counts the group members already placed on the host. The
// group host list carries one entry per member, so repeats count.
func groupMembers(host *models.HostState, request *models.Request, policy string) float64 {
	if request.Group == nil || request.Group.Policy != policy {
		return 0
	}
	members := 0
	for _, hostname := range request.Group.Hosts {
		if hostname == host.Hostname {
			members++
		}
	}
	return float64(members)
}

// softAffinityWeigher prefers hosts already running members of the
// request's soft-affinity group. Unlike the affinity filter it never
// eliminates a host; an empty host merely scores lowest.
type softAffinityWeigher struct {
	multiplier float64
}

// NewSoftAffinityWeigher creates the group soft-affinity weigher.
func NewSoftAffinityWeigher(cfg *config.WeightsConfig) Weigher {
	return &softAffinityWeigher{multiplier: cfg.SoftAffinityMultiplier}
}

func (w *softAffinityWeigher) Name() string {
	return SoftAffinity
}

func (w *softAffinityWeigher) Multiplier() float64 {
	return w.multiplier
}

func (w *softAffinityWeigher) Weigh(host *models.HostState, request *models.Request) float64 {
	return groupMembers(host, request, models.PolicySoftAffinity)
}

// softAntiAffinityWeigher steers instances away from hosts already running
// members of the request's soft-anti-affinity group. The configured
// multiplier is applied negated so that more members means a lower rank.
type softAntiAffinityWeigher struct {
	multiplier float64
}

// NewSoftAntiAffinityWeigher creates the group soft-anti-affinity weigher.
func NewSoftAntiAffinityWeigher(cfg *config.WeightsConfig) Weigher {
	return &softAntiAffinityWeigher{multiplier: cfg.SoftAntiAffinityMultiplier}
}

func (w *softAntiAffinityWeigher) Name() string {
	return SoftAntiAffinity
}

func (w *softAntiAffinityWeigher) Multiplier() float64 {
	return -w.multiplier
}

func (w *softAntiAffinityWeigher) Weigh(host *models.HostState, request *models.Request) float64 {
	return groupMembers(host, request, models.PolicySoftAntiAffinity)
}
