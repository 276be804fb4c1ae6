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

// ramWeigher spreads instances by preferring hosts with more free RAM. A
// negative multiplier turns it into a packer.
type ramWeigher struct {
	multiplier float64
}

// NewRAMWeigher creates the free-RAM weigher.
func NewRAMWeigher(cfg *config.WeightsConfig) Weigher {
	return &ramWeigher{multiplier: cfg.RAMMultiplier}
}

func (w *ramWeigher) Name() string {
	return RAM
}

func (w *ramWeigher) Multiplier() float64 {
	return w.multiplier
}

func (w *ramWeigher) Weigh(host *models.HostState, _ *models.Request) float64 {
	return float64(host.FreeRAMMB)
}
