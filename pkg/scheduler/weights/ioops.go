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

// ioOpsWeigher scores hosts by the number of instances in an I/O heavy
// state. The default multiplier is negative, steering new instances
// towards lightly loaded hosts; a positive multiplier packs the busy ones.
type ioOpsWeigher struct {
	multiplier float64
}

// NewIOOpsWeigher creates the I/O operations weigher.
func NewIOOpsWeigher(cfg *config.WeightsConfig) Weigher {
	return &ioOpsWeigher{multiplier: cfg.IOOpsMultiplier}
}

func (w *ioOpsWeigher) Name() string {
	return IOOps
}

func (w *ioOpsWeigher) Multiplier() float64 {
	return w.multiplier
}

func (w *ioOpsWeigher) Weigh(host *models.HostState, _ *models.Request) float64 {
	return float64(host.NumIOOps)
}
