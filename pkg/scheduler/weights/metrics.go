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

// _weightOfUnavailable is the raw score of a host missing a required
// metric. It sinks the host below any host reporting the metric.
const _weightOfUnavailable = -10000.0

// metricsWeigher scores hosts by a weighted sum of the monitoring metrics
// they report, per the configured name to ratio pairs. A host missing a
// configured metric has that term skipped, or sinks to the bottom of the
// ranking when the config marks metrics as required.
type metricsWeigher struct {
	multiplier float64
	ratios     map[string]float64
	required   bool
}

// NewMetricsWeigher creates the host metrics weigher.
func NewMetricsWeigher(cfg *config.WeightsConfig) Weigher {
	return &metricsWeigher{
		multiplier: 1.0,
		ratios:     cfg.MetricsRatios,
		required:   cfg.MetricsRequired,
	}
}

func (w *metricsWeigher) Name() string {
	return Metrics
}

func (w *metricsWeigher) Multiplier() float64 {
	return w.multiplier
}

func (w *metricsWeigher) Weigh(host *models.HostState, _ *models.Request) float64 {
	value := 0.0
	for name, ratio := range w.ratios {
		metric, ok := host.Metrics[name]
		if !ok {
			if w.required {
				return _weightOfUnavailable
			}
			continue
		}
		value += metric * ratio
	}
	return value
}
