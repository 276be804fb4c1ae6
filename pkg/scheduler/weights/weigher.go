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

// Package weights ranks the hosts that survived filtering. Each weigher
// scores every candidate on one criterion; the handler normalizes the raw
// scores of each weigher to [0, 1] across the candidate set, applies the
// configured multipliers and orders hosts by the summed contributions.
package weights

import (
	"sort"

	"github.com/arcus-compute/arcus/pkg/scheduler/models"
)

// Weigher scores hosts on a single criterion.
type Weigher interface {
	// Name returns the stable name the weigher is configured by.
	Name() string

	// Multiplier returns the configured importance of this weigher.
	Multiplier() float64

	// Weigh returns the raw score of the host for the request. Higher is
	// better; the handler normalizes raw scores before they are combined.
	Weigh(host *models.HostState, request *models.Request) float64
}

// Handler applies a set of weighers to a candidate host set.
type Handler struct {
	weighers []Weigher
}

// NewHandler creates a Handler applying the given weighers in order.
func NewHandler(weighers ...Weigher) *Handler {
	return &Handler{weighers: weighers}
}

// WeighHosts scores every candidate host for the request and returns them
// ordered best first. Ties keep the input order, so equal hosts rank
// deterministically. Each returned host carries the per-weigher breakdown
// that produced its score.
func (h *Handler) WeighHosts(
	hosts []*models.HostState,
	request *models.Request) []*models.WeighedHost {
	weighed := make([]*models.WeighedHost, 0, len(hosts))
	for _, host := range hosts {
		weighed = append(weighed, &models.WeighedHost{Host: host})
	}

	raws := make([]float64, len(hosts))
	for _, weigher := range h.weighers {
		for i, host := range hosts {
			raws[i] = weigher.Weigh(host, request)
		}
		lo, hi := bounds(raws)
		for i, w := range weighed {
			// All raw scores equal means the criterion cannot tell the
			// candidates apart; every host gets 0 for it.
			normalized := 0.0
			if hi > lo {
				normalized = (raws[i] - lo) / (hi - lo)
			}
			contribution := weigher.Multiplier() * normalized
			w.Score += contribution
			w.Weights = append(w.Weights, models.WeightEntry{
				Name:         weigher.Name(),
				Raw:          raws[i],
				Normalized:   normalized,
				Multiplier:   weigher.Multiplier(),
				Contribution: contribution,
			})
		}
	}

	sort.SliceStable(weighed, func(i, j int) bool {
		return weighed[i].Score > weighed[j].Score
	})
	return weighed
}

func bounds(raws []float64) (float64, float64) {
	if len(raws) == 0 {
		return 0, 0
	}
	lo, hi := raws[0], raws[0]
	for _, r := range raws[1:] {
		if r < lo {
			lo = r
		}
		if r > hi {
			hi = r
		}
	}
	return lo, hi
}
