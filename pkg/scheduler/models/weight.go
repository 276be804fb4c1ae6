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

package models

// WeightEntry is one weigher's contribution to a host's total score.
type WeightEntry struct {
	Name         string
	Raw          float64
	Normalized   float64
	Multiplier   float64
	Contribution float64
}

// WeighedHost is a candidate host with its total score and the
// per-weigher breakdown that produced it.
type WeighedHost struct {
	Host    *HostState
	Score   float64
	Weights []WeightEntry
}
