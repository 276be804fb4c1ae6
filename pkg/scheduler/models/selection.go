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

// Selection is one placed instance: the chosen host plus the limit
// annotations the filter chain computed for it. The claim layer turns
// a selection into authoritative resource usage.
type Selection struct {
	Hostname string  `json:"hostname"`
	Nodename string  `json:"nodename"`
	Limits   *Limits `json:"limits,omitempty"`
}

// NewSelection snapshots the host's identity and current limit
// annotations into a selection.
func NewSelection(host *HostState) *Selection {
	return &Selection{
		Hostname: host.Hostname,
		Nodename: host.Nodename,
		Limits:   host.Limits.Clone(),
	}
}
