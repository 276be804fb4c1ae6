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

package numa

// Cell is one NUMA cell of a host or instance topology. Usage counters
// are only meaningful on host cells.
type Cell struct {
	ID           int   `json:"id"`
	VCPUs        int64 `json:"vcpus"`
	MemoryMB     int64 `json:"memory_mb"`
	VCPUsUsed    int64 `json:"vcpus_used,omitempty"`
	MemoryMBUsed int64 `json:"memory_mb_used,omitempty"`
}

// Topology is an ordered set of NUMA cells.
type Topology struct {
	Cells []*Cell `json:"cells"`
}

// Clone returns a deep copy of the topology.
func (t *Topology) Clone() *Topology {
	if t == nil {
		return nil
	}
	cells := make([]*Cell, 0, len(t.Cells))
	for _, cell := range t.Cells {
		copied := *cell
		cells = append(cells, &copied)
	}
	return &Topology{Cells: cells}
}

// CellByID returns the cell with the given id, or nil if the topology
// has no such cell.
func (t *Topology) CellByID(id int) *Cell {
	if t == nil {
		return nil
	}
	for _, cell := range t.Cells {
		if cell.ID == id {
			return cell
		}
	}
	return nil
}

// Consume accrues the plan's per-cell demand onto the host topology
// usage counters. Cells named by the plan but absent from the topology
// are ignored.
func (t *Topology) Consume(plan *Plan) {
	if t == nil || plan == nil {
		return
	}
	for _, assignment := range plan.Assignments {
		cell := t.CellByID(assignment.HostCellID)
		if cell == nil {
			continue
		}
		cell.VCPUsUsed += assignment.VCPUs
		cell.MemoryMBUsed += assignment.MemoryMB
	}
}
