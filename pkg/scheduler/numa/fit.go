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

import (
	"sort"
)

// _searchBudget bounds the number of assignment attempts one Fit call
// may make, so a pathological topology cannot stall a placement loop.
const _searchBudget = 4096

// Assignment pins one instance cell to one host cell.
type Assignment struct {
	InstanceCellID int   `json:"instance_cell_id"`
	HostCellID     int   `json:"host_cell_id"`
	VCPUs          int64 `json:"vcpus"`
	MemoryMB       int64 `json:"memory_mb"`
}

// Plan is a feasible packing of an instance topology onto a host
// topology, together with the oversubscription ratios it was computed
// under. The external claim step revalidates the plan against the
// authoritative usage records.
type Plan struct {
	CPUAllocationRatio float64       `json:"cpu_allocation_ratio"`
	RAMAllocationRatio float64       `json:"ram_allocation_ratio"`
	Assignments        []*Assignment `json:"assignments"`
}

// Fit packs every instance cell onto a host cell such that, for each
// host cell used, assigned vCPUs stay within cpuRatio × physical vCPUs
// and assigned memory stays within ramRatio × physical memory, both on
// top of usage already accrued on the host topology. Instance cells are
// placed first-fit-decreasing by cell size with backtracking on
// capacity violation; each instance cell takes a distinct host cell
// unless allowSharing is set. Returns nil when no feasible packing
// exists.
func Fit(
	host *Topology,
	instance *Topology,
	cpuRatio float64,
	ramRatio float64,
	allowSharing bool) *Plan {
	if host == nil || instance == nil ||
		len(host.Cells) == 0 || len(instance.Cells) == 0 {
		return nil
	}
	if !allowSharing && len(instance.Cells) > len(host.Cells) {
		return nil
	}

	// Decreasing by vCPUs then memory; ids break ties so the search
	// order, and with it the packing, is deterministic.
	cells := make([]*Cell, len(instance.Cells))
	copy(cells, instance.Cells)
	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].VCPUs != cells[j].VCPUs {
			return cells[i].VCPUs > cells[j].VCPUs
		}
		if cells[i].MemoryMB != cells[j].MemoryMB {
			return cells[i].MemoryMB > cells[j].MemoryMB
		}
		return cells[i].ID < cells[j].ID
	})

	search := &fitSearch{
		hostCells:    host.Cells,
		cpuRatio:     cpuRatio,
		ramRatio:     ramRatio,
		allowSharing: allowSharing,
		cpuAssigned:  make([]int64, len(host.Cells)),
		memAssigned:  make([]int64, len(host.Cells)),
		taken:        make([]bool, len(host.Cells)),
		budget:       _searchBudget,
	}
	assignments := make([]*Assignment, 0, len(cells))
	if !search.place(cells, &assignments) {
		return nil
	}
	return &Plan{
		CPUAllocationRatio: cpuRatio,
		RAMAllocationRatio: ramRatio,
		Assignments:        assignments,
	}
}

type fitSearch struct {
	hostCells    []*Cell
	cpuRatio     float64
	ramRatio     float64
	allowSharing bool
	cpuAssigned  []int64
	memAssigned  []int64
	taken        []bool
	budget       int
}

// place assigns the remaining instance cells recursively, backtracking
// when a later cell cannot be accommodated.
func (s *fitSearch) place(remaining []*Cell, assignments *[]*Assignment) bool {
	if len(remaining) == 0 {
		return true
	}
	cell := remaining[0]
	for i, hostCell := range s.hostCells {
		if s.budget <= 0 {
			return false
		}
		s.budget--
		if s.taken[i] && !s.allowSharing {
			continue
		}
		if !s.fits(i, hostCell, cell) {
			continue
		}

		s.cpuAssigned[i] += cell.VCPUs
		s.memAssigned[i] += cell.MemoryMB
		wasTaken := s.taken[i]
		s.taken[i] = true
		*assignments = append(*assignments, &Assignment{
			InstanceCellID: cell.ID,
			HostCellID:     hostCell.ID,
			VCPUs:          cell.VCPUs,
			MemoryMB:       cell.MemoryMB,
		})

		if s.place(remaining[1:], assignments) {
			return true
		}

		*assignments = (*assignments)[:len(*assignments)-1]
		s.taken[i] = wasTaken
		s.cpuAssigned[i] -= cell.VCPUs
		s.memAssigned[i] -= cell.MemoryMB
	}
	return false
}

// fits reports whether the instance cell fits on host cell i under the
// ratio caps, counting usage already on the host plus what this search
// has tentatively assigned.
func (s *fitSearch) fits(i int, hostCell *Cell, cell *Cell) bool {
	cpuLimit := s.cpuRatio * float64(hostCell.VCPUs)
	memLimit := s.ramRatio * float64(hostCell.MemoryMB)
	cpuWant := float64(hostCell.VCPUsUsed + s.cpuAssigned[i] + cell.VCPUs)
	memWant := float64(hostCell.MemoryMBUsed + s.memAssigned[i] + cell.MemoryMB)
	return cpuWant <= cpuLimit && memWant <= memLimit
}
