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
	"net"

	log "github.com/sirupsen/logrus"

	"github.com/arcus-compute/arcus/pkg/scheduler/config"
	"github.com/arcus-compute/arcus/pkg/scheduler/models"
)

const _defaultAffinityCIDR = "/24"

// sameHostFilter keeps only the hosts named by the request's same_host
// hint. The hint arrives resolved to hostnames.
type sameHostFilter struct{}

// NewSameHostFilter creates the same-host hint filter.
func NewSameHostFilter(_ *config.FiltersConfig) Filter {
	return &sameHostFilter{}
}

func (f *sameHostFilter) Name() string {
	return SameHost
}

// RunOncePerRequest is true: the hosts the named instances run on do
// not change within a request.
func (f *sameHostFilter) RunOncePerRequest() bool {
	return true
}

func (f *sameHostFilter) Passes(host *models.HostState, request *models.Request) bool {
	if request.Hints == nil || len(request.Hints.SameHost) == 0 {
		return true
	}
	for _, hostname := range request.Hints.SameHost {
		if hostname == host.Hostname {
			return true
		}
	}
	return false
}

// differentHostFilter drops the hosts named by the request's
// different_host hint.
type differentHostFilter struct{}

// NewDifferentHostFilter creates the different-host hint filter.
func NewDifferentHostFilter(_ *config.FiltersConfig) Filter {
	return &differentHostFilter{}
}

func (f *differentHostFilter) Name() string {
	return DifferentHost
}

// RunOncePerRequest is true: the hosts the named instances run on do
// not change within a request.
func (f *differentHostFilter) RunOncePerRequest() bool {
	return true
}

func (f *differentHostFilter) Passes(host *models.HostState, request *models.Request) bool {
	if request.Hints == nil {
		return true
	}
	for _, hostname := range request.Hints.DifferentHost {
		if hostname == host.Hostname {
			return false
		}
	}
	return true
}

// cidrAffinityFilter keeps hosts on the same network segment as the
// build_near_host_ip hint, within the hinted CIDR suffix. Malformed
// hints and hosts without a usable address fail closed.
type cidrAffinityFilter struct{}

// NewCIDRAffinityFilter creates the network segment affinity filter.
func NewCIDRAffinityFilter(_ *config.FiltersConfig) Filter {
	return &cidrAffinityFilter{}
}

func (f *cidrAffinityFilter) Name() string {
	return CIDRAffinity
}

// RunOncePerRequest is true: host addresses do not change within a
// request.
func (f *cidrAffinityFilter) RunOncePerRequest() bool {
	return true
}

func (f *cidrAffinityFilter) Passes(host *models.HostState, request *models.Request) bool {
	if request.Hints == nil || request.Hints.BuildNearHostIP == "" {
		return true
	}
	suffix := request.Hints.CIDR
	if suffix == "" {
		suffix = _defaultAffinityCIDR
	}
	_, network, err := net.ParseCIDR(request.Hints.BuildNearHostIP + suffix)
	if err != nil {
		log.WithFields(log.Fields{
			"build_near_host_ip": request.Hints.BuildNearHostIP,
			"cidr":               suffix,
		}).Warn("Unparseable network affinity hint")
		return false
	}
	return network.Contains(net.ParseIP(host.HostIP))
}

// groupAffinityFilter keeps the instances of an affinity server group
// on one host. The first member can go anywhere; every later member
// must land where the group already runs, including picks made earlier
// in the same batch.
type groupAffinityFilter struct{}

// NewGroupAffinityFilter creates the server group affinity filter.
func NewGroupAffinityFilter(_ *config.FiltersConfig) Filter {
	return &groupAffinityFilter{}
}

func (f *groupAffinityFilter) Name() string {
	return GroupAffinity
}

func (f *groupAffinityFilter) RunOncePerRequest() bool {
	return false
}

func (f *groupAffinityFilter) Passes(host *models.HostState, request *models.Request) bool {
	group := request.Group
	if group == nil || group.Policy != models.PolicyAffinity {
		return true
	}
	if len(group.Hosts) == 0 {
		return true
	}
	for _, hostname := range group.Hosts {
		if hostname == host.Hostname {
			return true
		}
	}
	return false
}

// groupAntiAffinityFilter keeps the instances of an anti-affinity
// server group on distinct hosts, including within one batch.
type groupAntiAffinityFilter struct{}

// NewGroupAntiAffinityFilter creates the server group anti-affinity
// filter.
func NewGroupAntiAffinityFilter(_ *config.FiltersConfig) Filter {
	return &groupAntiAffinityFilter{}
}

func (f *groupAntiAffinityFilter) Name() string {
	return GroupAntiAffinity
}

func (f *groupAntiAffinityFilter) RunOncePerRequest() bool {
	return false
}

func (f *groupAntiAffinityFilter) Passes(host *models.HostState, request *models.Request) bool {
	group := request.Group
	if group == nil || group.Policy != models.PolicyAntiAffinity {
		return true
	}
	for _, hostname := range group.Hosts {
		if hostname == host.Hostname {
			log.WithFields(log.Fields{
				"hostname": host.Hostname,
				"group_id": group.ID,
			}).Debug("Host already runs a member of the anti-affinity group")
			return false
		}
	}
	return true
}
