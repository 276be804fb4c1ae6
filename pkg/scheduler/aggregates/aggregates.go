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

// Package aggregates resolves per-aggregate numeric overrides for a
// host. A host's effective setting is the minimum across all its
// aggregates that define the setting, so no aggregate is ever
// over-allocated relative to its most restrictive peer; resolution is
// never an error condition.
package aggregates

import (
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/arcus-compute/arcus/pkg/scheduler/models"
)

// ValuesFromKey collects the metadata values for a key across every
// aggregate the host belongs to that defines it, in membership order.
func ValuesFromKey(host *models.HostState, key string) []string {
	var vals []string
	for _, aggregate := range host.Aggregates {
		if aggregate.Metadata == nil {
			continue
		}
		if val, ok := aggregate.Metadata[key]; ok {
			vals = append(vals, val)
		}
	}
	return vals
}

// ResolveFloat returns the effective float setting for the host: the
// global default when no aggregate defines the key, the single defined
// value, or the minimum across conflicting values. Any unparseable
// value falls the whole resolution back to the global default with a
// warning.
func ResolveFloat(host *models.HostState, key string, global float64) float64 {
	vals := ValuesFromKey(host, key)
	if len(vals) == 0 {
		return global
	}

	min := 0.0
	for i, val := range vals {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.WithFields(log.Fields{
				"hostname": host.Hostname,
				"key":      key,
				"value":    val,
			}).Warn("Could not decode aggregate metadata value")
			return global
		}
		if i == 0 || parsed < min {
			min = parsed
		}
	}
	if len(vals) > 1 {
		log.WithFields(log.Fields{
			"hostname":   host.Hostname,
			"key":        key,
			"num_values": len(vals),
		}).Info("Multiple aggregate values found, using the minimum")
	}
	return min
}

// ResolveInt is ResolveFloat for integer settings such as per-host
// caps.
func ResolveInt(host *models.HostState, key string, global int64) int64 {
	vals := ValuesFromKey(host, key)
	if len(vals) == 0 {
		return global
	}

	var min int64
	for i, val := range vals {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			log.WithFields(log.Fields{
				"hostname": host.Hostname,
				"key":      key,
				"value":    val,
			}).Warn("Could not decode aggregate metadata value")
			return global
		}
		if i == 0 || parsed < min {
			min = parsed
		}
	}
	if len(vals) > 1 {
		log.WithFields(log.Fields{
			"hostname":   host.Hostname,
			"key":        key,
			"num_values": len(vals),
		}).Info("Multiple aggregate values found, using the minimum")
	}
	return min
}
