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

package config

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/arcus-compute/arcus/pkg/common/health"
	"github.com/arcus-compute/arcus/pkg/common/metrics"
)

const (
	_defaultRequestDequeuePeriod = 100 * time.Millisecond
	_defaultRequestDequeueLimit  = 10
	_defaultDequeueTimeout       = 100
	_defaultConcurrency          = 4
	_defaultMaxAttempts          = 3

	_defaultCPUAllocationRatio  = 16.0
	_defaultRAMAllocationRatio  = 1.5
	_defaultDiskAllocationRatio = 1.0
	_defaultMaxIOOpsPerHost     = 8
	_defaultMaxInstancesPerHost = 50

	_defaultImageIsolationSeparator = "."

	_defaultRAMMultiplier              = 1.0
	_defaultDiskMultiplier             = 1.0
	_defaultIOOpsMultiplier            = -1.0
	_defaultSoftAffinityMultiplier     = 1.0
	_defaultSoftAntiAffinityMultiplier = 1.0
)

// DefaultFilters is the filter order used when the config does not name one.
var DefaultFilters = []string{
	"retry",
	"availability_zone",
	"ram",
	"disk",
	"compute",
	"compute_capabilities",
	"image_properties",
	"group_anti_affinity",
	"group_affinity",
}

// DefaultWeights is the weigher set used when the config does not name one.
var DefaultWeights = []string{
	"ram",
	"disk",
	"io_ops",
	"metrics",
	"soft_affinity",
	"soft_anti_affinity",
}

// Config holds all configs to run a scheduler daemon.
type Config struct {
	Metrics   metrics.Config  `yaml:"metrics"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Health    health.Config   `yaml:"health"`
}

// SchedulerConfig is scheduler engine specific config.
type SchedulerConfig struct {
	// HTTP port which the scheduler serves metrics and debug endpoints on
	HTTPPort int `yaml:"http_port"`

	// HostTrackerURL is the address of the host tracker service.
	HostTrackerURL string `yaml:"host_tracker_url"`

	// RequestQueueURL is the address of the placement request queue service.
	RequestQueueURL string `yaml:"request_queue_url"`

	// RequestDequeuePeriod is the period at which placement requests are
	// dequeued to be scheduled.
	RequestDequeuePeriod time.Duration `yaml:"request_dequeue_period"`

	// RequestDequeueLimit is the max number of requests to dequeue in one call.
	RequestDequeueLimit int `yaml:"request_dequeue_limit"`

	// DequeueTimeout is the long-poll timeout in milliseconds for the request
	// queue dequeue call.
	DequeueTimeout int `yaml:"dequeue_timeout"`

	// Concurrency is the maximal worker concurrency in the engine.
	Concurrency int `yaml:"concurrency"`

	// MaxAttempts is the number of scheduling attempts a request gets before
	// it is failed back to the queue for good. 1 disables rescheduling.
	MaxAttempts int `yaml:"max_attempts"`

	// DequeueRateLimit caps the rate of dequeue calls against the request
	// queue.
	DequeueRateLimit TokenBucketConfig `yaml:"dequeue_rate_limit"`

	Filters FiltersConfig `yaml:"filters"`
	Weights WeightsConfig `yaml:"weights"`
}

// TokenBucketConfig is the config for rate limiting.
type TokenBucketConfig struct {
	// Rate for the token bucket rate limit algorithm;
	// if Rate <= 0 there is no rate limit.
	Rate rate.Limit `yaml:"rate"`
	// Burst for the token bucket rate limit algorithm;
	// if Burst <= 0 there is no rate limit.
	Burst int `yaml:"burst"`
}

// FiltersConfig configures the filter pipeline.
type FiltersConfig struct {
	// Enabled lists the filters to run, in order. Empty selects DefaultFilters.
	Enabled []string `yaml:"enabled"`

	// CPUAllocationRatio is the global virtual-to-physical CPU overcommit
	// ratio, used when neither the host nor its aggregates carry one.
	CPUAllocationRatio float64 `yaml:"cpu_allocation_ratio"`

	// RAMAllocationRatio is the global RAM overcommit ratio.
	RAMAllocationRatio float64 `yaml:"ram_allocation_ratio"`

	// DiskAllocationRatio is the global disk overcommit ratio.
	DiskAllocationRatio float64 `yaml:"disk_allocation_ratio"`

	// MaxIOOpsPerHost is the number of instances in an I/O heavy state a host
	// may carry before the io_ops filter rejects it.
	MaxIOOpsPerHost int64 `yaml:"max_io_ops_per_host"`

	// MaxInstancesPerHost is the instance count at which the num_instances
	// filter rejects a host.
	MaxInstancesPerHost int64 `yaml:"max_instances_per_host"`

	// RestrictIsolatedHostsToIsolatedImages keeps isolated hosts exclusive
	// to instances built from isolated images.
	RestrictIsolatedHostsToIsolatedImages bool `yaml:"restrict_isolated_hosts_to_isolated_images"`

	// ImageIsolationNamespace restricts the aggregate_image_isolation filter
	// to aggregate metadata keys with this prefix. Empty matches every key.
	ImageIsolationNamespace string `yaml:"image_isolation_namespace"`

	// ImageIsolationSeparator joins ImageIsolationNamespace to the key.
	ImageIsolationSeparator string `yaml:"image_isolation_separator"`

	// NUMACellSharing allows several instance cells to land on one host cell.
	NUMACellSharing bool `yaml:"numa_cell_sharing"`
}

// WeightsConfig configures the weigher pipeline.
type WeightsConfig struct {
	// Enabled lists the weighers to apply. Empty selects DefaultWeights.
	Enabled []string `yaml:"enabled"`

	// RAMMultiplier scales the free-RAM weigher. 0 selects the default.
	RAMMultiplier float64 `yaml:"ram_multiplier"`

	// DiskMultiplier scales the free-disk weigher. 0 selects the default.
	DiskMultiplier float64 `yaml:"disk_multiplier"`

	// IOOpsMultiplier scales the io_ops weigher. 0 selects the default, which
	// is negative so that lightly loaded hosts win.
	IOOpsMultiplier float64 `yaml:"io_ops_multiplier"`

	// MetricsRatios maps host metric names to their weight in the metrics
	// weigher's weighted sum.
	MetricsRatios map[string]float64 `yaml:"metrics_ratios"`

	// MetricsRequired sinks hosts missing a configured metric instead of
	// skipping the metric.
	MetricsRequired bool `yaml:"metrics_required"`

	// SoftAffinityMultiplier scales the group soft-affinity weigher.
	// 0 selects the default.
	SoftAffinityMultiplier float64 `yaml:"soft_affinity_multiplier"`

	// SoftAntiAffinityMultiplier scales the group soft-anti-affinity weigher.
	// 0 selects the default.
	SoftAntiAffinityMultiplier float64 `yaml:"soft_anti_affinity_multiplier"`
}

// Normalize configuration by setting unassigned fields to default values.
func (c *SchedulerConfig) Normalize() {
	if c.RequestDequeuePeriod == 0 {
		c.RequestDequeuePeriod = _defaultRequestDequeuePeriod
	}
	if c.RequestDequeueLimit == 0 {
		c.RequestDequeueLimit = _defaultRequestDequeueLimit
	}
	if c.DequeueTimeout == 0 {
		c.DequeueTimeout = _defaultDequeueTimeout
	}
	if c.Concurrency == 0 {
		c.Concurrency = _defaultConcurrency
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = _defaultMaxAttempts
	}
	c.Filters.normalize()
	c.Weights.normalize()
}

func (c *FiltersConfig) normalize() {
	if len(c.Enabled) == 0 {
		c.Enabled = DefaultFilters
	}
	if c.CPUAllocationRatio == 0 {
		c.CPUAllocationRatio = _defaultCPUAllocationRatio
	}
	if c.RAMAllocationRatio == 0 {
		c.RAMAllocationRatio = _defaultRAMAllocationRatio
	}
	if c.DiskAllocationRatio == 0 {
		c.DiskAllocationRatio = _defaultDiskAllocationRatio
	}
	if c.MaxIOOpsPerHost == 0 {
		c.MaxIOOpsPerHost = _defaultMaxIOOpsPerHost
	}
	if c.MaxInstancesPerHost == 0 {
		c.MaxInstancesPerHost = _defaultMaxInstancesPerHost
	}
	if c.ImageIsolationSeparator == "" {
		c.ImageIsolationSeparator = _defaultImageIsolationSeparator
	}
}

func (c *WeightsConfig) normalize() {
	if len(c.Enabled) == 0 {
		c.Enabled = DefaultWeights
	}
	if c.RAMMultiplier == 0 {
		c.RAMMultiplier = _defaultRAMMultiplier
	}
	if c.DiskMultiplier == 0 {
		c.DiskMultiplier = _defaultDiskMultiplier
	}
	if c.IOOpsMultiplier == 0 {
		c.IOOpsMultiplier = _defaultIOOpsMultiplier
	}
	if c.SoftAffinityMultiplier == 0 {
		c.SoftAffinityMultiplier = _defaultSoftAffinityMultiplier
	}
	if c.SoftAntiAffinityMultiplier == 0 {
		c.SoftAntiAffinityMultiplier = _defaultSoftAntiAffinityMultiplier
	}
}

// Copy returns a deep copy of the config.
func (c *SchedulerConfig) Copy() *SchedulerConfig {
	config := *c
	config.Filters.Enabled = append([]string(nil), c.Filters.Enabled...)
	config.Weights.Enabled = append([]string(nil), c.Weights.Enabled...)
	if c.Weights.MetricsRatios != nil {
		config.Weights.MetricsRatios = make(map[string]float64, len(c.Weights.MetricsRatios))
		for name, ratio := range c.Weights.MetricsRatios {
			config.Weights.MetricsRatios[name] = ratio
		}
	}
	return &config
}
