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

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const (
	// RAM is the name of the free-RAM weigher
	RAM = "ram"

	// Disk is the name of the free-disk weigher
	Disk = "disk"

	// IOOps is the name of the I/O operations weigher
	IOOps = "io_ops"

	// Metrics is the name of the host metrics weigher
	Metrics = "metrics"

	// SoftAffinity is the name of the group soft-affinity weigher
	SoftAffinity = "soft_affinity"

	// SoftAntiAffinity is the name of the group soft-anti-affinity weigher
	SoftAntiAffinity = "soft_anti_affinity"
)

// Factory builds a weigher from the weights config.
type Factory func(cfg *config.WeightsConfig) Weigher

// map of weigher name to Factory. Not thread-safe -> should be
// updated at initialization only; only reads are safe after
// initialization.
var factories = make(map[string]Factory)

// register keeps a weigher factory in the factory map.
func register(name string, factory Factory) {
	log.WithField("name", name).Info("Registering weigher")
	if factory == nil {
		log.WithField("name", name).Error("invalid weigher factory function")
		return
	}
	if _, registered := factories[name]; registered {
		log.WithField("name", name).Error("weigher already registered")
		return
	}
	factories[name] = factory
}

// Init registers all the builtin weighers.
func Init() {
	register(RAM, NewRAMWeigher)
	register(Disk, NewDiskWeigher)
	register(IOOps, NewIOOpsWeigher)
	register(Metrics, NewMetricsWeigher)
	register(SoftAffinity, NewSoftAffinityWeigher)
	register(SoftAntiAffinity, NewSoftAntiAffinityWeigher)
}

// New builds the weighers the config enables, in the configured order. Every
// unknown name is reported; nothing is built when any name fails to resolve.
func New(cfg *config.WeightsConfig) ([]Weigher, error) {
	var errs error
	result := make([]Weigher, 0, len(cfg.Enabled))
	for _, name := range cfg.Enabled {
		factory, ok := factories[name]
		if !ok {
			errs = multierr.Append(errs, errors.Errorf("unknown weigher %q", name))
			continue
		}
		result = append(result, factory(cfg))
	}
	if errs != nil {
		return nil, errs
	}
	return result, nil
}
