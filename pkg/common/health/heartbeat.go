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

// Package health emits a periodic liveness heartbeat metric for the
// running process.
package health

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	"go.uber.org/atomic"
)

// _defaultHeartbeatInterval is used when the config does not set one.
const _defaultHeartbeatInterval = 10 * time.Second

// Heartbeat is the heartbeat interface
type Heartbeat interface {
	Start()
	Stop()
}

type heartbeat struct {
	sync.Mutex

	Running  atomic.Bool
	stopChan chan struct{}

	metrics           *Metrics
	heartbeatInterval time.Duration
}

var hb *heartbeat
var onceInitHeartbeat sync.Once

// InitHeartbeat inits heartbeat
func InitHeartbeat(
	parent tally.Scope,
	config Config) {
	onceInitHeartbeat.Do(func() {
		interval := config.HeartbeatInterval
		if interval <= 0 {
			interval = _defaultHeartbeatInterval
		}
		hb = &heartbeat{
			metrics:           NewMetrics(parent.SubScope("health")),
			heartbeatInterval: interval,
			stopChan:          make(chan struct{}),
		}
		hb.metrics.Init.Inc(1)
		hb.Start()
	})
}

func (*heartbeat) Start() {
	log.Info("Heartbeat start called.")

	hb.Lock()
	defer hb.Unlock()

	if hb.Running.Swap(true) {
		log.Warn("Heartbeater is already running, no-op.")
		return
	}

	go func() {
		defer hb.Running.Store(false)

		for {
			ticker := time.NewTimer(hb.heartbeatInterval)
			select {
			case <-hb.stopChan:
				log.Info("Heartbeater stopped.")
				return
			case t := <-ticker.C:
				log.WithField("tick", t).
					Debug("Emitting heartbeat.")
				hb.metrics.Heartbeat.Update(1)
			}
			ticker.Stop()
		}
	}()

	log.Info("Heartbeater started.")
}

func (*heartbeat) Stop() {
	log.Info("Heartbeat stop called.")

	if !hb.Running.Load() {
		log.Warn("Heartbeat is not running, no-op.")
		return
	}

	hb.Lock()
	defer hb.Unlock()

	log.Info("Stopping Heartbeat.")
	hb.stopChan <- struct{}{}

	for hb.Running.Load() {
		time.Sleep(1 * time.Millisecond)
	}

	log.Info("Heartbeat stopped.")
}
