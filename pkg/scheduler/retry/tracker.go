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

// Package retry threads attempted-host context across the reschedule
// attempts of a logical request, so a host that already failed to
// build an instance is not chosen again while alternatives remain.
package retry

import (
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/arcus-compute/arcus/pkg/common/stringset"
	"github.com/arcus-compute/arcus/pkg/scheduler/models"
)

const _defaultMaxAttempts = 3

// MaxRetriesExceededError is returned when a request has been
// rescheduled more times than the configured limit allows.
type MaxRetriesExceededError struct {
	RequestID   string
	NumAttempts int
	MaxAttempts int
}

func (e *MaxRetriesExceededError) Error() string {
	return fmt.Sprintf(
		"exceeded max scheduling attempts %d for request %s",
		e.MaxAttempts, e.RequestID)
}

// Tracker maintains the per-request exclusion set of hosts already
// attempted. State is merged from the retry context each request
// carries, so context produced by other scheduler instances or by the
// external compute layer is honored.
type Tracker interface {
	// Populate advances the request's retry state by one attempt,
	// merging any incoming retry context, and rewrites the request's
	// context with the merged view. Returns MaxRetriesExceededError
	// when the attempt limit is exhausted.
	Populate(request *models.Request) error

	// AddAttempt records that the host failed to build an instance of
	// the request, excluding it from subsequent attempts.
	AddAttempt(requestID string, hostname string)

	// Forget drops all tracked state for the request.
	Forget(requestID string)
}

// NewTracker creates a Tracker allowing at most maxAttempts scheduling
// attempts per request; zero or less selects the default of 3.
func NewTracker(maxAttempts int) Tracker {
	if maxAttempts <= 0 {
		maxAttempts = _defaultMaxAttempts
	}
	return &tracker{
		maxAttempts: maxAttempts,
		requests:    make(map[string]*attempts),
	}
}

type attempts struct {
	numAttempts int
	hosts       stringset.StringSet
}

type tracker struct {
	sync.Mutex
	maxAttempts int
	requests    map[string]*attempts
}

func (t *tracker) Populate(request *models.Request) error {
	// A single allowed attempt disables rescheduling outright.
	// Multiple forced hosts skip tracking too: placement walks the
	// forced set one host at a time instead of excluding failures.
	if t.maxAttempts == 1 || len(request.ForcedHosts) > 1 {
		return nil
	}

	t.Lock()
	defer t.Unlock()

	entry := t.requests[request.ID]
	if entry == nil {
		entry = &attempts{hosts: stringset.New()}
		t.requests[request.ID] = entry
	}
	if request.Retry != nil {
		for _, host := range request.Retry.Hosts {
			entry.hosts.Add(host)
		}
		if request.Retry.NumAttempts > entry.numAttempts {
			entry.numAttempts = request.Retry.NumAttempts
		}
	}
	entry.numAttempts++

	hosts := entry.hosts.ToSlice()
	sort.Strings(hosts)
	request.Retry = &models.RetryContext{
		NumAttempts: entry.numAttempts,
		Hosts:       hosts,
	}

	if entry.numAttempts > t.maxAttempts {
		delete(t.requests, request.ID)
		return &MaxRetriesExceededError{
			RequestID:   request.ID,
			NumAttempts: entry.numAttempts,
			MaxAttempts: t.maxAttempts,
		}
	}
	if len(hosts) > 0 {
		log.WithFields(log.Fields{
			"request_id":   request.ID,
			"num_attempts": entry.numAttempts,
			"hosts":        hosts,
		}).Debug("Re-scheduling request, excluding attempted hosts")
	}
	return nil
}

func (t *tracker) AddAttempt(requestID string, hostname string) {
	t.Lock()
	defer t.Unlock()

	entry := t.requests[requestID]
	if entry == nil {
		entry = &attempts{hosts: stringset.New()}
		t.requests[requestID] = entry
	}
	entry.hosts.Add(hostname)
}

func (t *tracker) Forget(requestID string) {
	t.Lock()
	defer t.Unlock()
	delete(t.requests, requestID)
}
