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

package hosts

import (
	"context"
	"errors"
	"time"

	"go.uber.org/yarpc/encoding/json"

	"github.com/arcus-compute/arcus/pkg/scheduler/metrics"
	"github.com/arcus-compute/arcus/pkg/scheduler/models"
)

const (
	// _getHostStatesProcedure is the host tracker procedure serving the
	// host state snapshot.
	_getHostStatesProcedure = "HostTracker.GetHostStates"

	_timeout = 10 * time.Second
)

var errFailedToGetHostStates = errors.New("failed to get host states from the host tracker")

// GetHostStatesRequest is the body of a host state snapshot fetch.
type GetHostStatesRequest struct{}

// GetHostStatesResponse carries the state snapshot of every tracked host.
type GetHostStatesResponse struct {
	Error string              `json:"error,omitempty"`
	Hosts []*models.HostState `json:"hosts,omitempty"`
}

// Service fetches compute host state snapshots from the host tracker.
type Service interface {
	// GetHostStates fetches the current state snapshot of every tracked
	// host, aggregate metadata inline.
	GetHostStates(ctx context.Context) ([]*models.HostState, error)
}

// service is implementing Service interface
type service struct {
	// host tracker yarpc client
	client json.Client
	// scheduler metrics object
	metrics *metrics.Metrics
}

// NewService will create a new host states service.
func NewService(client json.Client, metrics *metrics.Metrics) Service {
	return &service{
		client:  client,
		metrics: metrics,
	}
}

// GetHostStates fetches the state snapshot of every tracked host from the
// host tracker.
func (s *service) GetHostStates(ctx context.Context) ([]*models.HostState, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, _timeout)
	defer cancelFunc()

	var response GetHostStatesResponse
	err := s.client.Call(ctx, _getHostStatesProcedure, &GetHostStatesRequest{}, &response)
	if err != nil {
		s.metrics.HostStatesGetFail.Inc(1)
		return nil, errFailedToGetHostStates
	}
	if response.Error != "" {
		s.metrics.HostStatesGetFail.Inc(1)
		return nil, errors.New(response.Error)
	}

	s.metrics.HostStatesGet.Inc(1)
	return response.Hosts, nil
}
