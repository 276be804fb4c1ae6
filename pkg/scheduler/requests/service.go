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

package requests

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/yarpc/encoding/json"
	"go.uber.org/yarpc/yarpcerrors"

	"github.com/arcus-compute/arcus/pkg/scheduler/metrics"
	"github.com/arcus-compute/arcus/pkg/scheduler/models"
)

const (
	// Request queue procedures.
	_dequeueProcedure       = "RequestQueue.Dequeue"
	_setPlacementsProcedure = "RequestQueue.SetPlacements"
	_returnProcedure        = "RequestQueue.Return"

	_timeout = 10 * time.Second

	_failedToDequeueRequests = "failed to dequeue placement requests from the request queue"
	_failedToSetPlacements   = "failed to set placements"
	_failedToReturnRequest   = "failed to return request to the request queue"
)

// DequeueRequest asks the queue for up to Limit placement requests,
// long-polling for up to Timeout milliseconds when the queue is empty.
type DequeueRequest struct {
	Limit   int `json:"limit"`
	Timeout int `json:"timeout"`
}

// DequeueResponse carries the dequeued placement requests.
type DequeueResponse struct {
	Error    string            `json:"error,omitempty"`
	Requests []*models.Request `json:"requests,omitempty"`
}

// Placement couples a placed request with its ordered host selections.
type Placement struct {
	RequestID  string              `json:"request_id"`
	Selections []*models.Selection `json:"selections"`
}

// SetPlacementsRequest commits the selections of placed requests back to
// the queue, which hands them to the claim layer.
type SetPlacementsRequest struct {
	Placements []*Placement `json:"placements"`
}

// SetPlacementsResponse is the commit acknowledgement.
type SetPlacementsResponse struct {
	Error string `json:"error,omitempty"`
}

// ReturnRequest hands a request back to the queue unplaced, with the
// reason. Terminal marks failures the queue must not redeliver.
type ReturnRequest struct {
	RequestID string `json:"request_id"`
	Reason    string `json:"reason"`
	Terminal  bool   `json:"terminal,omitempty"`
}

// ReturnResponse is the return acknowledgement.
type ReturnResponse struct {
	Error string `json:"error,omitempty"`
}

// Service manages placement requests and placements on the request queue.
type Service interface {
	// Dequeue fetches a batch of placement requests from the queue.
	Dequeue(ctx context.Context, limit int, timeout int) []*models.Request

	// SetPlacements commits the selections of placed requests back to
	// the queue.
	SetPlacements(ctx context.Context, placements []*Placement) error

	// Return hands a request back to the queue unplaced, with the
	// reason; terminal failures must not be redelivered.
	Return(ctx context.Context, requestID string, reason string, terminal bool) error
}

// NewService will create a new request queue service.
func NewService(client json.Client, metrics *metrics.Metrics) Service {
	return &service{
		client:  client,
		metrics: metrics,
	}
}

type service struct {
	// request queue yarpc client
	client json.Client
	// scheduler metrics object
	metrics *metrics.Metrics
}

// Dequeue fetches a batch of placement requests from the request queue.
func (s *service) Dequeue(ctx context.Context, limit int, timeout int) []*models.Request {
	ctx, cancelFunc := context.WithTimeout(ctx, _timeout)
	defer cancelFunc()

	request := &DequeueRequest{
		Limit:   limit,
		Timeout: timeout,
	}
	var response DequeueResponse
	err := s.client.Call(ctx, _dequeueProcedure, request, &response)
	if err != nil {
		log.WithFields(log.Fields{
			"limit":   limit,
			"timeout": timeout,
		}).WithError(err).Error(_failedToDequeueRequests)
		return nil
	}
	if response.Error != "" {
		log.WithFields(log.Fields{
			"limit":   limit,
			"timeout": timeout,
		}).WithError(errors.New(response.Error)).Error(_failedToDequeueRequests)
		return nil
	}

	s.metrics.RequestsDequeued.Update(float64(len(response.Requests)))

	if len(response.Requests) == 0 {
		log.Debug("No requests dequeued from the request queue")
		return nil
	}

	log.WithField("requests", len(response.Requests)).
		Info("Dequeued from request queue")
	return response.Requests
}

// SetPlacements commits the selections of placed requests back to the
// request queue.
func (s *service) SetPlacements(ctx context.Context, placements []*Placement) error {
	if len(placements) == 0 {
		log.Debug("No placements to set")
		return nil
	}

	setPlacementsStart := time.Now()
	ctx, cancelFunc := context.WithTimeout(ctx, _timeout)
	defer cancelFunc()

	request := &SetPlacementsRequest{
		Placements: placements,
	}
	var response SetPlacementsResponse
	err := s.client.Call(ctx, _setPlacementsProcedure, request, &response)
	if err == nil && response.Error != "" {
		err = errors.New(response.Error)
	}
	if err != nil {
		s.metrics.PlaceFail.Inc(int64(len(placements)))
		log.WithFields(log.Fields{
			"num_placements": len(placements),
		}).WithError(err).Error(_failedToSetPlacements)
		return err
	}

	log.WithField("num_placements", len(placements)).
		Debug("Set placements succeeded")

	s.metrics.SetPlacementsDuration.Record(time.Since(setPlacementsStart))
	s.metrics.Placed.Inc(int64(len(placements)))
	return nil
}

// Return hands a request back to the request queue unplaced.
func (s *service) Return(ctx context.Context, requestID string, reason string, terminal bool) error {
	ctx, cancelFunc := context.WithTimeout(ctx, _timeout)
	defer cancelFunc()

	request := &ReturnRequest{
		RequestID: requestID,
		Reason:    reason,
		Terminal:  terminal,
	}
	var response ReturnResponse
	err := s.client.Call(ctx, _returnProcedure, request, &response)
	if yarpcerrors.IsNotFound(err) {
		// The queue no longer holds the request: its lease moved on,
		// either redelivered or already committed by a peer.
		log.WithFields(log.Fields{
			"request_id": requestID,
			"reason":     reason,
		}).Debug("Request no longer held by the request queue")
		return nil
	}
	if err == nil && response.Error != "" {
		err = errors.New(response.Error)
	}
	if err != nil {
		log.WithFields(log.Fields{
			"request_id": requestID,
			"reason":     reason,
			"terminal":   terminal,
		}).WithError(err).Error(_failedToReturnRequest)
		return err
	}

	s.metrics.Returned.Inc(1)
	log.WithFields(log.Fields{
		"request_id": requestID,
		"reason":     reason,
		"terminal":   terminal,
	}).Info("Returned request to the request queue")
	return nil
}
