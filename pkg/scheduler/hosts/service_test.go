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
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally"
	"go.uber.org/yarpc"

	rpc_mocks "github.com/arcus-compute/arcus/pkg/common/rpc/mocks"
	"github.com/arcus-compute/arcus/pkg/scheduler/metrics"
	"github.com/arcus-compute/arcus/pkg/scheduler/models"
)

var errTransport = errors.New("transport error")

// ServiceTestSuite tests the host states service against a mocked
// tracker client.
type ServiceTestSuite struct {
	suite.Suite

	mockCtrl    *gomock.Controller
	client      *rpc_mocks.MockClient
	metrics     *metrics.Metrics
	hostService Service
}

func (suite *ServiceTestSuite) SetupTest() {
	suite.mockCtrl = gomock.NewController(suite.T())
	suite.client = rpc_mocks.NewMockClient(suite.mockCtrl)
	suite.metrics = metrics.NewMetrics(tally.NoopScope)
	suite.hostService = NewService(suite.client, suite.metrics)
}

func (suite *ServiceTestSuite) TearDownTest() {
	suite.mockCtrl.Finish()
}

func TestHostService(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (suite *ServiceTestSuite) TestGetHostStates() {
	suite.client.EXPECT().
		Call(
			gomock.Any(),
			_getHostStatesProcedure,
			&GetHostStatesRequest{},
			gomock.Any(),
		).
		DoAndReturn(func(
			_ context.Context,
			_ string,
			_ interface{},
			resBodyOut interface{},
			_ ...yarpc.CallOption) error {
			response := resBodyOut.(*GetHostStatesResponse)
			response.Hosts = []*models.HostState{
				{Hostname: "host1", FreeRAMMB: 1024},
				{Hostname: "host2", FreeRAMMB: 2048},
			}
			return nil
		})

	states, err := suite.hostService.GetHostStates(context.Background())
	suite.NoError(err)
	suite.Len(states, 2)
	suite.Equal("host1", states[0].Hostname)
	suite.Equal("host2", states[1].Hostname)
}

func (suite *ServiceTestSuite) TestGetHostStatesTransportError() {
	suite.client.EXPECT().
		Call(
			gomock.Any(),
			_getHostStatesProcedure,
			gomock.Any(),
			gomock.Any(),
		).
		Return(errTransport)

	states, err := suite.hostService.GetHostStates(context.Background())
	suite.Nil(states)
	suite.Equal(errFailedToGetHostStates, err)
}

func (suite *ServiceTestSuite) TestGetHostStatesResponseError() {
	suite.client.EXPECT().
		Call(
			gomock.Any(),
			_getHostStatesProcedure,
			gomock.Any(),
			gomock.Any(),
		).
		DoAndReturn(func(
			_ context.Context,
			_ string,
			_ interface{},
			resBodyOut interface{},
			_ ...yarpc.CallOption) error {
			resBodyOut.(*GetHostStatesResponse).Error = "tracker not leading"
			return nil
		})

	states, err := suite.hostService.GetHostStates(context.Background())
	suite.Nil(states)
	suite.EqualError(err, "tracker not leading")
}
