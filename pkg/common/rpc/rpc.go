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

// Package rpc wires the yarpc transport pieces shared by arcus components.
package rpc

import (
	"fmt"
	nethttp "net/http"

	"github.com/arcus-compute/arcus/pkg/common"

	"go.uber.org/yarpc/api/transport"
	"go.uber.org/yarpc/transport/http"
)

// NewTransport returns a new HTTP transport, shared by all outbounds of
// one dispatcher.
func NewTransport() *http.Transport {
	return http.NewTransport()
}

// NewInbounds creates the HTTP inbound for the given port, serving RPC
// traffic under the arcus endpoint path and everything else, such as the
// metrics and debug endpoints, from the given mux.
func NewInbounds(httpPort int, mux *nethttp.ServeMux) []transport.Inbound {
	ht := http.NewTransport()

	return []transport.Inbound{
		ht.NewInbound(
			fmt.Sprintf(":%d", httpPort),
			http.Mux(common.ArcusEndpointPath, mux),
		),
	}
}
