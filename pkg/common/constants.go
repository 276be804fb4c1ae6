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

package common

const (
	// ArcusScheduler service name
	ArcusScheduler = "arcus-scheduler"
	// ArcusHostTracker service name
	ArcusHostTracker = "arcus-hosttracker"
	// ArcusRequestQueue service name
	ArcusRequestQueue = "arcus-requestqueue"

	// ArcusEndpointPath is the path prefix RPC traffic is muxed under on
	// the HTTP port
	ArcusEndpointPath = "/arcus"

	// AppLogField is the log field key carrying the application name
	AppLogField = "app"
)
