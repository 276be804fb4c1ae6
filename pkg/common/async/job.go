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

package async

import (
	"context"
)

// Job is a unit of work that can be run by the Pool.
type Job interface {
	// Run will run the job with the given context.
	Run(ctx context.Context)
}

// JobFunc is an adapter to allow the use of ordinary functions as jobs.
type JobFunc func(ctx context.Context)

// Run calls f(ctx).
func (f JobFunc) Run(ctx context.Context) {
	f(ctx)
}
