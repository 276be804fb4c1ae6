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

package filters

import "fmt"

// InvalidSpecExpressionError is returned when a request carries a
// structurally malformed spec expression, such as an unparseable query
// hint. It is a caller error: the request can never succeed as written.
type InvalidSpecExpressionError struct {
	Expression string
	Reason     string
}

func (e *InvalidSpecExpressionError) Error() string {
	return fmt.Sprintf(
		"invalid spec expression %q: %s", e.Expression, e.Reason)
}
