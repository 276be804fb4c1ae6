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

import (
	"encoding/json"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/arcus-compute/arcus/pkg/scheduler/config"
	"github.com/arcus-compute/arcus/pkg/scheduler/models"
)

// Query hint operators. A query is a JSON array [op, arg, ...]; args
// are literals, $variable references resolving against host state, or
// nested queries.
const (
	_opEqual        = "="
	_opLess         = "<"
	_opGreater      = ">"
	_opLessEqual    = "<="
	_opGreaterEqual = ">="
	_opContains     = "in"
	_opNot          = "not"
	_opOr           = "or"
	_opAnd          = "and"
)

// queryNode is one validated node of a parsed query tree.
type queryNode struct {
	op   string
	args []interface{} // string, float64, bool, or *queryNode
}

// ValidateQuery checks a query hint for structural validity without
// evaluating it. The empty query is valid and matches every host.
func ValidateQuery(query string) error {
	_, err := parseQuery(query)
	return err
}

func parseQuery(query string) (*queryNode, error) {
	if query == "" {
		return nil, nil
	}
	var raw interface{}
	if err := json.Unmarshal([]byte(query), &raw); err != nil {
		return nil, &InvalidSpecExpressionError{
			Expression: query,
			Reason:     "not valid JSON",
		}
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, &InvalidSpecExpressionError{
			Expression: query,
			Reason:     "query root must be an array",
		}
	}
	return parseNode(query, list)
}

func parseNode(query string, list []interface{}) (*queryNode, error) {
	if len(list) == 0 {
		return nil, &InvalidSpecExpressionError{
			Expression: query,
			Reason:     "empty operator node",
		}
	}
	op, ok := list[0].(string)
	if !ok {
		return nil, &InvalidSpecExpressionError{
			Expression: query,
			Reason:     "operator must be a string",
		}
	}
	args := list[1:]
	switch op {
	case _opNot:
		if len(args) != 1 {
			return nil, &InvalidSpecExpressionError{
				Expression: query,
				Reason:     "not takes exactly one argument",
			}
		}
	case _opAnd, _opOr, _opEqual, _opLess, _opGreater,
		_opLessEqual, _opGreaterEqual, _opContains:
		if len(args) == 0 {
			return nil, &InvalidSpecExpressionError{
				Expression: query,
				Reason:     op + " takes at least one argument",
			}
		}
	default:
		return nil, &InvalidSpecExpressionError{
			Expression: query,
			Reason:     "unknown operator " + op,
		}
	}

	node := &queryNode{op: op, args: make([]interface{}, 0, len(args))}
	for _, arg := range args {
		switch typed := arg.(type) {
		case []interface{}:
			child, err := parseNode(query, typed)
			if err != nil {
				return nil, err
			}
			node.args = append(node.args, child)
		case string, float64, bool:
			node.args = append(node.args, typed)
		default:
			return nil, &InvalidSpecExpressionError{
				Expression: query,
				Reason:     "argument must be a literal, a $variable or a nested query",
			}
		}
	}
	return node, nil
}

// queryVariable resolves a $variable name against host state. Numbers
// come back as float64 so host values and JSON literals compare alike.
func queryVariable(host *models.HostState, name string) (interface{}, bool) {
	if strings.HasPrefix(name, "capabilities.") {
		value, ok := host.Capabilities[strings.TrimPrefix(name, "capabilities.")]
		return value, ok
	}
	if strings.HasPrefix(name, "metrics.") {
		value, ok := host.Metrics[strings.TrimPrefix(name, "metrics.")]
		return value, ok
	}
	switch name {
	case "hostname":
		return host.Hostname, true
	case "nodename":
		return host.Nodename, true
	case "host_ip":
		return host.HostIP, true
	case "disabled":
		return host.Disabled, true
	case "hypervisor_type":
		return host.HypervisorType, true
	case "hypervisor_version":
		return float64(host.HypervisorVersion), true
	case "cpu_arch":
		return host.CPUArch, true
	case "trust_level":
		return host.TrustLevel, true
	case "availability_zone":
		return host.AvailabilityZone, true
	case "free_ram_mb":
		return float64(host.FreeRAMMB), true
	case "free_disk_mb":
		return float64(host.FreeDiskMB), true
	case "total_usable_ram_mb":
		return float64(host.TotalUsableRAMMB), true
	case "total_usable_disk_gb":
		return float64(host.TotalUsableDiskGB), true
	case "vcpus_total":
		return float64(host.VCPUsTotal), true
	case "vcpus_used":
		return float64(host.VCPUsUsed), true
	case "num_instances":
		return float64(host.NumInstances), true
	case "num_io_ops":
		return float64(host.NumIOOps), true
	}
	return nil, false
}

// resolveArg turns one argument into a concrete value: nested queries
// evaluate to their boolean verdict, $references resolve against the
// host. An unresolvable reference reports !ok and is dropped by the
// caller, like an attribute the host simply does not have.
func resolveArg(arg interface{}, host *models.HostState) (interface{}, bool) {
	switch typed := arg.(type) {
	case *queryNode:
		return evalNode(typed, host), true
	case string:
		if strings.HasPrefix(typed, "$") {
			return queryVariable(host, typed[1:])
		}
		return typed, true
	default:
		return typed, true
	}
}

func truthy(value interface{}) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case float64:
		return typed != 0
	case string:
		return typed != ""
	default:
		return false
	}
}

func valueEquals(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		fb, okb := toFloat(b)
		return okb && fa == fb
	}
	return a == b
}

func toFloat(value interface{}) (float64, bool) {
	f, ok := value.(float64)
	return f, ok
}

func evalNode(node *queryNode, host *models.HostState) bool {
	switch node.op {
	case _opAnd:
		for _, arg := range node.args {
			value, ok := resolveArg(arg, host)
			if !ok || !truthy(value) {
				return false
			}
		}
		return true
	case _opOr:
		for _, arg := range node.args {
			if value, ok := resolveArg(arg, host); ok && truthy(value) {
				return true
			}
		}
		return false
	case _opNot:
		value, ok := resolveArg(node.args[0], host)
		return !ok || !truthy(value)
	}

	// Comparison: the first argument against every following one. An
	// unresolvable reference drops its argument; fewer than two
	// resolved arguments cannot satisfy any comparison.
	resolved := make([]interface{}, 0, len(node.args))
	for _, arg := range node.args {
		if value, ok := resolveArg(arg, host); ok {
			resolved = append(resolved, value)
		}
	}
	if len(resolved) < 2 {
		return false
	}
	if node.op == _opContains {
		for _, other := range resolved[1:] {
			if valueEquals(resolved[0], other) {
				return true
			}
		}
		return false
	}
	for _, other := range resolved[1:] {
		if !compare(node.op, resolved[0], other) {
			return false
		}
	}
	return true
}

func compare(op string, a, b interface{}) bool {
	if op == _opEqual {
		return valueEquals(a, b)
	}
	fa, oka := toFloat(a)
	fb, okb := toFloat(b)
	if !oka || !okb {
		return false
	}
	switch op {
	case _opLess:
		return fa < fb
	case _opGreater:
		return fa > fb
	case _opLessEqual:
		return fa <= fb
	case _opGreaterEqual:
		return fa >= fb
	}
	return false
}

// queryFilter evaluates the request's query hint, a JSON expression
// tree over host state, against every host. A malformed query fails
// closed; the request boundary rejects it first via ValidateQuery.
type queryFilter struct{}

// NewQueryFilter creates the query hint filter.
func NewQueryFilter(_ *config.FiltersConfig) Filter {
	return &queryFilter{}
}

func (f *queryFilter) Name() string {
	return Query
}

func (f *queryFilter) RunOncePerRequest() bool {
	return false
}

func (f *queryFilter) Passes(host *models.HostState, request *models.Request) bool {
	if request.Hints == nil || request.Hints.Query == "" {
		return true
	}
	node, err := parseQuery(request.Hints.Query)
	if err != nil {
		log.WithFields(log.Fields{
			"request_id": request.ID,
			"query":      request.Hints.Query,
		}).Warn("Unparseable query hint")
		return false
	}
	return evalNode(node, host)
}
