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

// Package specops evaluates extra-spec value expressions of the form
// "[operator] literal[,literal...]" against a host-side operand. Every
// extra-spec-matching filter shares this one evaluator; the scope
// prefix of a key (e.g. "capabilities:") is owned by the filter for
// that namespace, not by the grammar.
package specops

import (
	"strconv"
	"strings"
)

const (
	_opOr    = "<or>"
	_opIn    = "<in>"
	_opAllIn = "<all-in>"
)

// opMethods maps an operator token to its comparison. The operand is
// the host-side value, the literal comes from the spec string.
var opMethods = map[string]func(operand, literal string) bool{
	"=":      numericGE,
	"==":     numericEQ,
	"!=":     numericNE,
	">=":     numericGE,
	"<=":     numericLE,
	"s==":    func(x, y string) bool { return x == y },
	"s!=":    func(x, y string) bool { return x != y },
	"s>=":    func(x, y string) bool { return x >= y },
	"s>":     func(x, y string) bool { return x > y },
	"s<=":    func(x, y string) bool { return x <= y },
	"s<":     func(x, y string) bool { return x < y },
	_opIn:    func(x, y string) bool { return strings.Contains(x, y) },
	_opAllIn: nil, // handled structurally, needs the full literal list
}

// Match evaluates the spec value string against the operand. An
// unrecognized leading token means the whole spec string is matched by
// string equality. Unparseable expressions and failed numeric
// conversions fail closed: the result is false, never an error.
func Match(operand string, spec string) bool {
	words := strings.Fields(spec)
	if len(words) == 0 {
		return operand == spec
	}

	op := words[0]
	method, known := opMethods[op]
	if op != _opOr && !known {
		// No operator: the whole value is one literal.
		return operand == spec
	}
	words = words[1:]

	switch op {
	case _opOr:
		return matchOr(operand, words)
	case _opAllIn:
		return matchAllIn(operand, words)
	}

	if len(words) != 1 {
		return false
	}
	// A comma list after the operator degenerates to an OR-list of
	// exact matches.
	if literals := strings.Split(words[0], ","); len(literals) > 1 {
		for _, literal := range literals {
			if operand == literal {
				return true
			}
		}
		return false
	}
	return method(operand, words[0])
}

// matchOr expects alternating literal, keyword pairs: v1 <or> v2 <or>
// v3. A malformed alternation fails closed.
func matchOr(operand string, words []string) bool {
	if len(words) == 0 || len(words)%2 == 0 {
		return false
	}
	for i, word := range words {
		if i%2 == 1 {
			if word != _opOr {
				return false
			}
			continue
		}
		if word == operand {
			return true
		}
	}
	return false
}

// matchAllIn passes when every literal appears in the operand's
// space-separated token set.
func matchAllIn(operand string, literals []string) bool {
	if len(literals) == 0 {
		return false
	}
	tokens := make(map[string]struct{})
	for _, token := range strings.Fields(operand) {
		tokens[token] = struct{}{}
	}
	for _, literal := range literals {
		if _, ok := tokens[literal]; !ok {
			return false
		}
	}
	return true
}

// Scope splits an extra-spec key into its namespace prefix and bare
// key. A key without a colon has no namespace.
func Scope(key string) (string, string) {
	if i := strings.Index(key, ":"); i >= 0 {
		return key[:i], key[i+1:]
	}
	return "", key
}

func numericGE(x, y string) bool {
	fx, fy, ok := floats(x, y)
	return ok && fx >= fy
}

func numericLE(x, y string) bool {
	fx, fy, ok := floats(x, y)
	return ok && fx <= fy
}

func numericEQ(x, y string) bool {
	fx, fy, ok := floats(x, y)
	return ok && fx == fy
}

func numericNE(x, y string) bool {
	fx, fy, ok := floats(x, y)
	return ok && fx != fy
}

func floats(x, y string) (float64, float64, bool) {
	fx, err := strconv.ParseFloat(x, 64)
	if err != nil {
		return 0, 0, false
	}
	fy, err := strconv.ParseFloat(y, 64)
	if err != nil {
		return 0, 0, false
	}
	return fx, fy, true
}
