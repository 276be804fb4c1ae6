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

package specops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchNumericOperators(t *testing.T) {
	tests := []struct {
		operand string
		spec    string
		want    bool
	}{
		{"12", "= 10", true},
		{"10", "= 10", true},
		{"8", "= 10", false},
		{"4.0", "== 4", true},
		{"4.1", "== 4", false},
		{"5", "!= 4", true},
		{"4", "!= 4", false},
		{"2", ">= 3", false},
		{"3", ">= 3", true},
		{"2", "<= 3", true},
		{"4", "<= 3", false},
		// Mismatched types fail closed.
		{"abc", "= 10", false},
		{"10", "= abc", false},
		{"", "== 4", false},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, Match(test.operand, test.spec),
			"operand %q spec %q", test.operand, test.spec)
	}
}

func TestMatchStringOperators(t *testing.T) {
	tests := []struct {
		operand string
		spec    string
		want    bool
	}{
		{"foo", "s== foo", true},
		{"bar", "s== foo", false},
		{"bar", "s!= foo", true},
		{"a", "s< m", true},
		{"z", "s< m", false},
		{"m", "s<= m", true},
		{"z", "s> m", true},
		{"m", "s>= m", true},
		// Strings compare lexicographically, not numerically.
		{"9", "s< 10", false},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, Match(test.operand, test.spec),
			"operand %q spec %q", test.operand, test.spec)
	}
}

func TestMatchSubstring(t *testing.T) {
	assert.True(t, Match("gcc-x86_64", "<in> gcc"))
	assert.False(t, Match("clang", "<in> gcc"))
	// Exactly one literal is expected.
	assert.False(t, Match("gcc clang", "<in> gcc clang"))
}

func TestMatchAllIn(t *testing.T) {
	assert.True(t, Match("aes mmx sse", "<all-in> aes mmx"))
	assert.False(t, Match("aes", "<all-in> aes mmx"))
	assert.True(t, Match("aes", "<all-in> aes"))
	assert.False(t, Match("aes mmx", "<all-in>"))
}

func TestMatchOr(t *testing.T) {
	spec := "<or> small <or> medium"
	assert.True(t, Match("small", spec))
	assert.True(t, Match("medium", spec))
	assert.False(t, Match("large", spec))

	// Malformed alternations fail closed.
	assert.False(t, Match("v2", "<or> v1 v2"))
	assert.False(t, Match("v1", "<or>"))
	assert.False(t, Match("v1", "<or> v1 <and> v2"))
}

func TestMatchDefaultEquality(t *testing.T) {
	assert.True(t, Match("small", "small"))
	assert.False(t, Match("large", "small"))
	// An unrecognized leading token makes the whole spec one literal.
	assert.True(t, Match("~ 5", "~ 5"))
	assert.False(t, Match("5", "~ 5"))
	assert.True(t, Match("", ""))
}

func TestMatchCommaList(t *testing.T) {
	assert.True(t, Match("b", "s== a,b"))
	assert.False(t, Match("c", "s== a,b"))
	// The list degenerates to exact matches for numeric operators too.
	assert.True(t, Match("8", ">= 4,8"))
	assert.False(t, Match("6", ">= 4,8"))
}

func TestMatchIsPure(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.True(t, Match("gcc-x86_64", "<in> gcc"))
		assert.False(t, Match("8", "<= 3"))
	}
}

func TestScope(t *testing.T) {
	namespace, key := Scope("capabilities:hw:cpu_features")
	assert.Equal(t, "capabilities", namespace)
	assert.Equal(t, "hw:cpu_features", key)

	namespace, key = Scope("free_ram_mb")
	assert.Equal(t, "", namespace)
	assert.Equal(t, "free_ram_mb", key)
}
