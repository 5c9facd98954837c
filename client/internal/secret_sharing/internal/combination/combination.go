// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package combination enumerates the k-element subsets of an ordered sequence.
package combination

import (
	"fmt"

	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/bigint"
	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/secrets"
)

// Generator lazily enumerates every k-subset of the indices 0..n-1 as a
// strictly increasing index slice, in lexicographic order. The enumeration
// keeps an explicit index stack, so memory use is O(k) regardless of C(n, k).
//
// Usage:
//
//	g, err := combination.New(n, k)
//	for g.Next() {
//		use(g.Indices())
//	}
type Generator struct {
	n, k    int
	idx     []int
	started bool
	done    bool
}

// New returns a Generator over k-subsets of n elements. Choosing more elements
// than exist yields no subsets at all and is reported as
// secrets.ErrInsufficientShares. k = 0 yields exactly one empty subset.
func New(n, k int) (*Generator, error) {
	if n < 0 || k < 0 || k > n {
		return nil, fmt.Errorf("%w: cannot choose %d of %d shares", secrets.ErrInsufficientShares, k, n)
	}
	return &Generator{n: n, k: k}, nil
}

// Next advances to the next subset and reports whether one exists.
func (g *Generator) Next() bool {
	if g.done {
		return false
	}
	if !g.started {
		g.started = true
		g.idx = make([]int, g.k)
		for i := range g.idx {
			g.idx[i] = i
		}
		return true
	}
	// Find the rightmost position that has not reached its maximum value.
	i := g.k - 1
	for i >= 0 && g.idx[i] == g.n-g.k+i {
		i--
	}
	if i < 0 {
		g.done = true
		return false
	}
	g.idx[i]++
	for j := i + 1; j < g.k; j++ {
		g.idx[j] = g.idx[j-1] + 1
	}
	return true
}

// Indices returns a copy of the current subset.
func (g *Generator) Indices() []int {
	out := make([]int, len(g.idx))
	copy(out, g.idx)
	return out
}

// Reset restarts the enumeration from the first subset.
func (g *Generator) Reset() {
	g.idx, g.started, g.done = nil, false, false
}

// All returns every k-subset of n elements in enumeration order.
func All(n, k int) ([][]int, error) {
	g, err := New(n, k)
	if err != nil {
		return nil, err
	}
	var out [][]int
	for g.Next() {
		out = append(out, g.Indices())
	}
	return out, nil
}

// Count returns the binomial coefficient C(n, k), or zero when k is out of
// range.
func Count(n, k int) bigint.Int {
	if n < 0 || k < 0 || k > n {
		return bigint.Zero
	}
	if k > n-k {
		k = n - k
	}
	c := bigint.One
	for i := 1; i <= k; i++ {
		// c * (n-k+i) is always divisible by i here.
		c, _ = c.Multiply(bigint.FromInt64(int64(n - k + i))).Divide(bigint.FromInt64(int64(i)))
	}
	return c
}
