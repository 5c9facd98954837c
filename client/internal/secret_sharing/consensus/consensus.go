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

// Package consensus picks the secret agreed on by the most share combinations
// and identifies the shares that never contributed to that agreement.
package consensus

import (
	"sort"

	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/bigint"
	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/secrets"
)

// Candidate is the interpolation outcome of one combination.
type Candidate struct {
	// Ordinal is the position of the combination in enumeration order.
	Ordinal int
	// Indices are the share indices making up the combination.
	Indices []int
	// Value is the interpolated secret. Only meaningful when Err is nil.
	Value bigint.Int
	// Err records why the combination produced no candidate.
	Err error
}

// Group collects every combination that produced the same value.
type Group struct {
	Value bigint.Int
	// Count is the number of combinations that produced Value.
	Count int
	// First is the ordinal of the earliest combination that produced Value.
	First        int
	Combinations [][]int
}

// Tally aggregates candidates by value. Candidates may be added in any order;
// ties are always broken by enumeration ordinal.
type Tally struct {
	groups   map[bigint.Int]*Group
	excluded int
}

// NewTally returns an empty Tally.
func NewTally() *Tally {
	return &Tally{groups: make(map[bigint.Int]*Group)}
}

// Add records one candidate. Failed candidates are counted but never vote.
func (t *Tally) Add(c Candidate) {
	if c.Err != nil {
		t.excluded++
		return
	}
	g, ok := t.groups[c.Value]
	if !ok {
		g = &Group{Value: c.Value, First: c.Ordinal}
		t.groups[c.Value] = g
	}
	g.Count++
	if c.Ordinal < g.First {
		g.First = c.Ordinal
	}
	g.Combinations = append(g.Combinations, c.Indices)
}

// Excluded returns the number of failed candidates.
func (t *Tally) Excluded() int { return t.excluded }

// Groups returns every distinct value ordered by first occurrence.
func (t *Tally) Groups() []Group {
	out := make([]Group, 0, len(t.groups))
	for _, g := range t.groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].First < out[j].First })
	return out
}

// Majority returns the value produced by strictly the most combinations. Among
// values with equal counts, the one first produced earliest in enumeration
// order wins. It fails with secrets.ErrNoViableCombination if no candidate
// succeeded.
func (t *Tally) Majority() (Group, error) {
	groups := t.Groups()
	if len(groups) == 0 {
		return Group{}, secrets.ErrNoViableCombination
	}
	best := groups[0]
	for _, g := range groups[1:] {
		if g.Count > best.Count {
			best = g
		}
	}
	return best, nil
}

// SelectMajority tallies candidates and returns the majority group.
func SelectMajority(candidates []Candidate) (Group, error) {
	t := NewTally()
	for _, c := range candidates {
		t.Add(c)
	}
	return t.Majority()
}

// FindRogueShares returns, in their original order, the shares that appear in
// none of the majority's combinations. Shares are identified by their
// coordinates, so an exact duplicate of a contributing share is not rogue.
func FindRogueShares(shares []secrets.Share, majority Group) []secrets.Share {
	used := make(map[secrets.Share]bool)
	for _, combo := range majority.Combinations {
		for _, i := range combo {
			used[shares[i]] = true
		}
	}
	var rogue []secrets.Share
	for _, s := range shares {
		if !used[s] {
			rogue = append(rogue, s)
		}
	}
	return rogue
}
