// Copyright 2022 Google LLC
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

// Package shamir encapsulates all of the logic needed to perform t-of-n [Shamir
// Secret Sharing] (SSS) over the integers, and to reconstruct a secret from a set
// of shares that may contain forged ("rogue") entries. SSS is based on the
// Lagrange interpolation theorem, which states that `k` points are enough to
// uniquely determine a polynomial of degree less than or equal to `k - 1`.
//
// Reconstruction interpolates every k-subset of the supplied shares and takes a
// majority vote over the resulting candidates. Shares that appear in no
// combination agreeing with the majority are reported as rogue.
//
// The vote is only meaningful when combinations made of honest shares
// outnumber the combinations agreeing on any single alternative value, which
// holds whenever rogue shares are few relative to n and k. Arithmetic is over
// the integers rather than a finite field, so this scheme offers none of the
// secrecy guarantees of field-based SSS and is intended for recovery and
// auditing of integer splits.
//
// [Shamir Secret Sharing]: https://web.mit.edu/6.857/OldStuff/Fall03/ref/Shamir-HowToShareAsecrets.pdf
package shamir

import (
	"context"
	"fmt"

	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/bigint"
	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/consensus"
	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/internal/combination"
	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/internal/shamirgeneric"
	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/secrets"
	glog "github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// Options tunes a reconstruction. The zero value interpolates sequentially.
type Options struct {
	// Workers is the number of combinations interpolated concurrently. Values
	// below 2 disable concurrency.
	Workers int
}

// Result is the outcome of a reconstruction.
type Result struct {
	Secret bigint.Int
	// RogueShares are the shares that contributed to no combination agreeing
	// on Secret, in their original order.
	RogueShares []secrets.Share
	// Combinations is the number of k-subsets interpolated.
	Combinations int
	// Viable is the number of combinations that produced a candidate.
	Viable int
	// Votes is the number of combinations that produced Secret.
	Votes int
}

// SplitSecret splits a secret into metadata.NumShares shares where metadata.Threshold
// or more shares can be combined to reconstruct the original secret.
func SplitSecret(metadata secrets.Metadata, secret bigint.Int) (secrets.Split, error) {
	return shamirgeneric.SplitSecret(metadata, secret, shamirgeneric.RandomSource{})
}

// Reconstruct recovers the secret from secretSplit and identifies rogue shares.
//
// It fails with secrets.ErrInsufficientShares if the threshold is below 1 or
// exceeds the number of shares, and with secrets.ErrNoViableCombination if no
// combination could be interpolated. Combinations that are degenerate or do
// not yield an integer are excluded from the vote.
func Reconstruct(ctx context.Context, secretSplit secrets.Split, opts Options) (*Result, error) {
	if err := validateReconstructInput(secretSplit); err != nil {
		return nil, err
	}
	shares := secretSplit.Shares
	threshold := secretSplit.Metadata.Threshold

	var (
		tally *consensus.Tally
		total int
		err   error
	)
	if opts.Workers > 1 {
		tally, total, err = tallyConcurrently(ctx, shares, threshold, opts.Workers)
	} else {
		tally, total, err = tallySequentially(ctx, shares, threshold)
	}
	if err != nil {
		return nil, err
	}

	majority, err := tally.Majority()
	if err != nil {
		return nil, fmt.Errorf("all %d combinations of %d shares failed: %w", total, threshold, err)
	}
	res := &Result{
		Secret:       majority.Value,
		RogueShares:  consensus.FindRogueShares(shares, majority),
		Combinations: total,
		Viable:       total - tally.Excluded(),
		Votes:        majority.Count,
	}
	glog.Infof("Reconstructed secret from %d/%d viable combinations (%d votes), %d rogue shares", res.Viable, res.Combinations, res.Votes, len(res.RogueShares))
	return res, nil
}

func tallySequentially(ctx context.Context, shares []secrets.Share, threshold int) (*consensus.Tally, int, error) {
	g, err := combination.New(len(shares), threshold)
	if err != nil {
		return nil, 0, err
	}
	tally := consensus.NewTally()
	ordinal := 0
	for ; g.Next(); ordinal++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		tally.Add(interpolate(shares, ordinal, g.Indices()))
	}
	return tally, ordinal, nil
}

// tallyConcurrently interpolates on a bounded pool of goroutines. Candidates
// are stored by ordinal and tallied after all work completes, so the result
// is identical to the sequential path.
func tallyConcurrently(ctx context.Context, shares []secrets.Share, threshold, workers int) (*consensus.Tally, int, error) {
	combos, err := combination.All(len(shares), threshold)
	if err != nil {
		return nil, 0, err
	}
	candidates := make([]consensus.Candidate, len(combos))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, idx := range combos {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			candidates[i] = interpolate(shares, i, idx)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}
	tally := consensus.NewTally()
	for _, c := range candidates {
		tally.Add(c)
	}
	return tally, len(combos), nil
}

func interpolate(shares []secrets.Share, ordinal int, idx []int) consensus.Candidate {
	points := make([]secrets.Share, len(idx))
	for i, j := range idx {
		points[i] = shares[j]
	}
	v, err := shamirgeneric.InterpolateAtZero(points)
	if err != nil {
		glog.V(1).Infof("Excluding combination %v: %v", idx, err)
	} else {
		glog.V(2).Infof("Combination %v interpolates to %v", idx, v)
	}
	return consensus.Candidate{Ordinal: ordinal, Indices: idx, Value: v, Err: err}
}

func validateReconstructInput(secretSplit secrets.Split) error {
	if secretSplit.Metadata.Threshold < 1 {
		return fmt.Errorf("%w: threshold should be at least 1, got %d", secrets.ErrInsufficientShares, secretSplit.Metadata.Threshold)
	}
	if len(secretSplit.Shares) < secretSplit.Metadata.Threshold {
		return fmt.Errorf("%w: need at least %d, got %d", secrets.ErrInsufficientShares, secretSplit.Metadata.Threshold, len(secretSplit.Shares))
	}
	return nil
}
