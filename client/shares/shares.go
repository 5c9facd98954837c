// Copyright 2021 Google LLC
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

// Package shares reads share documents and reconstructs secrets from them,
// reporting any shares that disagree with the majority.
package shares

import (
	"context"
	"fmt"

	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/bigint"
	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/secrets"
	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/shamir"
	"github.com/google/uuid"
)

// Options tunes CombineShares.
type Options struct {
	// Workers is the number of combinations interpolated concurrently.
	Workers int
}

// Report is the outcome of combining a document's shares.
type Report struct {
	// ID identifies the split the shares came from, or this run when the
	// document carried no ID.
	ID          string  `json:"id"`
	Secret      string  `json:"secret"`
	RogueShares []Point `json:"rogueShares"`
	// Combinations, Viable and Votes count the k-subsets interpolated, the
	// ones that produced a candidate, and the ones that produced Secret.
	Combinations int `json:"combinations"`
	Viable       int `json:"viable"`
	Votes        int `json:"votes"`
}

// ToSecretShares parses decimal points into shares. A malformed coordinate
// fails with a *bigint.ParseError.
func ToSecretShares(points []Point) ([]secrets.Share, error) {
	out := make([]secrets.Share, 0, len(points))
	for i, p := range points {
		x, err := bigint.Parse(p.X)
		if err != nil {
			return nil, fmt.Errorf("share %d: x: %w", i, err)
		}
		y, err := bigint.Parse(p.Y)
		if err != nil {
			return nil, fmt.Errorf("share %d: y: %w", i, err)
		}
		out = append(out, secrets.Share{X: x, Y: y})
	}
	return out, nil
}

// FromSecretShares renders shares as canonical decimal points.
func FromSecretShares(shares []secrets.Share) []Point {
	out := make([]Point, 0, len(shares))
	for _, s := range shares {
		out = append(out, Point{X: s.X.String(), Y: s.Y.String()})
	}
	return out
}

// CombineShares reconstructs the secret behind `points` with the given
// threshold. Parse errors and an unsatisfiable threshold abort before any
// combination is interpolated.
func CombineShares(ctx context.Context, threshold int, points []Point, opts Options) (*Report, error) {
	shares, err := ToSecretShares(points)
	if err != nil {
		return nil, err
	}
	split := secrets.Split{
		Metadata: secrets.Metadata{
			NumShares: len(shares),
			Threshold: threshold,
		},
		Shares: shares,
	}
	res, err := shamir.Reconstruct(ctx, split, shamir.Options{Workers: opts.Workers})
	if err != nil {
		return nil, err
	}
	return &Report{
		Secret:       res.Secret.String(),
		RogueShares:  FromSecretShares(res.RogueShares),
		Combinations: res.Combinations,
		Viable:       res.Viable,
		Votes:        res.Votes,
	}, nil
}

// CombineDocument reconstructs the secret behind a parsed document. The
// report carries the document ID, or a fresh one if the document has none.
func CombineDocument(ctx context.Context, doc *Document, opts Options) (*Report, error) {
	r, err := CombineShares(ctx, doc.Threshold, doc.Shares, opts)
	if err != nil {
		return nil, err
	}
	r.ID = doc.ID
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return r, nil
}

// SplitOptions configures SplitSecret.
type SplitOptions struct {
	NumShares         int
	Threshold         int
	CoefficientDigits int
}

// SplitSecret splits a decimal secret into a new document with a random ID.
func SplitSecret(secret string, opts SplitOptions) (*Document, error) {
	s, err := bigint.Parse(secret)
	if err != nil {
		return nil, fmt.Errorf("secret: %w", err)
	}
	split, err := shamir.SplitSecret(secrets.Metadata{
		NumShares:         opts.NumShares,
		Threshold:         opts.Threshold,
		CoefficientDigits: opts.CoefficientDigits,
	}, s)
	if err != nil {
		return nil, fmt.Errorf("error splitting secret: %v", err)
	}
	return &Document{
		ID:        uuid.NewString(),
		Threshold: opts.Threshold,
		Shares:    FromSecretShares(split.Shares),
	}, nil
}
