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

// Package secrets contains types for integer secret sharing. A dealer provides a
// `secret` + `Metadata` and gets back a `Split`; a reconstructing party supplies a
// `Split` whose shares may include forged entries.
package secrets

import (
	"errors"
	"fmt"

	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/bigint"
)

var (
	// ErrInsufficientShares means fewer shares than the threshold were supplied,
	// or the threshold is smaller than 1.
	ErrInsufficientShares = errors.New("insufficient shares")
	// ErrDegenerateCombination means two shares in one combination share an X
	// coordinate, so no unique polynomial passes through them.
	ErrDegenerateCombination = errors.New("degenerate combination: duplicate x coordinate")
	// ErrNoViableCombination means every combination failed to interpolate. It
	// wraps ErrInsufficientShares.
	ErrNoViableCombination = fmt.Errorf("no viable combination: %w", ErrInsufficientShares)
)

// Metadata contains the necessary secret sharing scheme information to split and/or reconstruct a secret.
type Metadata struct {
	NumShares int
	Threshold int
	// CoefficientDigits is the decimal width of the random polynomial
	// coefficients used when splitting. Ignored on reconstruction.
	CoefficientDigits int
}

// Split represents a secret split into shares alongside the metadata needed to reconstruct it.
type Split struct {
	Metadata Metadata
	Shares   []Share
}

// Share is one point (X, Y) on the secret polynomial. Shares are comparable and
// identified by their coordinates.
type Share struct {
	X bigint.Int
	Y bigint.Int
}

func (s Share) String() string {
	return fmt.Sprintf("(%v, %v)", s.X, s.Y)
}
