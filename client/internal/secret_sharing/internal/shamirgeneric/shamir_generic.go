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

// Package shamirgeneric implements shamir secret sharing over the integers: shares
// are points on a polynomial with integer coefficients and the secret is its
// constant term.
package shamirgeneric

import (
	"fmt"

	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/bigint"
	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/secrets"
	"github.com/google/tink/go/subtle/random"
)

// CoefficientSource produces the random polynomial coefficients used when
// splitting a secret.
type CoefficientSource interface {
	// NewRandomCoefficient returns a random positive integer with exactly
	// `digits` decimal digits.
	NewRandomCoefficient(digits int) (bigint.Int, error)
}

// RandomSource draws coefficients from tink's random byte generator.
type RandomSource struct{}

// NewRandomCoefficient implements CoefficientSource.
func (RandomSource) NewRandomCoefficient(digits int) (bigint.Int, error) {
	if digits < 1 {
		return bigint.Int{}, fmt.Errorf("coefficient must have at least 1 digit, got %d", digits)
	}
	b := random.GetRandomBytes(uint32(digits))
	out := make([]byte, digits)
	// The leading digit is never zero so the coefficient has the requested width.
	out[0] = '1' + b[0]%9
	for i := 1; i < digits; i++ {
		out[i] = '0' + b[i]%10
	}
	return bigint.Parse(string(out))
}

// SplitSecret splits a secret into metadata.NumShares shares where metadata.Threshold
// or more shares can be combined to reconstruct the original secret. Share i
// (1-based) is the point (i, f(i)).
func SplitSecret(metadata secrets.Metadata, secret bigint.Int, src CoefficientSource) (secrets.Split, error) {
	if err := validateSplitInput(metadata); err != nil {
		return secrets.Split{}, err
	}
	// f(x) = secret + R_1 * x^1 + R_2 * x^2 + ... + R_{t-1} * x^{t-1}
	coefficients := make([]bigint.Int, metadata.Threshold)
	coefficients[0] = secret
	for i := 1; i < metadata.Threshold; i++ {
		var err error
		if coefficients[i], err = src.NewRandomCoefficient(metadata.CoefficientDigits); err != nil {
			return secrets.Split{}, err
		}
	}
	shares := make([]secrets.Share, metadata.NumShares)
	for i := range shares {
		x := bigint.FromInt64(int64(i + 1))
		shares[i] = secrets.Share{X: x, Y: EvaluatePolynomial(coefficients, x)}
	}
	return secrets.Split{
		Metadata: metadata,
		Shares:   shares,
	}, nil
}

// EvaluatePolynomial evaluates the polynomial at `x` where `coefficients` take the form:
// f(x) = c[n-1] * x^(n-1) + c[n-2] * x^(n-2) + ... + c[1] * x^1 + c[0]
func EvaluatePolynomial(coefficients []bigint.Int, x bigint.Int) bigint.Int {
	sum := bigint.Zero
	for i := len(coefficients) - 1; i > 0; i-- {
		sum = sum.Add(coefficients[i]).Multiply(x)
	}
	if len(coefficients) == 0 {
		return sum
	}
	return sum.Add(coefficients[0])
}

// InterpolateAtZero recovers the constant term of the unique polynomial of
// degree < len(points) passing through points:
//
//	∑i y[i] * ( ∏j≠i (-x[j]) ) / ( ∏j≠i (x[i] - x[j]) )
//
// The terms are summed as an exact fraction and divided once at the end. It
// fails with secrets.ErrDegenerateCombination if two points share an X
// coordinate, and with bigint.ErrNonIntegerQuotient if the constant term is not
// an integer, which happens when the points do not lie on an integer
// polynomial.
func InterpolateAtZero(points []secrets.Share) (bigint.Int, error) {
	if len(points) == 0 {
		return bigint.Int{}, fmt.Errorf("%w: no points to interpolate", secrets.ErrInsufficientShares)
	}
	num, den := bigint.Zero, bigint.One
	for i, pi := range points {
		numerator, denominator := bigint.One, bigint.One
		for j, pj := range points {
			if i == j {
				continue
			}
			if pi.X == pj.X {
				return bigint.Int{}, fmt.Errorf("%w: x = %v", secrets.ErrDegenerateCombination, pi.X)
			}
			numerator = numerator.Multiply(pj.X.Negate())
			denominator = denominator.Multiply(pi.X.Subtract(pj.X))
		}
		term := pi.Y.Multiply(numerator)
		if denominator.Sign() < 0 {
			term, denominator = term.Negate(), denominator.Negate()
		}
		// num/den + term/denominator, kept in lowest terms with den > 0.
		num = num.Multiply(denominator).Add(term.Multiply(den))
		den = den.Multiply(denominator)
		if g := bigint.GCD(num, den); g != bigint.One {
			num, _ = num.Divide(g)
			den, _ = den.Divide(g)
		}
	}
	return num.Divide(den)
}

func validateSplitInput(metadata secrets.Metadata) error {
	if metadata.Threshold < 1 {
		return fmt.Errorf("threshold must be at least 1")
	}
	if metadata.NumShares < metadata.Threshold {
		return fmt.Errorf("threshold should be smaller than or equal to numShares")
	}
	if metadata.Threshold > 1 && metadata.CoefficientDigits < 1 {
		return fmt.Errorf("coefficientDigits must be at least 1")
	}
	return nil
}
