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

// Package bigint implements an immutable, arbitrary-precision signed integer
// stored as a sign and a normalized sequence of decimal digits.
//
// Every operation returns a new value and never modifies its operands. Two
// values are numerically equal iff their representations are identical, so
// Int can be compared with == and used directly as a map key. The zero value
// is the canonical zero.
package bigint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrDivideByZero is returned when dividing by a zero Int.
	ErrDivideByZero = errors.New("division by zero")
	// ErrNonIntegerQuotient is returned by Divide when the divisor does not
	// evenly divide the dividend.
	ErrNonIntegerQuotient = errors.New("quotient is not an integer")
)

// ParseError reports a malformed integer string.
type ParseError struct {
	// Input is the string that failed to parse.
	Input string
	// Offset is the byte offset of the first offending character, or -1 when
	// the input has no digits at all.
	Offset int
	// Base is the base the input was parsed in.
	Base int
}

func (e *ParseError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("bigint: no digits in %q", e.Input)
	}
	return fmt.Sprintf("bigint: invalid base %d digit %q at offset %d in %q", e.Base, e.Input[e.Offset], e.Offset, e.Input)
}

// Int is an arbitrary-precision signed integer.
type Int struct {
	neg bool
	// Decimal digits of the magnitude, most significant first, without
	// leading zeros. Zero is the empty string.
	mag string
}

var (
	// Zero is the integer 0.
	Zero = Int{}
	// One is the integer 1.
	One = Int{mag: "1"}
)

func newInt(neg bool, mag string) Int {
	mag = trim(mag)
	if mag == "" {
		return Int{}
	}
	return Int{neg: neg, mag: mag}
}

// Parse parses a decimal integer with an optional leading sign. Leading zeros
// are accepted and dropped; "-0" parses to zero.
func Parse(s string) (Int, error) {
	body, neg := s, false
	if len(body) > 0 && (body[0] == '-' || body[0] == '+') {
		neg = body[0] == '-'
		body = body[1:]
	}
	if body == "" {
		return Int{}, &ParseError{Input: s, Offset: -1, Base: 10}
	}
	for i := 0; i < len(body); i++ {
		if body[i] < '0' || body[i] > '9' {
			return Int{}, &ParseError{Input: s, Offset: len(s) - len(body) + i, Base: 10}
		}
	}
	return newInt(neg, body), nil
}

// MustParse is like Parse but panics if s is malformed. It is intended for
// constants and tests.
func MustParse(s string) Int {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseBase parses an integer written in the given base (2 to 36), with an
// optional leading sign. Digits above 9 are the letters a-z in either case.
func ParseBase(s string, base int) (Int, error) {
	if base < 2 || base > 36 {
		return Int{}, fmt.Errorf("bigint: unsupported base %d", base)
	}
	if base == 10 {
		return Parse(s)
	}
	body, neg := s, false
	if len(body) > 0 && (body[0] == '-' || body[0] == '+') {
		neg = body[0] == '-'
		body = body[1:]
	}
	if body == "" {
		return Int{}, &ParseError{Input: s, Offset: -1, Base: base}
	}
	b := FromInt64(int64(base))
	acc := Zero
	for i := 0; i < len(body); i++ {
		d := digitValue(body[i])
		if d < 0 || d >= base {
			return Int{}, &ParseError{Input: s, Offset: len(s) - len(body) + i, Base: base}
		}
		acc = acc.Multiply(b).Add(FromInt64(int64(d)))
	}
	if neg {
		acc = acc.Negate()
	}
	return acc, nil
}

func digitValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

// FromInt64 returns v as an Int.
func FromInt64(v int64) Int {
	s := strconv.FormatInt(v, 10)
	if v < 0 {
		return newInt(true, s[1:])
	}
	return newInt(false, s)
}

// FromBytes interprets b as a big-endian unsigned integer.
func FromBytes(b []byte) Int {
	base := Int{mag: "256"}
	acc := Zero
	for _, c := range b {
		acc = acc.Multiply(base).Add(FromInt64(int64(c)))
	}
	return acc
}

// String returns the canonical decimal form: a sign only when negative and no
// leading zeros except for "0" itself.
func (a Int) String() string {
	switch {
	case a.mag == "":
		return "0"
	case a.neg:
		return "-" + a.mag
	default:
		return a.mag
	}
}

// Sign returns -1, 0 or +1 depending on the sign of a.
func (a Int) Sign() int {
	switch {
	case a.mag == "":
		return 0
	case a.neg:
		return -1
	default:
		return 1
	}
}

// IsZero reports whether a is zero.
func (a Int) IsZero() bool { return a.mag == "" }

// Equal reports whether a and b are numerically equal.
func (a Int) Equal(b Int) bool { return a == b }

// Cmp compares a and b by numeric value and returns -1, 0 or +1. All
// negative values order before zero, which orders before all positive values.
func (a Int) Cmp(b Int) int {
	if sa, sb := a.Sign(), b.Sign(); sa != sb {
		if sa < sb {
			return -1
		}
		return 1
	}
	c := cmpMag(a.mag, b.mag)
	if a.neg {
		return -c
	}
	return c
}

// Negate returns -a.
func (a Int) Negate() Int { return newInt(!a.neg, a.mag) }

// Abs returns |a|.
func (a Int) Abs() Int { return Int{mag: a.mag} }

// Add returns a + b.
func (a Int) Add(b Int) Int {
	if a.neg == b.neg {
		return newInt(a.neg, addMag(a.mag, b.mag))
	}
	// Mixed signs: the result takes the sign of the larger magnitude.
	if cmpMag(a.mag, b.mag) >= 0 {
		return newInt(a.neg, subMag(a.mag, b.mag))
	}
	return newInt(b.neg, subMag(b.mag, a.mag))
}

// Subtract returns a - b.
func (a Int) Subtract(b Int) Int { return a.Add(b.Negate()) }

// Multiply returns a * b.
func (a Int) Multiply(b Int) Int {
	if a.mag == "" || b.mag == "" {
		return Int{}
	}
	return newInt(a.neg != b.neg, mulMag(a.mag, b.mag))
}

// QuoRem returns the quotient a/d truncated towards zero and the remainder
// a - d*q, which carries the sign of a.
func (a Int) QuoRem(d Int) (q, r Int, err error) {
	if d.mag == "" {
		return Int{}, Int{}, ErrDivideByZero
	}
	qm, rm := quoRemMag(a.mag, d.mag)
	return newInt(a.neg != d.neg, qm), newInt(a.neg, rm), nil
}

// Divide returns a / d. It fails with ErrNonIntegerQuotient unless d evenly
// divides a, and with ErrDivideByZero if d is zero.
func (a Int) Divide(d Int) (Int, error) {
	q, r, err := a.QuoRem(d)
	if err != nil {
		return Int{}, err
	}
	if !r.IsZero() {
		return Int{}, fmt.Errorf("%w: %v / %v leaves remainder %v", ErrNonIntegerQuotient, a, d, r)
	}
	return q, nil
}

// GCD returns the greatest common divisor of |a| and |b|. GCD(0, 0) is 0.
func GCD(a, b Int) Int {
	x, y := a.mag, b.mag
	for y != "" {
		_, r := quoRemMag(x, y)
		x, y = y, r
	}
	return Int{mag: x}
}

// MarshalJSON encodes a as a JSON string so that consumers with fixed-width
// number types do not lose precision.
func (a Int) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a JSON string or a JSON integer literal.
func (a *Int) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func trim(s string) string {
	return strings.TrimLeft(s, "0")
}

// cmpMag compares two normalized magnitudes.
func cmpMag(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func addMag(a, b string) string {
	if len(a) < len(b) {
		a, b = b, a
	}
	out := make([]byte, len(a)+1)
	carry := 0
	for i, j := len(a)-1, len(b)-1; i >= 0; i, j = i-1, j-1 {
		sum := int(a[i]-'0') + carry
		if j >= 0 {
			sum += int(b[j] - '0')
		}
		out[i+1] = byte(sum%10) + '0'
		carry = sum / 10
	}
	out[0] = byte(carry) + '0'
	return trim(string(out))
}

// subMag returns a - b and requires a >= b.
func subMag(a, b string) string {
	out := make([]byte, len(a))
	borrow := 0
	for i, j := len(a)-1, len(b)-1; i >= 0; i, j = i-1, j-1 {
		diff := int(a[i]-'0') - borrow
		if j >= 0 {
			diff -= int(b[j] - '0')
		}
		borrow = 0
		if diff < 0 {
			diff += 10
			borrow = 1
		}
		out[i] = byte(diff) + '0'
	}
	return trim(string(out))
}

// mulMag is schoolbook multiplication: partial products are accumulated per
// output position and carries are propagated once at the end.
func mulMag(a, b string) string {
	if a == "" || b == "" {
		return ""
	}
	acc := make([]int, len(a)+len(b))
	for i := len(a) - 1; i >= 0; i-- {
		da := int(a[i] - '0')
		if da == 0 {
			continue
		}
		for j := len(b) - 1; j >= 0; j-- {
			acc[i+j+1] += da * int(b[j]-'0')
		}
	}
	for i := len(acc) - 1; i > 0; i-- {
		acc[i-1] += acc[i] / 10
		acc[i] %= 10
	}
	out := make([]byte, len(acc))
	for i, d := range acc {
		out[i] = byte(d) + '0'
	}
	return trim(string(out))
}

// quoRemMag is long division of normalized magnitudes; d must be non-zero.
func quoRemMag(n, d string) (q, r string) {
	if cmpMag(n, d) < 0 {
		return "", n
	}
	quo := make([]byte, 0, len(n))
	rem := ""
	for i := 0; i < len(n); i++ {
		rem = trim(rem + n[i:i+1])
		digit := byte('0')
		for cmpMag(rem, d) >= 0 {
			rem = subMag(rem, d)
			digit++
		}
		quo = append(quo, digit)
	}
	return trim(string(quo)), rem
}
