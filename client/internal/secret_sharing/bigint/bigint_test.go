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

package bigint_test

import (
	"encoding/json"
	"errors"
	"math/big"
	"sort"
	"strings"
	"testing"

	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/bigint"
	"github.com/google/go-cmp/cmp"
	"github.com/google/tink/go/subtle/random"
)

// randomDecimal returns a random decimal string of up to maxDigits digits,
// possibly negative and possibly with leading zeros.
func randomDecimal(t *testing.T, maxDigits int) string {
	t.Helper()
	b := random.GetRandomBytes(uint32(maxDigits + 2))
	n := 1 + int(b[0])%maxDigits
	var sb strings.Builder
	if b[1]&1 == 1 {
		sb.WriteByte('-')
	}
	for _, c := range b[2 : 2+n] {
		sb.WriteByte('0' + c%10)
	}
	return sb.String()
}

func mustParse(t *testing.T, s string) bigint.Int {
	t.Helper()
	v, err := bigint.Parse(s)
	if err != nil {
		t.Fatalf("bigint.Parse(%q) err = %v, want nil", s, err)
	}
	return v
}

func reference(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("big.Int.SetString(%q) failed", s)
	}
	return v
}

func TestParseNormalizes(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{in: "000123", want: "123"},
		{in: "0", want: "0"},
		{in: "-0", want: "0"},
		{in: "0000", want: "0"},
		{in: "+42", want: "42"},
		{in: "-007", want: "-7"},
		{in: "123456789012345678901234567890", want: "123456789012345678901234567890"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			if got := mustParse(t, tc.in).String(); got != tc.want {
				t.Errorf("Parse(%q).String() = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	for _, tc := range []struct {
		in         string
		wantOffset int
	}{
		{in: "", wantOffset: -1},
		{in: "-", wantOffset: -1},
		{in: "12a", wantOffset: 2},
		{in: "1 2", wantOffset: 1},
		{in: "--1", wantOffset: 1},
		{in: "0x10", wantOffset: 1},
		{in: "1.5", wantOffset: 1},
	} {
		t.Run(tc.in, func(t *testing.T) {
			_, err := bigint.Parse(tc.in)
			var perr *bigint.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) err = %v, want *ParseError", tc.in, err)
			}
			if perr.Offset != tc.wantOffset {
				t.Errorf("Parse(%q) offset = %d, want %d", tc.in, perr.Offset, tc.wantOffset)
			}
		})
	}
}

func TestArithmeticKnownValues(t *testing.T) {
	for _, tc := range []struct {
		name string
		op   func(a, b bigint.Int) bigint.Int
		a, b string
		want string
	}{
		{name: "add carry", op: bigint.Int.Add, a: "999", b: "1", want: "1000"},
		{name: "add mixed signs", op: bigint.Int.Add, a: "-10", b: "3", want: "-7"},
		{name: "add to zero", op: bigint.Int.Add, a: "-55", b: "55", want: "0"},
		{name: "subtract negative result", op: bigint.Int.Subtract, a: "3", b: "5", want: "-2"},
		{name: "subtract negatives", op: bigint.Int.Subtract, a: "-3", b: "-5", want: "2"},
		{name: "subtract borrow", op: bigint.Int.Subtract, a: "1000", b: "1", want: "999"},
		{name: "multiply", op: bigint.Int.Multiply, a: "123", b: "456", want: "56088"},
		{name: "multiply zero", op: bigint.Int.Multiply, a: "0", b: "-987654321", want: "0"},
		{name: "multiply signs", op: bigint.Int.Multiply, a: "-12", b: "-12", want: "144"},
		{name: "multiply negative", op: bigint.Int.Multiply, a: "-12", b: "10", want: "-120"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.op(mustParse(t, tc.a), mustParse(t, tc.b)).String()
			if got != tc.want {
				t.Errorf("%s(%s, %s) = %s, want %s", tc.name, tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestAddSubtractRoundTrip(t *testing.T) {
	for range 2000 {
		as, bs := randomDecimal(t, 60), randomDecimal(t, 60)
		a, b := mustParse(t, as), mustParse(t, bs)
		if got := a.Add(b).Subtract(b); got != a {
			t.Fatalf("%s + %s - %s = %v, want %v", as, bs, bs, got, a)
		}
		want := new(big.Int).Add(reference(t, as), reference(t, bs))
		if got := a.Add(b).String(); got != want.String() {
			t.Fatalf("%s + %s = %s, want %s", as, bs, got, want)
		}
		want = new(big.Int).Sub(reference(t, as), reference(t, bs))
		if got := a.Subtract(b).String(); got != want.String() {
			t.Fatalf("%s - %s = %s, want %s", as, bs, got, want)
		}
	}
}

func TestMultiplyMatchesReference(t *testing.T) {
	for range 10000 {
		as, bs := randomDecimal(t, 40), randomDecimal(t, 40)
		want := new(big.Int).Mul(reference(t, as), reference(t, bs))
		if got := mustParse(t, as).Multiply(mustParse(t, bs)).String(); got != want.String() {
			t.Fatalf("%s * %s = %s, want %s", as, bs, got, want)
		}
	}
}

func TestDivideExactRoundTrip(t *testing.T) {
	for range 1000 {
		a, b := mustParse(t, randomDecimal(t, 50)), mustParse(t, randomDecimal(t, 30))
		if b.IsZero() {
			continue
		}
		got, err := a.Multiply(b).Divide(b)
		if err != nil {
			t.Fatalf("Divide(%v * %v, %v) err = %v, want nil", a, b, b, err)
		}
		if got != a {
			t.Fatalf("Divide(%v * %v, %v) = %v, want %v", a, b, b, got, a)
		}
	}
}

func TestDivideByDivisorBeyondNativeWidth(t *testing.T) {
	a := mustParse(t, "340282366920938463463374607431768211456")
	d := mustParse(t, "18446744073709551616")
	got, err := a.Divide(d)
	if err != nil {
		t.Fatalf("Divide() err = %v, want nil", err)
	}
	if want := "18446744073709551616"; got.String() != want {
		t.Errorf("Divide() = %v, want %s", got, want)
	}
}

func TestQuoRemMatchesReference(t *testing.T) {
	for range 2000 {
		as, ds := randomDecimal(t, 50), randomDecimal(t, 25)
		d := mustParse(t, ds)
		if d.IsZero() {
			continue
		}
		q, r, err := mustParse(t, as).QuoRem(d)
		if err != nil {
			t.Fatalf("QuoRem(%s, %s) err = %v", as, ds, err)
		}
		wantQ, wantR := new(big.Int).QuoRem(reference(t, as), reference(t, ds), new(big.Int))
		if q.String() != wantQ.String() || r.String() != wantR.String() {
			t.Fatalf("QuoRem(%s, %s) = (%v, %v), want (%v, %v)", as, ds, q, r, wantQ, wantR)
		}
	}
}

func TestDivideErrors(t *testing.T) {
	if _, err := mustParse(t, "10").Divide(bigint.Zero); !errors.Is(err, bigint.ErrDivideByZero) {
		t.Errorf("Divide(10, 0) err = %v, want ErrDivideByZero", err)
	}
	if _, _, err := mustParse(t, "10").QuoRem(bigint.Zero); !errors.Is(err, bigint.ErrDivideByZero) {
		t.Errorf("QuoRem(10, 0) err = %v, want ErrDivideByZero", err)
	}
	if _, err := mustParse(t, "7").Divide(mustParse(t, "2")); !errors.Is(err, bigint.ErrNonIntegerQuotient) {
		t.Errorf("Divide(7, 2) err = %v, want ErrNonIntegerQuotient", err)
	}
	if _, err := mustParse(t, "-9").Divide(mustParse(t, "-10")); !errors.Is(err, bigint.ErrNonIntegerQuotient) {
		t.Errorf("Divide(-9, -10) err = %v, want ErrNonIntegerQuotient", err)
	}
}

func TestCmpIsSignedNumericOrder(t *testing.T) {
	in := []string{"5", "-100", "0", "99", "-2", "100", "-99", "1"}
	vals := make([]bigint.Int, len(in))
	for i, s := range in {
		vals[i] = mustParse(t, s)
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i].Cmp(vals[j]) < 0 })
	var got []string
	for _, v := range vals {
		got = append(got, v.String())
	}
	want := []string{"-100", "-99", "-2", "0", "1", "5", "99", "100"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sorted order mismatch (-want +got):\n%s", diff)
	}
}

func TestEqualityIsRepresentational(t *testing.T) {
	a, b := mustParse(t, "00042"), mustParse(t, "42")
	if a != b || !a.Equal(b) {
		t.Errorf("Parse(00042) and Parse(42) should be identical")
	}
	if mustParse(t, "-0") != bigint.Zero {
		t.Errorf("Parse(-0) should be the zero value")
	}
	if var0 := (bigint.Int{}); var0.String() != "0" || var0.Sign() != 0 {
		t.Errorf("zero value = %q (sign %d), want 0", var0.String(), var0.Sign())
	}
	counts := map[bigint.Int]int{}
	for _, s := range []string{"7", "007", "+7", "-7"} {
		counts[mustParse(t, s)]++
	}
	if diff := cmp.Diff(map[bigint.Int]int{mustParse(t, "7"): 3, mustParse(t, "-7"): 1}, counts, cmp.Comparer(func(x, y bigint.Int) bool { return x == y })); diff != "" {
		t.Errorf("map grouping mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBase(t *testing.T) {
	for _, tc := range []struct {
		in   string
		base int
		want string
	}{
		{in: "ff", base: 16, want: "255"},
		{in: "FF", base: 16, want: "255"},
		{in: "111", base: 2, want: "7"},
		{in: "-z", base: 36, want: "-35"},
		{in: "213", base: 4, want: "39"},
		{in: "0000", base: 8, want: "0"},
		{in: "e1b5e4ef1c7", base: 15, want: reference15(t, "e1b5e4ef1c7")},
	} {
		t.Run(tc.in, func(t *testing.T) {
			got, err := bigint.ParseBase(tc.in, tc.base)
			if err != nil {
				t.Fatalf("ParseBase(%q, %d) err = %v", tc.in, tc.base, err)
			}
			if got.String() != tc.want {
				t.Errorf("ParseBase(%q, %d) = %v, want %s", tc.in, tc.base, got, tc.want)
			}
		})
	}

	var perr *bigint.ParseError
	if _, err := bigint.ParseBase("102", 2); !errors.As(err, &perr) || perr.Offset != 2 {
		t.Errorf("ParseBase(102, 2) err = %v, want ParseError at offset 2", err)
	}
	if _, err := bigint.ParseBase("1", 37); err == nil {
		t.Errorf("ParseBase(1, 37) err = nil, want error")
	}
}

func reference15(t *testing.T, s string) string {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 15)
	if !ok {
		t.Fatalf("big.Int.SetString(%q, 15) failed", s)
	}
	return v.String()
}

func TestFromBytesMatchesReference(t *testing.T) {
	for range 100 {
		b := random.GetRandomBytes(24)
		want := new(big.Int).SetBytes(b)
		if got := bigint.FromBytes(b).String(); got != want.String() {
			t.Fatalf("FromBytes(%x) = %s, want %s", b, got, want)
		}
	}
	if got := bigint.FromBytes(nil); got != bigint.Zero {
		t.Errorf("FromBytes(nil) = %v, want 0", got)
	}
}

func TestGCD(t *testing.T) {
	for _, tc := range []struct {
		a, b, want string
	}{
		{a: "12", b: "18", want: "6"},
		{a: "-12", b: "18", want: "6"},
		{a: "0", b: "-5", want: "5"},
		{a: "0", b: "0", want: "0"},
		{a: "17", b: "5", want: "1"},
	} {
		if got := bigint.GCD(mustParse(t, tc.a), mustParse(t, tc.b)).String(); got != tc.want {
			t.Errorf("GCD(%s, %s) = %s, want %s", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestJSON(t *testing.T) {
	var got []bigint.Int
	if err := json.Unmarshal([]byte(`[12345678901234567890123, "-42", "007"]`), &got); err != nil {
		t.Fatalf("json.Unmarshal() err = %v", err)
	}
	want := []bigint.Int{mustParse(t, "12345678901234567890123"), mustParse(t, "-42"), mustParse(t, "7")}
	if !cmp.Equal(want, got, cmp.Comparer(func(x, y bigint.Int) bool { return x == y })) {
		t.Errorf("json.Unmarshal() = %v, want %v", got, want)
	}
	out, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("json.Marshal() err = %v", err)
	}
	if want := `["12345678901234567890123","-42","7"]`; string(out) != want {
		t.Errorf("json.Marshal() = %s, want %s", out, want)
	}
	if err := json.Unmarshal([]byte(`["1e5"]`), &got); err == nil {
		t.Errorf("json.Unmarshal(1e5) err = nil, want ParseError")
	}
}
