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

// Binary to run built-in reconstruction vectors and validate the results.
package main

import (
	"context"
	"fmt"
	"os"

	"flag"
	"github.com/GoogleCloudPlatform/ssrecover/client/shares"
	"github.com/alecthomas/colour"
)

var (
	workers = flag.Int("workers", 1, "Number of combinations interpolated concurrently.")
)

type reconstructTest struct {
	testName  string
	expectErr bool
	// doc builds the share document for the test and the rogue shares it is
	// expected to contain.
	doc func() (*shares.Document, []shares.Point, error)
	// wantSecret is compared when non-empty.
	wantSecret string
}

func staticDoc(threshold int, rogue []shares.Point, points ...shares.Point) func() (*shares.Document, []shares.Point, error) {
	return func() (*shares.Document, []shares.Point, error) {
		return &shares.Document{Threshold: threshold, Shares: points}, rogue, nil
	}
}

func forgedSplit(secret string, numShares, threshold, rogue int) func() (*shares.Document, []shares.Point, error) {
	return func() (*shares.Document, []shares.Point, error) {
		doc, err := shares.SplitSecret(secret, shares.SplitOptions{NumShares: numShares, Threshold: threshold, CoefficientDigits: 40})
		if err != nil {
			return nil, nil, err
		}
		forged, err := doc.ForgeShares(rogue)
		if err != nil {
			return nil, nil, err
		}
		var want []shares.Point
		for _, i := range forged {
			want = append(want, doc.Shares[i])
		}
		return doc, want, nil
	}
}

func runReconstructTestCase(ctx context.Context, tc reconstructTest) error {
	doc, wantRogue, err := tc.doc()
	if err != nil {
		return fmt.Errorf("building document: %v", err)
	}
	report, err := shares.CombineDocument(ctx, doc, shares.Options{Workers: *workers})
	if err != nil {
		return err
	}
	if tc.wantSecret != "" && report.Secret != tc.wantSecret {
		return fmt.Errorf("secret = %s, want %s", report.Secret, tc.wantSecret)
	}
	if len(report.RogueShares) != len(wantRogue) {
		return fmt.Errorf("rogue shares = %v, want %v", report.RogueShares, wantRogue)
	}
	for i := range wantRogue {
		if report.RogueShares[i] != wantRogue[i] {
			return fmt.Errorf("rogue shares = %v, want %v", report.RogueShares, wantRogue)
		}
	}
	return nil
}

func main() {
	flag.Parse()
	ctx := context.Background()

	// Define and run reconstruction tests.
	fmt.Println("Running reconstruction tests...")

	testCases := []reconstructTest{
		{
			testName:   "Forged share on the line y = 2x + 1",
			doc:        staticDoc(2, []shares.Point{{X: "4", Y: "90"}}, shares.Point{X: "1", Y: "3"}, shares.Point{X: "2", Y: "5"}, shares.Point{X: "3", Y: "7"}, shares.Point{X: "4", Y: "90"}),
			wantSecret: "1",
		},
		{
			testName:   "Honest shares with non-consecutive x",
			doc:        staticDoc(3, nil, shares.Point{X: "1", Y: "4"}, shares.Point{X: "2", Y: "7"}, shares.Point{X: "3", Y: "12"}, shares.Point{X: "6", Y: "39"}),
			wantSecret: "3",
		},
		{
			testName:   "Single share with threshold 1",
			doc:        staticDoc(1, nil, shares.Point{X: "9", Y: "-12345678901234567890"}),
			wantSecret: "-12345678901234567890",
		},
		{
			testName:   "Random split with two forged shares",
			doc:        forgedSplit("31415926535897932384626433832795028841971", 9, 4, 2),
			wantSecret: "31415926535897932384626433832795028841971",
		},
		{
			testName:  "Threshold larger than share count",
			expectErr: true,
			doc:       staticDoc(3, nil, shares.Point{X: "1", Y: "3"}, shares.Point{X: "2", Y: "5"}),
		},
		{
			testName:  "Every combination degenerate",
			expectErr: true,
			doc:       staticDoc(2, nil, shares.Point{X: "1", Y: "3"}, shares.Point{X: "1", Y: "5"}),
		},
		{
			testName:  "Malformed coordinate",
			expectErr: true,
			doc:       staticDoc(1, nil, shares.Point{X: "1", Y: "0x1F"}),
		},
	}

	failed := 0
	for _, testCase := range testCases {
		err := runReconstructTestCase(ctx, testCase)
		testPassed := testCase.expectErr == (err != nil)
		if testPassed {
			colour.Printf("^2 - %v^R\n", testCase.testName)
		} else {
			failed++
			colour.Printf("^1 - %v: %v^R\n", testCase.testName, err)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}
