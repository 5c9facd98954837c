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

package shares

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/GoogleCloudPlatform/ssrecover/client/internal/secret_sharing/bigint"
	"github.com/google/tink/go/subtle/random"
	"sigs.k8s.io/yaml"
)

// Point is a share as a pair of decimal strings. It is encoded as a two
// element array, `[x, y]`.
type Point struct {
	X string
	Y string
}

func (p Point) String() string {
	return fmt.Sprintf("(%s, %s)", p.X, p.Y)
}

// MarshalJSON encodes p as `["x", "y"]`.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.X, p.Y})
}

// UnmarshalJSON accepts `[x, y]` where each coordinate is a string or a JSON
// integer literal of any size.
func (p *Point) UnmarshalJSON(b []byte) error {
	var pair []literal
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("share must have exactly 2 coordinates, got %d", len(pair))
	}
	p.X, p.Y = string(pair[0]), string(pair[1])
	return nil
}

// literal holds the text of a JSON string or number without converting it.
type literal string

func (l *literal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = literal(s)
		return nil
	}
	*l = literal(b)
	return nil
}

// Document is a threshold plus an ordered list of shares.
//
// Its encoded form, the threshold list layout, is:
//
//	{"id": "...", "k": 2, "shares": [[1, 3], [2, 5], [3, 7]]}
type Document struct {
	ID        string  `json:"id,omitempty"`
	Threshold int     `json:"k"`
	Shares    []Point `json:"shares"`
}

type keyedRootsHeader struct {
	N *int `json:"n"`
	K int  `json:"k"`
}

type keyedRoot struct {
	Base  literal `json:"base"`
	Value literal `json:"value"`
}

// ParseDocument decodes a JSON or YAML share document in either the threshold
// list layout (see Document) or the keyed roots layout:
//
//	{"keys": {"n": 3, "k": 2}, "1": {"base": "10", "value": "3"}, "2": {"base": "2", "value": "101"}}
//
// Keyed roots are ordered by ascending x. Large integers in YAML documents
// must be quoted, since YAML resolves unquoted ones as floating point.
func ParseDocument(b []byte) (*Document, error) {
	jsonBytes := b
	if !json.Valid(b) {
		var err error
		if jsonBytes, err = yaml.YAMLToJSON(b); err != nil {
			return nil, fmt.Errorf("failed to convert share document YAML to JSON: %v", err)
		}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(jsonBytes, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal share document: %w", err)
	}
	if _, ok := fields["keys"]; ok {
		return parseKeyedRoots(fields)
	}
	if _, ok := fields["shares"]; !ok {
		return nil, fmt.Errorf("share document has neither a \"shares\" nor a \"keys\" stanza")
	}
	doc := &Document{}
	if err := json.Unmarshal(jsonBytes, doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal share document: %w", err)
	}
	return doc, nil
}

func parseKeyedRoots(fields map[string]json.RawMessage) (*Document, error) {
	var header keyedRootsHeader
	if err := json.Unmarshal(fields["keys"], &header); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keys stanza: %w", err)
	}
	doc := &Document{Threshold: header.K}
	if raw, ok := fields["id"]; ok {
		if err := json.Unmarshal(raw, &doc.ID); err != nil {
			return nil, fmt.Errorf("failed to unmarshal id: %w", err)
		}
	}

	type root struct {
		x bigint.Int
		y bigint.Int
	}
	var roots []root
	for key, raw := range fields {
		if key == "keys" || key == "id" {
			continue
		}
		x, err := bigint.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("root key: %w", err)
		}
		var r keyedRoot
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("root %v: %w", x, err)
		}
		base, err := strconv.Atoi(string(r.Base))
		if err != nil {
			return nil, fmt.Errorf("root %v: invalid base %q", x, r.Base)
		}
		y, err := bigint.ParseBase(string(r.Value), base)
		if err != nil {
			return nil, fmt.Errorf("root %v: %w", x, err)
		}
		roots = append(roots, root{x: x, y: y})
	}
	if header.N != nil && *header.N != len(roots) {
		return nil, fmt.Errorf("keys stanza declares n = %d but document has %d roots", *header.N, len(roots))
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].x.Cmp(roots[j].x) < 0 })
	for _, r := range roots {
		doc.Shares = append(doc.Shares, Point{X: r.x.String(), Y: r.y.String()})
	}
	return doc, nil
}

// JSON encodes d in the threshold list layout.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// YAML encodes d in the threshold list layout as YAML.
func (d *Document) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}

// ForgeShares replaces the Y coordinate of `count` distinct, randomly chosen
// shares with a different random value and returns their indices in
// ascending order.
func (d *Document) ForgeShares(count int) ([]int, error) {
	if count < 0 || count > len(d.Shares) {
		return nil, fmt.Errorf("cannot forge %d of %d shares", count, len(d.Shares))
	}
	picked := make(map[int]bool)
	for len(picked) < count {
		picked[int(random.GetRandomUint32()%uint32(len(d.Shares)))] = true
	}
	var forged []int
	for i := range d.Shares {
		if !picked[i] {
			continue
		}
		y, err := bigint.Parse(d.Shares[i].Y)
		if err != nil {
			return nil, fmt.Errorf("share %d: y: %w", i, err)
		}
		// A non-zero offset guarantees the forged value differs.
		delta := bigint.FromBytes(random.GetRandomBytes(8)).Add(bigint.One)
		d.Shares[i].Y = y.Add(delta).String()
		forged = append(forged, i)
	}
	return forged, nil
}
