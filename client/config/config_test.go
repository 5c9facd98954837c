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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ssrecover.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name     string
		contents string
		want     Config
	}{
		{
			name:     "empty file keeps defaults",
			contents: "",
			want:     Default(),
		},
		{
			name:     "overrides",
			contents: "workers: 8\nformat: yaml\ncolor: true\ncoefficientDigits: 40\n",
			want:     Config{Workers: 8, Format: "yaml", Color: true, CoefficientDigits: 40},
		},
		{
			name:     "partial",
			contents: "workers: 3\n",
			want:     Config{Workers: 3, Format: "text", CoefficientDigits: 20},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Load(writeConfig(t, tc.contents), true)
			if err != nil {
				t.Fatalf("Load() err = %v, want nil", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	for _, tc := range []struct {
		name     string
		contents string
	}{
		{name: "unknown field", contents: "wrokers: 2\n"},
		{name: "negative workers", contents: "workers: -1\n"},
		{name: "bad format", contents: "format: xml\n"},
		{name: "zero digits", contents: "coefficientDigits: 0\n"},
		{name: "not yaml", contents: "workers: [\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.contents), true); err == nil {
				t.Errorf("Load(%q) err = nil, want error", tc.contents)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")
	got, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load(optional) err = %v, want nil", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("Load(optional) mismatch (-want +got):\n%s", diff)
	}
	if _, err := Load(path, true); err == nil {
		t.Errorf("Load(required) err = nil, want error")
	}
}
