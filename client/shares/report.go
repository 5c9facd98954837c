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
	"fmt"
	"io"

	"sigs.k8s.io/yaml"
)

// WriteText writes the report as plain text, one rogue share per line:
//
//	Secret: 1
//	Rogue Share: (4, 90)
func (r *Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Secret: %s\n", r.Secret); err != nil {
		return err
	}
	for _, p := range r.RogueShares {
		if _, err := fmt.Fprintf(w, "Rogue Share: %v\n", p); err != nil {
			return err
		}
	}
	return nil
}

// YAML encodes the report as YAML.
func (r *Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}
