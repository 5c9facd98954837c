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

// Package constants contains defaults shared between the library and the command line tools.
package constants

// DefaultConfigName is the default name for the configuration file, looked up
// in the user's configuration directory.
const DefaultConfigName = "ssrecover.yaml"

// Version is displayed via the `version` subcommand.
const Version = "0.1.0"

// DefaultWorkers is the default number of combinations interpolated concurrently.
const DefaultWorkers = 1

// DefaultCoefficientDigits is the default decimal width of the random
// polynomial coefficients used when splitting a secret.
const DefaultCoefficientDigits = 20

// Report formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)
