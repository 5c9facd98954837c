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

// This binary is the main entrypoint for the ssrecover command line tool.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"flag"
	"github.com/GoogleCloudPlatform/ssrecover/client/config"
	"github.com/GoogleCloudPlatform/ssrecover/client/shares"
	"github.com/GoogleCloudPlatform/ssrecover/constants"
	"github.com/alecthomas/colour"
	glog "github.com/golang/glog"
	"github.com/google/subcommands"
)

// loadConfig reads the config file named by --config-file, or the default one
// if the flag was not given, and applies any explicitly set flags on top.
func loadConfig(f *flag.FlagSet, configFile string, overrides func(cfg *config.Config, set map[string]bool)) (config.Config, error) {
	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	path := configFile
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			glog.Warningf("Using default configuration: %v", err)
			cfg := config.Default()
			overrides(&cfg, set)
			return cfg, cfg.Validate()
		}
	}
	cfg, err := config.Load(path, set["config-file"])
	if err != nil {
		return config.Config{}, err
	}
	overrides(&cfg, set)
	return cfg, cfg.Validate()
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

// reconstructCmd handles CLI options for the reconstruct command.
type reconstructCmd struct {
	configFile string
	workers    int
	format     string
	color      bool
}

func (*reconstructCmd) Name() string { return "reconstruct" }
func (*reconstructCmd) Synopsis() string {
	return "recovers a secret from a share document and reports rogue shares"
}
func (*reconstructCmd) Usage() string {
	return `Usage: ssrecover reconstruct [--config-file=<config_file>] [--workers=<n>] [--format=text|yaml] <share_file>

Examples:
  Reconstruct the secret from a share document:
    $ ssrecover reconstruct shares.json
    Secret: 1
    Rogue Share: (4, 90)

  Read the share document from stdin and print a YAML report:
    $ ssrecover reconstruct --format=yaml - < shares.yaml

Flags:
`
}
func (r *reconstructCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.configFile, "config-file", "", fmt.Sprintf("Path to a YAML config file. Defaults to %s in the user config directory.", constants.DefaultConfigName))
	f.IntVar(&r.workers, "workers", constants.DefaultWorkers, "Number of combinations interpolated concurrently.")
	f.StringVar(&r.format, "format", constants.FormatText, "Report format, text or yaml.")
	f.BoolVar(&r.color, "color", false, "Highlight the text report.")
}

func (r *reconstructCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig(f, r.configFile, func(cfg *config.Config, set map[string]bool) {
		if set["workers"] {
			cfg.Workers = r.workers
		}
		if set["format"] {
			cfg.Format = r.format
		}
		if set["color"] {
			cfg.Color = r.color
		}
	})
	if err != nil {
		glog.Errorf("Invalid configuration: %v", err)
		return subcommands.ExitFailure
	}

	if f.NArg() < 1 {
		glog.Errorf("Not enough arguments (expected share file)")
		return subcommands.ExitUsageError
	}

	docBytes, err := readInput(f.Arg(0))
	if err != nil {
		glog.Errorf("Failed to read share file: %v", err)
		return subcommands.ExitFailure
	}

	doc, err := shares.ParseDocument(docBytes)
	if err != nil {
		glog.Errorf("Failed to parse share file: %v", err)
		return subcommands.ExitFailure
	}

	report, err := shares.CombineDocument(ctx, doc, shares.Options{Workers: cfg.Workers})
	if err != nil {
		glog.Errorf("Failed to reconstruct secret: %v", err)
		return subcommands.ExitFailure
	}

	switch {
	case cfg.Format == constants.FormatYAML:
		out, err := report.YAML()
		if err != nil {
			glog.Errorf("Failed to encode report: %v", err)
			return subcommands.ExitFailure
		}
		os.Stdout.Write(out)
	case cfg.Color:
		colour.Printf("Secret: ^2%s^R\n", report.Secret)
		for _, p := range report.RogueShares {
			colour.Printf("^1Rogue Share: %v^R\n", p)
		}
	default:
		if err := report.WriteText(os.Stdout); err != nil {
			glog.Errorf("Failed to write report: %v", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

// splitCmd handles CLI options for the split command.
type splitCmd struct {
	configFile string
	threshold  int
	numShares  int
	rogue      int
	digits     int
	format     string
	quiet      bool
}

func (*splitCmd) Name() string { return "split" }
func (*splitCmd) Synopsis() string {
	return "splits a decimal secret into a share document, optionally forging shares"
}
func (*splitCmd) Usage() string {
	return `Usage: ssrecover split --threshold=<k> --shares=<n> [--rogue=<r>] [--digits=<d>] [--format=json|yaml] <secret> <share_file>

Examples:
  Split a secret into 5 shares, any 3 of which reconstruct it:
    $ ssrecover split --threshold=3 --shares=5 1234567890 shares.json

  Also forge one share, and write the document to stdout:
    $ ssrecover split --threshold=3 --shares=6 --rogue=1 1234567890 - | ssrecover reconstruct -

Flags:
`
}
func (s *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.configFile, "config-file", "", fmt.Sprintf("Path to a YAML config file. Defaults to %s in the user config directory.", constants.DefaultConfigName))
	f.IntVar(&s.threshold, "threshold", 0, "Number of shares needed to reconstruct the secret. Required.")
	f.IntVar(&s.numShares, "shares", 0, "Number of shares to generate. Required.")
	f.IntVar(&s.rogue, "rogue", 0, "Number of shares to forge after splitting.")
	f.IntVar(&s.digits, "digits", constants.DefaultCoefficientDigits, "Decimal width of the random polynomial coefficients.")
	f.StringVar(&s.format, "format", "json", "Share document format, json or yaml.")
	f.BoolVar(&s.quiet, "quiet", false, "Suppress logging output.")
}

func (s *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig(f, s.configFile, func(cfg *config.Config, set map[string]bool) {
		if set["digits"] {
			cfg.CoefficientDigits = s.digits
		}
	})
	if err != nil {
		glog.Errorf("Invalid configuration: %v", err)
		return subcommands.ExitFailure
	}

	if f.NArg() < 2 {
		glog.Errorf("Not enough arguments (expected secret and share file)")
		return subcommands.ExitUsageError
	}

	doc, err := shares.SplitSecret(f.Arg(0), shares.SplitOptions{
		NumShares:         s.numShares,
		Threshold:         s.threshold,
		CoefficientDigits: cfg.CoefficientDigits,
	})
	if err != nil {
		glog.Errorf("Failed to split secret: %v", err)
		return subcommands.ExitFailure
	}

	forged, err := doc.ForgeShares(s.rogue)
	if err != nil {
		glog.Errorf("Failed to forge shares: %v", err)
		return subcommands.ExitFailure
	}

	var out []byte
	switch s.format {
	case "json":
		out, err = doc.JSON()
	case "yaml":
		out, err = doc.YAML()
	default:
		err = fmt.Errorf("unknown share document format %q", s.format)
	}
	if err != nil {
		glog.Errorf("Failed to encode share document: %v", err)
		return subcommands.ExitFailure
	}

	var outFile *os.File
	var logFile *os.File

	if f.Arg(1) == "-" {
		outFile = os.Stdout
		logFile = os.Stderr
	} else {
		outFile, err = os.Create(f.Arg(1))
		if err != nil {
			glog.Errorf("Failed to open file for share document: %v", err)
			return subcommands.ExitFailure
		}
		defer outFile.Close()

		logFile = os.Stdout
	}

	if _, err := outFile.Write(out); err != nil {
		glog.Errorf("Failed to write share document: %v", err)
		return subcommands.ExitFailure
	}

	if !s.quiet {
		logFile.WriteString(fmt.Sprintln("Wrote share document to", outFile.Name()))
		logFile.WriteString(fmt.Sprintln("Split ID:", doc.ID))
		for _, i := range forged {
			logFile.WriteString(fmt.Sprintln("Forged share:", doc.Shares[i]))
		}
	}

	return subcommands.ExitSuccess
}

// versionCmd handles CLI options for the version command.
type versionCmd struct{}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "prints the current version" }
func (*versionCmd) Usage() string          { return "Usage: ssrecover version" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}
func (*versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Printf("ssrecover Version %s\n", constants.Version)
	return subcommands.ExitSuccess
}

func main() {
	flag.Parse()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(&reconstructCmd{}, "")
	subcommands.Register(&splitCmd{}, "")
	subcommands.Register(&versionCmd{}, "")

	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
