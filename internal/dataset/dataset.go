/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package dataset reads phase-equilibrium measurements and legacy run
// parameters from tabular text files.
//
// Phase tables are tab-separated with a header row naming the A, B and C
// columns (in any order). Values may use a decimal comma.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/llm-d/liquid-extraction/pkg/core"
)

// Default file names of the paired phase tables.
const (
	DefaultRaffinateFile  = "fase_oleica.txt"
	DefaultExtractFile    = "fase_propano.txt"
	DefaultParametersFile = "parametros_liq_liq.txt"
)

var (
	errMissingColumn = errors.New("missing column")
	errEmptyTable    = errors.New("table has no data rows")
)

// ReadPhase parses a phase table into composition triples in file order.
func ReadPhase(r io.Reader) ([]core.Composition, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyTable
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	idx := [3]int{}
	for i, name := range []string{"A", "B", "C"} {
		j, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("%w %q in header %v", errMissingColumn, name, header)
		}
		idx[i] = j
	}

	var out []core.Composition
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if blank(rec) {
			continue
		}
		var vals [3]float64
		for i, j := range idx {
			if j >= len(rec) {
				return nil, fmt.Errorf("line %d: %w %d", line, errMissingColumn, j+1)
			}
			v, err := ParseDecimal(rec[j])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			vals[i] = v
		}
		out = append(out, core.Composition{A: vals[0], B: vals[1], C: vals[2]})
	}
	if len(out) == 0 {
		return nil, errEmptyTable
	}
	return out, nil
}

// LoadPhase reads the phase table at path.
func LoadPhase(path string) ([]core.Composition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening phase table: %w", err)
	}
	defer f.Close()

	rows, err := ReadPhase(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ParseDecimal parses a number written with either a decimal point or a
// decimal comma.
func ParseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
