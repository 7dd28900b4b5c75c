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

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/llm-d/liquid-extraction/pkg/core"
)

// Parameters are the initial conditions of a run as stored in the legacy
// key/value parameter file.
type Parameters struct {
	Feed            core.Stream
	SolventMass     float64
	SolventFraction core.Composition
}

var parameterKeys = []string{"F_masa", "F_xf", "F_nf", "S_masa", "A_aceite", "B_propano", "C_oleico"}

// ReadParameters parses a comma-separated file with header "clave,valor".
// Values are returned unvalidated; callers build core types from them.
func ReadParameters(r io.Reader) (Parameters, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 2

	header, err := cr.Read()
	if err != nil {
		return Parameters{}, fmt.Errorf("reading header: %w", err)
	}
	if strings.TrimSpace(header[0]) != "clave" || strings.TrimSpace(header[1]) != "valor" {
		return Parameters{}, fmt.Errorf("unexpected header %v, want [clave valor]", header)
	}

	values := map[string]float64{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Parameters{}, err
		}
		v, err := ParseDecimal(rec[1])
		if err != nil {
			return Parameters{}, fmt.Errorf("key %s: %w", rec[0], err)
		}
		values[strings.TrimSpace(rec[0])] = v
	}
	for _, k := range parameterKeys {
		if _, ok := values[k]; !ok {
			return Parameters{}, fmt.Errorf("%w %q", errMissingColumn, k)
		}
	}

	return Parameters{
		Feed: core.Stream{
			Mass: values["F_masa"],
			X:    values["F_xf"],
			N:    values["F_nf"],
		},
		SolventMass: values["S_masa"],
		SolventFraction: core.Composition{
			A: values["A_aceite"],
			B: values["B_propano"],
			C: values["C_oleico"],
		},
	}, nil
}

// LoadParameters reads the parameter file at path.
func LoadParameters(path string) (Parameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return Parameters{}, fmt.Errorf("opening parameters: %w", err)
	}
	defer f.Close()
	p, err := ReadParameters(f)
	if err != nil {
		return Parameters{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
