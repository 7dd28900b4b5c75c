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

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/llm-d/liquid-extraction/internal/config"
	"github.com/llm-d/liquid-extraction/pkg/curve"
)

// DiagramData is the sampled equilibrium diagram: the X-N raffinate branch,
// the Y-N extract branch and the X-Y distribution curve.
type DiagramData struct {
	Raffinate    []curve.Sample `json:"raffinate" yaml:"raffinate"`
	Extract      []curve.Sample `json:"extract" yaml:"extract"`
	Distribution []curve.Sample `json:"distribution" yaml:"distribution"`
}

// NewDiagramData samples d at its measured points.
func NewDiagramData(d *curve.Diagram) DiagramData {
	return DiagramData{
		Raffinate:    d.Raffinate.Samples(),
		Extract:      d.Extract.Samples(),
		Distribution: d.Distribution.Samples(),
	}
}

// WriteDiagramFile writes the diagram to path as JSON when the extension is
// .json and as YAML otherwise.
func WriteDiagramFile(path string, d *curve.Diagram) error {
	format := config.FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = config.FormatJSON
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating diagram file: %w", err)
	}
	if err := Encode(f, format, NewDiagramData(d)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
