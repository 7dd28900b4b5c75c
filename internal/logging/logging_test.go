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

package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		want    zapcore.Level
		wantErr bool
	}{
		{name: "empty defaults to info", level: "", want: zapcore.InfoLevel},
		{name: "info", level: "info", want: zapcore.InfoLevel},
		{name: "upper case error", level: "ERROR", want: zapcore.ErrorLevel},
		{name: "debug maps to V(1)", level: "debug", want: zapcore.Level(-1)},
		{name: "trace maps to V(2)", level: " trace ", want: zapcore.Level(-2)},
		{name: "unknown", level: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLevel(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(Options{Level: "debug"})
	if err != nil {
		t.Fatalf("NewLogger() failed: %v", err)
	}
	if !logger.V(DEBUG).Enabled() {
		t.Error("expected V(DEBUG) to be enabled at debug level")
	}
	if logger.V(TRACE).Enabled() {
		t.Error("expected V(TRACE) to be disabled at debug level")
	}

	if _, err := NewLogger(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unsupported level")
	}
}
