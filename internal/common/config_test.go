package common

import (
	"path/filepath"
	"testing"
)

func TestOutputPathDerivation(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		suffix string
		want   string
	}{
		{
			name:   "suffix before extension",
			input:  "/data/sample.odis2",
			suffix: "_extracted",
			want:   "/data/sample_extracted.odis2",
		},
		{
			name:   "xml container",
			input:  "/tmp/seat_leon.xml",
			suffix: "_vcp",
			want:   "/tmp/seat_leon_vcp.xml",
		},
		{
			name:   "no extension",
			input:  "/tmp/container",
			suffix: "_out",
			want:   "/tmp/container_out",
		},
		{
			name:   "relative path",
			input:  "sample.xml",
			suffix: "_x",
			want:   "sample_x.xml",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := ExtractionConfig{InputPath: tc.input, OutputSuffix: tc.suffix}
			got := cfg.OutputPath()
			if got != filepath.FromSlash(tc.want) {
				t.Fatalf("OutputPath() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestOutputPathDeterministic(t *testing.T) {
	cfg := ExtractionConfig{InputPath: "/data/sample.odis2", OutputSuffix: "_extracted"}
	if cfg.OutputPath() != cfg.OutputPath() {
		t.Fatal("OutputPath must be deterministic")
	}
}

func TestExtractionConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     ExtractionConfig
		wantErr bool
	}{
		{"valid", ExtractionConfig{InputPath: "/a.xml", OutputSuffix: "_x"}, false},
		{"missing input", ExtractionConfig{OutputSuffix: "_x"}, true},
		{"missing suffix", ExtractionConfig{InputPath: "/a.xml"}, true},
		{"blank suffix", ExtractionConfig{InputPath: "/a.xml", OutputSuffix: "  "}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestParseExtList(t *testing.T) {
	exts := parseExtList(" .XML, odis2 ,")
	if _, ok := exts["xml"]; !ok {
		t.Errorf("expected xml in %v", exts)
	}
	if _, ok := exts["odis2"]; !ok {
		t.Errorf("expected odis2 in %v", exts)
	}
	if len(exts) != 2 {
		t.Errorf("expected 2 extensions, got %v", exts)
	}
}
