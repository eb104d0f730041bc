// Package profile loads batch run profiles: a JSON description of which
// containers to convert and how, validated against a schema before anything
// touches the filesystem.
package profile

import (
	"encoding/json"
	"os"

	"github.com/NightNord/odis2vcp/internal/common"
)

// Profile is one batch run description. Either Inputs (explicit container
// paths) or Roots (directories to scan) must be present.
type Profile struct {
	Description string   `json:"description"`
	Format      string   `json:"format,omitempty"` // "vcp" (default) or "raw"
	Inputs      []string `json:"inputs,omitempty"`
	Roots       []string `json:"roots,omitempty"`
	IncludeExts []string `json:"include_exts,omitempty"`
	SkipHidden  *bool    `json:"skip_hidden,omitempty"`
	Report      string   `json:"report,omitempty"` // optional XLSX summary path
}

// RawMode reports whether the profile selects raw extraction.
func (p Profile) RawMode() bool { return p.Format == "raw" }

// Load reads, schema-validates, and decodes a profile file.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, common.IOError("read profile", err)
	}
	return Parse(data)
}

// Parse validates profile JSON against the schema and decodes it.
func Parse(data []byte) (Profile, error) {
	if err := ValidateJSONAgainstSchema(BuildProfileJSONSchema(), data); err != nil {
		return Profile{}, common.NewAppError("PROFILE_ERROR", "profile does not match schema", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, common.NewAppError("PROFILE_ERROR", "decode profile", err)
	}
	if p.Format == "" {
		p.Format = "vcp"
	}
	return p, nil
}
