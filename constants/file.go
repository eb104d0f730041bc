package constants

import "strings"

// AllowedExtensions holds the default file extensions considered ODIS containers
// during directory scans and watch mode.
var AllowedExtensions = map[string]struct{}{
	"xml":   {},
	"odis2": {},
	"txt":   {},
}

// OutputFormats holds the allowed values for the output format field.
var OutputFormats = []string{"vcp", "raw"}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
