// Package record validates container records before transcoding.
package record

import (
	"encoding/hex"
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"

	"github.com/NightNord/odis2vcp/constants"
	"github.com/NightNord/odis2vcp/internal/container"
)

// ValidatedRecord is a RawRecord annotated with the validation outcome. Decoded
// holds the dataset bytes after hex decoding and is only set when Valid.
type ValidatedRecord struct {
	container.RawRecord
	Decoded []byte
	Valid   bool
	Reason  string
}

// Validate checks one record's structural integrity: the payload must decode as
// hex, the decoded length must match the declared length, the kind tag must be
// structurally sane, and the checksum (when present) must match. Pure function,
// no I/O; it never fails, it marks.
func Validate(raw container.RawRecord) ValidatedRecord {
	v := ValidatedRecord{RawRecord: raw}

	if len(raw.Payload) == 0 {
		return invalid(v, "empty payload")
	}

	decoded, err := DecodePayload(raw.Payload)
	if err != nil {
		return invalid(v, fmt.Sprintf("payload is not valid hex: %v", err))
	}
	if len(decoded) != raw.Length {
		return invalid(v, fmt.Sprintf("declared length %d does not match payload size %d", raw.Length, len(decoded)))
	}

	if raw.Kind < 0 {
		return invalid(v, "missing or unparseable diagnostic address")
	}
	if raw.Kind > constants.MaxKindTag {
		return invalid(v, fmt.Sprintf("diagnostic address 0x%X out of range", raw.Kind))
	}

	if raw.Checksum != "" {
		want, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(raw.Checksum), "0x"), 16, 32)
		if err != nil {
			return invalid(v, fmt.Sprintf("unparseable checksum %q", raw.Checksum))
		}
		if have := crc32.ChecksumIEEE(decoded); have != uint32(want) {
			return invalid(v, fmt.Sprintf("checksum mismatch: declared %08X, computed %08X", uint32(want), have))
		}
	}

	v.Decoded = decoded
	v.Valid = true
	return v
}

func invalid(v ValidatedRecord, reason string) ValidatedRecord {
	v.Valid = false
	v.Reason = reason
	return v
}

// DecodePayload converts hex-list dataset text ("0x12,0x34" or bare "1234",
// whitespace tolerated) into its binary form.
func DecodePayload(text []byte) ([]byte, error) {
	cleaned := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '0' && i+1 < len(text) && (text[i+1] == 'x' || text[i+1] == 'X'):
			i++ // skip the 0x prefix
		case c == ',' || c == ' ' || c == '\t' || c == '\r' || c == '\n':
		default:
			cleaned = append(cleaned, c)
		}
	}
	return hex.DecodeString(string(cleaned))
}
