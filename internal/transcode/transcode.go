// Package transcode converts validated container records into the target
// dataset representation.
package transcode

import (
	"fmt"
	"strings"

	"github.com/NightNord/odis2vcp/constants"
	"github.com/NightNord/odis2vcp/internal/common"
	"github.com/NightNord/odis2vcp/internal/record"
)

// TargetRecord is one output dataset, owned by the dataset writer once
// appended. In raw mode EncodedPayload is the source dataset bytes verbatim;
// in decoded mode it is the canonical VCP hex-list text.
type TargetRecord struct {
	Kind      int
	KindName  string
	Module    string
	Name      string
	Version   string
	Login     string
	StartAddr string
	SizeBytes int // decoded dataset size, what GROESSE-DEKOMPRIMIERT declares

	EncodedPayload []byte
}

// Transcode produces the target representation of a validated record. Raw mode
// is a pure copy and cannot fail; decoded mode re-encodes the dataset into the
// VCP layout and rejects kind tags outside the known diagnostic-address table.
// No side effects either way.
func Transcode(v record.ValidatedRecord, rawMode bool) (TargetRecord, error) {
	out := TargetRecord{
		Kind:      v.Kind,
		KindName:  constants.KindName(v.Kind),
		Module:    v.Module,
		Name:      v.Name,
		Version:   v.Version,
		Login:     v.Login,
		StartAddr: v.StartAddress,
		SizeBytes: len(v.Decoded),
	}

	if rawMode {
		out.EncodedPayload = v.Decoded
		return out, nil
	}

	if _, known := constants.KnownKinds[v.Kind]; !known {
		return TargetRecord{}, common.NewAppError("UNSUPPORTED_KIND",
			fmt.Sprintf("diagnostic address 0x%02X has no VCP mapping", v.Kind),
			common.ErrUnsupportedKind)
	}
	out.EncodedPayload = []byte(EncodeHexList(v.Decoded))
	return out, nil
}

// EncodeHexList renders dataset bytes in the VCP DATEN notation: "0x12,0x34".
func EncodeHexList(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(data) * 5)
	for i, c := range data {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "0x%02X", c)
	}
	return b.String()
}
