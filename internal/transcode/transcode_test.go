package transcode

import (
	"bytes"
	"errors"
	"testing"

	"github.com/NightNord/odis2vcp/internal/common"
	"github.com/NightNord/odis2vcp/internal/container"
	"github.com/NightNord/odis2vcp/internal/record"
)

func validated(kind int, decoded []byte) record.ValidatedRecord {
	return record.ValidatedRecord{
		RawRecord: container.RawRecord{
			Kind:         kind,
			Module:       "19",
			Name:         "GatewayConf",
			Version:      "0001",
			Login:        "20103",
			StartAddress: "0x0000",
		},
		Decoded: decoded,
		Valid:   true,
	}
}

func TestTranscodeRawModeIsByteIdentical(t *testing.T) {
	src := []byte{0x00, 0x01, 0xFE, 0xFF}
	out, err := Transcode(validated(0x19, src), true)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.EncodedPayload, src) {
		t.Errorf("EncodedPayload = %x, want %x", out.EncodedPayload, src)
	}
	if out.Kind != 0x19 {
		t.Errorf("Kind = %#x, want 0x19 carried through", out.Kind)
	}
	if out.SizeBytes != len(src) {
		t.Errorf("SizeBytes = %d, want %d", out.SizeBytes, len(src))
	}
}

func TestTranscodeRawModeUnknownKindAllowed(t *testing.T) {
	// Raw mode copies verbatim even for kinds the VCP mapping does not know.
	out, err := Transcode(validated(0x7FF, []byte{0x01}), true)
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != 0x7FF {
		t.Errorf("Kind = %#x", out.Kind)
	}
}

func TestTranscodeDecodedMode(t *testing.T) {
	out, err := Transcode(validated(0x19, []byte{0x01, 0xAB}), false)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(out.EncodedPayload); got != "0x01,0xAB" {
		t.Errorf("EncodedPayload = %q, want \"0x01,0xAB\"", got)
	}
	if out.KindName != "Gateway" {
		t.Errorf("KindName = %q, want \"Gateway\"", out.KindName)
	}
	if out.Name != "GatewayConf" || out.Version != "0001" || out.Login != "20103" {
		t.Errorf("metadata not carried: %+v", out)
	}
}

func TestTranscodeDecodedModeUnsupportedKind(t *testing.T) {
	_, err := Transcode(validated(0x7F0, []byte{0x01}), false)
	if err == nil {
		t.Fatal("expected UnsupportedKindError")
	}
	if !errors.Is(err, common.ErrUnsupportedKind) {
		t.Fatalf("expected ErrUnsupportedKind, got %v", err)
	}
}

func TestEncodeHexList(t *testing.T) {
	cases := []struct {
		in   []byte
		want string
	}{
		{nil, ""},
		{[]byte{0x00}, "0x00"},
		{[]byte{0x01, 0x02, 0xFF}, "0x01,0x02,0xFF"},
	}
	for _, tc := range cases {
		if got := EncodeHexList(tc.in); got != tc.want {
			t.Errorf("EncodeHexList(%x) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := []byte{0x00, 0x10, 0x7F, 0x80, 0xFF}
	back, err := record.DecodePayload([]byte(EncodeHexList(src)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(back, src) {
		t.Errorf("round trip = %x, want %x", back, src)
	}
}
