package dataset

import (
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/NightNord/odis2vcp/internal/transcode"
)

func targetRecord(kind int, payload []byte) transcode.TargetRecord {
	return transcode.TargetRecord{
		Kind:      kind,
		Module:    "19",
		Name:      "GatewayConf",
		Version:   "0001",
		Login:     "20103",
		StartAddr: "0x0000",
		SizeBytes: len(payload),

		EncodedPayload: payload,
	}
}

func TestWriterAtomicFinalize(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "sample_extracted.odis2")

	w, err := NewWriter(out, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Append(targetRecord(0x19, []byte{0x01})); err != nil {
		t.Fatal(err)
	}

	// Nothing may exist at the final path before Finalize.
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("final path exists before Finalize (stat err %v)", err)
	}

	if err := w.Finalize(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("final path missing after Finalize: %v", err)
	}

	// No leftover temp files.
	matches, _ := filepath.Glob(filepath.Join(dir, ".*tmp"))
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestWriterDiscardLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.xml")

	w, err := NewWriter(out, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Append(targetRecord(0x19, []byte("0x01"))); err != nil {
		t.Fatal(err)
	}
	w.Discard()
	w.Discard() // idempotent

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("directory not empty after Discard: %v", entries)
	}
}

func TestWriterRawEnvelope(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.bin")
	payloads := [][]byte{{0x01, 0x02}, {0xFF}, {}}
	kinds := []int{0x19, 0x09, 0x17}

	w, err := NewWriter(out, true)
	if err != nil {
		t.Fatal(err)
	}
	for i := range payloads {
		if err := w.Append(targetRecord(kinds[i], payloads[i])); err != nil {
			t.Fatal(err)
		}
	}
	if w.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", w.Count())
	}
	if err := w.Finalize(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	r := bytes.NewReader(data)

	var magic [4]byte
	if _, err := r.Read(magic[:]); err != nil {
		t.Fatal(err)
	}
	if string(magic[:]) != "VCPR" {
		t.Fatalf("magic = %q", magic)
	}
	version, _ := r.ReadByte()
	if version != 0x01 {
		t.Fatalf("version = %d", version)
	}
	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
	for i := 0; i < int(count); i++ {
		var kind uint16
		var length uint32
		if err := binary.Read(r, binary.BigEndian, &kind); err != nil {
			t.Fatal(err)
		}
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			t.Fatal(err)
		}
		if int(kind) != kinds[i] {
			t.Errorf("record %d kind = %#x, want %#x", i, kind, kinds[i])
		}
		payload := make([]byte, length)
		if _, err := r.Read(payload); length > 0 && err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(payload, payloads[i]) {
			t.Errorf("record %d payload = %x, want %x", i, payload, payloads[i])
		}
	}
	if r.Len() != 0 {
		t.Errorf("%d trailing bytes after last record", r.Len())
	}
}

func TestWriterVCPEnvelope(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.xml")

	w, err := NewWriter(out, false)
	if err != nil {
		t.Fatal(err)
	}
	recs := []transcode.TargetRecord{
		targetRecord(0x19, []byte("0x01,0x02")),
		targetRecord(0x09, []byte("0xAA")),
	}
	recs[0].SizeBytes = 2
	recs[1].SizeBytes = 1
	recs[1].Name = "BCMConf"
	for _, rec := range recs {
		if err := w.Append(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Finalize(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var doc SWContainer
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not well-formed XML: %v", err)
	}
	if doc.Ident.Login != "20103" || doc.Ident.FileID != "GatewayConf" || doc.Ident.Version != "0001" {
		t.Errorf("IDENT = %+v", doc.Ident)
	}
	if doc.Areas.Count != 2 || len(doc.Areas.Areas) != 2 {
		t.Fatalf("expected 2 areas, got count=%d len=%d", doc.Areas.Count, len(doc.Areas.Areas))
	}
	// Container order is preserved.
	if doc.Areas.Areas[0].Name != "GatewayConf" || doc.Areas.Areas[1].Name != "BCMConf" {
		t.Errorf("order not preserved: %+v", doc.Areas.Areas)
	}
	first := doc.Areas.Areas[0]
	if first.Format != "DFN_HEX" {
		t.Errorf("Format = %q", first.Format)
	}
	if first.Size != "0x2" {
		t.Errorf("Size = %q, want \"0x2\"", first.Size)
	}
	if first.Data != "0x01,0x02" {
		t.Errorf("Data = %q", first.Data)
	}
}

func TestWriterDeterministicOutput(t *testing.T) {
	dir := t.TempDir()
	write := func(name string) []byte {
		out := filepath.Join(dir, name)
		w, err := NewWriter(out, false)
		if err != nil {
			t.Fatal(err)
		}
		if err := w.Append(targetRecord(0x19, []byte("0x01"))); err != nil {
			t.Fatal(err)
		}
		if err := w.Finalize(); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		return data
	}
	if !bytes.Equal(write("a.xml"), write("b.xml")) {
		t.Error("identical input produced differing output bytes")
	}
}

func TestWriterAppendAfterFinalize(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.xml")
	w, err := NewWriter(out, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatal(err)
	}
	if err := w.Append(targetRecord(0x19, []byte("0x01"))); err == nil {
		t.Error("Append after Finalize must fail")
	}
}
