// Package dataset serializes transcoded records into the output file.
//
// The writer accumulates records in append order and only touches the final
// path in Finalize: everything is written to a temp file in the destination
// directory and renamed into place, so an aborted run never leaves a partial
// file under the final name.
package dataset

import (
	"bufio"
	"encoding/binary"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"

	"github.com/NightNord/odis2vcp/internal/common"
	"github.com/NightNord/odis2vcp/internal/transcode"
)

// Raw envelope framing, big-endian throughout.
var rawMagic = [4]byte{'V', 'C', 'P', 'R'}

const rawVersion = byte(0x01)

// Writer owns the accumulated records until Finalize or Discard.
type Writer struct {
	finalPath string
	tmp       *os.File
	raw       bool
	records   []transcode.TargetRecord
	finalized bool
}

// NewWriter prepares an output at path. In raw mode the output is the binary
// raw envelope; otherwise a VCP SW-CNT document. The temp file is created
// immediately so disk problems surface before any reading happens.
func NewWriter(path string, raw bool) (*Writer, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, common.IOError("create temp output", err)
	}
	return &Writer{finalPath: path, tmp: tmp, raw: raw}, nil
}

// Path returns the final output path.
func (w *Writer) Path() string { return w.finalPath }

// Count returns the number of records appended so far.
func (w *Writer) Count() int { return len(w.records) }

// Append takes ownership of one transcoded record. Append order is the
// container order and is preserved in the output.
func (w *Writer) Append(rec transcode.TargetRecord) error {
	if w.finalized {
		return errors.New("append after finalize")
	}
	w.records = append(w.records, rec)
	return nil
}

// Finalize serializes the envelope plus all records, syncs, and atomically
// renames the temp file to the final path. Only after Finalize returns nil is
// the output guaranteed to exist and be complete.
func (w *Writer) Finalize() error {
	if w.finalized {
		return nil
	}
	var err error
	if w.raw {
		err = w.writeRaw()
	} else {
		err = w.writeVCP()
	}
	if err != nil {
		w.cleanup()
		return err
	}
	if err := w.tmp.Sync(); err != nil {
		w.cleanup()
		return common.IOError("sync output", err)
	}
	if err := w.tmp.Close(); err != nil {
		_ = os.Remove(w.tmp.Name())
		return common.IOError("close output", err)
	}
	if err := os.Rename(w.tmp.Name(), w.finalPath); err != nil {
		_ = os.Remove(w.tmp.Name())
		return common.IOError("rename output into place", err)
	}
	w.finalized = true
	return nil
}

// Discard drops the temp output. Safe to call after Finalize (no-op) and more
// than once.
func (w *Writer) Discard() {
	if w.finalized || w.tmp == nil {
		return
	}
	w.cleanup()
}

func (w *Writer) cleanup() {
	_ = w.tmp.Close()
	_ = os.Remove(w.tmp.Name())
}

func (w *Writer) writeRaw() error {
	bw := bufio.NewWriter(w.tmp)
	if _, err := bw.Write(rawMagic[:]); err != nil {
		return common.IOError("write raw header", err)
	}
	if err := bw.WriteByte(rawVersion); err != nil {
		return common.IOError("write raw header", err)
	}
	if err := binary.Write(bw, binary.BigEndian, uint32(len(w.records))); err != nil {
		return common.IOError("write raw header", err)
	}
	for _, rec := range w.records {
		if err := binary.Write(bw, binary.BigEndian, uint16(rec.Kind)); err != nil {
			return common.IOError("write raw record header", err)
		}
		if err := binary.Write(bw, binary.BigEndian, uint32(len(rec.EncodedPayload))); err != nil {
			return common.IOError("write raw record header", err)
		}
		if _, err := bw.Write(rec.EncodedPayload); err != nil {
			return common.IOError("write raw record payload", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return common.IOError("flush output", err)
	}
	return nil
}

func (w *Writer) writeVCP() error {
	doc := buildSWContainer(w.records)
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return common.IOError("encode dataset", err)
	}
	if _, err := w.tmp.WriteString(xml.Header); err != nil {
		return common.IOError("write output", err)
	}
	if _, err := w.tmp.Write(out); err != nil {
		return common.IOError("write output", err)
	}
	if _, err := w.tmp.WriteString("\n"); err != nil {
		return common.IOError("write output", err)
	}
	return nil
}
