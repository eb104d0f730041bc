// Package container streams records out of an ODIS2 container file.
//
// The container is an XML document whose records are PARAMETER_DATA elements.
// The reader is lazy and forward-only: each Next call consumes exactly one
// record from the token stream, so large containers are never loaded whole.
// Content-level checks (hex payload, checksum, kind range) are deliberately
// left to the record validator; the reader only guarantees structure.
package container

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/NightNord/odis2vcp/internal/common"
)

// recordElement is the element name that delimits one record.
const recordElement = "PARAMETER_DATA"

// RawRecord is one container entry as discovered, before validation. Payload
// holds the dataset text exactly as written (hex-list transport form, with
// surrounding whitespace stripped); Length is the declared decoded size in
// bytes.
type RawRecord struct {
	Offset int64
	Length int
	Kind   int    // parsed diagnostic address, -1 when unparseable
	Module string // diagnostic address as displayed (0x00 prefix stripped)

	StartAddress string
	Name         string // ZDC_NAME
	Version      string // ZDC_VERSION
	Login        string
	Checksum     string // CRC-32 attribute as written, "" when absent

	Payload []byte
}

// Reader yields RawRecords from a container file. Not safe for concurrent use;
// the pipeline owns it for the duration of a run.
type Reader struct {
	f       *os.File
	dec     *xml.Decoder
	size    int64
	sawRoot bool
	done    bool
}

// Open opens the container for streaming. The file handle stays open until
// Close; records are read on demand by Next.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.IOError("open container", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, common.IOError("stat container", err)
	}
	return &Reader{f: f, dec: xml.NewDecoder(f), size: st.Size()}, nil
}

// Size returns the container file size in bytes.
func (r *Reader) Size() int64 { return r.size }

// Close releases the underlying file.
func (r *Reader) Close() error { return r.f.Close() }

// Next returns the next record, io.EOF when the container is exhausted, or a
// fatal FormatError when the document structure is broken. After an error the
// stream is not restartable.
func (r *Reader) Next() (RawRecord, error) {
	if r.done {
		return RawRecord{}, io.EOF
	}
	for {
		tok, err := r.dec.Token()
		if err != nil {
			r.done = true
			if errors.Is(err, io.EOF) {
				if !r.sawRoot {
					return RawRecord{}, common.FormatError("missing document element", nil)
				}
				return RawRecord{}, io.EOF
			}
			return RawRecord{}, common.FormatError("malformed container", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		r.sawRoot = true
		if start.Name.Local != recordElement {
			continue
		}
		rec, err := r.readRecord(start)
		if err != nil {
			r.done = true
			return RawRecord{}, err
		}
		return rec, nil
	}
}

// readRecord consumes one PARAMETER_DATA element: attributes, text payload,
// closing tag. Only enough of the header is interpreted to know the record's
// declared length.
func (r *Reader) readRecord(start xml.StartElement) (RawRecord, error) {
	rec := RawRecord{Offset: r.dec.InputOffset(), Kind: -1, Length: -1}

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "DIAGNOSTIC_ADDRESS":
			rec.Module = strings.TrimPrefix(attr.Value, "0x00")
			if v, err := parseHex(attr.Value); err == nil {
				rec.Kind = int(v)
			}
		case "START_ADDRESS":
			rec.StartAddress = attr.Value
		case "ZDC_NAME":
			rec.Name = attr.Value
		case "ZDC_VERSION":
			rec.Version = attr.Value
		case "LOGIN":
			rec.Login = attr.Value
		case "CHECKSUM":
			rec.Checksum = attr.Value
		case "SIZE":
			if v, err := parseHex(attr.Value); err == nil {
				rec.Length = int(v)
			}
		}
	}

	var text strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := r.dec.Token()
		if err != nil {
			// An open record element at EOF means the declared structure runs
			// past the end of the file.
			return RawRecord{}, common.FormatError("truncated record", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 1 {
				text.Write(t)
			}
		}
	}

	rec.Payload = []byte(strings.TrimSpace(text.String()))
	if rec.Length < 0 {
		rec.Length = countHexDigits(rec.Payload) / 2
	}
	return rec, nil
}

// parseHex accepts "0x1A", "1A" and decimal forms.
func parseHex(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		return strconv.ParseInt(rest, 16, 64)
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	return strconv.ParseInt(s, 16, 64)
}

func countHexDigits(text []byte) int {
	n := 0
	for _, c := range text {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
			n++
		case c == 'x' || c == 'X':
			// "0x" prefixes contribute one digit ('0') that is not payload.
			n--
		}
	}
	if n < 0 {
		return 0
	}
	return n
}
