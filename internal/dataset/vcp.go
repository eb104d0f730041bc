package dataset

import (
	"encoding/xml"
	"fmt"

	"github.com/NightNord/odis2vcp/internal/transcode"
)

// hexFormatName is the only DATEN-FORMAT-NAME the transcoder emits.
const hexFormatName = "DFN_HEX"

// SWContainer is the VCP dataset envelope (SW-CNT document).
type SWContainer struct {
	XMLName xml.Name  `xml:"SW-CNT"`
	Ident   Ident     `xml:"IDENT"`
	Areas   DataAreas `xml:"DATENBEREICHE"`
}

// Ident identifies the dataset collection; taken from the first accepted
// record, matching how the source tool stamps its exports.
type Ident struct {
	Login   string `xml:"LOGIN"`
	FileID  string `xml:"DATEIID"`
	Version string `xml:"VERSION-INHALT"`
}

type DataAreas struct {
	Count int        `xml:"ANZAHL,attr"`
	Areas []DataArea `xml:"DATENBEREICH"`
}

// DataArea is one dataset in the VCP envelope.
type DataArea struct {
	Name      string `xml:"DATEN-NAME"`
	Format    string `xml:"DATEN-FORMAT-NAME"`
	StartAddr string `xml:"START-ADR"`
	Size      string `xml:"GROESSE-DEKOMPRIMIERT"`
	Data      string `xml:"DATEN"`
}

// buildSWContainer assembles the envelope for a run's records, container order
// preserved.
func buildSWContainer(records []transcode.TargetRecord) SWContainer {
	doc := SWContainer{}
	if len(records) > 0 {
		doc.Ident = Ident{
			Login:   records[0].Login,
			FileID:  records[0].Name,
			Version: records[0].Version,
		}
	}
	doc.Areas.Count = len(records)
	for _, rec := range records {
		doc.Areas.Areas = append(doc.Areas.Areas, DataArea{
			Name:      rec.Name,
			Format:    hexFormatName,
			StartAddr: rec.StartAddr,
			Size:      fmt.Sprintf("0x%x", rec.SizeBytes),
			Data:      string(rec.EncodedPayload),
		})
	}
	return doc
}
