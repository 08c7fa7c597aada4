package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

type ExportData struct {
	Exported    time.Time    `json:"exported"`
	Count       int          `json:"count"`
	Submissions []Submission `json:"submissions"`
}

func WriteJSON(w io.Writer, subs []Submission) error {
	data := ExportData{
		Exported:    time.Now().UTC(),
		Count:       len(subs),
		Submissions: subs,
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func WriteCSV(w io.Writer, subs []Submission) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "number", "received", "source"}); err != nil {
		return err
	}
	for _, s := range subs {
		row := []string{s.ID, s.Number, s.Received.UTC().Format(time.RFC3339), s.Source}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export writes subs to path in the given format ("json" or "csv"). An
// empty path or "-" writes to stdout.
func Export(path, format string, subs []Submission) error {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}

	switch format {
	case "json", "":
		return WriteJSON(w, subs)
	case "csv":
		return WriteCSV(w, subs)
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
}
