package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// ExportData is the self-contained JSON form of a run.
type ExportData struct {
	RunMetadata
	Positions [][][3]float64 `json:"positions"`
}

func NewExportData(meta RunMetadata, frames dynamo.FrameSequence) ExportData {
	data := ExportData{
		RunMetadata: meta,
		Positions:   make([][][3]float64, len(frames)),
	}
	for i, f := range frames {
		row := make([][3]float64, len(f))
		for j, p := range f {
			row[j] = [3]float64{p.X, p.Y, p.Z}
		}
		data.Positions[i] = row
	}
	return data
}

func ExportJSON(path string, meta RunMetadata, frames dynamo.FrameSequence) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteJSON(file, meta, frames); err != nil {
		return err
	}
	return file.Close()
}

func WriteJSON(w io.Writer, meta RunMetadata, frames dynamo.FrameSequence) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, frames))
}
