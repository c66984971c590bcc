package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/diatomic/internal/dynamo"
	"github.com/san-kum/diatomic/internal/pes"
)

type ExportData struct {
	RunMetadata
	Samples      []pes.Sample                  `json:"samples"`
	Trajectories map[string]*dynamo.Trajectory `json:"trajectory_data"`
}

// ExportJSON writes the whole run as one indented JSON document.
func ExportJSON(w io.Writer, run *Run) error {
	data := ExportData{
		RunMetadata:  run.Metadata,
		Samples:      make([]pes.Sample, run.Samples.Len()),
		Trajectories: run.Trajectories,
	}
	for i := range data.Samples {
		data.Samples[i] = run.Samples.At(i)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
