package storage

import (
	"encoding/json"
	"io"
	"os"

	"nefsim/internal/nef"
)

type ExportData struct {
	Network  string                  `json:"network"`
	Model    string                  `json:"model"`
	Dt       float64                 `json:"dt"`
	Duration float64                 `json:"duration"`
	Seed     int64                   `json:"seed"`
	Steps    int                     `json:"steps"`
	Times    []float64               `json:"times"`
	Probes   map[string][]nef.Signal `json:"probes"`
	Metrics  map[string]float64      `json:"metrics"`
}

// ExportJSON writes a complete run, probes included, as indented JSON.
func ExportJSON(w io.Writer, network, model string, cfg nef.Config, result *nef.Result) error {
	data := ExportData{
		Network:  network,
		Model:    model,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Seed:     cfg.Seed,
		Steps:    result.StepsTaken,
		Times:    result.Times,
		Probes:   result.Probes,
		Metrics:  result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSONFile is ExportJSON to a freshly created file.
func ExportJSONFile(path, network, model string, cfg nef.Config, result *nef.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, network, model, cfg, result)
}
