package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"nefsim/internal/nef"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Network   string             `json:"network"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Probes    []string           `json:"probes"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes one run directory: metadata.json plus a CSV per probe under
// probes/. The run ID is <network>_<unix-seconds>.
func (s *Store) Save(network, model string, cfg nef.Config, result *nef.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", network, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	probeDir := filepath.Join(runDir, "probes")
	if err := os.MkdirAll(probeDir, 0755); err != nil {
		return "", err
	}

	probes := make([]string, 0, len(result.Probes))
	for name := range result.Probes {
		probes = append(probes, name)
	}
	sort.Strings(probes)

	meta := RunMetadata{
		ID:        runID,
		Network:   network,
		Model:     model,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Probes:    probes,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	for _, name := range probes {
		if err := writeSeries(filepath.Join(probeDir, name+".csv"), result.Times, result.Probes[name]); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeSeries(path string, times []float64, series []nef.Signal) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if len(series) == 0 {
		return nil
	}

	header := []string{"time"}
	for i := range series[0] {
		header = append(header, fmt.Sprintf("v%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, sig := range series {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range sig {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries reads one probe's recorded signal back from its CSV.
func (s *Store) LoadSeries(runID, probe string) ([]float64, []nef.Signal, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "probes", probe+".csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return []float64{}, []nef.Signal{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	series := make([]nef.Signal, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		sig := make(nef.Signal, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			sig = append(sig, val)
		}
		series = append(series, sig)
	}

	return times, series, nil
}
