// Package store records simulation runs on disk: per-tick conserved-quantity
// samples as CSV and run metadata as JSON, one directory per run.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/ali-albdaer/symplectica/internal/sim"
)

// Sample is one conserved-quantity snapshot.
type Sample struct {
	Tick             uint64  `csv:"tick"`
	Time             float64 `csv:"time_s"`
	TotalEnergy      float64 `csv:"energy_j"`
	LinearMomentumX  float64 `csv:"px"`
	LinearMomentumY  float64 `csv:"py"`
	LinearMomentumZ  float64 `csv:"pz"`
	AngularMomentumX float64 `csv:"lx"`
	AngularMomentumY float64 `csv:"ly"`
	AngularMomentumZ float64 `csv:"lz"`
	BodyCount        int     `csv:"bodies"`
}

// Snapshot reads the current conserved quantities out of a simulation.
func Snapshot(s *sim.Simulation) Sample {
	p := s.LinearMomentum()
	l := s.AngularMomentum()
	return Sample{
		Tick:             s.Tick(),
		Time:             s.Time(),
		TotalEnergy:      s.TotalEnergy(),
		LinearMomentumX:  p.X,
		LinearMomentumY:  p.Y,
		LinearMomentumZ:  p.Z,
		AngularMomentumX: l.X,
		AngularMomentumY: l.Y,
		AngularMomentumZ: l.Z,
		BodyCount:        len(s.Bodies()),
	}
}

// Metadata describes one recorded run.
type Metadata struct {
	ID         string    `json:"id"`
	Preset     string    `json:"preset,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Seed       uint64    `json:"seed"`
	Dt         float64   `json:"dt"`
	Steps      int       `json:"steps"`
	Integrator string    `json:"integrator"`
	Solver     string    `json:"solver"`
}

// Store writes runs under a base directory.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Save records one run: metadata.json, samples.csv, and the final state as
// checkpoint.bin. Returns the run id.
func (s *Store) Save(meta Metadata, samples []Sample, checkpoint []byte) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Integrator, meta.Timestamp.Unix())
	if meta.Preset != "" {
		runID = fmt.Sprintf("%s_%d", meta.Preset, meta.Timestamp.Unix())
	}
	meta.ID = runID
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, "metadata.json"), metaData, 0644); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	if err := gocsv.MarshalFile(&samples, csvFile); err != nil {
		return "", err
	}

	if checkpoint != nil {
		if err := os.WriteFile(filepath.Join(runDir, "checkpoint.bin"), checkpoint, 0644); err != nil {
			return "", err
		}
	}
	return runID, nil
}

// List returns the metadata of every recorded run, newest last.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []Metadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, e.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var m Metadata
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// LoadSamples reads a run's sample series back.
func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var samples []Sample
	if err := gocsv.UnmarshalFile(f, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}
