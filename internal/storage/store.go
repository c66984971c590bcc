// Package storage persists runs as one directory per run: metadata.json,
// the PES samples and one CSV per trajectory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/diatomic/internal/dynamo"
	"github.com/san-kum/diatomic/internal/equilibrium"
	"github.com/san-kum/diatomic/internal/pes"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

// ErrRunNotFound is returned for an unknown run ID.
var ErrRunNotFound = errors.New("storage: run not found")

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
	ID                string                        `json:"id"`
	Name              string                        `json:"name"`
	Timestamp         time.Time                     `json:"timestamp"`
	Integrator        string                        `json:"integrator"`
	Boundary          string                        `json:"boundary"`
	Dt                float64                       `json:"dt"`
	Steps             int                           `json:"steps"`
	Amplitude         float64                       `json:"amplitude"`
	Phase             float64                       `json:"phase"`
	Equilibrium       equilibrium.State             `json:"equilibrium"`
	DominantFrequency float64                       `json:"dominant_frequency"`
	Trajectories      []string                      `json:"trajectories"`
	Metrics           map[string]map[string]float64 `json:"metrics"`
}

// Run is everything a run produces.
type Run struct {
	Metadata     RunMetadata
	Samples      pes.SampleSet
	Trajectories map[string]*dynamo.Trajectory
}

// Save writes run under a fresh ID, which is also stored in the metadata.
func (s *Store) Save(run *Run) (string, error) {
	meta := run.Metadata
	meta.ID = fmt.Sprintf("%s_%s", meta.Name, uuid.NewString())
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}
	meta.Trajectories = make([]string, 0, len(run.Trajectories))
	for name := range run.Trajectories {
		meta.Trajectories = append(meta.Trajectories, name)
	}
	sort.Strings(meta.Trajectories)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	if run.Samples.Len() > 0 {
		if err := writeFile(filepath.Join(runDir, samplesFile), run.Samples.WriteCSV); err != nil {
			return "", err
		}
	}

	for _, name := range meta.Trajectories {
		traj := run.Trajectories[name]
		if err := writeFile(filepath.Join(runDir, trajectoryFile(name)), func(w io.Writer) error {
			return WriteTrajectoryCSV(w, traj)
		}); err != nil {
			return "", err
		}
	}

	return meta.ID, nil
}

func trajectoryFile(name string) string {
	return name + ".csv"
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns the metadata of every stored run, oldest first.
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) (pes.SampleSet, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return pes.SampleSet{}, err
	}
	defer f.Close()
	return pes.ReadCSV(f)
}

func (s *Store) LoadTrajectory(runID, name string) (*dynamo.Trajectory, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrRunNotFound, runID, name)
		}
		return nil, err
	}
	defer f.Close()
	return ReadTrajectoryCSV(f)
}

// LoadRun reads the metadata, samples and all trajectories of a run.
func (s *Store) LoadRun(runID string) (*Run, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	run := &Run{Metadata: *meta, Trajectories: make(map[string]*dynamo.Trajectory)}

	if samples, err := s.LoadSamples(runID); err == nil {
		run.Samples = samples
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	for _, name := range meta.Trajectories {
		traj, err := s.LoadTrajectory(runID, name)
		if err != nil {
			return nil, err
		}
		run.Trajectories[name] = traj
	}
	return run, nil
}

// WriteTrajectoryCSV writes "time,r,v" rows with round-trip precision.
func WriteTrajectoryCSV(w io.Writer, traj *dynamo.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "r", "v"}); err != nil {
		return err
	}
	for i, st := range traj.States {
		row := []string{
			strconv.FormatFloat(traj.Times[i], 'g', -1, 64),
			strconv.FormatFloat(st.R, 'g', -1, 64),
			strconv.FormatFloat(st.V, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadTrajectoryCSV(r io.Reader) (*dynamo.Trajectory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: read trajectory: %w", err)
	}

	traj := &dynamo.Trajectory{}
	for i, record := range records {
		if i == 0 {
			continue
		}
		var vals [3]float64
		for j := range vals {
			vals[j], err = strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("storage: trajectory line %d: %w", i+1, err)
			}
		}
		traj.Times = append(traj.Times, vals[0])
		traj.States = append(traj.States, dynamo.State{R: vals[1], V: vals[2]})
	}
	if len(traj.Times) > 1 {
		traj.Dt = traj.Times[1] - traj.Times[0]
	}
	return traj, nil
}
