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
	"strings"
	"time"

	"github.com/san-kum/orbitsim/internal/bounds"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var (
	ErrMalformedFrames = errors.New("storage: malformed frames file")
	ErrInvalidRunID    = errors.New("storage: invalid run id")
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

// BodyRecord is the persisted form of an initial body.
type BodyRecord struct {
	Mass     float64    `json:"mass"`
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
}

func NewBodyRecords(bodies []dynamo.Body) []BodyRecord {
	out := make([]BodyRecord, len(bodies))
	for i, b := range bodies {
		out[i] = BodyRecord{
			Mass:     b.Mass,
			Position: [3]float64{b.Position.X, b.Position.Y, b.Position.Z},
			Velocity: [3]float64{b.Velocity.X, b.Velocity.Y, b.Velocity.Z},
		}
	}
	return out
}

func (r BodyRecord) Body() dynamo.Body {
	return dynamo.Body{
		Mass:     r.Mass,
		Position: dynamo.Vec3{X: r.Position[0], Y: r.Position[1], Z: r.Position[2]},
		Velocity: dynamo.Vec3{X: r.Velocity[0], Y: r.Velocity[1], Z: r.Velocity[2]},
	}
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Timestamp     time.Time          `json:"timestamp"`
	Command       string             `json:"command"`
	Seed          uint64             `json:"seed"`
	Dt            float64            `json:"dt"`
	Frames        int                `json:"frames"`
	Cube          bool               `json:"cube"`
	InitialBounds bool               `json:"initial_bounds"`
	Bounds        bounds.Bounds      `json:"bounds"`
	Bodies        []BodyRecord       `json:"bodies"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Save writes meta and frames under a fresh run directory and returns its ID.
// ID and Timestamp are filled in by the store.
func (s *Store) Save(meta RunMetadata, frames dynamo.FrameSequence) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	now := time.Now()
	runID, runDir, err := s.allocate(now)
	if err != nil {
		return "", err
	}
	meta.ID = runID
	meta.Timestamp = now

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), frames); err != nil {
		return "", err
	}
	return runID, nil
}

// allocate creates a run directory whose name does not exist yet.
func (s *Store) allocate(now time.Time) (string, string, error) {
	base := fmt.Sprintf("run_%s", now.Format("20060102_150405"))
	for i := 1; ; i++ {
		id := base
		if i > 1 {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
	}
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}
	return f.Close()
}

func writeFrames(path string, frames dynamo.FrameSequence) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteFramesCSV(f, frames); err != nil {
		return err
	}
	return f.Close()
}

// WriteFramesCSV writes one row per body per frame with full float precision.
func WriteFramesCSV(w io.Writer, frames dynamo.FrameSequence) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"frame", "body", "x", "y", "z"}); err != nil {
		return err
	}

	for i, frame := range frames {
		for j, p := range frame {
			row := []string{
				strconv.Itoa(i),
				strconv.Itoa(j + 1),
				formatFloat(p.X),
				formatFloat(p.Y),
				formatFloat(p.Z),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// Delete removes a saved run directory.
func (s *Store) Delete(runID string) error {
	if runID == "" || runID != filepath.Base(runID) || strings.HasPrefix(runID, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	dir := filepath.Join(s.baseDir, runID)
	if _, err := os.Stat(filepath.Join(dir, metadataFile)); err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

func (s *Store) LoadFrames(runID string) (dynamo.FrameSequence, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	frames, err := ReadFramesCSV(file)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return frames, nil
}

// ReadFramesCSV parses the format written by WriteFramesCSV. Rows must be in
// frame order with bodies numbered from 1 within each frame.
func ReadFramesCSV(r io.Reader) (dynamo.FrameSequence, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrames, err)
	}
	if len(records) < 2 {
		return dynamo.FrameSequence{}, nil
	}

	var frames dynamo.FrameSequence
	for line, rec := range records[1:] {
		var nums [5]float64
		for k, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedFrames, line+2, field)
			}
			nums[k] = v
		}

		fi, bi := int(nums[0]), int(nums[1])
		switch {
		case fi == len(frames) && bi == 1:
			frames = append(frames, dynamo.Frame{})
		case len(frames) == 0 || fi != len(frames)-1 || bi != len(frames[fi])+1:
			return nil, fmt.Errorf("%w: line %d: unexpected frame %d body %d", ErrMalformedFrames, line+2, fi, bi)
		}
		frames[fi] = append(frames[fi], dynamo.Vec3{X: nums[2], Y: nums[3], Z: nums[4]})
	}

	return frames, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
