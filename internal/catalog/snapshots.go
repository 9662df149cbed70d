package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Snapshots manages launch dataset files on disk, so the service has a
// catalog to serve between startup and the first successful fetch.
type Snapshots struct {
	dir      string
	maxFiles int
}

// NewSnapshots creates a Snapshots store in dir keeping at most maxFiles.
func NewSnapshots(dir string, maxFiles int) *Snapshots {
	if maxFiles <= 0 {
		maxFiles = 5
	}
	return &Snapshots{
		dir:      dir,
		maxFiles: maxFiles,
	}
}

// Write saves the dataset to a timestamped file and prunes old files.
func (s *Snapshots) Write(ds *Dataset) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}

	data, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	filename := fmt.Sprintf("launches_%d.json", ds.FetchedAt.Unix())
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot file: %w", err)
	}

	return s.prune()
}

// LoadLatest reads the newest snapshot by timestamp in the filename.
func (s *Snapshots) LoadLatest() (*Dataset, error) {
	files, err := s.listFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no snapshot files found")
	}

	// Files are sorted oldest first; take the last one.
	latest := files[len(files)-1]
	data, err := os.ReadFile(filepath.Join(s.dir, latest.name))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decoding snapshot file %s: %w", latest.name, err)
	}
	return &ds, nil
}

type snapshotFile struct {
	name string
	ts   time.Time
}

func (s *Snapshots) listFiles() ([]snapshotFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing snapshot dir: %w", err)
	}

	var files []snapshotFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, "launches_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		tsStr := strings.TrimPrefix(name, "launches_")
		tsStr = strings.TrimSuffix(tsStr, ".json")
		unix, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			continue
		}
		files = append(files, snapshotFile{name: name, ts: time.Unix(unix, 0)})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ts.Before(files[j].ts)
	})

	return files, nil
}

func (s *Snapshots) prune() error {
	files, err := s.listFiles()
	if err != nil {
		return err
	}
	if len(files) <= s.maxFiles {
		return nil
	}

	toRemove := files[:len(files)-s.maxFiles]
	for _, f := range toRemove {
		if err := os.Remove(filepath.Join(s.dir, f.name)); err != nil {
			return fmt.Errorf("pruning snapshot file %s: %w", f.name, err)
		}
	}
	return nil
}
