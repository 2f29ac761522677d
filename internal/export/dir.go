package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/miradorstack/mirador-pathmine/internal/models"
)

// DirWriter writes report artefacts into one output directory.
type DirWriter struct {
	dir    string
	graphs bool
	logger *slog.Logger
}

// NewDirWriter creates dir if needed; graphs toggles DOT rendering.
func NewDirWriter(dir string, graphs bool, logger *slog.Logger) (*DirWriter, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DirWriter{dir: dir, graphs: graphs, logger: logger}, nil
}

// Dir returns the output directory.
func (d *DirWriter) Dir() string {
	return d.dir
}

// StoreMining writes the whole-dataset mining report; it satisfies patterns.Sink.
func (d *DirWriter) StoreMining(ctx context.Context, report models.MiningReport) error {
	if err := d.write("mining.json", func(w io.Writer) error { return WriteJSON(w, report) }); err != nil {
		return err
	}
	if !d.graphs {
		return nil
	}
	return d.write("frequent.dot", func(w io.Writer) error {
		return WriteDOT(w, "Frequent transitions", report.Frequent, "lightblue")
	})
}

// WriteReport writes the full report, recommendations CSV, per-phase paths
// and, when enabled, per-phase do/avoid graphs.
func (d *DirWriter) WriteReport(report *models.Report) error {
	if err := d.write("report.json", func(w io.Writer) error { return WriteJSON(w, report) }); err != nil {
		return err
	}
	if err := d.write("phasewise_recommendations.csv", func(w io.Writer) error {
		return WriteRecommendations(w, report.Recommendations)
	}); err != nil {
		return err
	}
	for _, phase := range report.Phases {
		phase := phase
		name := fileSafe(phase.Phase)
		if len(phase.Paths) > 0 {
			if err := d.write("avoid_paths_"+name+".txt", func(w io.Writer) error {
				return WritePaths(w, phase.Paths)
			}); err != nil {
				return err
			}
		}
		if !d.graphs {
			continue
		}
		if err := d.write("recovery_"+name+".dot", func(w io.Writer) error {
			return WriteDOT(w, "Recovery actions - "+phase.Phase, phase.Do, "lightgreen")
		}); err != nil {
			return err
		}
		if err := d.write("avoid_"+name+".dot", func(w io.Writer) error {
			return WriteDOT(w, "Avoid actions - "+phase.Phase, phase.Avoid, "lightcoral")
		}); err != nil {
			return err
		}
	}
	d.logger.Info("report written", slog.String("dir", d.dir), slog.String("run_id", report.RunID))
	return nil
}

// fileSafe maps a phase name onto a single path element.
func fileSafe(name string) string {
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
	if safe == "" {
		return "_"
	}
	return safe
}

func (d *DirWriter) write(name string, fn func(io.Writer) error) error {
	path := filepath.Join(d.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}
