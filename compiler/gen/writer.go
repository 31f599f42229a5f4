package gen

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/tools/imports"
)

var formatOptions = &imports.Options{
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
	FormatOnly: true,
}

// WriterMetrics tracks generation performance.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
	RenderTime     time.Duration
	FormatTime     time.Duration
	WriteTime      time.Duration
}

// writer formats generated sources and writes them into one directory.
type writer struct {
	dir string

	mu      sync.Mutex
	metrics WriterMetrics
}

// Metrics returns a snapshot of the metrics.
func (w *writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

func (w *writer) observe(fn func(*WriterMetrics)) {
	w.mu.Lock()
	fn(&w.metrics)
	w.mu.Unlock()
}

// format sorts and groups the imports of src and gofmts it. Imports are
// tracked by Jennifer, so none are added or removed.
func format(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, formatOptions)
	if err != nil {
		return nil, NewGenerationError("format", filepath.Base(filename), "", err)
	}
	return out, nil
}

// write formats src and replaces the file name atomically. If src does not
// format, it is written unformatted to name+".error" for debugging.
func (w *writer) write(name string, src []byte) (string, error) {
	target := filepath.Join(w.dir, name)

	start := time.Now()
	formatted, err := format(target, src)
	if err != nil {
		// Already failing; a lost debug file changes nothing.
		_ = os.WriteFile(target+".error", src, 0o644)
		return "", err
	}
	w.observe(func(m *WriterMetrics) { m.FormatTime += time.Since(start) })

	start = time.Now()
	if err := w.replace(name, formatted); err != nil {
		return "", NewGenerationError("write", name, "", err)
	}
	w.observe(func(m *WriterMetrics) {
		m.WriteTime += time.Since(start)
		m.FilesGenerated++
		m.TotalBytes += int64(len(formatted))
	})
	return target, nil
}

func (w *writer) replace(name string, data []byte) error {
	tmp, err := os.CreateTemp(w.dir, "."+name+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(w.dir, name))
}
