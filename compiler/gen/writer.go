package gen

import (
	"context"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/sqlauto/compiler/load"
)

// Writer writes the model files of a TableData and the init-models
// aggregator into the configured directory.
type Writer struct {
	data    *load.TableData
	cfg     *Config
	sink    Sink
	log     *zap.Logger
	workers int

	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks what the last Write produced.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithSink sets where files are written. Defaults to DirSink.
func WithSink(s Sink) WriterOption {
	return func(w *Writer) {
		if s != nil {
			w.sink = s
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) WriterOption {
	return func(w *Writer) {
		if l != nil {
			w.log = l
		}
	}
}

// WithWorkers sets the number of parallel writes.
func WithWorkers(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.workers = n
		}
	}
}

// NewWriter returns a Writer for td. It fails if the configuration is
// invalid or a relation references a table missing from td.
func NewWriter(td *load.TableData, cfg *Config, opts ...WriterOption) (*Writer, error) {
	if td == nil {
		return nil, NewConfigError("TableData", nil, "table data cannot be nil")
	}
	if cfg == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := td.Validate(); err != nil {
		return nil, err
	}
	w := &Writer{
		data:    td,
		cfg:     cfg,
		sink:    DirSink{},
		log:     zap.NewNop(),
		workers: runtime.GOMAXPROCS(0),
		metrics: &WriterMetrics{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Metrics returns the metrics of the last Write.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.metrics
}

// fileTask represents a single file to write.
type fileTask struct {
	path string
	data string
}

// Files returns the files Write would produce, keyed by path.
func (w *Writer) Files() (map[string]string, error) {
	tasks, err := w.tasks()
	if err != nil {
		return nil, err
	}
	files := make(map[string]string, len(tasks))
	for _, t := range tasks {
		files[t.path] = t.data
	}
	return files, nil
}

// tasks returns one task per output path. Tables whose model files land
// on the same path keep the text of the last one in name order.
func (w *Writer) tasks() ([]fileTask, error) {
	var (
		qnames = w.data.TableNames()
		tables = make([]string, len(qnames))
		tasks  = make([]fileTask, 0, len(qnames)+1)
		seen   = make(map[string]int, len(qnames))
	)
	for i, q := range qnames {
		_, tables[i] = load.SplitQName(q)
		t := fileTask{path: w.modelPath(tables[i]), data: w.data.Text[q]}
		if j, ok := seen[t.path]; ok {
			tasks[j] = t
			continue
		}
		seen[t.path] = len(tasks)
		tasks = append(tasks, t)
	}
	if w.cfg.NoInitModels {
		return tasks, nil
	}
	assoc, err := AssociationText(w.data.Relations, w.data.ForeignKeys, w.cfg)
	if err != nil {
		return nil, err
	}
	tasks = append(tasks, fileTask{
		path: filepath.Join(w.cfg.Directory, InitFile+w.cfg.Ext()),
		data: InitModels(tables, assoc, w.cfg),
	})
	return tasks, nil
}

func (w *Writer) modelPath(table string) string {
	return filepath.Join(w.cfg.Directory, w.cfg.FileName(table)+w.cfg.Ext())
}

// Write creates the output directory and writes every file concurrently.
// It returns once all writes settled, reporting the first failure. Files
// written before a failure are left in place. Write does nothing when the
// NoWrite option is set.
func (w *Writer) Write(ctx context.Context) error {
	if w.cfg.NoWrite {
		w.log.Debug("write skipped")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tasks, err := w.tasks()
	if err != nil {
		return err
	}
	w.warnCollisions()
	if err := w.sink.MkdirAll(w.cfg.Directory); err != nil {
		return NewGenerationError("mkdir", w.cfg.Directory, "create output directory", err)
	}

	w.mu.Lock()
	w.metrics = &WriterMetrics{}
	w.mu.Unlock()

	var eg errgroup.Group
	eg.SetLimit(w.workers)
	for _, t := range tasks {
		eg.Go(func() error {
			return w.writeFile(t)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	m := w.Metrics()
	w.log.Info("models written",
		zap.String("dir", w.cfg.Directory),
		zap.Int("files", m.FilesGenerated),
		zap.Int64("bytes", m.TotalBytes),
	)
	return nil
}

func (w *Writer) writeFile(t fileTask) error {
	if err := w.sink.WriteFile(t.path, []byte(t.data)); err != nil {
		return NewGenerationError("write", t.path, "", err)
	}
	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(t.data))
	w.mu.Unlock()
	w.log.Debug("file written", zap.String("path", t.path), zap.Int("bytes", len(t.data)))
	return nil
}

// warnCollisions logs tables that map to the same model identifier or to
// the same model file. The generated bindings keep the last declaration
// and the file holds the last table in name order.
func (w *Writer) warnCollisions() {
	qnames := w.data.TableNames()
	collisions := ModelCollisions(qnames, w.cfg)
	models := make([]string, 0, len(collisions))
	for m := range collisions {
		models = append(models, m)
	}
	sort.Strings(models)
	for _, m := range models {
		w.log.Warn("model name collision",
			zap.String("model", m),
			zap.String("tables", strings.Join(collisions[m], ", ")),
		)
	}
	var (
		paths  []string
		byPath = make(map[string][]string)
	)
	for _, q := range qnames {
		_, t := load.SplitQName(q)
		p := w.modelPath(t)
		if len(byPath[p]) == 1 {
			paths = append(paths, p)
		}
		byPath[p] = append(byPath[p], q)
	}
	for _, p := range paths {
		w.log.Warn("model file collision",
			zap.String("path", p),
			zap.String("tables", strings.Join(byPath[p], ", ")),
			zap.String("kept", byPath[p][len(byPath[p])-1]),
		)
	}
}
