package export

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Saver persists a finished artifact and returns its final location.
type Saver interface {
	Save(name string, data []byte) (string, error)
}

// DirSaver writes artifacts into a directory, creating it on demand.
type DirSaver struct {
	Dir string
}

// NewDirSaver creates a saver rooted at dir. An empty dir means the
// current working directory.
func NewDirSaver(dir string) *DirSaver {
	if dir == "" {
		dir = "."
	}
	return &DirSaver{Dir: dir}
}

// Save writes data to dir/name and returns the full path.
func (s *DirSaver) Save(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// MemSaver keeps artifacts in memory, for tests and previews.
type MemSaver struct {
	Artifacts map[string][]byte
}

// NewMemSaver creates an empty in-memory saver.
func NewMemSaver() *MemSaver {
	return &MemSaver{Artifacts: make(map[string][]byte)}
}

// Save stores data under name.
func (s *MemSaver) Save(name string, data []byte) (string, error) {
	buf := make([]byte, len(data))
	copy(buf, data)
	s.Artifacts[name] = buf
	return name, nil
}

// Notifier receives exactly one notice per export attempt: Done on
// success, Failed on failure. Rejected requests (export already in
// progress) produce no notice.
type Notifier interface {
	Done(res *Result)
	Failed(format string, err error)
}

// NopNotifier discards all notices.
type NopNotifier struct{}

func (NopNotifier) Done(*Result)         {}
func (NopNotifier) Failed(string, error) {}

// LogNotifier reports outcomes through a logger.
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a notifier backed by logger.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Done(res *Result) {
	n.logger.Info("saved "+Describe(res.Format), "file", res.Path, "slides", res.Slides)
}

func (n *LogNotifier) Failed(format string, err error) {
	n.logger.Error("could not export "+Describe(format), "err", err)
}

var (
	_ Saver    = (*DirSaver)(nil)
	_ Saver    = (*MemSaver)(nil)
	_ Notifier = NopNotifier{}
	_ Notifier = (*LogNotifier)(nil)
)
