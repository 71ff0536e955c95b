package export

import (
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Sink saves an exported file somewhere the operator can pick it up.
type Sink interface {
	Save(filename string, data []byte) (string, error)
}

// DirSink writes exports into a directory of an afero filesystem.
type DirSink struct {
	fs  afero.Fs
	dir string
}

// NewDirSink creates a sink rooted at dir.
func NewDirSink(fs afero.Fs, dir string) *DirSink {
	return &DirSink{fs: fs, dir: dir}
}

// Save writes data to dir/filename and returns the path written.
func (s *DirSink) Save(filename string, data []byte) (string, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create export dir %s", s.dir)
	}
	path := filepath.Join(s.dir, filepath.Base(filename))
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "write export %s", path)
	}
	return path, nil
}

// Result describes where an export ended up.
type Result struct {
	Filename string `json:"filename"`
	Path     string `json:"path,omitempty"`
	Logged   bool   `json:"logged"`
	Data     []byte `json:"-"`
}

// Exporter hands export files to a Sink. When there is no sink, or the sink
// fails, the whole content goes to the log instead so it is never lost.
type Exporter struct {
	sink   Sink
	logger log.FieldLogger
}

// NewExporter creates an exporter. sink may be nil.
func NewExporter(sink Sink, logger log.FieldLogger) *Exporter {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Exporter{sink: sink, logger: logger}
}

// Export delivers data and always returns it in the result.
func (e *Exporter) Export(filename string, data []byte) Result {
	res := Result{Filename: filename, Data: data}
	if e.sink != nil {
		path, err := e.sink.Save(filename, data)
		if err == nil {
			res.Path = path
			e.logger.WithFields(log.Fields{"file": path, "bytes": len(data)}).Info("export saved")
			return res
		}
		e.logger.WithError(err).WithField("file", filename).Warn("export sink failed, writing content to log")
	}
	res.Logged = true
	e.logger.WithField("file", filename).Warnf("export content:\n%s", data)
	return res
}
