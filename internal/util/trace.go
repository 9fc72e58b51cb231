package util

import (
	"os"
	"path/filepath"
	"runtime/pprof"
	"runtime/trace"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// StartTrace writes a runtime trace to path until the returned stop func is
// called. An empty path disables tracing.
func StartTrace(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}

	f, err := create(path)
	if err != nil {
		return nil, err
	}
	if err := trace.Start(f); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "starting trace")
	}

	return func() {
		trace.Stop()
		closeFile(f)
	}, nil
}

// StartCPUProfile is StartTrace for pprof CPU profiles.
func StartCPUProfile(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}

	f, err := create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "starting cpu profile")
	}

	return func() {
		pprof.StopCPUProfile()
		closeFile(f)
	}, nil
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "creating trace directory")
	}
	f, err := os.Create(path)
	return f, errors.Wrap(err, "creating trace file")
}

func closeFile(f *os.File) {
	if err := f.Close(); err != nil {
		log.WithFields(log.Fields{
			"error": err,
		}).Warn("failed to close trace file")
	}
}
