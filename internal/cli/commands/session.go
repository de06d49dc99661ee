package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/datapilot/internal/cli/ui"
	"github.com/JonMunkholm/datapilot/internal/core"
)

// loadSession parses and validates local files into a fresh session.
// Files that fail to parse are reported on p and left out; an error is
// returned only when none could be loaded.
func loadSession(ctx context.Context, opts *globalOptions, paths []string, p *ui.Printer) (*core.Service, []*core.DataFile, error) {
	var category core.Category
	if opts.category != "" {
		c, err := core.ParseCategory(opts.category)
		if err != nil {
			return nil, nil, err
		}
		category = c
	}

	inputs := make([]core.UploadInput, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			closeInputs(inputs)
			return nil, nil, fmt.Errorf("open %s: %w", path, err)
		}
		inputs = append(inputs, core.UploadInput{Name: filepath.Base(path), Reader: f, Category: category})
	}
	defer closeInputs(inputs)

	svc := core.NewService(core.ServiceConfig{MaxFileSize: opts.maxSize}, nil)
	outcomes, err := svc.UploadBatch(ctx, inputs)
	if err != nil {
		return nil, nil, err
	}

	var files []*core.DataFile
	for _, o := range outcomes {
		if !o.OK() {
			p.Error("%s: %s", o.FileName, o.Error)
			continue
		}
		files = append(files, o.File)
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no file could be loaded: %w", outcomes[0].Err)
	}
	return svc, files, nil
}

func closeInputs(inputs []core.UploadInput) {
	for _, in := range inputs {
		if c, ok := in.Reader.(io.Closer); ok {
			c.Close()
		}
	}
}

// createOutput opens path for writing, or returns stdout for "-".
func createOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
