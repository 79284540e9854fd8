package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// ErrDuplicateSource is the cause of a LoadError for a repeated file name.
var ErrDuplicateSource = errors.New("duplicate source name in batch")

// LoadResult is the outcome of loading a batch of files.
type LoadResult struct {
	// Documents are the loaded files in input order.
	Documents []domain.RawDocument

	// Failures are the files that could not be loaded, in input order.
	Failures []domain.FileFailure
}

// DocumentLoader dispatches files to the loader for their format.
type DocumentLoader struct {
	loaders map[domain.Format]driven.Loader
	workers int
}

// NewDocumentLoader creates a loader service over one loader per format.
// workers bounds the number of files decoded at once.
func NewDocumentLoader(workers int, loaders ...driven.Loader) *DocumentLoader {
	if workers <= 0 {
		workers = domain.DefaultLoadWorkers
	}
	byFormat := make(map[domain.Format]driven.Loader, len(loaders))
	for _, l := range loaders {
		byFormat[l.Format()] = l
	}
	return &DocumentLoader{
		loaders: byFormat,
		workers: workers,
	}
}

// Load reads one file into a RawDocument.
// Unknown extensions fail with *domain.UnsupportedFormatError and
// unreadable content with *domain.LoadError.
func (l *DocumentLoader) Load(ctx context.Context, file domain.SourceFile) (*domain.RawDocument, error) {
	format, err := domain.FormatForName(file.Name)
	if err != nil {
		return nil, err
	}

	loader, ok := l.loaders[format]
	if !ok {
		return nil, &domain.UnsupportedFormatError{SourceID: file.Name, Extension: filepath.Ext(file.Name)}
	}

	data := file.Data
	if data == nil && file.Path != "" {
		data, err = os.ReadFile(file.Path)
		if err != nil {
			return nil, &domain.LoadError{SourceID: file.Name, Err: fmt.Errorf("read file: %w", err)}
		}
	}

	units, err := loader.Load(ctx, file.Name, data)
	if err != nil {
		var loadErr *domain.LoadError
		if errors.As(err, &loadErr) {
			return nil, err
		}
		return nil, &domain.LoadError{SourceID: file.Name, Err: err}
	}

	return &domain.RawDocument{
		SourceID: file.Name,
		Format:   format,
		Units:    units,
	}, nil
}

// LoadAll loads files in parallel on a bounded worker pool.
// One failing file never stops the others. A later file with the same name
// as an earlier one fails with a LoadError.
func (l *DocumentLoader) LoadAll(ctx context.Context, files []domain.SourceFile) (*LoadResult, error) {
	done := logger.Stage("load")

	docs := make([]*domain.RawDocument, len(files))
	errs := make([]error, len(files))

	seen := make(map[string]bool, len(files))
	for i, f := range files {
		if seen[f.Name] {
			errs[i] = &domain.LoadError{SourceID: f.Name, Err: ErrDuplicateSource}
		}
		seen[f.Name] = true
	}

	pool, err := ants.NewPool(l.workers, ants.WithPanicHandler(func(p any) {
		logger.Warn("loader worker panic: %v", p)
	}))
	if err != nil {
		return nil, fmt.Errorf("create loader pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range files {
		if errs[i] != nil {
			continue
		}
		wg.Add(1)
		file := files[i]
		idx := i
		submitErr := pool.Submit(func() {
			defer wg.Done()
			// Stays set if Load panics.
			errs[idx] = &domain.LoadError{SourceID: file.Name, Err: errors.New("loader crashed")}
			doc, err := l.Load(ctx, file)
			docs[idx], errs[idx] = doc, err
		})
		if submitErr != nil {
			wg.Done()
			errs[idx] = &domain.LoadError{SourceID: file.Name, Err: submitErr}
		}
	}
	wg.Wait()

	result := &LoadResult{}
	for i, f := range files {
		if errs[i] != nil {
			logger.Warn("load %s: %v", f.Name, errs[i])
			result.Failures = append(result.Failures, domain.FileFailure{SourceID: f.Name, Err: errs[i]})
			continue
		}
		result.Documents = append(result.Documents, *docs[i])
	}

	done("%d/%d files", len(result.Documents), len(files))
	return result, nil
}
