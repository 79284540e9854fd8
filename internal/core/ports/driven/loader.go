package driven

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// Loader decodes one file format into text units.
// Each domain.Format has exactly one Loader.
type Loader interface {
	// Format returns the format this loader decodes.
	Format() domain.Format

	// Load decodes the file content. name is used only for error reporting.
	// Failures are returned as *domain.LoadError.
	Load(ctx context.Context, name string, data []byte) ([]domain.RawUnit, error)
}
