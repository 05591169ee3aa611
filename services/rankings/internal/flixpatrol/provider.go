package flixpatrol

import (
	"context"

	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/catalog"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
)

// Fetcher is the port for reading one ranked section of a platform page.
type Fetcher interface {
	FetchSection(ctx context.Context, platform catalog.Platform, section string) ([]model.RawItem, error)
}

var _ Fetcher = (*Client)(nil)
