package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/geo"
)

// LocationProvider acquires the device's current position. Implementations
// wrap whatever platform facility is available; a failing provider aborts
// the current sampling cycle only.
type LocationProvider interface {
	Current(ctx context.Context) (geo.Point, error)
}

// FileProvider reads the current position from a JSON file maintained by a
// platform bridge (e.g. a gpsd adapter or the mobile shell dropping its last
// fix). The file holds {"latitude": ..., "longitude": ...}.
type FileProvider struct {
	Path string
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

func (p *FileProvider) Current(ctx context.Context) (geo.Point, error) {
	if err := ctx.Err(); err != nil {
		return geo.Point{}, err
	}

	data, err := os.ReadFile(p.Path)
	if err != nil {
		return geo.Point{}, fmt.Errorf("failed to read location file: %w", err)
	}

	var point geo.Point
	if err := json.Unmarshal(data, &point); err != nil {
		return geo.Point{}, fmt.Errorf("failed to parse location file: %w", err)
	}
	if !point.Valid() {
		return geo.Point{}, fmt.Errorf("location file holds an invalid coordinate: %+v", point)
	}

	return point, nil
}

// FixedProvider always reports the same position. Useful for development
// and tests.
type FixedProvider struct {
	Point geo.Point
}

func (p *FixedProvider) Current(ctx context.Context) (geo.Point, error) {
	if err := ctx.Err(); err != nil {
		return geo.Point{}, err
	}
	return p.Point, nil
}
