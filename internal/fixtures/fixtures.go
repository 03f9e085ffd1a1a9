// Package fixtures seeds the database from declarative JSON files. Groups
// have no public creation endpoint, so a fixture file is how a deployment
// gets its communities.
package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/avolkov/yatube/internal/apperror"
	"github.com/avolkov/yatube/internal/service"
)

type groupFixture struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// LoadGroups reads a JSON array of groups and creates any that do not exist
// yet. Loading the same file twice is a no-op: a slug that already exists is
// skipped, so the file can stay in place across restarts.
func LoadGroups(ctx context.Context, path string, groups *service.GroupService, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("fixtures: reading %s: %w", path, err)
	}

	var entries []groupFixture
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("fixtures: parsing %s: %w", path, err)
	}

	created := 0
	for _, entry := range entries {
		_, err := groups.Create(ctx, entry.Title, entry.Slug, entry.Description)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperror.ErrConflict):
			// Already seeded on a previous run.
		default:
			return fmt.Errorf("fixtures: creating group %q: %w", entry.Slug, err)
		}
	}

	logger.Info("group fixtures loaded",
		slog.String("path", path),
		slog.Int("total", len(entries)),
		slog.Int("created", created),
	)

	return nil
}
