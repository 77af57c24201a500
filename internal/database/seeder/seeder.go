package seeder

import (
	"context"

	"jobmatch/internal/database"
)

// Seeder inserts reference or sample rows. Implementations must be safe to re-run.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Names lists seeders in run order, for logging.
func Names(seeders []Seeder) []string {
	out := make([]string, 0, len(seeders))
	for _, s := range seeders {
		if s != nil {
			out = append(out, s.Name())
		}
	}
	return out
}
