package seeder

import (
	"context"
	"fmt"
	"log"

	"skill-swap/internal/database"
)

// Runner applies seeders in order, users before the skill posts that
// reference them, and stops at the first failure.
type Runner struct {
	Seeders []Seeder
	Logger  *log.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) (Report, error) {
	report := Report{Inserted: map[string]int64{}}
	if db == nil {
		return report, fmt.Errorf("nil db")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		n, err := s.Run(ctx, db)
		if err != nil {
			return report, fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		report.Inserted[s.Name()] = n
		if r.Logger != nil {
			r.Logger.Printf("Seeder done | name=%s inserted=%d", s.Name(), n)
		}
	}
	return report, nil
}
