package seeder

import (
	"context"

	"skill-swap/internal/database"
)

// Seeder inserts demo users or skill posts. Run reports how many rows it
// inserted; a second run against the same database inserts none.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) (int64, error)
}

// Report is the per-seeder insert count of one Runner pass.
type Report struct {
	Inserted map[string]int64
}

// Total is the number of rows inserted across all seeders.
func (r Report) Total() int64 {
	var n int64
	for _, v := range r.Inserted {
		n += v
	}
	return n
}

// ChangedSkillPosts reports whether any user or skill post row was added,
// which means cached recommendations no longer reflect the database.
func (r Report) ChangedSkillPosts() bool {
	return r.Total() > 0
}
