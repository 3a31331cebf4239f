package course

import (
	"context"
	_ "embed"
	"encoding/json"

	goerrors "github.com/goliatone/go-errors"
)

//go:embed data/courses.json
var seedData []byte

// Seed loads the bundled catalog fixtures when the courses table is empty.
// Repeated boots are a no-op, the check keys off row count rather than a
// marker so a hand-curated catalog is never overwritten.
func Seed(ctx context.Context, repo Courses) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	var records []Course
	if err := json.Unmarshal(seedData, &records); err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode course fixtures")
	}

	seeded := 0
	for i := range records {
		record := records[i]
		record.ApplyDefaults()
		if _, err := repo.Create(ctx, &record); err != nil {
			return seeded, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to seed course")
		}
		seeded++
	}

	return seeded, nil
}
