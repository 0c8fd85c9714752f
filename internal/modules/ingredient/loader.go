package ingredient

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// ImportResult counts what an import did.
type ImportResult struct {
	Created int
	Skipped int
}

// Import reads "name,measurement_unit" rows and inserts the pairs that are not
// in the catalogue yet. Running it twice over the same file creates nothing
// the second time. A first row reading "name,measurement_unit" is treated as
// a header.
func Import(ctx context.Context, r io.Reader, store Upserter, log *zap.Logger) (ImportResult, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var res ImportResult
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read line %d: %w", line, err)
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		if len(rec) < 2 {
			return res, fmt.Errorf("line %d: expected name and measurement unit, got %d fields", line, len(rec))
		}

		name, unit := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		if name == "" || unit == "" {
			log.Warn("skipping incomplete ingredient row", zap.Int("line", line))
			res.Skipped++
			continue
		}

		_, created, err := store.FirstOrCreate(ctx, name, unit)
		if err != nil {
			return res, fmt.Errorf("line %d: store %q: %w", line, name, err)
		}
		if created {
			res.Created++
		} else {
			res.Skipped++
		}
	}

	log.Info("ingredients imported", zap.Int("created", res.Created), zap.Int("skipped", res.Skipped))
	return res, nil
}

func isHeader(rec []string) bool {
	return len(rec) >= 2 &&
		strings.EqualFold(strings.TrimSpace(rec[0]), "name") &&
		strings.EqualFold(strings.TrimSpace(rec[1]), "measurement_unit")
}
