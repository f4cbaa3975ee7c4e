package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// Archiver uploads a CSV and JSON snapshot of each completed scan to object
// storage under "opportunities/{date}/{timestamp}.{ext}". It implements the
// scanner sink interface; upload failures are reported, never scan-fatal.
type Archiver struct {
	writer domain.BlobWriter
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// NewArchiver creates an Archiver writing under the given key prefix.
func NewArchiver(writer domain.BlobWriter, prefix string, logger *slog.Logger) *Archiver {
	if prefix == "" {
		prefix = "opportunities"
	}
	return &Archiver{
		writer: writer,
		prefix: prefix,
		logger: logger.With(slog.String("component", "export_archiver")),
		now:    time.Now,
	}
}

// Name identifies the sink.
func (a *Archiver) Name() string { return "s3_archiver" }

// Consume uploads both export formats for the scan. Empty scans are skipped.
func (a *Archiver) Consume(ctx context.Context, opps []domain.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}

	ts := a.now().UTC()
	base := fmt.Sprintf("%s/%s/%s", a.prefix, ts.Format("2006-01-02"), ts.Format("150405"))

	csvData, err := CSV(opps)
	if err != nil {
		return err
	}
	if err := a.writer.Put(ctx, base+".csv", bytes.NewReader(csvData), "text/csv"); err != nil {
		return fmt.Errorf("export: archive csv: %w", err)
	}

	jsonData, err := JSON(opps)
	if err != nil {
		return err
	}
	if err := a.writer.Put(ctx, base+".json", bytes.NewReader(jsonData), "application/json"); err != nil {
		return fmt.Errorf("export: archive json: %w", err)
	}

	a.logger.Info("scan export archived",
		slog.String("key", base),
		slog.Int("opportunities", len(opps)),
	)
	return nil
}
