// Package scheduler programa el archivo nocturno del reporte diario.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/bakery-inventory/internal/application/report"
	"github.com/jhoicas/bakery-inventory/internal/domain/inventory"
)

// ReportGenerator genera el PDF de una fecha.
type ReportGenerator interface {
	GenerateDailyReport(ctx context.Context, date string) (*report.File, error)
}

// Archiver guarda el reporte del día en dir según una expresión cron.
type Archiver struct {
	cron    *cron.Cron
	spec    string
	dir     string
	reports ReportGenerator
	today   func() time.Time
	log     zerolog.Logger
	timeout time.Duration
}

// NewArchiver crea el archivador. Las expresiones cron se evalúan en loc.
func NewArchiver(spec, dir string, loc *time.Location, reports ReportGenerator, today func() time.Time, log zerolog.Logger) *Archiver {
	if loc == nil {
		loc = time.Local
	}
	if today == nil {
		today = func() time.Time { return time.Now().In(loc) }
	}
	return &Archiver{
		cron:    cron.New(cron.WithLocation(loc)),
		spec:    spec,
		dir:     dir,
		reports: reports,
		today:   today,
		log:     log,
		timeout: 2 * time.Minute,
	}
}

// Start registra el job y arranca el cron.
func (a *Archiver) Start() error {
	if _, err := a.cron.AddFunc(a.spec, a.run); err != nil {
		return fmt.Errorf("scheduler: expresión cron %q: %w", a.spec, err)
	}
	a.log.Info().Str("cron", a.spec).Str("dir", a.dir).Msg("archivo de reportes programado")
	a.cron.Start()
	return nil
}

// Stop detiene el cron y espera al job en curso.
func (a *Archiver) Stop() {
	<-a.cron.Stop().Done()
}

func (a *Archiver) run() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	path, err := a.ArchiveDate(ctx, inventory.FormatDate(a.today()))
	if err != nil {
		a.log.Error().Err(err).Msg("error al archivar reporte")
		return
	}
	a.log.Info().Str("path", path).Msg("reporte archivado")
}

// ArchiveDate genera el reporte de date y lo escribe en el directorio de archivo.
func (a *Archiver) ArchiveDate(ctx context.Context, date string) (string, error) {
	file, err := a.reports.GenerateDailyReport(ctx, date)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("scheduler: crear directorio: %w", err)
	}
	path := filepath.Join(a.dir, file.Name)
	if err := os.WriteFile(path, file.Content, 0o644); err != nil {
		return "", fmt.Errorf("scheduler: escribir %s: %w", path, err)
	}
	return path, nil
}
