// Package migrate applies the embedded blog schema migrations on startup.
package migrate

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/and161185/blog-api/migrations"
)

// seams for tests
var (
	gooseUp      = goose.UpContext
	gooseVersion = goose.GetDBVersionContext
)

// gooseLogger routes goose output through zap.
type gooseLogger struct{ s *zap.SugaredLogger }

func (l gooseLogger) Printf(format string, v ...any) { l.s.Infof(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...any) { l.s.Fatalf(format, v...) }

// Up opens dsn and runs all pending migrations.
func Up(ctx context.Context, dsn string, log *zap.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	return apply(ctx, db, log)
}

// apply migrates db and logs the schema version before and after.
func apply(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{s: log.Named("goose").Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	from, err := gooseVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("schema version: %w", err)
	}
	if err := gooseUp(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate up from %d: %w", from, err)
	}
	to, err := gooseVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("schema version: %w", err)
	}

	if to == from {
		log.Info("schema up to date", zap.Int64("version", to))
		return nil
	}
	log.Info("schema migrated", zap.Int64("from", from), zap.Int64("to", to))
	return nil
}
