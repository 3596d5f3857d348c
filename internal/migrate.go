package internal

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate brings the orders schema up to the latest embedded version.
func Migrate(db *sql.DB, logger *zap.SugaredLogger) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("migrate orders schema: %w", err)
	}
	return nil
}

type gooseLogger struct {
	*zap.SugaredLogger
}

func (l gooseLogger) Print(v ...interface{}) {
	l.Info(v...)
}

func (l gooseLogger) Println(v ...interface{}) {
	l.Info(v...)
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.Infof(format, v...)
}
