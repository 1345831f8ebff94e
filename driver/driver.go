package driver

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// ConnectDB opens and pings a database. driverName is "mysql" or "sqlite".
func ConnectDB(ctx context.Context, driverName, dsn string) (*sql.DB, error) {
	switch driverName {
	case "mysql", "sqlite":
	default:
		return nil, errors.Errorf("unsupported database driver %q", driverName)
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", driverName)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "connect to %s database", driverName)
	}
	return db, nil
}
