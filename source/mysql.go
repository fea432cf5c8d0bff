package source

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// MySQLSource loads a stored sequence, one row per element ordered by id:
//
//	CREATE TABLE Basic (ID INT PRIMARY KEY, Value DOUBLE NOT NULL);
type MySQLSource struct {
	DB *sqlx.DB
	// validated by config, interpolated into the statement
	Table string
}

func OpenMySQL(dsn string, table string, timeout time.Duration) (*MySQLSource, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping mysql")
	}

	return &MySQLSource{DB: db, Table: table}, nil
}

func (s *MySQLSource) Sequence(ctx context.Context) ([]float64, error) {
	var values []float64
	query := fmt.Sprintf("SELECT Value FROM %s ORDER BY ID", s.Table)
	if err := s.DB.SelectContext(ctx, &values, query); err != nil {
		return nil, errors.Wrapf(err, "load sequence from %s", s.Table)
	}
	log.Infof("loaded %d elements from %s", len(values), s.Table)
	return values, nil
}

func (s *MySQLSource) Close() error {
	return s.DB.Close()
}
