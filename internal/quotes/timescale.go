package quotes

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/mohamedkhairy/stock-signals/internal/config"
	"github.com/mohamedkhairy/stock-signals/internal/models"
	"github.com/mohamedkhairy/stock-signals/pkg/logger"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// TimescaleSource reads closing prices from a TimescaleDB bars table with
// (symbol, timestamp, close) columns
type TimescaleSource struct {
	db    *sql.DB
	query string
}

// NewTimescaleSource connects to TimescaleDB and reads quotes from table
func NewTimescaleSource(dbConfig config.DatabaseConfig, table string) (*TimescaleSource, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Database,
		dbConfig.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbConfig.MaxConnections)
	db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	src, err := NewTimescaleSourceFromDB(db, table)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Connected to TimescaleDB",
		logger.String("host", dbConfig.Host),
		logger.Int("port", dbConfig.Port),
		logger.String("database", dbConfig.Database),
		logger.String("table", table),
	)

	return src, nil
}

// NewTimescaleSourceFromDB creates a source over an open database handle
func NewTimescaleSourceFromDB(db *sql.DB, table string) (*TimescaleSource, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	return &TimescaleSource{
		db: db,
		query: fmt.Sprintf(`
		SELECT timestamp, close
		FROM %s
		WHERE symbol = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp ASC
	`, table),
	}, nil
}

// Name returns the provider name
func (t *TimescaleSource) Name() string {
	return "timescale"
}

// History retrieves the bars of symbol within [start, end]
func (t *TimescaleSource) History(ctx context.Context, symbol string, start, end time.Time) ([]models.Quote, error) {
	rows, err := t.db.QueryContext(ctx, t.query, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars: %w", err)
	}
	defer rows.Close()

	var quotes []models.Quote
	for rows.Next() {
		q := models.Quote{Symbol: symbol}
		if err := rows.Scan(&q.Timestamp, &q.AdjClose); err != nil {
			return nil, fmt.Errorf("failed to scan bar: %w", err)
		}
		quotes = append(quotes, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return quotes, nil
}

// Close closes the database connection
func (t *TimescaleSource) Close() error {
	return t.db.Close()
}
