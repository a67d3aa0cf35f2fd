package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-charts/internal/logger"
	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/internal/version"
	"github.com/rxtech-lab/argo-charts/pkg/errors"
	"github.com/rxtech-lab/argo-charts/pkg/marketdata/writer"
	"go.uber.org/zap"
)

// versionFile marks the cache layout version inside the data directory.
const versionFile = "VERSION"

// Coverage describes what a cache file holds.
type Coverage struct {
	Ticker   string
	Interval types.Interval
	Path     string
	Exists   bool
	First    time.Time
	Last     time.Time
	Rows     int
}

// Store is the parquet time series cache. One file per (ticker, interval) lives
// under the data directory and is always read and written whole.
type Store struct {
	dataDir   string
	db        *sql.DB
	sq        squirrel.StatementBuilderType
	logger    *logger.Logger
	newWriter func(outputPath string) writer.MarketDataWriter
}

// NewStore opens an in-memory DuckDB connection used to query the parquet files in dataDir.
func NewStore(dataDir string, log *logger.Logger) (*Store, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCacheReadFailed, "failed to open DuckDB connection", err)
	}

	return &Store{
		dataDir:   dataDir,
		db:        db,
		sq:        squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		logger:    log,
		newWriter: writer.NewParquetWriter,
	}, nil
}

// Close releases the DuckDB connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DataDir returns the cache directory.
func (s *Store) DataDir() string {
	return s.dataDir
}

// SanitizeTicker maps a ticker to a file name safe string. Letters, digits, '.', '-' and '_' are kept.
func SanitizeTicker(ticker string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(ticker))
}

// Path returns the cache file of the key, e.g. data/AAPL_d.parquet.
func (s *Store) Path(ticker string, interval types.Interval) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("%s_%s.parquet", SanitizeTicker(ticker), interval.FileSuffix()))
}

// Load reads the cached series. A missing, unreadable or empty file is reported as None;
// the reason is logged, never returned.
func (s *Store) Load(ticker string, interval types.Interval) optional.Option[types.Series] {
	path := s.Path(ticker, interval)

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Cannot access cache file", zap.String("path", path), zap.Error(err))
		}

		return optional.None[types.Series]()
	}

	s.logger.Debug("Loading cached series",
		zap.String("ticker", ticker),
		zap.String("interval", interval.String()),
		zap.String("path", path),
	)

	bars, err := s.readBars(path)
	if err != nil {
		s.logger.Warn("Failed to read cache file, treating as absent",
			zap.String("ticker", ticker),
			zap.String("interval", interval.String()),
			zap.String("path", path),
			zap.Error(err),
		)

		return optional.None[types.Series]()
	}

	if len(bars) == 0 {
		s.logger.Info("Cache file is empty or has no valid time index",
			zap.String("ticker", ticker),
			zap.String("interval", interval.String()),
		)

		return optional.None[types.Series]()
	}

	series := types.NewSeries(ticker, interval).WithBars(bars)

	s.logger.Info("Loaded cached series",
		zap.String("ticker", ticker),
		zap.String("interval", interval.String()),
		zap.Time("first", series.First()),
		zap.Time("last", series.Last()),
		zap.Int("rows", series.Len()),
	)

	return optional.Some(series)
}

func (s *Store) readBars(path string) ([]types.Bar, error) {
	query, args, err := s.sq.
		Select("time", "open", "high", "low", "close", "volume").
		From(parquetSource(path)).
		Where(squirrel.NotEq{"time": nil}).
		OrderBy("time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bars := []types.Bar{}

	for rows.Next() {
		var (
			bar    types.Bar
			volume sql.NullFloat64
		)

		if err := rows.Scan(&bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &volume); err != nil {
			return nil, err
		}

		bar.Time = types.NormalizeTime(bar.Time)
		bar.Volume = volume.Float64

		// ORDER BY keeps duplicates adjacent; the later row wins
		if n := len(bars); n > 0 && bars[n-1].Time.Equal(bar.Time) {
			bars[n-1] = bar

			continue
		}

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bars, nil
}

// Save replaces the cached series of the key with series. The file is written to a
// temporary name in the same directory and renamed, so readers never see a partial file.
// An empty series is not written.
func (s *Store) Save(series types.Series, ticker string, interval types.Interval) error {
	path := s.Path(ticker, interval)

	if series.IsEmpty() {
		s.logger.Info("Series is empty, nothing to save",
			zap.String("ticker", ticker),
			zap.String("interval", interval.String()),
		)

		return nil
	}

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeCacheWriteFailed, err, "failed to create data directory %s", s.dataDir)
	}

	tmpPath := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())

	w := s.newWriter(tmpPath)
	if err := w.Initialize(); err != nil {
		return errors.Wrap(errors.ErrCodeCacheWriteFailed, "failed to initialize parquet writer", err)
	}

	_, err := writer.WriteSeries(w, series)

	if closeErr := w.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(tmpPath)

		return errors.Wrapf(errors.ErrCodeCacheWriteFailed, err, "failed to write %s", path)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)

		return errors.Wrapf(errors.ErrCodeCacheWriteFailed, err, "failed to replace %s", path)
	}

	s.logger.Info("Saved series to cache",
		zap.String("ticker", ticker),
		zap.String("interval", interval.String()),
		zap.String("path", path),
		zap.Int("rows", series.Len()),
	)

	return nil
}

// Coverage reports the date span and row count of the cached file without loading it.
func (s *Store) Coverage(ticker string, interval types.Interval) (Coverage, error) {
	path := s.Path(ticker, interval)
	coverage := Coverage{
		Ticker:   ticker,
		Interval: interval,
		Path:     path,
		Exists:   false,
		First:    time.Time{},
		Last:     time.Time{},
		Rows:     0,
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return coverage, nil
	}

	query, args, err := s.sq.
		Select("MIN(time)", "MAX(time)", "COUNT(*)").
		From(parquetSource(path)).
		Where(squirrel.NotEq{"time": nil}).
		ToSql()
	if err != nil {
		return coverage, errors.Wrap(errors.ErrCodeCacheReadFailed, "failed to build coverage query", err)
	}

	var first, last sql.NullTime

	if err := s.db.QueryRow(query, args...).Scan(&first, &last, &coverage.Rows); err != nil {
		return coverage, errors.Wrapf(errors.ErrCodeCacheCorrupt, err, "failed to read %s", path)
	}

	coverage.Exists = true

	if first.Valid {
		coverage.First = types.NormalizeTime(first.Time)
	}

	if last.Valid {
		coverage.Last = types.NormalizeTime(last.Time)
	}

	return coverage, nil
}

// CheckFormat verifies the VERSION marker of the data directory against the layout this
// build writes. A directory without a marker is stamped with the current format.
func (s *Store) CheckFormat() error {
	path := filepath.Join(s.dataDir, versionFile)

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
			return errors.Wrapf(errors.ErrCodeCacheWriteFailed, err, "failed to create data directory %s", s.dataDir)
		}

		if err := os.WriteFile(path, []byte(version.CacheFormat+"\n"), 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeCacheWriteFailed, "failed to write cache version marker", err)
		}

		return nil
	}

	if err != nil {
		return errors.Wrap(errors.ErrCodeCacheReadFailed, "failed to read cache version marker", err)
	}

	if err := version.CheckCacheCompatibility(version.CacheFormat, string(content)); err != nil {
		return errors.Wrapf(errors.ErrCodeCacheVersionMismatch, err, "cache directory %s is not compatible", s.dataDir)
	}

	return nil
}

// parquetSource is the table function reading path. Squirrel has no placeholder support
// in FROM, so the path is quoted inline.
func parquetSource(path string) string {
	return fmt.Sprintf("read_parquet('%s')", strings.ReplaceAll(path, "'", "''"))
}
