package watchlist

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rxtech-lab/argo-charts/internal/logger"
	"github.com/rxtech-lab/argo-charts/pkg/errors"
	"go.uber.org/zap"
)

// DefaultTickers is written when no watchlist file exists yet.
var DefaultTickers = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA", "VOW.DE", "META", "JPM", "BTC-USD", "ETH-USD",
}

// Store keeps the watchlist as a newline-delimited file. Every change rewrites the file.
type Store struct {
	path   string
	logger *logger.Logger
	mu     sync.Mutex
}

// NewStore creates a watchlist store backed by path.
func NewStore(path string, log *logger.Logger) *Store {
	return &Store{
		path:   path,
		logger: log,
		mu:     sync.Mutex{},
	}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// NormalizeTicker trims and upper-cases a symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Load reads the watchlist. A missing or empty file is replaced by the default list.
func (s *Store) Load() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Save replaces the watchlist with tickers. Blank entries and repeats are dropped.
func (s *Store) Save(tickers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(dedupe(tickers))
}

// Add appends ticker and returns the new list.
func (s *Store) Add(ticker string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbol := NormalizeTicker(ticker)
	if symbol == "" {
		return nil, errors.New(errors.ErrCodeInvalidTicker, "ticker cannot be empty")
	}

	tickers, err := s.load()
	if err != nil {
		return nil, err
	}

	if indexOf(tickers, symbol) >= 0 {
		return tickers, errors.Newf(errors.ErrCodeDuplicateTicker, "%s is already in the watchlist", symbol)
	}

	tickers = append(tickers, symbol)
	if err := s.save(tickers); err != nil {
		return nil, err
	}

	s.logger.Info("Added ticker to watchlist", zap.String("ticker", symbol))

	return tickers, nil
}

// Remove deletes ticker and returns the new list.
func (s *Store) Remove(ticker string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbol := NormalizeTicker(ticker)

	tickers, err := s.load()
	if err != nil {
		return nil, err
	}

	index := indexOf(tickers, symbol)
	if index < 0 {
		return tickers, errors.Newf(errors.ErrCodeTickerNotFound, "%s is not in the watchlist", symbol)
	}

	tickers = append(tickers[:index], tickers[index+1:]...)
	if err := s.save(tickers); err != nil {
		return nil, err
	}

	s.logger.Info("Removed ticker from watchlist", zap.String("ticker", symbol))

	return tickers, nil
}

func (s *Store) load() ([]string, error) {
	content, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(errors.ErrCodeWatchlistReadFailed, err, "failed to read watchlist %s", s.path)
	}

	tickers := parse(content)
	if len(tickers) > 0 {
		return tickers, nil
	}

	s.logger.Info("Watchlist is missing or empty, writing defaults", zap.String("path", s.path))

	defaults := append([]string(nil), DefaultTickers...)
	if err := s.save(defaults); err != nil {
		return nil, err
	}

	return defaults, nil
}

func (s *Store) save(tickers []string) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(errors.ErrCodeWatchlistWriteFailed, err, "failed to create directory for %s", s.path)
		}
	}

	var buf bytes.Buffer
	for _, ticker := range tickers {
		buf.WriteString(ticker)
		buf.WriteByte('\n')
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeWatchlistWriteFailed, err, "failed to write watchlist %s", s.path)
	}

	return nil
}

func parse(content []byte) []string {
	var tickers []string

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		tickers = append(tickers, scanner.Text())
	}

	return dedupe(tickers)
}

func dedupe(tickers []string) []string {
	out := make([]string, 0, len(tickers))
	seen := make(map[string]struct{}, len(tickers))

	for _, ticker := range tickers {
		symbol := NormalizeTicker(ticker)
		if symbol == "" {
			continue
		}

		if _, ok := seen[symbol]; ok {
			continue
		}

		seen[symbol] = struct{}{}
		out = append(out, symbol)
	}

	return out
}

func indexOf(tickers []string, symbol string) int {
	for i, ticker := range tickers {
		if ticker == symbol {
			return i
		}
	}

	return -1
}
