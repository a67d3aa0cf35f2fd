package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-charts/internal/types"
)

// DataGenerator generates realistic daily or weekly bar series for tests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// Ticker is the symbol stored on the series (e.g., "AAPL", "BTC-USD")
	Ticker string
	// Interval is the series interval; daily bars step one day, weekly bars seven
	Interval types.Interval
	// StartDate is the date of the first bar
	StartDate time.Time
	// Count is the number of bars to generate
	Count int
	// SkipWeekends leaves out Saturdays and Sundays for daily bars
	SkipWeekends bool
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical move per bar)
	Volatility float64
	// Trend is the drift factor (-0.01 to 0.01 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration: one year of weekday daily bars.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Ticker:         "TEST",
		Interval:       types.IntervalDaily,
		StartDate:      types.Date(2024, time.January, 2),
		Count:          252,
		SkipWeekends:   true,
		InitialPrice:   100.0,
		Volatility:     0.015, // 1.5% per bar
		Trend:          0.0,   // neutral
		VolumeBase:     1000000,
		VolumeVariance: 0.3,
	}
}

// Generate creates a series following a geometric Brownian motion model.
func (g *DataGenerator) Generate(config GeneratorConfig) types.Series {
	series := types.NewSeries(config.Ticker, config.Interval)
	series.Bars = make([]types.Bar, 0, config.Count)

	currentPrice := config.InitialPrice
	currentDate := types.DateOf(config.StartDate)

	for i := 0; i < config.Count; i++ {
		currentDate = g.skipClosedDays(config, currentDate)
		open := currentPrice

		// Box-Muller transform for a normal sample
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count) // Distribute trend across bars

		closePrice := open * (1 + priceChange + drift)
		if closePrice <= 0 {
			closePrice = open * 0.99 // Prevent negative prices
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, closePrice) + highExtension
		low := math.Min(open, closePrice) - lowExtension

		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation

		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		series.Bars = append(series.Bars, types.Bar{
			Time:   currentDate,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(closePrice, 4),
			Volume: math.Round(volume),
		})

		currentPrice = closePrice
		currentDate = nextDate(config.Interval, currentDate)
	}

	return series
}

// GenerateDaily is a convenience function for count weekday bars starting at start.
func GenerateDaily(ticker string, start time.Time, count int) types.Series {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Ticker = ticker
	config.StartDate = start
	config.Count = count

	return gen.Generate(config)
}

// GenerateWeekly is a convenience function for count weekly bars starting at start.
func GenerateWeekly(ticker string, start time.Time, count int) types.Series {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Ticker = ticker
	config.Interval = types.IntervalWeekly
	config.StartDate = start
	config.Count = count
	config.SkipWeekends = false
	config.Volatility = 0.03

	return gen.Generate(config)
}

func (g *DataGenerator) skipClosedDays(config GeneratorConfig, date time.Time) time.Time {
	if !config.SkipWeekends || config.Interval != types.IntervalDaily {
		return date
	}

	for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		date = date.AddDate(0, 0, 1)
	}

	return date
}

func nextDate(interval types.Interval, date time.Time) time.Time {
	if interval == types.IntervalWeekly {
		return date.AddDate(0, 0, 7)
	}

	return date.AddDate(0, 0, 1)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
