package types

import "fmt"

type IndicatorType string

const (
	IndicatorTypeSMA                  IndicatorType = "sma"
	IndicatorTypeBollingerBands       IndicatorType = "bollinger_bands"
	IndicatorTypeMACD                 IndicatorType = "macd"
	IndicatorTypeRSI                  IndicatorType = "rsi"
	IndicatorTypeStochasticOscillator IndicatorType = "stochastic_oscillator"
	IndicatorTypeVolatility           IndicatorType = "volatility"
)

// Column names written by the indicator pipeline.
const (
	ColumnBollingerMiddle = "BB_Middle"
	ColumnBollingerUpper  = "BB_Upper"
	ColumnBollingerLower  = "BB_Lower"
	ColumnMACD            = "MACD"
	ColumnMACDSignal      = "MACD_Signal"
	ColumnMACDHistogram   = "MACD_Hist"
	ColumnRSI             = "RSI"
	ColumnStochasticK     = "Stoch_K"
	ColumnStochasticD     = "Stoch_D"
	ColumnVolatility      = "Volatility"
)

// ColumnSMA is the column name of the simple moving average over window bars.
func ColumnSMA(window int) string {
	return fmt.Sprintf("SMA_%d", window)
}
