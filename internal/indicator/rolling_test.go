package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RollingTestSuite struct {
	suite.Suite
}

func TestRollingSuite(t *testing.T) {
	suite.Run(t, new(RollingTestSuite))
}

func (suite *RollingTestSuite) assertValues(expected, actual []float64) {
	suite.Require().Len(actual, len(expected))

	for i := range expected {
		if math.IsNaN(expected[i]) {
			suite.True(math.IsNaN(actual[i]), "index %d: expected NaN, got %f", i, actual[i])

			continue
		}

		suite.InDelta(expected[i], actual[i], 1e-4, "index %d", i)
	}
}

func (suite *RollingTestSuite) TestRollingMean() {
	tests := []struct {
		name     string
		values   []float64
		window   int
		expected []float64
	}{
		{
			name:     "partial windows at the start",
			values:   []float64{1, 2, 3, 4},
			window:   2,
			expected: []float64{1, 1.5, 2.5, 3.5},
		},
		{
			name:     "window longer than input",
			values:   []float64{2, 4},
			window:   5,
			expected: []float64{2, 3},
		},
		{
			name:     "skips missing samples",
			values:   []float64{math.NaN(), 2, 4},
			window:   2,
			expected: []float64{math.NaN(), 2, 3},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.assertValues(tc.expected, rollingMean(tc.values, tc.window))
		})
	}
}

func (suite *RollingTestSuite) TestRollingStd() {
	result := rollingStd([]float64{1, 2, 3, 4}, 3)
	suite.assertValues([]float64{math.NaN(), 0.7071, 1, 1}, result)
}

func (suite *RollingTestSuite) TestRollingExtremes() {
	values := []float64{3, 1, 4, 1, 5}

	suite.assertValues([]float64{3, 1, 1, 1, 1}, rollingMin(values, 3))
	suite.assertValues([]float64{3, 3, 4, 4, 5}, rollingMax(values, 3))
}

func (suite *RollingTestSuite) TestEWM() {
	suite.assertValues([]float64{1, 1.5, 2.25}, ewm([]float64{1, 2, 3}, 3))
	suite.assertValues([]float64{math.NaN(), 2, 2}, ewm([]float64{math.NaN(), 2, math.NaN()}, 3))
}

func (suite *RollingTestSuite) TestDiff() {
	suite.assertValues([]float64{math.NaN(), 1, -2}, diff([]float64{1, 2, 0}))
}

func (suite *RollingTestSuite) TestHelpers() {
	suite.Equal(2, countValid([]float64{1, math.NaN(), 3}))
	suite.assertValues([]float64{50, 1, 50}, fillNaN([]float64{math.NaN(), 1, math.Inf(1)}, 50))
	suite.assertValues([]float64{7, 7}, constant(2, 7))

	options := toOptions([]float64{1, math.NaN(), math.Inf(-1)})
	suite.True(options[0].IsSome())
	suite.True(options[1].IsNone())
	suite.True(options[2].IsNone())

	for _, v := range missing(3) {
		suite.True(v.IsNone())
	}
}
