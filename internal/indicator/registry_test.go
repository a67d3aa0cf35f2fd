package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RegistryTestSuite struct {
	suite.Suite
	registry IndicatorRegistry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) SetupTest() {
	suite.registry = NewIndicatorRegistry()
}

func (suite *RegistryTestSuite) TestRegisterKeepsOrder() {
	suite.Require().NoError(suite.registry.RegisterIndicator(NewRSI()))
	suite.Require().NoError(suite.registry.RegisterIndicator(NewSMA()))
	suite.Require().NoError(suite.registry.RegisterIndicator(NewMACD()))

	suite.Equal([]types.IndicatorType{
		types.IndicatorTypeRSI,
		types.IndicatorTypeSMA,
		types.IndicatorTypeMACD,
	}, suite.registry.ListIndicators())
}

func (suite *RegistryTestSuite) TestRegisterDuplicate() {
	suite.Require().NoError(suite.registry.RegisterIndicator(NewRSI()))

	err := suite.registry.RegisterIndicator(NewRSI())
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeIndicatorAlreadyExists, errors.GetCode(err))
}

func (suite *RegistryTestSuite) TestGetAndRemove() {
	suite.Require().NoError(suite.registry.RegisterIndicator(NewSMA()))
	suite.Require().NoError(suite.registry.RegisterIndicator(NewVolatility()))

	ind, err := suite.registry.GetIndicator(types.IndicatorTypeVolatility)
	suite.Require().NoError(err)
	suite.Equal(types.IndicatorTypeVolatility, ind.Name())

	suite.Require().NoError(suite.registry.RemoveIndicator(types.IndicatorTypeSMA))
	suite.Equal([]types.IndicatorType{types.IndicatorTypeVolatility}, suite.registry.ListIndicators())

	_, err = suite.registry.GetIndicator(types.IndicatorTypeSMA)
	suite.Equal(errors.ErrCodeIndicatorNotFound, errors.GetCode(err))

	err = suite.registry.RemoveIndicator(types.IndicatorTypeSMA)
	suite.Equal(errors.ErrCodeIndicatorNotFound, errors.GetCode(err))
}
