package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-charts/internal/dashboard"
	"github.com/rxtech-lab/argo-charts/internal/logger"
	"github.com/rxtech-lab/argo-charts/internal/syncengine"
	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SessionTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	sync    *mocks.MockSynchronizer
	info    *mocks.MockProvider
	session *dashboard.Session
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func (suite *SessionTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.sync = mocks.NewMockSynchronizer(suite.ctrl)
	suite.info = mocks.NewMockProvider(suite.ctrl)
	suite.info.EXPECT().GetCompanyInfo(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ticker string) types.CompanyInfo { return companyInfo(ticker) }).
		AnyTimes()

	log := logger.NewNopLogger()
	loader := dashboard.NewLoader(suite.sync, suite.info, nil, log)
	suite.session = dashboard.NewSession(loader, 4, log)
}

func (suite *SessionTestSuite) TearDownTest() {
	suite.session.Close()
	suite.ctrl.Finish()
}

func tickerIs(ticker string) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		request, ok := x.(syncengine.Request)

		return ok && request.Ticker == ticker
	})
}

func (suite *SessionTestSuite) receive() dashboard.Payload {
	select {
	case payload := <-suite.session.Results():
		return payload
	case <-time.After(5 * time.Second):
		suite.FailNow("timed out waiting for a payload")
	}

	return dashboard.Payload{}
}

func (suite *SessionTestSuite) TestSelectDeliversPayload() {
	suite.sync.EXPECT().Sync(gomock.Any(), tickerIs("AAPL")).
		DoAndReturn(func(_ context.Context, request syncengine.Request) (syncengine.Result, error) {
			return resultWith("AAPL", request.Interval, 20), nil
		}).
		Times(2)

	generation := suite.session.Select(context.Background(), "AAPL", 2)
	suite.Equal(uint64(1), generation)

	payload := suite.receive()
	suite.Equal(generation, payload.Generation)
	suite.True(suite.session.Accept(payload))
	suite.True(suite.session.Displayed().IsSome())
	suite.Equal("AAPL", suite.session.Displayed().Unwrap().Ticker)
}

func (suite *SessionTestSuite) TestSupersededLoadIsDropped() {
	suite.sync.EXPECT().Sync(gomock.Any(), tickerIs("SLOW")).
		DoAndReturn(func(ctx context.Context, _ syncengine.Request) (syncengine.Result, error) {
			<-ctx.Done()

			return syncengine.Result{}, ctx.Err()
		}).
		Times(2)
	suite.sync.EXPECT().Sync(gomock.Any(), tickerIs("FAST")).
		DoAndReturn(func(_ context.Context, request syncengine.Request) (syncengine.Result, error) {
			return resultWith("FAST", request.Interval, 20), nil
		}).
		Times(2)

	suite.session.Select(context.Background(), "SLOW", 2)
	latest := suite.session.Select(context.Background(), "FAST", 2)

	for {
		payload := suite.receive()
		if payload.Generation != latest {
			suite.False(suite.session.Accept(payload), "stale payload must be rejected")

			continue
		}

		suite.True(suite.session.Accept(payload))
		suite.Equal("FAST", payload.Ticker)

		break
	}
}

func (suite *SessionTestSuite) TestFailedLoadKeepsLastDisplayed() {
	suite.sync.EXPECT().Sync(gomock.Any(), tickerIs("AAPL")).
		DoAndReturn(func(_ context.Context, request syncengine.Request) (syncengine.Result, error) {
			return resultWith("AAPL", request.Interval, 20), nil
		}).
		Times(2)
	suite.sync.EXPECT().Sync(gomock.Any(), tickerIs("NOPE")).
		Return(syncengine.Result{Series: types.NewSeries("NOPE", types.IntervalDaily)}, nil).
		Times(2)

	suite.session.Select(context.Background(), "AAPL", 2)
	suite.True(suite.session.Accept(suite.receive()))

	suite.session.Select(context.Background(), "NOPE", 2)
	failed := suite.receive()
	suite.True(failed.Failed())
	suite.False(suite.session.Accept(failed))

	suite.Equal("AAPL", suite.session.Displayed().Unwrap().Ticker)
	suite.Equal(uint64(2), suite.session.Generation())
}

func (suite *SessionTestSuite) TestCloseClosesResults() {
	suite.session.Close()

	_, ok := <-suite.session.Results()
	suite.False(ok)

	// selecting after close is a no-op
	suite.Equal(uint64(0), suite.session.Select(context.Background(), "AAPL", 2))
}
