package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockCartSweeper struct {
	mock.Mock
}

func (m *MockCartSweeper) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type CartJanitorTestSuite struct {
	suite.Suite
	sweeper *MockCartSweeper
	clock   *testclock.Clock
	janitor *CartJanitor
	now     time.Time
}

func (suite *CartJanitorTestSuite) SetupTest() {
	suite.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	suite.sweeper = &MockCartSweeper{}
	suite.clock = testclock.NewClock(suite.now)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.janitor = NewCartJanitor(suite.sweeper, suite.clock, 30*24*time.Hour, logger)
}

func (suite *CartJanitorTestSuite) TearDownTest() {
	suite.sweeper.AssertExpectations(suite.T())
}

func TestCartJanitorTestSuite(t *testing.T) {
	suite.Run(t, new(CartJanitorTestSuite))
}

func (suite *CartJanitorTestSuite) TestSweep_UsesTTLCutoff() {
	cutoff := suite.now.Add(-30 * 24 * time.Hour)
	suite.sweeper.On("DeleteOlderThan", mock.Anything, cutoff).Return(int64(4), nil).Once()

	var swept int64
	suite.janitor.OnSwept = func(n int64) { swept = n }

	err := suite.janitor.Sweep(context.Background())

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(4), swept)
}

func (suite *CartJanitorTestSuite) TestSweep_FollowsClock() {
	suite.clock.Advance(2 * time.Hour)
	cutoff := suite.now.Add(2 * time.Hour).Add(-30 * 24 * time.Hour)
	suite.sweeper.On("DeleteOlderThan", mock.Anything, cutoff).Return(int64(0), nil).Once()

	assert.NoError(suite.T(), suite.janitor.Sweep(context.Background()))
}

func (suite *CartJanitorTestSuite) TestSweep_StoreError() {
	suite.sweeper.On("DeleteOlderThan", mock.Anything, mock.Anything).Return(int64(0), errors.New("connection reset")).Once()
	called := false
	suite.janitor.OnSwept = func(int64) { called = true }

	err := suite.janitor.Sweep(context.Background())

	assert.ErrorContains(suite.T(), err, "connection reset")
	assert.False(suite.T(), called)
}

func (suite *CartJanitorTestSuite) TestSweep_RejectsZeroTTL() {
	suite.janitor.ttl = 0

	err := suite.janitor.Sweep(context.Background())

	assert.True(suite.T(), errors.Is(err, errors.NotValid))
}
