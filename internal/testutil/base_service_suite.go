package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/svbk/countdown/internal/config"
	"github.com/svbk/countdown/internal/domain/discount"
	"github.com/svbk/countdown/internal/domain/expiration"
	"github.com/svbk/countdown/internal/domain/level"
	"github.com/svbk/countdown/internal/logger"
	"github.com/svbk/countdown/internal/validator"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	LevelRepo          level.Repository
	DiscountRepo       discount.Repository
	DurableExpirations expiration.DurableStore
	SessionExpirations expiration.SessionStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		LevelRepo:          NewInMemoryLevelStore(),
		DiscountRepo:       NewInMemoryDiscountStore(),
		DurableExpirations: NewInMemoryDurableExpirationStore(),
		SessionExpirations: NewInMemorySessionExpirationStore(),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.LevelRepo.(*InMemoryLevelStore).Clear()
	s.stores.DiscountRepo.(*InMemoryDiscountStore).Clear()
	s.stores.DurableExpirations.(*InMemoryDurableExpirationStore).Clear()
	s.stores.SessionExpirations.(*InMemorySessionExpirationStore).Clear()
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// SetContext replaces the test context, e.g. to switch identities mid-test
func (s *BaseServiceTestSuite) SetContext(ctx context.Context) {
	s.ctx = ctx
}

// GetStores returns the test stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the suite's reference time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
