package connector_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/arrdeck/arrdeck/internal/connector"
	"github.com/arrdeck/arrdeck/pkg/events"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
	"github.com/arrdeck/arrdeck/pkg/logger"
	"github.com/arrdeck/arrdeck/pkg/models"
)

type fakeConnector struct {
	cfg  models.ServiceConfig
	test models.TestResult
}

func (f *fakeConnector) Config() models.ServiceConfig { return f.cfg }

func (f *fakeConnector) GetHealth(context.Context) models.ServiceHealth {
	return models.ServiceHealth{Status: models.HealthStateHealthy, LastChecked: time.Now()}
}

func (f *fakeConnector) GetVersion(context.Context) (string, error) { return "4.0.0", nil }

func (f *fakeConnector) TestConnection(context.Context) models.TestResult { return f.test }

func (f *fakeConnector) GetLogs(context.Context, time.Time, int) ([]models.LogEntry, error) {
	return nil, nil
}

type fakeStore struct {
	configs []models.ServiceConfig
	err     error
}

func (s *fakeStore) List(context.Context) ([]models.ServiceConfig, error) {
	return s.configs, s.err
}

// recordingHandler collects events; it can be told to fail every time.
type recordingHandler struct {
	eventType string
	fail      bool
	events    []interfaces.Event
}

func (h *recordingHandler) Handle(_ context.Context, event interfaces.Event) error {
	h.events = append(h.events, event)
	if h.fail {
		return errors.New("sink unavailable")
	}
	return nil
}

func (h *recordingHandler) EventType() string { return h.eventType }

type ManagerTestSuite struct {
	suite.Suite

	bus     *events.InMemoryEventBus
	store   *fakeStore
	manager *connector.Manager
	added   *recordingHandler
	removed *recordingHandler
	tested  *recordingHandler
}

func (s *ManagerTestSuite) SetupTest() {
	log := logger.NewNoop()
	s.bus = events.NewInMemoryEventBus(log)
	s.store = &fakeStore{}

	s.added = &recordingHandler{eventType: connector.EventConnectorAdded}
	s.removed = &recordingHandler{eventType: connector.EventConnectorRemoved}
	s.tested = &recordingHandler{eventType: connector.EventConnectionsTested}
	s.Require().NoError(s.bus.Subscribe(connector.EventConnectorAdded, s.added))
	s.Require().NoError(s.bus.Subscribe(connector.EventConnectorRemoved, s.removed))
	s.Require().NoError(s.bus.Subscribe(connector.EventConnectionsTested, s.tested))

	factory := func(cfg models.ServiceConfig) (connector.Connector, error) {
		if cfg.URL == "invalid://" {
			return nil, errors.New("cannot construct connector")
		}
		return &fakeConnector{cfg: cfg, test: models.TestResult{Success: true, Version: "4.0.0"}}, nil
	}
	s.manager = connector.NewManager(s.store, s.bus, factory, log)
}

func config(id string, t models.ServiceType) models.ServiceConfig {
	return models.ServiceConfig{
		ID:      id,
		Name:    id,
		Type:    t,
		URL:     "http://" + id + ":8989",
		APIKey:  "key",
		Enabled: true,
	}
}

func (s *ManagerTestSuite) TestAddThenRemoveLeavesNoEntry() {
	cfg := config("svc-1", models.ServiceTypeSonarr)

	s.Require().NoError(s.manager.AddConnector(context.Background(), cfg))
	_, ok := s.manager.GetConnector("svc-1")
	s.True(ok)

	s.manager.RemoveConnector(context.Background(), "svc-1")
	_, ok = s.manager.GetConnector("svc-1")
	s.False(ok)

	s.Require().Len(s.added.events, 1)
	s.Require().Len(s.removed.events, 1)
	s.Equal("svc-1", s.added.events[0].ServiceID())
}

func (s *ManagerTestSuite) TestMutationsSucceedDespiteFailingSink() {
	s.added.fail = true
	s.removed.fail = true

	cfg := config("svc-1", models.ServiceTypeRadarr)
	s.Require().NoError(s.manager.AddConnector(context.Background(), cfg))
	_, ok := s.manager.GetConnector("svc-1")
	s.True(ok)

	s.manager.RemoveConnector(context.Background(), "svc-1")
	_, ok = s.manager.GetConnector("svc-1")
	s.False(ok)

	// Events still reached the sink even though it rejected them.
	s.Len(s.added.events, 1)
	s.Len(s.removed.events, 1)
}

func (s *ManagerTestSuite) TestAddReplacesExistingEntry() {
	cfg := config("svc-1", models.ServiceTypeSonarr)
	s.Require().NoError(s.manager.AddConnector(context.Background(), cfg))

	cfg.URL = "http://elsewhere:8989"
	s.Require().NoError(s.manager.AddConnector(context.Background(), cfg))

	s.Equal(1, s.manager.Count())
	conn, _ := s.manager.GetConnector("svc-1")
	s.Equal("http://elsewhere:8989", conn.Config().URL)
}

func (s *ManagerTestSuite) TestAddRejectsInvalidConfig() {
	err := s.manager.AddConnector(context.Background(), models.ServiceConfig{ID: "x"})
	s.Error(err)
	s.Equal(0, s.manager.Count())
	s.Empty(s.added.events)
}

func (s *ManagerTestSuite) TestRemoveUnknownIsIdempotent() {
	s.manager.RemoveConnector(context.Background(), "ghost")
	s.Require().Len(s.removed.events, 1)
	s.Equal("ghost", s.removed.events[0].ServiceID())
}

func (s *ManagerTestSuite) TestGetConnectorsByType() {
	s.Require().NoError(s.manager.AddConnector(context.Background(), config("tv-1", models.ServiceTypeSonarr)))
	s.Require().NoError(s.manager.AddConnector(context.Background(), config("tv-2", models.ServiceTypeSonarr)))
	s.Require().NoError(s.manager.AddConnector(context.Background(), config("mv-1", models.ServiceTypeRadarr)))

	s.Len(s.manager.GetConnectorsByType(models.ServiceTypeSonarr), 2)
	s.Len(s.manager.GetConnectorsByType(models.ServiceTypeRadarr), 1)
	s.Empty(s.manager.GetConnectorsByType(models.ServiceTypeLidarr))
}

func (s *ManagerTestSuite) TestLoadSavedServicesSkipsDisabledAndBroken() {
	disabled := config("off-1", models.ServiceTypeSonarr)
	disabled.Enabled = false
	broken := config("bad-1", models.ServiceTypeRadarr)
	broken.URL = "invalid://"

	s.store.configs = []models.ServiceConfig{
		config("ok-1", models.ServiceTypeSonarr),
		disabled,
		broken,
	}

	s.Require().NoError(s.manager.LoadSavedServices(context.Background()))
	s.Equal(1, s.manager.Count())
	_, ok := s.manager.GetConnector("ok-1")
	s.True(ok)
}

func (s *ManagerTestSuite) TestTestAllConnectionsFansOut() {
	s.Require().NoError(s.manager.AddConnector(context.Background(), config("tv-1", models.ServiceTypeSonarr)))
	s.Require().NoError(s.manager.AddConnector(context.Background(), config("mv-1", models.ServiceTypeRadarr)))

	results := s.manager.TestAllConnections(context.Background())
	s.Len(results, 2)
	s.True(results["tv-1"].Success)
	s.True(results["mv-1"].Success)

	s.Require().Len(s.tested.events, 1)
	base, ok := s.tested.events[0].(*events.BaseEvent)
	s.Require().True(ok)
	types, ok := base.Data[connector.EventKeyServiceTypes].([]string)
	s.Require().True(ok)
	s.ElementsMatch(types, []string{"sonarr", "radarr"})
}

func TestManagerTestSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}
