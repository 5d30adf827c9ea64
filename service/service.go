package service

import (
	"time"

	"github.com/apex/log"
	"github.com/jonboulle/clockwork"

	"safestreet-service/config"
	"safestreet-service/models"
	"safestreet-service/rabbitmq"
	"safestreet-service/risk"
	"safestreet-service/storage"
	"safestreet-service/websocket"
)

// Service manages hazard report intake, lookup and risk prediction
type Service struct {
	config    *config.Config
	store     *storage.Store
	hub       *websocket.Hub
	publisher *rabbitmq.Publisher
	clock     clockwork.Clock
	loc       *time.Location
}

// NewService creates a new SafeStreet service
func NewService(cfg *config.Config) (*Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	return &Service{
		config: cfg,
		store:  storage.NewStore(cfg.StoreFile),
		hub:    websocket.NewHub(),
		clock:  clockwork.NewRealClock(),
		loc:    loc,
	}, nil
}

// SetPublisher attaches a RabbitMQ publisher. The service runs without one
// when the broker is unavailable.
func (s *Service) SetPublisher(p *rabbitmq.Publisher) {
	s.publisher = p
}

// SetClock swaps the time source. Pass nil to reset to real time.
func (s *Service) SetClock(c clockwork.Clock) {
	if c == nil {
		s.clock = clockwork.NewRealClock()
		return
	}
	s.clock = c
}

// Hub returns the WebSocket hub
func (s *Service) Hub() *websocket.Hub {
	return s.hub
}

// Store returns the report store
func (s *Service) Store() *storage.Store {
	return s.store
}

// Start starts the service
func (s *Service) Start() error {
	log.Infof("Starting SafeStreet service...")

	// Start the WebSocket hub
	go s.hub.Run()

	log.Infof("Persisting reports to %s", s.store.Path())
	return nil
}

// Stop stops the service gracefully
func (s *Service) Stop() error {
	log.Infof("Stopping SafeStreet service...")

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			log.Errorf("Error closing publisher: %v", err)
		}
	}

	log.Infof("SafeStreet service stopped")
	return nil
}

// SubmitReport validates a report, stamps it with the current time and
// persists it. Accepted reports are published to RabbitMQ and broadcast to
// connected WebSocket clients.
func (s *Service) SubmitReport(args models.ReportArgs) (*models.HazardReport, error) {
	report, err := models.NewHazardReport(args, s.clock.Now().In(s.loc))
	if err != nil {
		return nil, err
	}

	if err := s.store.Append(report); err != nil {
		return nil, err
	}

	s.publishReport(report)
	s.hub.BroadcastReport(report)

	return report, nil
}

// RecentHazards returns the most recent reports whose location contains the
// query, newest first.
func (s *Service) RecentHazards(location string) ([]models.HazardReport, error) {
	if location == "" {
		return nil, models.NewValidationError("location query parameter is required")
	}
	return s.store.FindRecent(location, s.config.RecentLimit)
}

// PredictForLocation scores the queried location for the current day of week
// against the report history.
func (s *Service) PredictForLocation(location string) (*models.Prediction, error) {
	if location == "" {
		return nil, models.NewValidationError("location query parameter is required")
	}

	reports, err := s.store.LoadAll()
	if err != nil {
		return nil, err
	}

	day := s.clock.Now().In(s.loc).Weekday().String()
	shouldAvoid, score := risk.Predict(location, day, risk.Build(reports), s.config.PredictThreshold)

	return &models.Prediction{
		Location:    location,
		Day:         day,
		Score:       score,
		ShouldAvoid: shouldAvoid,
	}, nil
}

// publishReport sends an accepted report to RabbitMQ. Publish failures are
// logged and do not fail the submission.
func (s *Service) publishReport(report *models.HazardReport) {
	if s.publisher == nil || !s.publisher.IsConnected() {
		return
	}
	if err := s.publisher.Publish(report); err != nil {
		log.Warnf("Failed to publish report to RabbitMQ: %v", err)
	}
}
