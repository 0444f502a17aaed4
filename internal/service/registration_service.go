package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"race-registry/internal/catalog"
	"race-registry/internal/domain"
	"race-registry/internal/repository"
)

// RegistrationInput carries the caller-supplied participant fields.
type RegistrationInput struct {
	FirstName  string
	LastName   string
	AgeGroup   string
	Gender     string
	Distance   string
	WantsShirt bool
}

// DistanceStats pairs current occupancy with the capacity limit.
type DistanceStats struct {
	Occupancy int
	Capacity  int
}

// RegistrationService is the entrant ledger: it validates participants
// against the catalog, enforces per-distance capacity and appends admitted
// records to the durable logs.
type RegistrationService interface {
	Register(ctx context.Context, email string, input RegistrationInput) (*domain.Participant, error)
	Occupancy(ctx context.Context, distance string) (int, error)
	ListByDistance(ctx context.Context, distance string) ([]domain.Participant, error)
	ListByOwner(ctx context.Context, email string) ([]domain.Participant, error)
	Statistics(ctx context.Context) (map[string]DistanceStats, error)
}

type registrationService struct {
	participants repository.ParticipantRepository
	catalog      *catalog.Catalog
	logger       *logrus.Logger

	// one lock per distance serializes occupancy check + admission + append
	locks map[string]*sync.Mutex
}

func NewRegistrationService(participants repository.ParticipantRepository, cat *catalog.Catalog, logger *logrus.Logger) RegistrationService {
	locks := make(map[string]*sync.Mutex, len(cat.Distances()))
	for _, distance := range cat.Distances() {
		locks[distance] = &sync.Mutex{}
	}
	return &registrationService{
		participants: participants,
		catalog:      cat,
		logger:       logger,
		locks:        locks,
	}
}

func (s *registrationService) Register(ctx context.Context, email string, input RegistrationInput) (*domain.Participant, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.AgeGroup = strings.TrimSpace(input.AgeGroup)
	input.Gender = strings.TrimSpace(input.Gender)
	input.Distance = strings.TrimSpace(input.Distance)

	if err := s.validate(email, input); err != nil {
		return nil, err
	}

	lock := s.locks[input.Distance]
	lock.Lock()
	defer lock.Unlock()

	occupancy, err := s.participants.CountByDistance(ctx, input.Distance)
	if err != nil {
		return nil, err
	}
	capacity, err := s.catalog.CapacityLimit(input.Distance)
	if err != nil {
		return nil, err
	}
	if occupancy >= capacity {
		return nil, domain.ErrCapacityExceeded
	}

	participant := &domain.Participant{
		Email:          email,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		AgeGroup:       input.AgeGroup,
		Gender:         input.Gender,
		Distance:       input.Distance,
		WantsShirt:     input.WantsShirt,
		ShirtColor:     s.catalog.ShirtColorFor(input.Distance),
		RegistrationID: uuid.New(),
		RegisteredAt:   time.Now().UTC(),
	}

	if err := s.participants.Append(ctx, participant); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"distance":        participant.Distance,
		"registration_id": participant.RegistrationID,
		"occupancy":       occupancy + 1,
		"capacity":        capacity,
	}).Info("participant registered")

	return participant, nil
}

// validate checks every field before any durable state is touched.
func (s *registrationService) validate(email string, input RegistrationInput) error {
	if email == "" {
		return domain.ErrInvalidParticipant
	}
	if input.FirstName == "" || input.LastName == "" ||
		input.AgeGroup == "" || input.Gender == "" || input.Distance == "" {
		return domain.ErrInvalidParticipant
	}
	if !s.catalog.IsValidDistance(input.Distance) {
		return domain.ErrUnknownDistance
	}
	if !s.catalog.IsValidAgeGroup(input.AgeGroup) {
		return domain.ErrInvalidParticipant
	}
	if !s.catalog.IsValidGender(input.Gender) {
		return domain.ErrInvalidParticipant
	}
	return nil
}

func (s *registrationService) Occupancy(ctx context.Context, distance string) (int, error) {
	return s.participants.CountByDistance(ctx, distance)
}

func (s *registrationService) ListByDistance(ctx context.Context, distance string) ([]domain.Participant, error) {
	return s.participants.ListByDistance(ctx, distance)
}

// ListByOwner scans every distance's log in catalog order, keeping records
// whose owner identity matches case-insensitively.
func (s *registrationService) ListByOwner(ctx context.Context, email string) ([]domain.Participant, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var out []domain.Participant
	for _, distance := range s.catalog.Distances() {
		participants, err := s.participants.ListByDistance(ctx, distance)
		if err != nil {
			return nil, err
		}
		for _, p := range participants {
			if strings.EqualFold(p.Email, email) {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (s *registrationService) Statistics(ctx context.Context) (map[string]DistanceStats, error) {
	stats := make(map[string]DistanceStats, len(s.catalog.Distances()))
	for _, distance := range s.catalog.Distances() {
		occupancy, err := s.participants.CountByDistance(ctx, distance)
		if err != nil {
			return nil, err
		}
		capacity, err := s.catalog.CapacityLimit(distance)
		if err != nil {
			return nil, err
		}
		stats[distance] = DistanceStats{Occupancy: occupancy, Capacity: capacity}
	}
	return stats, nil
}
