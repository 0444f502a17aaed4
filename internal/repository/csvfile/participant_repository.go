package csvfile

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"race-registry/internal/domain"
	"race-registry/internal/repository"
)

const (
	registrationsFileName = "registrations.csv"
	registrationsHeader   = "ownerIdentity,firstName,lastName,ageBracket,gender,distance,wantsShirt,shirtColor,registrationId,registeredAt"
)

// ParticipantRepository stores one append-only registration log per distance
// under the base directory. Every query is a fresh scan of the relevant log.
type ParticipantRepository struct {
	baseDir   string
	distances map[string]struct{}
}

func NewParticipantRepository(dataDir string, distances []string) repository.ParticipantRepository {
	set := make(map[string]struct{}, len(distances))
	for _, d := range distances {
		set[d] = struct{}{}
	}
	return &ParticipantRepository{baseDir: dataDir, distances: set}
}

// Init ensures one log file with its header exists per distance.
func (r *ParticipantRepository) Init(ctx context.Context) error {
	for distance := range r.distances {
		if err := ensureFile(r.filePath(distance), registrationsHeader); err != nil {
			return err
		}
	}
	return nil
}

func (r *ParticipantRepository) Append(ctx context.Context, participant *domain.Participant) error {
	if _, ok := r.distances[participant.Distance]; !ok {
		return domain.ErrUnknownDistance
	}
	return appendRow(r.filePath(participant.Distance), participantRecord(participant))
}

// ListByDistance scans the distance's log, skipping malformed rows.
func (r *ParticipantRepository) ListByDistance(ctx context.Context, distance string) ([]domain.Participant, error) {
	if _, ok := r.distances[distance]; !ok {
		return nil, domain.ErrUnknownDistance
	}

	var participants []domain.Participant
	err := scanRows(r.filePath(distance), func(record []string) {
		p, ok := parseParticipant(record)
		if !ok {
			return
		}
		participants = append(participants, p)
	})
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *ParticipantRepository) CountByDistance(ctx context.Context, distance string) (int, error) {
	participants, err := r.ListByDistance(ctx, distance)
	if err != nil {
		return 0, err
	}
	return len(participants), nil
}

func (r *ParticipantRepository) filePath(distance string) string {
	return filepath.Join(r.baseDir, distance, registrationsFileName)
}

func participantRecord(p *domain.Participant) []string {
	return []string{
		p.Email,
		p.FirstName,
		p.LastName,
		p.AgeGroup,
		p.Gender,
		p.Distance,
		strconv.FormatBool(p.WantsShirt),
		p.ShirtColor,
		p.RegistrationID.String(),
		p.RegisteredAt.UTC().Format(time.RFC3339),
	}
}

func parseParticipant(record []string) (domain.Participant, bool) {
	if len(record) != 10 {
		return domain.Participant{}, false
	}
	wantsShirt, err := strconv.ParseBool(record[6])
	if err != nil {
		return domain.Participant{}, false
	}
	registrationID, err := uuid.Parse(record[8])
	if err != nil {
		return domain.Participant{}, false
	}
	registeredAt, err := time.Parse(time.RFC3339, record[9])
	if err != nil {
		return domain.Participant{}, false
	}
	return domain.Participant{
		Email:          strings.ToLower(record[0]),
		FirstName:      record[1],
		LastName:       record[2],
		AgeGroup:       record[3],
		Gender:         record[4],
		Distance:       record[5],
		WantsShirt:     wantsShirt,
		ShirtColor:     record[7],
		RegistrationID: registrationID,
		RegisteredAt:   registeredAt,
	}, true
}
