package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"race-registry/internal/domain"
)

var testDistances = []string{"5km", "10km"}

func newParticipant(email, distance string) *domain.Participant {
	return &domain.Participant{
		Email:          email,
		FirstName:      "Anna",
		LastName:       "Nowak",
		AgeGroup:       "25-34",
		Gender:         "F",
		Distance:       distance,
		WantsShirt:     true,
		ShirtColor:     "blue",
		RegistrationID: uuid.New(),
		RegisteredAt:   time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestParticipantInitCreatesLogPerDistance(t *testing.T) {
	dir := t.TempDir()
	repo := NewParticipantRepository(dir, testDistances)
	require.NoError(t, repo.Init(context.Background()))

	for _, distance := range testDistances {
		data, err := os.ReadFile(filepath.Join(dir, distance, "registrations.csv"))
		require.NoError(t, err)
		assert.Equal(t, registrationsHeader+"\n", string(data))
	}
}

func TestParticipantRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo := NewParticipantRepository(dir, testDistances)
	require.NoError(t, repo.Init(ctx))

	created := newParticipant("runner@example.com", "5km")
	require.NoError(t, repo.Append(ctx, created))

	// Fresh instance over the same files.
	reloaded := NewParticipantRepository(dir, testDistances)
	participants, err := reloaded.ListByDistance(ctx, "5km")
	require.NoError(t, err)
	require.Len(t, participants, 1)

	got := participants[0]
	assert.Equal(t, created.Email, got.Email)
	assert.Equal(t, created.FirstName, got.FirstName)
	assert.Equal(t, created.LastName, got.LastName)
	assert.Equal(t, created.AgeGroup, got.AgeGroup)
	assert.Equal(t, created.Gender, got.Gender)
	assert.Equal(t, created.Distance, got.Distance)
	assert.Equal(t, created.WantsShirt, got.WantsShirt)
	assert.Equal(t, created.ShirtColor, got.ShirtColor)
	assert.Equal(t, created.RegistrationID, got.RegistrationID)
	assert.True(t, created.RegisteredAt.Equal(got.RegisteredAt))
}

func TestParticipantNamesWithCommasSurviveRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewParticipantRepository(t.TempDir(), testDistances)
	require.NoError(t, repo.Init(ctx))

	created := newParticipant("runner@example.com", "10km")
	created.LastName = "Nowak, Jr."
	require.NoError(t, repo.Append(ctx, created))

	participants, err := repo.ListByDistance(ctx, "10km")
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, "Nowak, Jr.", participants[0].LastName)
}

func TestParticipantScanSkipsMalformedLines(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo := NewParticipantRepository(dir, testDistances)
	require.NoError(t, repo.Init(ctx))

	first := newParticipant("a@b.com", "5km")
	second := newParticipant("c@d.com", "5km")
	require.NoError(t, repo.Append(ctx, first))

	// Inject a malformed line between two valid records.
	path := filepath.Join(dir, "5km", "registrations.csv")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("this,is,not,a,valid,record\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, repo.Append(ctx, second))

	participants, err := repo.ListByDistance(ctx, "5km")
	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, first.RegistrationID, participants[0].RegistrationID)
	assert.Equal(t, second.RegistrationID, participants[1].RegistrationID)

	count, err := repo.CountByDistance(ctx, "5km")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestParticipantUnknownDistance(t *testing.T) {
	ctx := context.Background()
	repo := NewParticipantRepository(t.TempDir(), testDistances)
	require.NoError(t, repo.Init(ctx))

	err := repo.Append(ctx, newParticipant("a@b.com", "100km"))
	assert.ErrorIs(t, err, domain.ErrUnknownDistance)

	_, err = repo.ListByDistance(ctx, "100km")
	assert.ErrorIs(t, err, domain.ErrUnknownDistance)

	_, err = repo.CountByDistance(ctx, "100km")
	assert.ErrorIs(t, err, domain.ErrUnknownDistance)
}

func TestParticipantOwnerIdentityIsNormalized(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := NewParticipantRepository(dir, testDistances)
	require.NoError(t, repo.Init(ctx))

	// Legacy rows may carry mixed-case identities.
	path := filepath.Join(dir, "5km", "registrations.csv")
	row := "Runner@Example.COM,Anna,Nowak,25-34,F,5km,true,blue," + uuid.NewString() + ",2026-06-01T09:30:00Z\n"
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(row)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	participants, err := repo.ListByDistance(ctx, "5km")
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.True(t, strings.EqualFold("runner@example.com", participants[0].Email))
}
