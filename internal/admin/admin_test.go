package admin

import (
	"testing"
	"time"

	"github.com/felixbrock/logoassist/internal/domain"
	"github.com/felixbrock/logoassist/internal/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	seed, err := persistence.LoadSeed("")
	require.NoError(t, err)

	return NewStore(seed)
}

func projectNames(ps []domain.Project) []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.CompanyName
	}
	return names
}

func TestDashboardRecentActivity(t *testing.T) {
	s := newTestStore(t)

	stats := s.Dashboard()

	assert.Equal(t, 156, stats.TotalLogosCreated)
	assert.Equal(t, []string{"TechStart", "EcoVerde", "MediCare Plus"}, projectNames(stats.RecentActivity))
}

func TestProjectFilters(t *testing.T) {
	s := newTestStore(t)

	assert.Len(t, s.Projects(ProjectFilter{}), 5)
	assert.Equal(t, []string{"TechStart", "EduTech"}, projectNames(s.Projects(ProjectFilter{Search: "tech"})))
	assert.Equal(t, []string{"MediCare Plus"}, projectNames(s.Projects(ProjectFilter{Search: "saúde"})))
	assert.Equal(t, []string{"EcoVerde", "Fashion Store"}, projectNames(s.Projects(ProjectFilter{Status: "exported", Sector: FilterAll})))
	assert.Equal(t, []string{"Fashion Store"}, projectNames(s.Projects(ProjectFilter{Status: "exported", Sector: "Moda"})))
	assert.Empty(t, s.Projects(ProjectFilter{Search: "nothing"}))
}

func TestSectorsFirstSeenOrder(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, []string{"Tecnologia", "Sustentabilidade", "Saúde", "Educação", "Moda"}, s.Sectors())
}

func TestDeleteProject(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.DeleteProject("2"))
	assert.Len(t, s.Projects(ProjectFilter{}), 4)
	assert.ErrorIs(t, s.DeleteProject("2"), domain.ErrNotFound)
}

func TestUserFiltersAndDelete(t *testing.T) {
	s := newTestStore(t)

	assert.Len(t, s.Users(UserFilter{Role: "user"}), 3)
	assert.Len(t, s.Users(UserFilter{Search: "ECOVERDE"}), 1)
	assert.Len(t, s.Users(UserFilter{Search: "silva", Role: "admin"}), 0)

	require.NoError(t, s.DeleteUser("4"))
	assert.Len(t, s.Users(UserFilter{}), 3)
	assert.ErrorIs(t, s.DeleteUser("4"), domain.ErrNotFound)
}

func TestSaveSettings(t *testing.T) {
	s := newTestStore(t)
	next := s.Settings()
	next.StabilityApiKey = "sk-secret-1234"
	next.SystemMaintenance = true

	require.NoError(t, s.SaveSettings(next))
	assert.True(t, s.Maintenance())

	next.StabilityApiKey = ""
	require.NoError(t, s.SaveSettings(next))
	assert.Equal(t, "sk-secret-1234", s.Settings().StabilityApiKey)
}

func TestSaveSettingsValidation(t *testing.T) {
	s := newTestStore(t)
	before := s.Settings()

	err := s.SaveSettings(domain.Settings{MaxLogosPerUser: 0, SessionTimeout: 2000, DefaultLogoStyle: "Brutalista"})

	var serr SettingsError
	require.ErrorAs(t, err, &serr)
	assert.Len(t, serr, 3)
	assert.Contains(t, err.Error(), "max_logos_per_user")
	assert.Equal(t, before, s.Settings())
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "", MaskKey(""))
	assert.Equal(t, "•••", MaskKey("abc"))
	assert.Equal(t, "•••••1234", MaskKey("sk-xx1234"))
}

func newTestAuth(t *testing.T, now *time.Time) Auth {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	return Auth{
		Username:     "admin",
		PasswordHash: string(hash),
		SigningKey:   []byte("signing-key"),
		Now:          func() time.Time { return *now },
	}
}

func TestAuthLoginAndVerify(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	a := newTestAuth(t, &now)

	token, err := a.Login("admin", "s3cret", time.Hour)
	require.NoError(t, err)

	claims, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)

	now = now.Add(2 * time.Hour)
	_, err = a.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthRejects(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	a := newTestAuth(t, &now)

	_, err := a.Login("admin", "wrong", time.Hour)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = a.Login("root", "s3cret", time.Hour)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := a
	other.SigningKey = []byte("other")
	token, err := other.Login("admin", "s3cret", time.Hour)
	require.NoError(t, err)
	_, err = a.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthDisabledWithoutHash(t *testing.T) {
	a := Auth{Username: "admin", SigningKey: []byte("k")}

	assert.False(t, a.Enabled())
	_, err := a.Login("admin", "", time.Hour)
	assert.ErrorIs(t, err, ErrLoginDisabled)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	_, err = HashPassword("")
	assert.Error(t, err)
}
