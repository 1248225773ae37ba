// Package admin serves the back-office views: usage statistics, projects,
// users and system settings. Its collections live in memory, seeded at start.
package admin

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/felixbrock/logoassist/internal/concept"
	"github.com/felixbrock/logoassist/internal/domain"
	"github.com/felixbrock/logoassist/internal/persistence"
)

const (
	recentActivityLen = 3
	FilterAll         = "all"
)

type ProjectFilter struct {
	Search string
	Status string
	Sector string
}

type UserFilter struct {
	Search string
	Role   string
}

// SettingsError maps a settings field to the reason it was rejected.
type SettingsError map[string]string

func (e SettingsError) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	return fmt.Sprintf("invalid settings: %s", strings.Join(fields, ", "))
}

type Store struct {
	mu       sync.RWMutex
	stats    domain.Stats
	projects []domain.Project
	users    []domain.User
	settings domain.Settings
}

func NewStore(seed *persistence.Seed) *Store {
	return &Store{
		stats:    seed.Stats,
		projects: slices.Clone(seed.Projects),
		users:    slices.Clone(seed.Users),
		settings: seed.Settings,
	}
}

// Dashboard returns the usage totals with the most recent projects attached.
func (s *Store) Dashboard() domain.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := s.stats
	stats.PopularSectors = slices.Clone(s.stats.PopularSectors)
	stats.PopularStyles = slices.Clone(s.stats.PopularStyles)

	recent := slices.Clone(s.projects)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentActivityLen {
		recent = recent[:recentActivityLen]
	}
	stats.RecentActivity = recent

	return stats
}

func (s *Store) Projects(f ProjectFilter) []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))

	var out []domain.Project
	for _, p := range s.projects {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.CompanyName), search) &&
			!strings.Contains(strings.ToLower(p.Sector), search) {
			continue
		}
		if !matches(f.Status, string(p.Status)) || !matches(f.Sector, p.Sector) {
			continue
		}
		out = append(out, p)
	}

	return out
}

// Sectors lists the distinct project sectors in first-seen order.
func (s *Store) Sectors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sectors []string
	for _, p := range s.projects {
		if !slices.Contains(sectors, p.Sector) {
			sectors = append(sectors, p.Sector)
		}
	}

	return sectors
}

func (s *Store) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.projects, func(p domain.Project) bool { return p.Id == id })
	if i < 0 {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	s.projects = slices.Delete(s.projects, i, i+1)

	return nil
}

func (s *Store) Users(f UserFilter) []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))

	var out []domain.User
	for _, u := range s.users {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		if !matches(f.Role, string(u.Role)) {
			continue
		}
		out = append(out, u)
	}

	return out
}

func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.users, func(u domain.User) bool { return u.Id == id })
	if i < 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	s.users = slices.Delete(s.users, i, i+1)

	return nil
}

func (s *Store) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings
}

// SaveSettings replaces the settings. An empty API key keeps the stored one,
// so the masked form can be submitted unchanged.
func (s *Store) SaveSettings(next domain.Settings) error {
	if err := ValidateSettings(next); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(next.StabilityApiKey) == "" {
		next.StabilityApiKey = s.settings.StabilityApiKey
	}
	s.settings = next

	return nil
}

func (s *Store) Maintenance() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings.SystemMaintenance
}

func ValidateSettings(st domain.Settings) error {
	errs := SettingsError{}

	if st.MaxLogosPerUser < 1 || st.MaxLogosPerUser > 100 {
		errs["max_logos_per_user"] = "deve estar entre 1 e 100"
	}
	if st.SessionTimeout < 5 || st.SessionTimeout > 1440 {
		errs["session_timeout"] = "deve estar entre 5 e 1440 minutos"
	}
	if !concept.IsStyleTag(st.DefaultLogoStyle) {
		errs["default_logo_style"] = "estilo desconhecido"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// MaskKey hides all but the last four characters of a secret.
func MaskKey(key string) string {
	r := []rune(key)
	if len(r) <= 4 {
		return strings.Repeat("•", len(r))
	}

	return strings.Repeat("•", len(r)-4) + string(r[len(r)-4:])
}

func matches(filter, value string) bool {
	return filter == "" || filter == FilterAll || strings.EqualFold(filter, value)
}
