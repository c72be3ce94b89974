package devapi

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
)

var (
	errEmailTaken   = errors.New("Email already registered")
	errInvalidCreds = errors.New("Invalid credentials")
)

type account struct {
	models.User
	PasswordHash string
}

// store is the dev backend's whole database.
type store struct {
	mu            sync.RWMutex
	accounts      map[string]*account // by lower-cased email
	byID          map[string]*account
	properties    []models.Property
	notifications map[string][]models.Notification // by user id
	revoked       map[string]time.Time             // jti -> expiry
}

func newStore() *store {
	return &store{
		accounts:      map[string]*account{},
		byID:          map[string]*account{},
		notifications: map[string][]models.Notification{},
		revoked:       map[string]time.Time{},
	}
}

func (s *store) addAccount(email, hash, first, last string, roles ...models.Role) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := s.accounts[key]; ok {
		return nil, errEmailTaken
	}
	a := &account{
		User: models.User{
			ID:        uuid.NewString(),
			Email:     email,
			FirstName: first,
			LastName:  last,
			Roles:     roles,
		},
		PasswordHash: hash,
	}
	s.accounts[key] = a
	s.byID[a.ID] = a
	return a, nil
}

func (s *store) accountByEmail(email string) (*account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[strings.ToLower(email)]
	return a, ok
}

func (s *store) accountByID(id string) (*account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	return a, ok
}

func (s *store) addProperty(p models.Property) models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.properties = append(s.properties, p)
	return p
}

// searchProperties matches q against title, address and city, newest first.
func (s *store) searchProperties(q models.PropertyQuery) []models.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(q.Search)
	out := make([]models.Property, 0, len(s.properties))
	for _, p := range s.properties {
		if q.City != "" && !strings.EqualFold(p.City, q.City) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Title+" "+p.Address+" "+p.City), needle) {
			continue
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, func(a, b models.Property) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func (s *store) property(id string) (models.Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.properties {
		if p.ID == id {
			return p, true
		}
	}
	return models.Property{}, false
}

func (s *store) notify(userID, title, message string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[userID] = append(s.notifications[userID], models.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		CreatedAt: at,
	})
}

func (s *store) notificationsFor(userID string) []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notifications[userID])
}

func (s *store) revoke(jti string, expires, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
	s.revoked[jti] = expires
}

func (s *store) isRevoked(jti string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[jti]
	return ok
}
