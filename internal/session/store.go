package session

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/agenthands/factwatch/internal/view"
)

// Session is the view state of one visitor.
type Session struct {
	ID     string
	Search *view.Search
	Check  *view.URLCheck
}

// Store keeps sessions in memory and drops them after ttl without access.
type Store struct {
	cache    *gocache.Cache
	ttl      time.Duration
	lang     string
	pageSize int
}

func NewStore(ttl, cleanupInterval time.Duration, lang string, pageSize int) *Store {
	return &Store{
		cache:    gocache.New(ttl, cleanupInterval),
		ttl:      ttl,
		lang:     lang,
		pageSize: pageSize,
	}
}

// Get returns the live session for id and extends its lifetime.
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	val, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	sess := val.(*Session)
	s.cache.Set(id, sess, s.ttl)
	return sess, true
}

// Create starts a new session with a random id.
func (s *Store) Create() *Session {
	sess := &Session{
		ID:     uuid.NewString(),
		Search: view.NewSearch(s.lang, s.pageSize),
		Check:  view.NewURLCheck(),
	}
	s.cache.Set(sess.ID, sess, s.ttl)
	return sess
}

// GetOrCreate returns the session for id, or a new one when id is unknown.
// created reports which happened.
func (s *Store) GetOrCreate(id string) (sess *Session, created bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}
	return s.Create(), true
}

func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

func (s *Store) Len() int {
	return s.cache.ItemCount()
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}
