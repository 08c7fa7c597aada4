package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

var ErrNotFound = errors.New("storage: submission not found")

// Submission is one phone number received from a show.
type Submission struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Received  time.Time `json:"received"`
	Source    string    `json:"source,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

// Store keeps one JSON file per submission under baseDir.
type Store struct {
	baseDir string
	now     func() time.Time

	mu  sync.Mutex
	seq int
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// Save writes sub, filling in ID and Received when empty.
func (s *Store) Save(sub Submission) (Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.Received.IsZero() {
		sub.Received = s.now()
	}
	if sub.ID == "" {
		s.seq++
		sub.ID = fmt.Sprintf("sub_%d_%04d", sub.Received.UnixNano(), s.seq%10000)
	}
	if err := checkID(sub.ID); err != nil {
		return sub, err
	}

	f, err := os.Create(s.path(sub.ID))
	if err != nil {
		return sub, err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sub); err != nil {
		return sub, err
	}
	return sub, nil
}

// List returns all submissions, oldest first.
func (s *Store) List() ([]Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list()
}

func (s *Store) list() ([]Submission, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Submission{}, nil
		}
		return nil, err
	}

	subs := make([]Submission, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var sub Submission
		if err := json.Unmarshal(data, &sub); err != nil {
			continue
		}
		subs = append(subs, sub)
	}

	sort.Slice(subs, func(i, j int) bool {
		if subs[i].Received.Equal(subs[j].Received) {
			return subs[i].ID < subs[j].ID
		}
		return subs[i].Received.Before(subs[j].Received)
	})
	return subs, nil
}

func (s *Store) Load(id string) (*Submission, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	var sub Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// checkID rejects IDs that would resolve outside baseDir.
func checkID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("storage: invalid id %q", id)
	}
	return nil
}

// Purge deletes submissions received before the cutoff. A zero cutoff
// deletes everything.
func (s *Store) Purge(before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.list()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, sub := range subs {
		if !before.IsZero() && !sub.Received.Before(before) {
			continue
		}
		if err := os.Remove(s.path(sub.ID)); err != nil && !os.IsNotExist(err) {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}
