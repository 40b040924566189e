package mock

import (
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
)

// Fact is a stored fact sentence.
type Fact struct {
	ID   uuid.UUID
	Text string
}

// Store keeps facts in memory, in insertion order.
type Store struct {
	mu    sync.RWMutex
	facts map[uuid.UUID]string
	order []uuid.UUID
}

func NewStore() *Store {
	return &Store{facts: make(map[uuid.UUID]string)}
}

// Add stores a sentence, lowercased. A sentence already stored keeps its
// id and created is false.
func (s *Store) Add(sentence string) (id uuid.UUID, created bool) {
	text := normalizeSentence(sentence)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.order {
		if s.facts[existing] == text {
			return existing, false
		}
	}

	id = uuid.New()
	s.facts[id] = text
	s.order = append(s.order, id)
	return id, true
}

func (s *Store) Get(id uuid.UUID) (Fact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.facts[id]
	return Fact{ID: id, Text: text}, ok
}

func (s *Store) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.facts[id]; !ok {
		return false
	}
	delete(s.facts, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Search returns facts sharing at least one significant word with the
// question. Plural and singular forms match each other.
func (s *Store) Search(question string) []Fact {
	terms := make(map[string]bool)
	for _, w := range words(question) {
		terms[w] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Fact
	for _, id := range s.order {
		text := s.facts[id]
		for _, w := range words(text) {
			if terms[w] {
				out = append(out, Fact{ID: id, Text: text})
				break
			}
		}
	}
	return out
}

var stopWords = map[string]bool{
	"the": true, "and": true, "does": true, "do": true, "what": true,
	"which": true, "how": true, "many": true, "who": true, "are": true,
	"is": true, "have": true, "has": true, "a": true, "an": true,
}

func words(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || stopWords[f] {
			continue
		}
		out = append(out, singular(f))
	}
	return out
}

func singular(w string) string {
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "ses"), strings.HasSuffix(w, "xes"), strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "shes"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "ss"):
		return w
	case strings.HasSuffix(w, "s") && len(w) > 3:
		return w[:len(w)-1]
	}
	return w
}

func normalizeSentence(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
