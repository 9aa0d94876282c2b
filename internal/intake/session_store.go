package intake

import (
	"sync"
	"time"
)

// SessionStore guarda os formulários em andamento por token de sessão. O mapa
// tem um lock próprio e cada sessão tem o seu: requisições simultâneas do
// mesmo token (clique duplo, múltiplas abas) são serializadas em vez de
// disputar os mapas do Form.
type SessionStore struct {
	mu      sync.Mutex
	forms   map[string]*sessionEntry
	maxIdle time.Duration
}

type sessionEntry struct {
	mu      sync.Mutex
	form    *Form
	touched time.Time
}

func NewSessionStore(maxIdle time.Duration) *SessionStore {
	return &SessionStore{
		forms:   make(map[string]*sessionEntry),
		maxIdle: maxIdle,
	}
}

func (s *SessionStore) Put(token string, form *Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms[token] = &sessionEntry{form: form, touched: time.Now()}
}

// Access executa fn com acesso exclusivo ao formulário da sessão. O ponteiro
// não escapa do store por outro caminho. Devolve false se o token não existe.
func (s *SessionStore) Access(token string, fn func(*Form)) bool {
	s.mu.Lock()
	entry, ok := s.forms[token]
	if ok {
		entry.touched = time.Now()
	}
	s.mu.Unlock()
	if !ok {
		return false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	fn(entry.form)
	return true
}

func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.forms, token)
}

// Sweep descarta sessões paradas há mais que maxIdle. Chamado pelo cron.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	cutoff := time.Now().Add(-s.maxIdle)
	for token, entry := range s.forms {
		if entry.touched.Before(cutoff) {
			delete(s.forms, token)
			removed++
		}
	}
	return removed
}
