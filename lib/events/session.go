package events

import (
	"sync"

	"github.com/xtgo/uuid"
)

// SessionStartPlugin records a session-start event when loaded and one for
// every later Restart while enabled. It is the built-in stand-in for the
// browser-side interaction listeners.
type SessionStartPlugin struct {
	mu        sync.Mutex
	recorder  Recorder
	enabled   bool
	sessionID string
}

type sessionStartDetails struct {
	SessionID string `json:"sessionId"`
	Version   string `json:"version"`
}

func NewSessionStartPlugin() *SessionStartPlugin {
	return &SessionStartPlugin{
		enabled:   true,
		sessionID: uuid.NewRandom().String(),
	}
}

func (p *SessionStartPlugin) ID() string { return "sessionstart" }

func (p *SessionStartPlugin) Load(r Recorder) error {
	p.mu.Lock()
	p.recorder = r
	p.mu.Unlock()
	p.record()
	return nil
}

func (p *SessionStartPlugin) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = true
}

func (p *SessionStartPlugin) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = false
}

// Restart begins a new session and records its start event.
func (p *SessionStartPlugin) Restart() {
	p.mu.Lock()
	p.sessionID = uuid.NewRandom().String()
	p.mu.Unlock()
	p.record()
}

func (p *SessionStartPlugin) record() {
	p.mu.Lock()
	recorder, enabled, sessionID := p.recorder, p.enabled, p.sessionID
	p.mu.Unlock()

	if !enabled || recorder == nil {
		return
	}
	recorder.RecordEvent(SessionStartEventType, sessionStartDetails{
		SessionID: sessionID,
		Version:   "1.0.0",
	})
}
