package events

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Plugin is an event source. Load hands the plugin its recorder and may
// record immediately; Enable/Disable gate any further recording.
type Plugin interface {
	ID() string
	Load(Recorder) error
	Enable()
	Disable()
}

// Registry tracks loaded plugins by id.
type Registry struct {
	mu       sync.Mutex
	recorder Recorder
	plugins  map[string]Plugin
}

func NewRegistry(recorder Recorder) *Registry {
	return &Registry{
		recorder: recorder,
		plugins:  map[string]Plugin{},
	}
}

// AddPlugin loads the plugin and registers it under its id.
func (r *Registry) AddPlugin(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plugins[p.ID()]; ok {
		return fmt.Errorf("plugin %q already registered", p.ID())
	}
	if err := p.Load(r.recorder); err != nil {
		return fmt.Errorf("loading plugin %q: %w", p.ID(), err)
	}
	r.plugins[p.ID()] = p
	log.Debugf("loaded plugin %q", p.ID())
	return nil
}

func (r *Registry) Enable(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plugins[id]
	if !ok {
		return fmt.Errorf("no plugin %q", id)
	}
	p.Enable()
	return nil
}

func (r *Registry) Disable(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plugins[id]
	if !ok {
		return fmt.Errorf("no plugin %q", id)
	}
	p.Disable()
	return nil
}
