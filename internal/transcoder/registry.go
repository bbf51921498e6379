package transcoder

import (
	"errors"
	"os"
	"os/exec"
	"sort"
	"sync"
	"sync/atomic"

	"meldify/pkg/models"
)

// Handle is a live encoder process.
type Handle struct {
	Job    models.ExportJob
	PID    int
	cmd    *exec.Cmd
	killed atomic.Bool
}

// Killed reports whether the process was targeted by a cancel.
func (h *Handle) Killed() bool { return h.killed.Load() }

// kill force-terminates the process. A process that already exited is not
// an error.
func (h *Handle) kill() error {
	h.killed.Store(true)
	if h.cmd == nil || h.cmd.Process == nil {
		return nil
	}
	err := h.cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

// Registry tracks live encoder processes by pid.
type Registry struct {
	mu   sync.Mutex
	live map[int]*Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{live: make(map[int]*Handle)}
}

// Add registers a freshly spawned process.
func (r *Registry) Add(h *Handle) {
	r.mu.Lock()
	r.live[h.PID] = h
	r.mu.Unlock()
}

// Remove drops h if it is still the handle registered under its pid. A pid
// reused by a later spawn is left alone.
func (r *Registry) Remove(h *Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.live[h.PID]; ok && cur == h {
		delete(r.live, h.PID)
		return true
	}
	return false
}

// Drain empties the registry and returns what was in it, lowest pid first.
func (r *Registry) Drain() []*Handle {
	r.mu.Lock()
	out := make([]*Handle, 0, len(r.live))
	for _, h := range r.live {
		out = append(out, h)
	}
	r.live = make(map[int]*Handle)
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out
}

// Len returns the number of live processes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// Jobs returns the jobs currently running.
func (r *Registry) Jobs() []models.ExportJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ExportJob, 0, len(r.live))
	for _, h := range r.live {
		out = append(out, h.Job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InputPath < out[j].InputPath })
	return out
}
