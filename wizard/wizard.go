// Package wizard implements the step-by-step automation builder. It walks
// a fixed sequence of steps, gates each advance on that step's validator and
// turns the collected answers into the same graph and record the graph
// editor produces.
package wizard

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/meikuraledutech/automation"
)

// ErrPageNotSelected is returned by SyncPosts before a page is chosen.
var ErrPageNotSelected = errors.New("wizard: no page selected")

// State is the serializable state of one wizard run.
type State struct {
	RecordID string   `json:"recordId,omitempty"`
	Step     Step     `json:"step"`
	Data     Data     `json:"data"`
	Errors   []string `json:"errors,omitempty"`
	Saving   bool     `json:"saving"`
	// Options holds the option lists loaded so far, keyed by the step that
	// offers them.
	Options map[Step][]automation.Option `json:"options,omitempty"`
}

// Wizard owns exactly one State. All methods are safe for concurrent use.
type Wizard struct {
	mu      sync.Mutex
	state   State
	catalog automation.Catalog
	store   automation.Persister
	log     *zap.Logger
}

var _ automation.Editor = (*Wizard)(nil)

// Option customizes a Wizard.
type Option func(*Wizard)

// WithLogger sets the wizard logger.
func WithLogger(log *zap.Logger) Option {
	return func(w *Wizard) {
		if log != nil {
			w.log = log.Named("wizard")
		}
	}
}

// New starts a wizard on the first step. catalog may be nil, in which case
// no option lists are offered and labels fall back to ids.
func New(catalog automation.Catalog, store automation.Persister, opts ...Option) *Wizard {
	w := &Wizard{
		state: State{
			Step:    StepTrigger,
			Options: make(map[Step][]automation.Option),
		},
		catalog: catalog,
		store:   store,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Snapshot returns a copy of the wizard state.
func (w *Wizard) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	cp := w.state
	cp.Data = w.state.Data.Clone()
	cp.Errors = append([]string(nil), w.state.Errors...)
	cp.Options = make(map[Step][]automation.Option, len(w.state.Options))
	for step, opts := range w.state.Options {
		cp.Options[step] = append([]automation.Option(nil), opts...)
	}
	return cp
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Step
}

// Data returns a copy of the collected answers.
func (w *Wizard) Data() Data {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Data.Clone()
}

// Errors returns the problems found by the last advance or validation.
func (w *Wizard) Errors() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.state.Errors...)
}

// Load replaces the collected answers, for example with a draft submitted
// in one piece. Lists are cleaned the way the Add methods would have built
// them. The current step is kept.
func (w *Wizard) Load(d Data) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Data = d.normalized()
	w.state.Errors = nil
}

// Next validates the current step and advances when it passes. On failure
// the wizard stays put and every problem is returned and kept as the error
// list. Next on the last step only validates.
func (w *Wizard) Next() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	problems := ValidateStep(w.state.Step, w.state.Data)
	if len(problems) > 0 {
		w.state.Errors = problems
		return append([]string(nil), problems...)
	}
	w.state.Errors = nil
	if i := w.state.Step.Index(); i < len(Steps)-1 {
		w.state.Step = Steps[i+1]
	}
	return nil
}

// Back returns to the previous step. It reports false on the first step.
func (w *Wizard) Back() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.state.Step.Index()
	if i <= 0 {
		return false
	}
	w.state.Step = Steps[i-1]
	w.state.Errors = nil
	return true
}

// GoTo jumps back to an earlier (or the current) step. Jumping forward
// would skip validators, so it is refused.
func (w *Wizard) GoTo(step Step) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := step.Index()
	if i < 0 || i > w.state.Step.Index() {
		return false
	}
	w.state.Step = step
	w.state.Errors = nil
	return true
}

// Upstream selections never reset the ones below them: a page chosen under
// an earlier platform stays selected until the user changes it.

func (w *Wizard) SetService(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Data.ServiceID = id
}

func (w *Wizard) SetPlatform(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Data.PlatformID = id
}

func (w *Wizard) SetPage(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Data.PageID = id
}

// SetPost selects a post; an empty id means every post of the page.
func (w *Wizard) SetPost(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Data.PostID = id
}

func (w *Wizard) SetCommentContent(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Data.CommentContent = s
}

func (w *Wizard) SetDMContent(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Data.DMContent = s
}

func (w *Wizard) SetLabel(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Data.Label = s
}

// AddKeyword adds a keyword unless it is blank or already present.
func (w *Wizard) AddKeyword(k string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	var ok bool
	w.state.Data.Keywords, ok = addUnique(w.state.Data.Keywords, k)
	return ok
}

func (w *Wizard) RemoveKeyword(k string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	var ok bool
	w.state.Data.Keywords, ok = removeValue(w.state.Data.Keywords, k)
	return ok
}

func (w *Wizard) AddTitle(t string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	var ok bool
	w.state.Data.Titles, ok = addUnique(w.state.Data.Titles, t)
	return ok
}

func (w *Wizard) RemoveTitle(t string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	var ok bool
	w.state.Data.Titles, ok = removeValue(w.state.Data.Titles, t)
	return ok
}

func (w *Wizard) AddURL(u string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	var ok bool
	w.state.Data.URLs, ok = addUnique(w.state.Data.URLs, u)
	return ok
}

func (w *Wizard) RemoveURL(u string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	var ok bool
	w.state.Data.URLs, ok = removeValue(w.state.Data.URLs, u)
	return ok
}

// AddQuickLink adds a link unless a field is blank or the same pair is
// already present.
func (w *Wizard) AddQuickLink(text, url string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	var ok bool
	w.state.Data.QuickLinks, ok = addQuickLink(w.state.Data.QuickLinks, QuickLink{Text: text, URL: url})
	return ok
}

// RemoveQuickLink removes the link at index i.
func (w *Wizard) RemoveQuickLink(i int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	var ok bool
	w.state.Data.QuickLinks, ok = removeQuickLink(w.state.Data.QuickLinks, i)
	return ok
}
