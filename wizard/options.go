package wizard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/meikuraledutech/automation"
)

// filterFor narrows a step's list by the selections above it.
func filterFor(step Step, d Data) automation.OptionFilter {
	switch step {
	case StepPage:
		return automation.OptionFilter{PlatformID: d.PlatformID}
	case StepPost:
		return automation.OptionFilter{PageID: d.PageID}
	default:
		return automation.OptionFilter{}
	}
}

// LoadOptions fetches the dropdown list for step from the catalog and keeps
// it. Steps without a list return nil. A failed fetch is logged and returned
// and the previously loaded list is kept.
func (w *Wizard) LoadOptions(ctx context.Context, step Step) ([]automation.Option, error) {
	kind, ok := step.optionKind()
	if !ok || w.catalog == nil {
		return nil, nil
	}
	w.mu.Lock()
	filter := filterFor(step, w.state.Data)
	w.mu.Unlock()

	opts, err := w.catalog.ListOptions(ctx, kind, filter)
	if err != nil {
		w.log.Warn("load options failed", zap.String("step", string(step)), zap.Error(err))
		return nil, fmt.Errorf("wizard: load %s options: %w", kind, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Options[step] = opts
	return append([]automation.Option(nil), opts...), nil
}

// Candidates returns the loaded options for step that fit the current
// selections: pages of the chosen platform, posts of the chosen page.
func (w *Wizard) Candidates(step Step) []automation.Option {
	w.mu.Lock()
	defer w.mu.Unlock()
	filter := filterFor(step, w.state.Data)
	var out []automation.Option
	for _, o := range w.state.Options[step] {
		if filter.Matches(o) {
			out = append(out, o)
		}
	}
	return out
}

// SyncPosts refreshes the post list of the selected page from the upstream
// platform.
func (w *Wizard) SyncPosts(ctx context.Context) ([]automation.Option, error) {
	w.mu.Lock()
	pageID := w.state.Data.PageID
	w.mu.Unlock()
	if blank(pageID) {
		return nil, ErrPageNotSelected
	}
	if w.catalog == nil {
		return nil, nil
	}

	posts, err := w.catalog.SyncPosts(ctx, pageID)
	if err != nil {
		w.log.Warn("sync posts failed", zap.String("page_id", pageID), zap.Error(err))
		return nil, fmt.Errorf("wizard: sync posts: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Options[StepPost] = posts
	return append([]automation.Option(nil), posts...), nil
}

// labelLocked resolves an option id to its label, falling back to the id.
func (w *Wizard) labelLocked(step Step, id string) string {
	for _, o := range w.state.Options[step] {
		if o.ID == id {
			return o.Label
		}
	}
	return id
}
