package automation

import (
	"context"
)

// Persister hands a record to the persistence collaborator. The returned
// record (with server-assigned id and timestamps) replaces the local one.
type Persister interface {
	SaveAutomation(ctx context.Context, r *Record) (*Record, error)
}

// ListFilter narrows ListAutomations. Empty fields match everything.
type ListFilter struct {
	Platform string
	Type     string
	Status   Status
	Search   string
}

// Store defines the contract for persisting and retrieving automations.
type Store interface {
	Persister

	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// GetAutomation returns nil, nil when id does not exist.
	GetAutomation(ctx context.Context, id string) (*Record, error)
	// ListAutomations returns summary records without nodes and edges.
	ListAutomations(ctx context.Context, f ListFilter) ([]Record, error)
	SetStatus(ctx context.Context, id string, status Status) error
	DeleteAutomation(ctx context.Context, id string) error
}

// OptionKind names a selectable option list.
type OptionKind string

const (
	OptionService  OptionKind = "service"
	OptionPlatform OptionKind = "platform"
	OptionPage     OptionKind = "page"
	OptionPost     OptionKind = "post"
)

// IsValid reports whether k is a known option kind.
func (k OptionKind) IsValid() bool {
	switch k {
	case OptionService, OptionPlatform, OptionPage, OptionPost:
		return true
	default:
		return false
	}
}

// Option is one selectable entry. Pages carry the platform they belong to,
// posts carry their page.
type Option struct {
	ID         string `json:"id" validate:"required"`
	Label      string `json:"label" validate:"required"`
	PlatformID string `json:"platform_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
}

// OptionFilter narrows ListOptions. Empty fields match everything.
type OptionFilter struct {
	PlatformID string
	PageID     string
}

// Matches reports whether o passes f.
func (f OptionFilter) Matches(o Option) bool {
	if f.PlatformID != "" && o.PlatformID != f.PlatformID {
		return false
	}
	if f.PageID != "" && o.PageID != f.PageID {
		return false
	}
	return true
}

// Catalog serves the option lists the editors offer in their dropdowns.
type Catalog interface {
	ListOptions(ctx context.Context, kind OptionKind, f OptionFilter) ([]Option, error)
	PutOptions(ctx context.Context, kind OptionKind, opts []Option) error
	// SyncPosts refreshes a page's posts from the upstream platform and
	// returns them.
	SyncPosts(ctx context.Context, pageID string) ([]Option, error)
}

// PostSource fetches a page's posts from the upstream social platform.
type PostSource interface {
	FetchPosts(ctx context.Context, pageID string) ([]Option, error)
}

// Editor is the contract shared by every editing surface. Whoever consumes
// the saved record does not need to know which surface produced it.
type Editor interface {
	Validate() []string
	Save(ctx context.Context) (*Record, error)
}
