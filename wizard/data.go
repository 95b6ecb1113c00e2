package wizard

import "strings"

// QuickLink is a labelled link offered in the direct message.
type QuickLink struct {
	Text string `json:"text" validate:"required"`
	URL  string `json:"url" validate:"required"`
}

// Data accumulates what the steps collect. Each step owns its own fields.
type Data struct {
	ServiceID string `json:"service_id"`

	PlatformID string `json:"platform_id"`

	PageID string `json:"page_id"`

	// PostID is optional; empty applies the automation to every post.
	PostID string `json:"post_id"`

	Keywords []string `json:"keywords"`

	CommentContent string `json:"comment_content"`
	DMContent      string `json:"dm_content"`

	Label      string      `json:"label"`
	Titles     []string    `json:"titles"`
	URLs       []string    `json:"urls"`
	QuickLinks []QuickLink `json:"quick_links" validate:"omitempty,dive"`
}

// Clone returns a copy of d that shares no slices with it.
func (d Data) Clone() Data {
	cp := d
	cp.Keywords = append([]string(nil), d.Keywords...)
	cp.Titles = append([]string(nil), d.Titles...)
	cp.URLs = append([]string(nil), d.URLs...)
	cp.QuickLinks = append([]QuickLink(nil), d.QuickLinks...)
	return cp
}

// normalized returns a copy of d whose lists follow the same rules as the
// Add methods: values trimmed, blanks dropped, duplicates removed.
func (d Data) normalized() Data {
	cp := d.Clone()
	cp.Keywords = uniqueValues(d.Keywords)
	cp.Titles = uniqueValues(d.Titles)
	cp.URLs = uniqueValues(d.URLs)
	cp.QuickLinks = nil
	for _, l := range d.QuickLinks {
		cp.QuickLinks, _ = addQuickLink(cp.QuickLinks, l)
	}
	return cp
}

func uniqueValues(list []string) []string {
	var out []string
	for _, v := range list {
		out, _ = addUnique(out, v)
	}
	return out
}

// addUnique appends the trimmed value unless it is blank or already present.
func addUnique(list []string, v string) ([]string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return list, false
	}
	for _, existing := range list {
		if existing == v {
			return list, false
		}
	}
	return append(list, v), true
}

func removeValue(list []string, v string) ([]string, bool) {
	v = strings.TrimSpace(v)
	for i, existing := range list {
		if existing == v {
			return append(list[:i:i], list[i+1:]...), true
		}
	}
	return list, false
}

func addQuickLink(list []QuickLink, l QuickLink) ([]QuickLink, bool) {
	l.Text = strings.TrimSpace(l.Text)
	l.URL = strings.TrimSpace(l.URL)
	if l.Text == "" || l.URL == "" {
		return list, false
	}
	for _, existing := range list {
		if existing == l {
			return list, false
		}
	}
	return append(list, l), true
}

func removeQuickLink(list []QuickLink, i int) ([]QuickLink, bool) {
	if i < 0 || i >= len(list) {
		return list, false
	}
	return append(list[:i:i], list[i+1:]...), true
}
