package espn

import (
	"context"
	"strings"
	"sync"
)

// Memo caches dereferenced documents by resolved URL within the scope of one
// top-level request. Create a fresh Memo per request and discard it after.
// Safe for use from concurrent fan-out workers; two workers racing on a cold
// URL may both fetch it, which is an accepted inefficiency.
type Memo struct {
	mu   sync.Mutex
	docs map[string]map[string]any
}

func NewMemo() *Memo {
	return &Memo{docs: make(map[string]map[string]any)}
}

func (m *Memo) lookup(href string) (map[string]any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[href]
	return doc, ok
}

func (m *Memo) store(href string, doc map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[href] = doc
}

// PointerURL extracts the target URL from a reference pointer: either a
// direct URL string, or a carrier object exposing the URL under "$ref" or
// "href". Returns "" when the pointer is nil or carries neither field.
func PointerURL(pointer any) string {
	switch typed := pointer.(type) {
	case string:
		return strings.TrimSpace(typed)
	case map[string]any:
		for _, key := range []string{"$ref", "href"} {
			if raw, ok := typed[key].(string); ok {
				if href := strings.TrimSpace(raw); href != "" {
					return href
				}
			}
		}
		return ""
	default:
		return ""
	}
}

// Deref follows a reference pointer and returns the referenced document.
// Repeated pointers to the same URL within one memo scope are fetched once;
// a failed fetch is memoized as nil so it is not re-attempted either.
func (c *Client) Deref(ctx context.Context, pointer any, memo *Memo) map[string]any {
	href := PointerURL(pointer)
	if href == "" {
		return nil
	}

	if memo != nil {
		if doc, ok := memo.lookup(href); ok {
			return doc
		}
	}

	doc, _ := c.FetchJSON(ctx, href)
	if memo != nil {
		memo.store(href, doc)
	}
	return doc
}
