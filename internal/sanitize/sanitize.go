// Package sanitize strips executable markup from user-supplied text before it
// is returned to clients.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/erazemk/propkeeper/internal/model"
)

// policy removes every HTML element. Contents of script and style elements
// are dropped entirely. A bluemonday policy is safe for concurrent use once built.
var policy = bluemonday.StrictPolicy()

// angles re-escapes the only characters that could form markup again once
// the policy's entity encoding is undone.
var angles = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// Text returns s with all markup removed. Plain text such as quotes and
// ampersands is returned as written.
func Text(s string) string {
	return angles.Replace(html.UnescapeString(policy.Sanitize(s)))
}

// Item returns a copy of item with its name and description sanitized.
func Item(item model.Item) model.Item {
	item.Name = Text(item.Name)
	if item.Description != nil {
		d := Text(*item.Description)
		item.Description = &d
	}
	return item
}

// Items sanitizes every item in the slice, returning a new slice.
func Items(items []model.Item) []model.Item {
	out := make([]model.Item, len(items))
	for i, item := range items {
		out[i] = Item(item)
	}
	return out
}
