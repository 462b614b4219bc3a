package facet

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FieldAuthor is the view key holding the resolved Author.
const FieldAuthor = "author"

// Fallbacks used when the source carries no usable author metadata.
const (
	UnknownAuthorID   = "unknown"
	UnknownAuthorName = "Unknown"
)

// Author is the normalized authored capability. AvatarURL is empty when
// the source carries no avatar.
type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type authorConfig struct {
	author Selector[Author]
	id     Selector[string]
	name   Selector[string]
	avatar Selector[string]
}

// AuthorOption configures the Authored mapper.
type AuthorOption func(*authorConfig)

// AuthorFrom supplies the whole Author, bypassing field resolution.
func AuthorFrom(sel Selector[Author]) AuthorOption {
	return func(c *authorConfig) {
		c.author = sel
	}
}

// AuthorID overrides the resolved author id.
func AuthorID(sel Selector[string]) AuthorOption {
	return func(c *authorConfig) {
		c.id = sel
	}
}

// AuthorName overrides the resolved author name.
func AuthorName(sel Selector[string]) AuthorOption {
	return func(c *authorConfig) {
		c.name = sel
	}
}

// AuthorAvatar overrides the resolved avatar URL.
func AuthorAvatar(sel Selector[string]) AuthorOption {
	return func(c *authorConfig) {
		c.avatar = sel
	}
}

// Authored maps the many upstream author shapes onto a single Author.
//
// Resolution, first match wins:
//  1. an AuthorFrom selector, used verbatim
//  2. an embedded author or user object; name falls back through
//     displayName, name, username, then "Unknown"
//  3. a scalar authorId, author_id, userId or user_id, else "unknown"
//
// Per-field overrides then replace the id, name or avatar they name.
// Missing author metadata is never an error.
func Authored(opts ...AuthorOption) Unit {
	cfg := &authorConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(src Record, _ View, _ Build) (Fields, error) {
		if cfg.author.IsSet() {
			a, err := cfg.author.Resolve(src)
			if err != nil {
				return nil, err
			}
			return Fields{FieldAuthor: a}, nil
		}

		a := authorFromSource(src)
		if err := overrideString(src, cfg.id, &a.ID); err != nil {
			return nil, err
		}
		if err := overrideString(src, cfg.name, &a.Name); err != nil {
			return nil, err
		}
		if err := overrideString(src, cfg.avatar, &a.AvatarURL); err != nil {
			return nil, err
		}
		return Fields{FieldAuthor: a}, nil
	}
}

func authorFromSource(src Record) Author {
	obj, ok := src.Object("author")
	if !ok {
		obj, ok = src.Object("user")
	}
	if ok {
		a := Author{Name: UnknownAuthorName}
		if id, found := obj.Get("id"); found {
			a.ID = scalarString(id)
		}
		if name, found := obj.Lookup("displayName", "name", "username"); found {
			a.Name = scalarString(name)
		}
		if avatar, found := obj.Lookup("avatarUrl", "avatar_url", "avatar"); found {
			a.AvatarURL = scalarString(avatar)
		}
		return a
	}

	a := Author{ID: UnknownAuthorID, Name: UnknownAuthorName}
	if id, found := src.Lookup("authorId", "author_id", "userId", "user_id"); found {
		a.ID = scalarString(id)
	}
	return a
}

func overrideString(src Record, sel Selector[string], dst *string) error {
	if !sel.IsSet() {
		return nil
	}
	v, err := sel.Resolve(src)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// scalarString renders ids that arrive as numbers the way they appear on
// the wire, so 42 and 42.0 both become "42".
func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return fmt.Sprint(v)
	}
}

// IsAuthored reports whether v carries the authored capability.
func IsAuthored(v View) bool {
	return v.Has(FieldAuthor)
}

// AuthorOf returns the Author of an authored view.
func AuthorOf(v View) (Author, bool) {
	raw, ok := v.Get(FieldAuthor)
	if !ok {
		return Author{}, false
	}
	a, ok := raw.(Author)
	return a, ok
}
