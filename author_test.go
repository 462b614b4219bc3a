package facet

import (
	"errors"
	"testing"
)

func deriveAuthor(t *testing.T, src Record, opts ...AuthorOption) Author {
	t.Helper()
	view, err := Derive(src, Authored(opts...))
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	a, ok := AuthorOf(view)
	if !ok {
		t.Fatal("expected authored view")
	}
	return a
}

func TestAuthored_UsernameFallback(t *testing.T) {
	a := deriveAuthor(t, Record{"author": map[string]any{"id": "u1", "username": "bob"}})

	want := Author{ID: "u1", Name: "bob"}
	if a != want {
		t.Errorf("expected %+v, got %+v", want, a)
	}
}

func TestAuthored_NamePrecedence(t *testing.T) {
	a := deriveAuthor(t, Record{"author": map[string]any{
		"id":          "u1",
		"username":    "bob",
		"name":        "Bob B.",
		"displayName": "Bobby",
	}})
	if a.Name != "Bobby" {
		t.Errorf("expected displayName to win, got %q", a.Name)
	}

	a = deriveAuthor(t, Record{"author": map[string]any{"id": "u1", "username": "bob", "name": "Bob B."}})
	if a.Name != "Bob B." {
		t.Errorf("expected name over username, got %q", a.Name)
	}

	a = deriveAuthor(t, Record{"author": map[string]any{"id": "u1"}})
	if a.Name != UnknownAuthorName {
		t.Errorf("expected %q, got %q", UnknownAuthorName, a.Name)
	}
}

func TestAuthored_AvatarAliases(t *testing.T) {
	cases := map[string]Record{
		"avatarUrl":  {"avatarUrl": "a.png", "avatar_url": "b.png", "avatar": "c.png"},
		"avatar_url": {"avatar_url": "a.png", "avatar": "c.png"},
		"avatar":     {"avatar": "a.png"},
	}
	for name, obj := range cases {
		obj["id"] = "u1"
		a := deriveAuthor(t, Record{"author": map[string]any(obj)})
		if a.AvatarURL != "a.png" {
			t.Errorf("%s: expected a.png, got %q", name, a.AvatarURL)
		}
	}
}

func TestAuthored_UserAlias(t *testing.T) {
	a := deriveAuthor(t, Record{"user": Record{"id": "u9", "displayName": "Nine"}})
	if a.ID != "u9" || a.Name != "Nine" {
		t.Errorf("expected user object to be used, got %+v", a)
	}
}

func TestAuthored_AuthorObjectBeatsUser(t *testing.T) {
	a := deriveAuthor(t, Record{
		"author": map[string]any{"id": "a1", "name": "A"},
		"user":   map[string]any{"id": "u1", "name": "U"},
	})
	if a.ID != "a1" {
		t.Errorf("expected author object to win, got %+v", a)
	}
}

func TestAuthored_ScalarIDLadder(t *testing.T) {
	a := deriveAuthor(t, Record{"user_id": "u4", "userId": "u3", "author_id": "u2"})
	if a.ID != "u2" {
		t.Errorf("expected author_id before userId, got %q", a.ID)
	}
	if a.Name != UnknownAuthorName {
		t.Errorf("expected %q, got %q", UnknownAuthorName, a.Name)
	}
	if a.AvatarURL != "" {
		t.Errorf("expected no avatar, got %q", a.AvatarURL)
	}

	a = deriveAuthor(t, Record{"authorId": float64(42), "author_id": "u2"})
	if a.ID != "42" {
		t.Errorf("expected numeric id stringified, got %q", a.ID)
	}
}

func TestAuthored_NothingDegradesToUnknown(t *testing.T) {
	a := deriveAuthor(t, Record{"title": "orphan"})

	want := Author{ID: UnknownAuthorID, Name: UnknownAuthorName}
	if a != want {
		t.Errorf("expected %+v, got %+v", want, a)
	}
}

func TestAuthored_ExplicitSelectorVerbatim(t *testing.T) {
	explicit := Author{ID: "x", Name: "Explicit"}
	a := deriveAuthor(t,
		Record{"author": map[string]any{"id": "u1", "name": "Ignored"}},
		AuthorFrom(Literal(explicit)),
		AuthorName(Literal("also ignored")),
	)
	if a != explicit {
		t.Errorf("expected %+v, got %+v", explicit, a)
	}
}

func TestAuthored_FieldOverrides(t *testing.T) {
	a := deriveAuthor(t,
		Record{"authorId": "u1", "authorName": "Ann", "pic": "p.png"},
		AuthorName(Func(func(r Record) string {
			name, _ := r["authorName"].(string)
			return name
		})),
		AuthorAvatar(Func(func(r Record) string {
			pic, _ := r["pic"].(string)
			return pic
		})),
	)

	want := Author{ID: "u1", Name: "Ann", AvatarURL: "p.png"}
	if a != want {
		t.Errorf("expected %+v, got %+v", want, a)
	}
}

func TestAuthored_OverrideErrorPropagates(t *testing.T) {
	boom := errors.New("lookup failed")
	_, err := Derive(Record{}, Authored(AuthorID(From(func(Record) (string, error) {
		return "", boom
	}))))
	if err != boom {
		t.Errorf("expected selector error unmodified, got %v", err)
	}
}

func TestIsAuthored(t *testing.T) {
	without, err := Derive(Record{"author": map[string]any{"id": "u1"}}, Pick("title"), Timestamped())
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	if IsAuthored(without) {
		t.Error("expected view without Authored mapper not to be authored")
	}

	with, err := Derive(Record{}, Pick("title"), Authored())
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	if !IsAuthored(with) {
		t.Error("expected view with Authored mapper to be authored")
	}
}
