package facet

import (
	"errors"
	"reflect"
	"testing"
)

var commentUnits = Nested(Pick("id", "body"), Authored())

func TestHasMany_RemapsKey(t *testing.T) {
	view, err := Derive(Record{"comments": []any{map[string]any{"id": "1", "body": "hi"}}},
		HasMany("comments", commentUnits, Into("notes")),
	)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	notes, ok := view.Views("notes")
	if !ok {
		t.Fatal("expected notes relation")
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	if view.Has("comments") {
		t.Error("expected no comments key after remap")
	}
	if body, _ := notes[0].String("body"); body != "hi" {
		t.Errorf("expected body 'hi', got %q", body)
	}
	if !IsAuthored(notes[0]) {
		t.Error("expected nested pipeline to run in full")
	}
}

func TestHasMany_AbsentIsEmptyNotNil(t *testing.T) {
	for name, src := range map[string]Record{
		"missing":   {},
		"null":      {"comments": nil},
		"not array": {"comments": "nope"},
		"object":    {"comments": map[string]any{"id": "1"}},
	} {
		view, err := Derive(src, HasMany("comments", commentUnits))
		if err != nil {
			t.Fatalf("%s: Derive failed: %v", name, err)
		}
		comments, ok := view.Views("comments")
		if !ok {
			t.Fatalf("%s: expected comments key holding []View", name)
		}
		if comments == nil || len(comments) != 0 {
			t.Errorf("%s: expected empty non-nil slice, got %#v", name, comments)
		}
	}
}

func TestHasMany_PreservesOrderAndSkipsNonObjects(t *testing.T) {
	view, err := Derive(Record{"comments": []any{
		map[string]any{"id": "1"},
		"stray",
		nil,
		Record{"id": "2"},
	}}, HasMany("comments", commentUnits))
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	comments, _ := view.Views("comments")
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	for i, want := range []string{"1", "2"} {
		if id, _ := comments[i].String("id"); id != want {
			t.Errorf("comment %d: expected id %q, got %q", i, want, id)
		}
	}
}

func TestHasMany_TypedSlices(t *testing.T) {
	view, err := Derive(Record{"comments": []Record{{"id": "1"}, {"id": "2"}}}, HasMany("comments", commentUnits))
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	if comments, _ := view.Views("comments"); len(comments) != 2 {
		t.Errorf("expected 2 comments, got %d", len(comments))
	}
}

func TestHasMany_NestedErrorAbortsParent(t *testing.T) {
	boom := errors.New("nested failure")
	failing := Nested(func(Record, View, Build) (Fields, error) { return nil, boom })

	view, err := Derive(Record{"comments": []any{map[string]any{"id": "1"}}},
		Const("title", "x"),
		HasMany("comments", failing),
	)
	if err != boom {
		t.Errorf("expected nested error unmodified, got %v", err)
	}
	if view.Len() != 0 {
		t.Error("expected no partial parent view")
	}
}

func TestHasOne_Present(t *testing.T) {
	profile := NewPipeline("profile", Pick("bio"))

	view, err := Derive(Record{"profile": map[string]any{"bio": "hello", "ssn": "x"}}, HasOne("profile", profile))
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	nested, ok := view.View("profile")
	if !ok {
		t.Fatal("expected embedded view")
	}
	if bio, _ := nested.String("bio"); bio != "hello" {
		t.Errorf("expected bio 'hello', got %q", bio)
	}
	if nested.Has("ssn") {
		t.Error("expected nested pipeline to shape the relation")
	}
}

func TestHasOne_AbsentOrFalsyIsNil(t *testing.T) {
	for name, src := range map[string]Record{
		"missing":      {},
		"null":         {"profile": nil},
		"false":        {"profile": false},
		"empty string": {"profile": ""},
		"zero":         {"profile": float64(0)},
		"scalar":       {"profile": "p1"},
	} {
		view, err := Derive(src, HasOne("profile", Nested(Pick("bio")), Into("owner")))
		if err != nil {
			t.Fatalf("%s: Derive failed: %v", name, err)
		}
		raw, ok := view.Get("owner")
		if !ok {
			t.Fatalf("%s: expected owner key to be present", name)
		}
		if raw != nil {
			t.Errorf("%s: expected nil relation, got %#v", name, raw)
		}
		if _, ok := view.View("owner"); ok {
			t.Errorf("%s: expected View accessor to report false", name)
		}
	}
}

func TestHasOne_CustomSelector(t *testing.T) {
	view, err := Derive(Record{"meta": map[string]any{"owner": map[string]any{"bio": "deep"}}},
		HasOne("owner", Nested(Pick("bio")), Select(Func(func(r Record) any {
			meta, _ := r.Object("meta")
			owner, _ := meta.Get("owner")
			return owner
		}))),
	)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	owner, ok := view.View("owner")
	if !ok {
		t.Fatal("expected owner view")
	}
	if bio, _ := owner.String("bio"); bio != "deep" {
		t.Errorf("expected bio 'deep', got %q", bio)
	}
}

func TestHasOne_SeedsWatchStateForLaterUnit(t *testing.T) {
	subscription := Nested(Pick("active"))
	fromSubscription := func(_ Record, acc View, _ Build) (Fields, error) {
		sub, ok := acc.View("subscription")
		if !ok {
			return nil, nil
		}
		active, _ := sub.Bool("active")
		return Fields{FieldIsWatched: active}, nil
	}

	view, err := Derive(Record{"isWatched": false, "subscription": map[string]any{"active": true}},
		HasOne("subscription", subscription),
		fromSubscription,
		Watchable(WatcherType(Literal("post")), WatcherID(Literal("p1"))),
	)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	if watched, _ := view.Bool(FieldIsWatched); !watched {
		t.Error("expected watch state seeded from relation")
	}
}

func TestRelations_KeepNestedPipelineSeed(t *testing.T) {
	comment := NewPipeline("comment", Pick("id")).Seed(Fields{"kind": "comment"})
	raw := map[string]any{"id": "c1"}

	direct, err := comment.Derive(Record(raw))
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	view, err := Derive(Record{"pinned": raw, "comments": []any{raw}},
		HasOne("pinned", comment),
		HasMany("comments", comment),
	)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	pinned, _ := view.View("pinned")
	if !reflect.DeepEqual(pinned.Fields(), direct.Fields()) {
		t.Errorf("HasOne: expected %#v, got %#v", direct, pinned)
	}
	comments, _ := view.Views("comments")
	if len(comments) != 1 || !reflect.DeepEqual(comments[0].Fields(), direct.Fields()) {
		t.Errorf("HasMany: expected [%#v], got %v", direct, comments)
	}
}

func TestRelations_NestedSeedIsOverridable(t *testing.T) {
	comment := NewPipeline("comment", Pick("id", "kind")).Seed(Fields{"kind": "comment"})

	view, err := Derive(Record{"reply": map[string]any{"id": "r1", "kind": "reply"}}, HasOne("reply", comment))
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	reply, _ := view.View("reply")
	if kind, _ := reply.String("kind"); kind != "reply" {
		t.Errorf("expected nested unit to override seed, got %q", kind)
	}
}
