// Package facet derives read-only views from raw API records.
//
// A view is assembled by a pipeline of small, reusable mapping units. Each
// unit reads the source record (and whatever earlier units produced) and
// returns a partial set of fields; the engine shallow-merges those partials
// in order into one immutable View. Different call sites bind different
// pipelines, so a list view can carry only a title and excerpt while a
// detail view adds the author, timestamps and embedded comments.
//
// # Composition
//
//	Record → unit₁ → unit₂ → … → unitₙ → View
//
// Later units win on key collision. Any unit error aborts the derivation
// and is returned unchanged; no partial view is ever produced.
//
//	view, err := facet.Derive(record,
//	    facet.Pick("id", "title"),
//	    facet.Authored(),
//	    facet.Timestamped(),
//	)
//
// Binding the same units once into a Pipeline gives a reusable factory:
//
//	detail := facet.NewPipeline("post.detail",
//	    facet.Pick("id", "title", "body"),
//	    facet.Authored(),
//	    facet.Timestamped(),
//	    facet.HasMany("comments", comment, facet.Into("notes")),
//	    facet.Watchable(
//	        facet.WatcherType(facet.Literal("post")),
//	        facet.WatcherID(facet.Func(func(r facet.Record) string {
//	            id, _ := r["id"].(string)
//	            return id
//	        })),
//	    ),
//	)
//
// # Behaviors
//
// The behavior mappers normalize the non-uniform shapes upstream APIs use
// and degrade to defaults instead of failing on missing metadata:
//
//   - Authored: author/user objects or scalar ids → Author{ID, Name, AvatarURL}
//   - Timestamped: createdAt/created_at, updatedAt/updated_at → time.Time
//   - Watchable: isWatched plus watcher type and id
//
// Every extraction can be overridden with a Selector, which is either a
// literal (Literal) or a function of the source record (From, Func).
//
// # Capabilities
//
// IsAuthored, IsTimestamped and IsWatchable check a View purely by key
// presence, so shared logic works across views from different pipelines.
//
// # Relations
//
// HasOne and HasMany embed nested views derived through the same contract.
// A missing has-one is nil; a missing has-many is an empty slice.
//
// # Caching
//
// Expensive fields opt into memoization with Cached; the value is computed
// on first Memo call and reused for the lifetime of that View.
//
// # Projections
//
// A Projection keeps a View current against a Watcher (see pkg/file and
// pkg/redis), re-deriving on every change and replacing the view wholesale.
// Lifecycle events are emitted as capitan signals.
package facet
