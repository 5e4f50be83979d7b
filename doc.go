// Package smartnotes is the Composition Root for the smartnotes application.
//
// It connects the note-taking core (Domain Layer) with the storage adapters
// (Persistence Layer) using the Hexagonal Architecture pattern.
//
// The core keeps notes and categories in memory as the source of truth and
// syncs them to a pluggable store after every mutation: JSON files, BadgerDB,
// SQLite or plain memory. A separate recovery file receives a full snapshot
// every 30 seconds.
//
// Features:
//
//   - **Invariants first**: capacity limits, unique category names and the pin limit are enforced on every mutation.
//   - **View engine**: filtering, pin-tiered locale-aware sorting and counters as pure functions.
//   - **Editor session**: discard and duplicate confirmations as an explicit state machine.
//   - **Import/Export**: JSON or YAML documents with an additive, idempotent merge.
//   - **AI collaborator**: summarize, improve, fact-check and translate notes through any OpenAI-compatible endpoint.
//
// Usage:
//
//	sess, err := smartnotes.New(ctx, "./notes",
//		smartnotes.WithAdapter("sqlite"),
//		smartnotes.WithLogger(logger),
//	)
//	defer sess.Close(ctx)
//
//	note, err := sess.Service.CreateNote(core.NoteInput{Title: "Groceries"})
package smartnotes
