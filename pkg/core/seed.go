package core

import "time"

const welcomeContent = `Smart Notes is a digital notebook with optional AI assistance.

SETTINGS
- THEME: pick one of twelve accent colors.
- FEATURES: enable or disable the AI assistant and voice dictation.

LIMITS
- NOTES: up to 5,000 notes.
- CATEGORIES: up to 120 categories, each with its own color.
- PINNING: up to 5 categories can be pinned to the top of the list.

AI ASSISTANT
- Improves style, proposes a title, writes a short summary, verifies facts and translates.

YOUR DATA
- Notes live only in local storage. Do not keep passwords here.
- EXPORT before clearing storage or moving to another device.
- IMPORT is additive: imported notes are stacked on top of existing ones.`

const gettingStartedContent = `This note is fully editable; delete it once you have read it.

1. CREATE: add a note with "new note".
2. EDIT: open a note and start typing. Changes are saved immediately.
3. CATEGORIES: label notes for a better overview. A category's color frames its notes.
4. AI: ask the assistant to improve the text, propose a title or write a summary.
5. DICTATION: enable the microphone in settings and dictate instead of typing.

Remember to back up your notes regularly with EXPORT.`

func seedNotes(now time.Time, newID func() string) []Note {
	ts := now.UnixMilli()
	return []Note{
		{
			ID:         WelcomeNoteID,
			Title:      DefaultWelcomeTitle,
			Content:    welcomeContent,
			Summary:    "Overview of features, limits and settings.",
			Author:     "Smart Notes Team",
			UpdatedAt:  ts,
			Categories: []string{SystemCategory},
			IsPinned:   true,
		},
		{
			ID:         newID(),
			Title:      "Getting started with Smart Notes",
			Content:    gettingStartedContent,
			Summary:    "A quick-start guide.",
			Author:     "Smart Notes",
			UpdatedAt:  ts + 1000,
			Categories: []string{"Personal"},
		},
	}
}
