// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(sec int) time.Time {
	return time.Date(2025, 3, 1, 12, 0, sec, 0, time.UTC)
}

func msg(id int64, text string, created time.Time) Message {
	return Message{ID: id, Text: text, CreatedAt: created}
}

func humanMsg(id int64, senderID int64, text string, created time.Time) Message {
	return Message{
		ID:        id,
		Text:      text,
		Sender:    &Sender{ID: senderID, FirstName: "Ada"},
		CreatedAt: created,
	}
}

func TestTimeline_UpsertDeduplicatesByID(t *testing.T) {
	tl := NewTimeline()

	tl.Upsert(msg(1, "first", at(0)))
	tl.Upsert(msg(2, "second", at(1)))
	tl.Upsert(msg(1, "rewritten", at(0)))

	got := tl.Messages()
	require.Len(t, got, 2)
	assert.Equal(t, "rewritten", got[0].Text, "last write for an ID wins")
	assert.Equal(t, int64(2), got[1].ID)
}

func TestTimeline_OrderedByCreatedAt(t *testing.T) {
	tl := NewTimeline()

	tl.Upsert(msg(3, "c", at(30)))
	tl.Upsert(msg(1, "a", at(10)))
	tl.Upsert(msg(2, "b", at(20)))

	got := tl.Messages()
	require.Len(t, got, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestTimeline_OrderStableOnEqualTimestamps(t *testing.T) {
	tl := NewTimeline()

	tl.Upsert(msg(5, "e", at(10)))
	tl.Upsert(msg(4, "d", at(10)))

	got := tl.Messages()
	require.Len(t, got, 2)
	assert.Equal(t, int64(4), got[0].ID, "ID breaks timestamp ties")
}

func TestTimeline_MergeIdempotent(t *testing.T) {
	page := []Message{
		msg(1, "a", at(10)),
		msg(2, "b", at(20)),
	}

	tl := NewTimeline()
	tl.Merge(page)
	once := tl.Messages()

	tl.Merge(page)
	twice := tl.Messages()

	assert.Equal(t, once, twice, "merging the same page twice changes nothing")
}

func TestTimeline_MergeCommutative(t *testing.T) {
	a := []Message{msg(1, "a", at(10)), msg(3, "c", at(30))}
	b := []Message{msg(2, "b", at(20)), msg(3, "c", at(30))}

	ab := NewTimeline()
	ab.Merge(a)
	ab.Merge(b)

	ba := NewTimeline()
	ba.Merge(b)
	ba.Merge(a)

	assert.Equal(t, ab.Messages(), ba.Messages())
}

func TestTimeline_RefetchMergesOverLocalInserts(t *testing.T) {
	tl := NewTimeline()

	// Generated-file result inserted locally before the refetch lands.
	local := Message{ID: NewLocalID(), Text: "", CreatedAt: at(25)}
	tl.Upsert(local)

	tl.Merge([]Message{msg(1, "a", at(10)), msg(2, "b", at(20))})

	got := tl.Messages()
	require.Len(t, got, 3)
	assert.Equal(t, local.ID, got[2].ID, "locally inserted entry survives the merge")
}

func TestTimeline_DraftAccumulatesAndClears(t *testing.T) {
	tl := NewTimeline()

	assert.False(t, tl.HasDraft())

	tl.AppendDraft("He")
	tl.AppendDraft("llo")
	require.True(t, tl.HasDraft())
	assert.Equal(t, "Hello", tl.Draft().Text)
	assert.Negative(t, tl.Draft().ID, "draft carries a local placeholder ID")

	tl.ClearDraft()
	assert.False(t, tl.HasDraft())
	assert.Zero(t, tl.Len(), "draft is never promoted into the canonical list")
}

func TestTimeline_DraftIsNotCanonical(t *testing.T) {
	tl := NewTimeline()
	tl.Upsert(msg(1, "a", at(10)))
	tl.AppendDraft("partial")

	assert.Equal(t, 1, tl.Len())
	assert.Len(t, tl.Messages(), 1)
}

func TestTimeline_ResetDropsEverything(t *testing.T) {
	tl := NewTimeline()
	tl.Upsert(msg(1, "a", at(10)))
	tl.AppendDraft("x")

	tl.Reset()

	assert.Zero(t, tl.Len())
	assert.False(t, tl.HasDraft())
}

func TestTimeline_ServerEchoReplacesOptimisticEntry(t *testing.T) {
	tl := NewTimeline()

	optimistic := humanMsg(NewLocalID(), 7, "hi there", at(10))
	tl.Upsert(optimistic)
	require.Len(t, tl.Messages(), 1)

	// Server broadcasts the same send under its own ID shortly after.
	tl.Upsert(humanMsg(42, 7, "hi there", at(12)))

	got := tl.Messages()
	require.Len(t, got, 1, "optimistic entry and server echo are the same send")
	assert.Equal(t, int64(42), got[0].ID)
}

func TestTimeline_EchoSuppressionRespectsWindowAndSender(t *testing.T) {
	tl := NewTimeline()

	tl.Upsert(humanMsg(NewLocalID(), 7, "hi there", at(10)))

	// Same text from a different sender is a distinct message.
	tl.Upsert(humanMsg(43, 8, "hi there", at(11)))
	assert.Len(t, tl.Messages(), 2)

	// Same text from the same sender but far outside the window stays too.
	tl.Upsert(humanMsg(44, 7, "hi there", at(10).Add(5*time.Minute)))
	assert.Len(t, tl.Messages(), 3)
}

func TestNewLocalID_AlwaysNegativeAndUnique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		id := NewLocalID()
		assert.Negative(t, id)
		assert.False(t, seen[id], "local IDs never repeat")
		seen[id] = true
	}
}
