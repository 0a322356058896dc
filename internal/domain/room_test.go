package domain

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoom_FirstJoinerBecomesFacilitator(t *testing.T) {
	req := require.New(t)
	room := NewRoom("room1")

	// When the first user joins an empty room
	snapshot, joined := room.Join("u1", "Alice")

	// Then they are the facilitator and the snapshot reflects only them
	req.Equal("u1", snapshot.FacilitatorID)
	req.Equal("room1", snapshot.RoomID)
	req.False(snapshot.IsRevealed)
	req.Equal([]Participant{{ID: "u1", Nickname: "Alice"}}, snapshot.Participants)
	req.Empty(snapshot.Votes)
	req.Equal(Participant{ID: "u1", Nickname: "Alice"}, joined)
}

func TestRoom_FacilitatorUnaffectedByLaterJoins(t *testing.T) {
	req := require.New(t)
	room := NewRoom("room1")

	room.Join("u1", "Alice")
	snapshot, _ := room.Join("u2", "Bob")

	req.Equal("u1", snapshot.FacilitatorID)
	req.Len(snapshot.Participants, 2)
}

func TestRoom_RejoinUpdatesNicknameWithoutDuplicating(t *testing.T) {
	req := require.New(t)
	room := NewRoom("room1")

	room.Join("u1", "Alice")
	snapshot, _ := room.Join("u1", "Alicia")

	req.Len(snapshot.Participants, 1)
	req.Equal("Alicia", snapshot.Participants[0].Nickname)
	req.Equal("u1", snapshot.FacilitatorID)
}

func TestRoom_VoteRequiresMembership(t *testing.T) {
	req := require.New(t)
	room := NewRoom("room1")

	room.Join("u1", "Alice")

	req.True(room.Vote("u1", "5"))
	req.False(room.Vote("ghost", "8"))
}

func TestRoom_VoteValuesWithheldUntilReveal(t *testing.T) {
	req := require.New(t)
	room := NewRoom("room1")

	room.Join("u1", "Alice")
	room.Join("u2", "Bob")
	room.Vote("u1", "5")

	// Before reveal the snapshot flags the vote but never the value
	snapshot := room.Snapshot()
	req.Empty(snapshot.Votes)
	req.True(snapshot.Participants[0].HasVoted)
	req.False(snapshot.Participants[1].HasVoted)

	votes, ok := room.Reveal("u1")
	req.True(ok)
	req.Equal(map[string]string{"u1": "5"}, votes)

	snapshot = room.Snapshot()
	req.True(snapshot.IsRevealed)
	req.Equal(map[string]string{"u1": "5"}, snapshot.Votes)
}

func TestRoom_LastVoteWinsBeforeReveal(t *testing.T) {
	req := require.New(t)
	room := NewRoom("room1")

	room.Join("u1", "Alice")
	room.Vote("u1", "3")
	room.Vote("u1", "8")

	votes, ok := room.Reveal("u1")
	req.True(ok)
	req.Equal(map[string]string{"u1": "8"}, votes)
}

func TestRoom_NoVotesAcceptedAfterReveal(t *testing.T) {
	req := require.New(t)
	room := NewRoom("room1")

	room.Join("u1", "Alice")
	room.Join("u2", "Bob")
	room.Vote("u1", "5")
	room.Reveal("u1")

	req.False(room.Vote("u2", "8"))

	_, ok := room.Reset("u1")
	req.True(ok)
	req.True(room.Vote("u2", "8"))
}

func TestRoom_PrivilegedCallsAreSilentNoOpsForNonFacilitator(t *testing.T) {
	req := require.New(t)
	room := NewRoom("room1")

	room.Join("u1", "Alice")
	room.Join("u2", "Bob")
	room.Vote("u1", "5")
	before := room.Snapshot()

	// Pinned behavior: unauthorized callers change nothing and get nothing
	_, ok := room.Reveal("u2")
	req.False(ok)
	_, ok = room.Reset("u2")
	req.False(ok)
	req.False(room.SetStory("u2", "sneaky", ""))
	req.False(room.SetEstimate("u2", "13"))

	req.Equal(before, room.Snapshot())
}

func TestRoom_ResetClearsRoundState(t *testing.T) {
	req := require.New(t)
	room := NewRoom("room1")

	room.Join("u1", "Alice")
	room.Join("u2", "Bob")
	room.SetStory("u1", "Login feature", "http://x/1")
	room.Vote("u1", "5")
	room.Vote("u2", "8")
	room.Reveal("u1")
	room.SetEstimate("u1", "8")

	archived, ok := room.Reset("u1")
	req.True(ok)
	req.NotNil(archived)
	req.Equal("Login feature", archived.Story)
	req.Equal("8", archived.Estimate)
	req.Equal(map[string]string{"u1": "5", "u2": "8"}, archived.Votes)

	snapshot := room.Snapshot()
	req.False(snapshot.IsRevealed)
	req.Empty(snapshot.Votes)
	req.Empty(snapshot.Story)
	req.Empty(snapshot.StoryURL)
	req.Empty(snapshot.Estimate)
	for _, p := range snapshot.Participants {
		req.False(p.HasVoted)
	}
}

func TestRoom_ResetIsIdempotent(t *testing.T) {
	req := require.New(t)
	room := NewRoom("room1")

	room.Join("u1", "Alice")
	room.Vote("u1", "5")
	room.Reveal("u1")

	_, ok := room.Reset("u1")
	req.True(ok)
	after := room.Snapshot()

	archived, ok := room.Reset("u1")
	req.True(ok)
	req.Nil(archived) // nothing revealed, nothing to archive
	req.Equal(after, room.Snapshot())
}

func TestRoom_HistoryOnlyArchivesRevealedRounds(t *testing.T) {
	req := require.New(t)
	room := NewRoom("room1")

	room.Join("u1", "Alice")
	room.Vote("u1", "5")

	// Reset without reveal: round discarded, not archived
	room.Reset("u1")
	req.Empty(room.History())

	room.Vote("u1", "3")
	room.Reveal("u1")
	room.Reset("u1")
	req.Len(room.History(), 1)
	req.Equal(map[string]string{"u1": "3"}, room.History()[0].Votes)
}

func TestRoom_SetStoryClearsWithEmptyStrings(t *testing.T) {
	req := require.New(t)
	room := NewRoom("room1")

	room.Join("u1", "Alice")
	req.True(room.SetStory("u1", "Login feature", "http://x/1"))

	snapshot := room.Snapshot()
	req.Equal("Login feature", snapshot.Story)
	req.Equal("http://x/1", snapshot.StoryURL)

	req.True(room.SetStory("u1", "", ""))
	snapshot = room.Snapshot()
	req.Empty(snapshot.Story)
	req.Empty(snapshot.StoryURL)
}

func TestRoom_SetEstimateRequiresReveal(t *testing.T) {
	req := require.New(t)
	room := NewRoom("room1")

	room.Join("u1", "Alice")
	room.Vote("u1", "5")

	req.False(room.SetEstimate("u1", "5"))

	room.Reveal("u1")
	req.True(room.SetEstimate("u1", "5"))
	req.Equal("5", room.Snapshot().Estimate)
}

func TestRoom_ConcurrentVotesSerializeAgainstReveal(t *testing.T) {
	req := require.New(t)
	room := NewRoom("room1")

	room.Join("u0", "Mod")
	const voters = 16
	for i := 1; i <= voters; i++ {
		room.Join(fmt.Sprintf("u%d", i), fmt.Sprintf("P%d", i))
	}

	accepted := make([]bool, voters+1)
	var revealedVotes map[string]string

	var wg sync.WaitGroup
	for i := 1; i <= voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			accepted[i] = room.Vote(fmt.Sprintf("u%d", i), "5")
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		revealedVotes, _ = room.Reveal("u0")
	}()
	wg.Wait()

	// Accepting a vote and flipping isRevealed serialize on the room mutex:
	// a vote is accepted exactly when it lands before the flip, and then it
	// is on the revealed table.
	for i := 1; i <= voters; i++ {
		_, onTable := revealedVotes[fmt.Sprintf("u%d", i)]
		req.Equal(accepted[i], onTable)
	}

	snapshot := room.Snapshot()
	req.True(snapshot.IsRevealed)
	req.Equal(revealedVotes, snapshot.Votes)
}

func TestRoom_SnapshotPreservesJoinOrder(t *testing.T) {
	req := require.New(t)
	room := NewRoom("room1")

	room.Join("u3", "Carol")
	room.Join("u1", "Alice")
	room.Join("u2", "Bob")

	snapshot := room.Snapshot()
	ids := []string{}
	for _, p := range snapshot.Participants {
		ids = append(ids, p.ID)
	}
	req.Equal([]string{"u3", "u1", "u2"}, ids)
}
