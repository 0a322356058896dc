package domain

import (
	"sync"
	"time"
)

// Participant is a user present in a room. HasVoted is the only thing other
// clients learn about a vote before reveal.
type Participant struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	HasVoted bool   `json:"hasVoted"`
}

// Snapshot is the full room state sent to a newly joined connection. Votes is
// always non-nil and stays empty until the round has been revealed.
type Snapshot struct {
	RoomID        string            `json:"roomId"`
	Participants  []Participant     `json:"participants"`
	Votes         map[string]string `json:"votes"`
	IsRevealed    bool              `json:"isRevealed"`
	FacilitatorID string            `json:"facilitatorId"`
	Story         string            `json:"story"`
	StoryURL      string            `json:"storyUrl"`
	Estimate      string            `json:"estimate"`
}

// Round is an archived estimation round, recorded when the facilitator resets
// a revealed room. Kept in memory only.
type Round struct {
	Story    string            `json:"story"`
	StoryURL string            `json:"storyUrl"`
	Estimate string            `json:"estimate"`
	Votes    map[string]string `json:"votes"`
	EndedAt  time.Time         `json:"endedAt"`
}

// Room holds the authoritative state of one estimation session. All
// transitions take the room mutex, so two concurrent events for the same room
// apply one after the other; rooms never share a lock.
type Room struct {
	ID        string
	CreatedAt time.Time

	mu            sync.Mutex
	participants  map[string]*Participant
	joinOrder     []string
	votes         map[string]string
	isRevealed    bool
	facilitatorID string
	story         string
	storyURL      string
	estimate      string
	history       []Round
}

func NewRoom(id string) *Room {
	return &Room{
		ID:           id,
		CreatedAt:    time.Now(),
		participants: make(map[string]*Participant),
		votes:        make(map[string]string),
	}
}

// Join upserts the participant and returns the snapshot to sync the joining
// connection, plus the participant payload to announce to the rest of the
// room. The first user to join becomes the facilitator for the lifetime of
// the room.
func (r *Room) Join(userID, nickname string) (Snapshot, Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.participants[userID]; ok {
		// Rejoin keeps the entry, refreshes the nickname and drops the
		// voted flag, matching what a fresh client expects to render.
		existing.Nickname = nickname
		existing.HasVoted = false
	} else {
		r.participants[userID] = &Participant{ID: userID, Nickname: nickname}
		r.joinOrder = append(r.joinOrder, userID)
	}

	if r.facilitatorID == "" {
		r.facilitatorID = userID
	}

	return r.snapshotLocked(), Participant{ID: userID, Nickname: nickname}
}

// Vote records the user's card for the current round. Votes from users who
// never joined, or arriving after reveal, are dropped. A repeat vote before
// reveal overwrites the previous one.
func (r *Room) Vote(userID, value string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[userID]
	if !ok || r.isRevealed {
		return false
	}

	r.votes[userID] = value
	p.HasVoted = true
	return true
}

// Reveal discloses the votes of the current round. Facilitator only; anyone
// else is a silent no-op.
func (r *Room) Reveal(userID string) (map[string]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if userID != r.facilitatorID || r.facilitatorID == "" {
		return nil, false
	}

	r.isRevealed = true
	return copyVotes(r.votes), true
}

// Reset starts a new round: votes, voted flags, story and estimate are
// cleared. If the previous round had been revealed it is archived first, and
// the archived round is returned so callers can publish it. Facilitator only.
func (r *Room) Reset(userID string) (*Round, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if userID != r.facilitatorID || r.facilitatorID == "" {
		return nil, false
	}

	var archived *Round
	if r.isRevealed {
		round := Round{
			Story:    r.story,
			StoryURL: r.storyURL,
			Estimate: r.estimate,
			Votes:    copyVotes(r.votes),
			EndedAt:  time.Now(),
		}
		r.history = append(r.history, round)
		archived = &round
	}

	r.votes = make(map[string]string)
	r.isRevealed = false
	r.story = ""
	r.storyURL = ""
	r.estimate = ""
	for _, p := range r.participants {
		p.HasVoted = false
	}

	return archived, true
}

// SetStory updates the current work item. Empty strings clear it. Facilitator
// only.
func (r *Room) SetStory(userID, story, storyURL string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if userID != r.facilitatorID || r.facilitatorID == "" {
		return false
	}

	r.story = story
	r.storyURL = storyURL
	return true
}

// SetEstimate records the agreed estimate for the revealed round. Facilitator
// only, and only once the votes are on the table.
func (r *Room) SetEstimate(userID, estimate string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if userID != r.facilitatorID || r.facilitatorID == "" || !r.isRevealed {
		return false
	}

	r.estimate = estimate
	return true
}

// Snapshot returns the state as visible to a client right now. Vote values
// are withheld until reveal.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() Snapshot {
	participants := make([]Participant, 0, len(r.joinOrder))
	for _, id := range r.joinOrder {
		participants = append(participants, *r.participants[id])
	}

	votes := make(map[string]string)
	if r.isRevealed {
		votes = copyVotes(r.votes)
	}

	return Snapshot{
		RoomID:        r.ID,
		Participants:  participants,
		Votes:         votes,
		IsRevealed:    r.isRevealed,
		FacilitatorID: r.facilitatorID,
		Story:         r.story,
		StoryURL:      r.storyURL,
		Estimate:      r.estimate,
	}
}

// History returns the archived rounds since room creation, oldest first.
func (r *Room) History() []Round {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Round, len(r.history))
	copy(out, r.history)
	return out
}

func copyVotes(votes map[string]string) map[string]string {
	out := make(map[string]string, len(votes))
	for id, v := range votes {
		out[id] = v
	}
	return out
}
