package model

import "time"

type PairID = string

const EmptyPairID PairID = ""

type Category = string

const CategoryAll Category = "All"

// Categories a pair can belong to. "All" is the unfiltered feed.
var Categories = []Category{CategoryAll, "General", "Sports", "Music", "Tech"}

func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Choice string

const (
	ChoiceA Choice = "A"
	ChoiceB Choice = "B"
)

func ValidChoice(c Choice) bool {
	return c == ChoiceA || c == ChoiceB
}

// Actor identifies a voter by exactly one of device or user identity.
// UserID takes precedence when the actor is signed in.
type Actor struct {
	DeviceID string
	UserID   string
}

func (a Actor) IsZero() bool {
	return a.DeviceID == "" && a.UserID == ""
}

// Vote is one normalized vote record on a pair. Exactly one of DeviceID
// and UserID is set; records that arrive ambiguous are normalized at the
// platform boundary before they reach this type.
type Vote struct {
	DeviceID string
	UserID   string
	Choice   Choice
}

// By reports whether this record belongs to the given actor.
func (v Vote) By(actor Actor) bool {
	if actor.UserID != "" && v.UserID == actor.UserID {
		return true
	}
	return actor.DeviceID != "" && v.DeviceID == actor.DeviceID
}

type Tally struct {
	A int
	B int
}

func (t Tally) Total() int {
	return t.A + t.B
}

type Pair struct {
	ID        PairID
	Category  Category
	OptionA   string
	OptionB   string
	Votes     Tally
	CreatedAt time.Time
	Voters    []Vote
}

// VoteBy returns the first vote record matching the actor. The first match
// is authoritative for "has voted" purposes even if duplicates exist.
func (p Pair) VoteBy(actor Actor) (Vote, bool) {
	for _, v := range p.Voters {
		if v.By(actor) {
			return v, true
		}
	}
	return Vote{}, false
}

// TallyUpdate is an authoritative counter pair for one poll, either the
// cast_vote RPC result or a realtime push.
type TallyUpdate struct {
	ID    PairID
	Votes Tally
}
