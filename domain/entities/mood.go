package entities

import "fmt"

// Mood represents the seeker's self-reported emotional state
type Mood string

const (
	MoodAnxious   Mood = "ANXIOUS"
	MoodLonely    Mood = "LONELY"
	MoodGrieving  Mood = "GRIEVING"
	MoodStressed  Mood = "STRESSED"
	MoodOverjoyed Mood = "OVERJOYED"
	MoodTired     Mood = "TIRED"
)

// Moods lists every supported mood in display order
var Moods = []Mood{
	MoodAnxious,
	MoodLonely,
	MoodGrieving,
	MoodStressed,
	MoodOverjoyed,
	MoodTired,
}

// ParseMood converts a raw string into a Mood
func ParseMood(raw string) (Mood, error) {
	for _, m := range Moods {
		if string(m) == raw {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q: %w", raw, ErrInvalidRequest)
}

// Valid reports whether the mood is one of the supported values
func (m Mood) Valid() bool {
	for _, known := range Moods {
		if m == known {
			return true
		}
	}
	return false
}

// Topics lists the conversation topics a seeker can pick from
var Topics = []string{
	"Grief & Loss",
	"Family & Rishtey",
	"Career & Padhai Stress",
	"Loneliness (Akela-pan)",
	"Health & Wellness",
	"Burnout & Thakaan",
	"General Baat-cheet",
}
