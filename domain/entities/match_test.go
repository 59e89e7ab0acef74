package entities

import (
	"errors"
	"testing"
)

func TestMatchRequestValidation(t *testing.T) {
	valid := MatchRequest{Mood: MoodStressed, Topic: "Loneliness (Akela-pan)"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Valid request should pass, got %v", err)
	}

	cases := []MatchRequest{
		{},
		{Mood: MoodStressed},
		{Topic: "Grief & Loss"},
		{Mood: Mood("FURIOUS"), Topic: "Grief & Loss"},
	}
	for _, req := range cases {
		if err := req.Validate(); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Expected ErrInvalidRequest for %+v, got %v", req, err)
		}
	}
}

func TestParseMood(t *testing.T) {
	mood, err := ParseMood("STRESSED")
	if err != nil {
		t.Fatalf("ParseMood failed: %v", err)
	}
	if mood != MoodStressed {
		t.Errorf("Expected %s, got %s", MoodStressed, mood)
	}

	if _, err := ParseMood("stressed"); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest for lowercase input, got %v", err)
	}
	if _, err := ParseMood(""); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest for empty input, got %v", err)
	}
}

func TestMatchResult(t *testing.T) {
	empty := MatchResult{Fallback: true}
	if empty.Matched() {
		t.Error("Result without listener should not report matched")
	}

	matched := MatchResult{Listener: testListener()}
	if !matched.Matched() {
		t.Error("Result with listener should report matched")
	}
}

func TestSupportsTopic(t *testing.T) {
	listener := testListener()
	if !listener.SupportsTopic("Career & Padhai Stress") {
		t.Error("Expected listener to support its tagged topic")
	}
	if listener.SupportsTopic("Grief & Loss") {
		t.Error("Did not expect listener to support an untagged topic")
	}
}
