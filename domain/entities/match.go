package entities

// MatchRequest captures the seeker's intent before matching starts.
// Both fields are required; a request is transient and never persisted.
type MatchRequest struct {
	Mood  Mood   `json:"mood"`
	Topic string `json:"topic"`
}

// Validate checks that the request is complete enough to start matching
func (r MatchRequest) Validate() error {
	if r.Mood == "" || r.Topic == "" {
		return ErrInvalidRequest
	}
	if !r.Mood.Valid() {
		return ErrInvalidRequest
	}
	return nil
}

// MatchResult is the outcome of a matching run: either a matched listener
// or an explicit no-match. The engine never silently substitutes an
// arbitrary unrelated listener without marking the result a fallback.
type MatchResult struct {
	Listener *ListenerProfile `json:"listener,omitempty"`
	// Fallback is true when no online listener covered the requested topic
	// and the result came from the fallback policy instead.
	Fallback bool `json:"fallback"`
}

// Matched reports whether the result carries a listener at all
func (r MatchResult) Matched() bool {
	return r.Listener != nil
}
