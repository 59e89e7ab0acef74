package entities

import "errors"

// ListenerProfile represents a peer-support listener as shown to seekers.
// Profiles are created at directory load time; the matching core never
// creates or destroys them. IsOnline is written only by the listener's own
// availability toggle and is read-only everywhere else.
type ListenerProfile struct {
	ID        string   `json:"id" bson:"_id"`
	Name      string   `json:"name" bson:"name"`
	Bio       string   `json:"bio" bson:"bio"`
	Tags      []string `json:"tags" bson:"tags"`
	IsOnline  bool     `json:"is_online" bson:"is_online"`
	Rating    float64  `json:"rating" bson:"rating"`
	CallCount int      `json:"call_count" bson:"call_count"`
	Vibe      string   `json:"vibe" bson:"vibe"`
	Avatar    string   `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

// SupportsTopic reports whether this listener covers the given topic
func (l *ListenerProfile) SupportsTopic(topic string) bool {
	for _, tag := range l.Tags {
		if tag == topic {
			return true
		}
	}
	return false
}

// Validate validates the profile data
func (l *ListenerProfile) Validate() error {
	if l.ID == "" {
		return errors.New("listener id is required")
	}
	if l.Name == "" {
		return errors.New("listener name is required")
	}
	if l.Rating < 0 || l.Rating > 5 {
		return errors.New("listener rating must be between 0 and 5")
	}
	if l.CallCount < 0 {
		return errors.New("listener call count cannot be negative")
	}
	return nil
}
