package memory

import "github.com/healspace/server/domain/entities"

// SeedListeners returns the built-in listener directory used in
// development and demos. Directory order is significant: matching picks
// the first candidate and the fallback policy uses the first entry.
func SeedListeners() []*entities.ListenerProfile {
	return []*entities.ListenerProfile{
		{
			ID:        "l1",
			Name:      "Aarav (Verified)",
			Bio:       "Work-life balance aur career stress mein expert. Main yahan hoon taaki aap bina kisi tension ke apni baat rakh sakein.",
			Tags:      []string{"Career & Padhai Stress", "Burnout & Thakaan", "General Baat-cheet"},
			IsOnline:  true,
			Rating:    4.9,
			CallCount: 342,
			Vibe:      "Calm & Grounded",
		},
		{
			ID:        "l2",
			Name:      "Ishani",
			Bio:       "Relationship issues ya family problems? Sab handle ho jayega. Let's talk and find a way out together.",
			Tags:      []string{"Family & Rishtey", "Grief & Loss", "Healing"},
			IsOnline:  true,
			Rating:    4.8,
			CallCount: 156,
			Vibe:      "Warm & Empathetic",
		},
		{
			ID:        "l3",
			Name:      "Rohan",
			Bio:       "Social anxiety aur akelapan feel ho raha hai? Main ek accha listener hoon, aap bas share karein.",
			Tags:      []string{"Loneliness (Akela-pan)", "Anxiety", "Mindfulness"},
			IsOnline:  true,
			Rating:    4.9,
			CallCount: 289,
			Vibe:      "Analytical & Kind",
		},
		{
			ID:        "l4",
			Name:      "Priya",
			Bio:       "Mushkil waqt mein koi saath chahiye? Main yahan hoon. Emotional support ke liye kabhi bhi connect karein.",
			Tags:      []string{"Grief & Loss", "Health & Wellness"},
			IsOnline:  false,
			Rating:    5.0,
			CallCount: 88,
			Vibe:      "Steady & Present",
		},
	}
}
