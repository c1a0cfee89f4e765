package domain

// Profile is a user's public profile as returned by the users endpoint.
type Profile struct {
	Login     string `json:"login"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
}

// FilledFields reports how many of name, email, bio and avatar are present.
func (p Profile) FilledFields() int {
	n := 0
	for _, v := range []string{p.Name, p.Email, p.Bio, p.AvatarURL} {
		if v != "" {
			n++
		}
	}
	return n
}

// Level is the three-tier outcome used by the profile sub-scores.
type Level int

const (
	LevelNone Level = iota
	LevelPartial
	LevelFull
)

func (l Level) String() string {
	switch l {
	case LevelFull:
		return "full"
	case LevelPartial:
		return "partial"
	default:
		return "none"
	}
}
