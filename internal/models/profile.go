package models

// AccessLevel is the disclosure tier applied when rendering one user's profile
// to another.
type AccessLevel string

const (
	// AccessLevelOwn is the viewer looking at their own profile.
	AccessLevelOwn AccessLevel = "own"
	// AccessLevelConnected is a non-blocked friendship between viewer and target.
	AccessLevelConnected AccessLevel = "connected"
	// AccessLevelPreview is everyone else: never connected, removed, or blocked.
	AccessLevelPreview AccessLevel = "preview"
)

// ProfileView is the field set disclosed for a given access level. Fields that
// a tier withholds are left nil so they are absent from the JSON response
// rather than nulled.
type ProfileView struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Profession string `json:"profession,omitempty"`
	Bio        string `json:"bio,omitempty"`
	Verified   bool   `json:"verified"`

	// Connected/own tiers only.
	Age          *int      `json:"age,omitempty"`
	Religion     *string   `json:"religion,omitempty"`
	Place        *string   `json:"place,omitempty"`
	Skills       *[]string `json:"skills,omitempty"`
	Photos       *[]string `json:"photos,omitempty"`
	Achievements *[]string `json:"achievements,omitempty"`
	College      *string   `json:"college,omitempty"`
	Company      *string   `json:"company,omitempty"`
	Website      *string   `json:"website,omitempty"`

	// Owner-only contact fields.
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// MutualFriend is the id+name summary of a shared non-blocked counterparty.
type MutualFriend struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ProfileResponse is the resolver output for GET /profiles/:id.
type ProfileResponse struct {
	Profile       ProfileView    `json:"profile"`
	AccessLevel   AccessLevel    `json:"access_level"`
	MutualCount   int            `json:"mutual_count"`
	MutualFriends []MutualFriend `json:"mutual_friends"`
}
