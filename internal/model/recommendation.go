package model

// Recommendations holds the two ranked recommendation lists. Each list is
// capped; ordering is like-count descending with a deterministic tie-break,
// so repeated calls over unchanged data return identical lists.
type Recommendations struct {
	Snippets  []Snippet  `json:"snippets"`
	Documents []Document `json:"documents"`
}

// ProfileVisibility is the visibility resolver's verdict for a profile view.
// MinimalOnly is a soft-deny: callers must return the bare user row with
// zeroed counts and empty collections instead of an access error, so block
// existence does not leak through error behavior.
type ProfileVisibility struct {
	Blocked     bool `json:"-"`
	MinimalOnly bool `json:"-"`
}

// Profile is the assembled profile response for a viewer.
type Profile struct {
	User           User `json:"user"`
	FollowerCount  int  `json:"follower_count"`
	FollowingCount int  `json:"following_count"`
	SnippetCount   int  `json:"snippet_count"`
	DocumentCount  int  `json:"document_count"`
	IsFollowing    bool `json:"is_following"`
}
