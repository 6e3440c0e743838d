package models

// StatisticsPayload is the JSON body returned by the statistics collaborator.
// Every field is untrusted: values are decoded loosely (numbers as json.Number)
// and coerced by normalization before they reach the renderer.
type StatisticsPayload struct {
	Username              any `json:"username,omitempty"`
	CurrentStreak         any `json:"currentStreak,omitempty"`
	LongestStreak         any `json:"longestStreak,omitempty"`
	TotalContributions    any `json:"totalContributions,omitempty"`
	ContributionsThisYear any `json:"contributionsThisYear,omitempty"`
	PublicRepos           any `json:"publicRepos,omitempty"`
	Followers             any `json:"followers,omitempty"`
	JoinedDate            any `json:"joinedDate,omitempty"`
	AvatarURL             any `json:"avatarUrl,omitempty"`
	TopLanguages          any `json:"topLanguages,omitempty"`
	Error                 any `json:"error,omitempty"`
}

// Statistics is the display-safe form of a StatisticsPayload.
type Statistics struct {
	Username              string
	CurrentStreak         int64
	LongestStreak         int64
	TotalContributions    int64
	ContributionsThisYear int64
	PublicRepos           int64
	Followers             int64
	JoinedYear            int
	AvatarURL             string
	TopLanguages          []string
}
