package github

import (
	"slices"
	"time"
)

// Repo is the subset of the repository payload the site reads.
type Repo struct {
	Name            string   `json:"name"`
	Description     *string  `json:"description"`
	HTMLURL         string   `json:"html_url"`
	StargazersCount int      `json:"stargazers_count"`
	ForksCount      int      `json:"forks_count"`
	Language        *string  `json:"language"`
	Topics          []string `json:"topics"`
	Fork            bool     `json:"fork"`
	Archived        bool     `json:"archived"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	PushedAt        string   `json:"pushed_at"`
}

// User is the subset of the user payload the site reads.
type User struct {
	PublicRepos int `json:"public_repos"`
	Followers   int `json:"followers"`
}

// Repository is a dashboard card.
type Repository struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	Language    *string  `json:"language"`
	Topics      []string `json:"topics"`
	UpdatedAt   string   `json:"updatedAt"`
}

// Stats are the dashboard totals.
type Stats struct {
	TotalStars int            `json:"totalStars"`
	TotalForks int            `json:"totalForks"`
	TotalRepos int            `json:"totalRepos"`
	Followers  int            `json:"followers"`
	Languages  map[string]int `json:"languages"`
}

// Data is everything the dashboard shows.
type Data struct {
	Repositories []Repository `json:"repositories"`
	Stats        Stats        `json:"stats"`
}

// RepoStars holds the counters of one repository.
type RepoStars struct {
	Stars int `json:"stars"`
	Forks int `json:"forks,omitempty"`
}

// Aggregate builds dashboard data from a raw listing.
//
// Cards are the non-fork, non-archived repositories with at least one star,
// most starred first. Star and fork totals are summed over those cards.
// TotalRepos and the language histogram count every non-fork repository.
func Aggregate(repos []Repo, followers int) Data {
	starred := make([]Repo, 0, len(repos))
	for _, r := range repos {
		if r.StargazersCount > 0 && !r.Fork && !r.Archived {
			starred = append(starred, r)
		}
	}
	slices.SortStableFunc(starred, func(a, b Repo) int {
		return b.StargazersCount - a.StargazersCount
	})

	data := Data{
		Repositories: make([]Repository, 0, len(starred)),
		Stats: Stats{
			Followers: followers,
			Languages: map[string]int{},
		},
	}

	for _, r := range starred {
		card := Repository{
			Name:      r.Name,
			URL:       r.HTMLURL,
			Stars:     r.StargazersCount,
			Forks:     r.ForksCount,
			Language:  r.Language,
			Topics:    r.Topics,
			UpdatedAt: r.PushedAt,
		}
		if r.Description != nil {
			card.Description = *r.Description
		}
		if card.Topics == nil {
			card.Topics = []string{}
		}
		if card.UpdatedAt == "" {
			card.UpdatedAt = r.UpdatedAt
		}
		data.Repositories = append(data.Repositories, card)
		data.Stats.TotalStars += r.StargazersCount
		data.Stats.TotalForks += r.ForksCount
	}

	for _, r := range repos {
		if r.Fork {
			continue
		}
		data.Stats.TotalRepos++
		if r.Language != nil && *r.Language != "" {
			data.Stats.Languages[*r.Language]++
		}
	}

	return data
}

// StarsOf indexes the counters of data's repositories by name.
func StarsOf(data Data) map[string]RepoStars {
	out := make(map[string]RepoStars, len(data.Repositories))
	for _, r := range data.Repositories {
		out[r.Name] = RepoStars{Stars: r.Stars, Forks: r.Forks}
	}
	return out
}

const fallbackFollowers = 9

// Fallback returns the static dashboard shown when the API is unreachable.
// Cards are stamped with now.
func Fallback(now time.Time) Data {
	stamp := now.UTC().Format(time.RFC3339)
	lang := func(s string) *string { return &s }

	return Data{
		Repositories: []Repository{
			{
				Name:        "wordZero",
				Description: "High-performance Go library for .docx manipulation. Supports read/write operations with zero dependencies.",
				URL:         "https://github.com/zerx-lab/wordZero",
				Stars:       612,
				Forks:       42,
				Language:    lang("Go"),
				Topics:      []string{"go", "docx", "document"},
				UpdatedAt:   stamp,
			},
			{
				Name:        "PenBridge",
				Description: "Multi-platform content distribution system for automated publishing.",
				URL:         "https://github.com/zerx-lab/PenBridge",
				Stars:       15,
				Forks:       2,
				Language:    lang("TypeScript"),
				Topics:      []string{"typescript", "automation", "publishing"},
				UpdatedAt:   stamp,
			},
			{
				Name:        "axon-ai",
				Description: "Autonomous AI agent framework for LLM-based workflow automation.",
				URL:         "https://github.com/zerx-lab/axon-ai",
				Stars:       8,
				Forks:       1,
				Language:    lang("TypeScript"),
				Topics:      []string{"ai", "llm", "agents"},
				UpdatedAt:   stamp,
			},
			{
				Name:        "siyuan-share",
				Description: "SiYuan Note plugin for public sharing.",
				URL:         "https://github.com/zerx-lab/siyuan-share",
				Stars:       5,
				Forks:       0,
				Language:    lang("TypeScript"),
				Topics:      []string{"plugin", "siyuan"},
				UpdatedAt:   stamp,
			},
		},
		Stats: Stats{
			TotalStars: 640,
			TotalForks: 45,
			TotalRepos: 24,
			Followers:  fallbackFollowers,
			Languages: map[string]int{
				"TypeScript": 6,
				"Go":         3,
				"JavaScript": 1,
				"C#":         1,
				"Lua":        1,
				"Others":     12,
			},
		},
	}
}
