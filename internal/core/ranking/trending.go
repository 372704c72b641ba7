// Package ranking scores published posts by decayed engagement.
//
// The score is the post's weighted engagement divided by a gravity term
// that grows with the post's age in hours:
//
//	score = (likes*1 + comments*3 + reads*0.05) / (age_hours + 2) ^ 1.8
//
// The computation is pure. Callers supply the counters and the current time.
package ranking

import (
	"math"
	"sort"
	"time"
)

// Default policy values.
const (
	LikeWeight     = 1.0
	CommentWeight  = 3.0
	ReadWeight     = 0.05
	AgeOffsetHours = 2.0
	Gravity        = 1.8

	// DefaultLimit is the size of the trending feed when no limit is given
	DefaultLimit = 5
)

// Weights holds the knobs of the trending formula.
type Weights struct {
	Like      float64
	Comment   float64
	Read      float64
	AgeOffset float64
	Gravity   float64
}

// DefaultWeights are the weights used by the trending feed.
var DefaultWeights = Weights{
	Like:      LikeWeight,
	Comment:   CommentWeight,
	Read:      ReadWeight,
	AgeOffset: AgeOffsetHours,
	Gravity:   Gravity,
}

// Snapshot is the subset of a post the engine needs.
type Snapshot struct {
	PublishedAt   time.Time
	ID            string
	TotalLikes    int
	TotalComments int
	TotalReads    int
	Draft         bool
}

// Scored pairs a snapshot with its computed score.
type Scored struct {
	Snapshot
	Score float64
}

// Score computes the trending score of a single post at now.
// Ages in the future are clamped to zero.
func (w Weights) Score(s Snapshot, now time.Time) float64 {
	ageHours := now.Sub(s.PublishedAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}

	engagement := float64(s.TotalLikes)*w.Like +
		float64(s.TotalComments)*w.Comment +
		float64(s.TotalReads)*w.Read

	decay := math.Pow(ageHours+w.AgeOffset, w.Gravity)
	if decay <= 0 {
		return 0
	}
	return engagement / decay
}

// Score computes a post's trending score with DefaultWeights.
func Score(s Snapshot, now time.Time) float64 {
	return DefaultWeights.Score(s, now)
}

// Rank scores every published post and returns the best limit of them,
// highest score first. Equal scores keep newer posts first.
func (w Weights) Rank(posts []Snapshot, now time.Time, limit int) []Scored {
	if limit <= 0 {
		limit = DefaultLimit
	}

	scored := make([]Scored, 0, len(posts))
	for _, p := range posts {
		if p.Draft {
			continue
		}
		scored = append(scored, Scored{Snapshot: p, Score: w.Score(p, now)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].PublishedAt.After(scored[j].PublishedAt)
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// Trending returns the top limit published posts by DefaultWeights.
// The input slice is not modified.
func Trending(posts []Snapshot, now time.Time, limit int) []Snapshot {
	ranked := DefaultWeights.Rank(posts, now, limit)
	out := make([]Snapshot, len(ranked))
	for i, r := range ranked {
		out[i] = r.Snapshot
	}
	return out
}
