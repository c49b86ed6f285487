package model

import (
	"errors"
	"fmt"
)

// FeedStrategy selects the ordering of a composed feed.
type FeedStrategy string

const (
	// FeedByPublishDate orders by published_at desc, id desc.
	FeedByPublishDate FeedStrategy = "publish_date"

	// FeedByLikeCount orders by like_count desc, published_at desc, id desc.
	FeedByLikeCount FeedStrategy = "like_count"

	// FeedByTrendingScore orders by like_count/exp(ageDays/4) desc,
	// published_at desc, id desc.
	FeedByTrendingScore FeedStrategy = "trending"
)

// ParseFeedStrategy maps the wire value to a strategy. An empty value
// defaults to publish-date ordering.
func ParseFeedStrategy(s string) (FeedStrategy, error) {
	switch FeedStrategy(s) {
	case "":
		return FeedByPublishDate, nil
	case FeedByPublishDate, FeedByLikeCount, FeedByTrendingScore:
		return FeedStrategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFeedStrategy, s)
	}
}

// FeedPageSize is the fixed number of posts per feed page.
const FeedPageSize = 5

// FeedPage is one page of a composed feed. Pages are 1-indexed; pages past
// the end come back with an empty Posts slice rather than an error.
type FeedPage struct {
	Posts    []Post       `json:"posts"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Strategy FeedStrategy `json:"strategy"`
}

// Feed errors
var (
	ErrUnknownFeedStrategy = errors.New("unknown feed strategy")
	ErrInvalidFeedPage     = errors.New("feed page must be >= 1")
)
