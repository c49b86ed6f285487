package service

import (
	"context"
	"math"
	"sort"
	"time"

	"driftline/internal/model"
	"driftline/internal/repository"
)

// trendingDecayDays is the exponential time constant for trending scores:
// score = like_count / exp(ageDays / trendingDecayDays). A post loses half
// its score roughly every 2.8 days.
const trendingDecayDays = 4.0

// FeedOptions tunes feed composition per request.
type FeedOptions struct {
	// IncludeSelf adds the viewer's own posts to the candidate set.
	IncludeSelf bool
}

// FeedService composes a viewer's feed from the posts of the authors they
// follow. Candidates are ranked in memory so every strategy sees the same
// universe and ordering stays exact, including tie-breaks.
type FeedService struct {
	followRepo repository.FollowRepository
	postRepo   repository.PostRepository

	// now is the clock used for trending age; replaceable in tests.
	now func() time.Time
}

func NewFeedService(followRepo repository.FollowRepository, postRepo repository.PostRepository) *FeedService {
	return &FeedService{
		followRepo: followRepo,
		postRepo:   postRepo,
		now:        time.Now,
	}
}

// ComposeFeed builds one page of the viewer's feed. Pages are 1-indexed
// and hold model.FeedPageSize posts; a page past the end of the ranked
// candidates comes back with an empty post list. A viewer following
// nobody gets an empty feed on every strategy.
func (s *FeedService) ComposeFeed(ctx context.Context, viewerID int64, strategy model.FeedStrategy, page int, opts FeedOptions) (*model.FeedPage, error) {
	if page < 1 {
		return nil, model.ErrInvalidFeedPage
	}

	authorIDs, err := s.followRepo.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if opts.IncludeSelf {
		authorIDs = append(authorIDs, viewerID)
	}

	posts, err := s.postRepo.GetByAuthors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	s.rank(posts, strategy)

	return &model.FeedPage{
		Posts:    paginate(posts, page),
		Page:     page,
		PageSize: model.FeedPageSize,
		Strategy: strategy,
	}, nil
}

// rank orders candidates in place per the strategy. Every strategy falls
// back to published_at desc then id desc, so equal primary keys still
// produce a deterministic order.
func (s *FeedService) rank(posts []model.Post, strategy model.FeedStrategy) {
	switch strategy {
	case model.FeedByLikeCount:
		sort.Slice(posts, func(i, j int) bool {
			if posts[i].LikeCount != posts[j].LikeCount {
				return posts[i].LikeCount > posts[j].LikeCount
			}
			return newerFirst(&posts[i], &posts[j])
		})

	case model.FeedByTrendingScore:
		now := s.now()
		scores := make(map[int64]float64, len(posts))
		for i := range posts {
			scores[posts[i].ID] = trendingScore(&posts[i], now)
		}
		sort.Slice(posts, func(i, j int) bool {
			si, sj := scores[posts[i].ID], scores[posts[j].ID]
			if si != sj {
				return si > sj
			}
			return newerFirst(&posts[i], &posts[j])
		})

	default:
		// Publish-date order. Candidates arrive already sorted this way,
		// but the feed contract is ordering, not the store's habits.
		sort.Slice(posts, func(i, j int) bool {
			return newerFirst(&posts[i], &posts[j])
		})
	}
}

// trendingScore decays the like count exponentially with age. A post with
// zero likes scores zero regardless of age.
func trendingScore(post *model.Post, now time.Time) float64 {
	ageDays := now.Sub(post.PublishedAt).Hours() / 24
	return float64(post.LikeCount) / math.Exp(ageDays/trendingDecayDays)
}

func newerFirst(a, b *model.Post) bool {
	if !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.After(b.PublishedAt)
	}
	return a.ID > b.ID
}

// paginate slices one 1-indexed page out of the ranked candidates.
func paginate(posts []model.Post, page int) []model.Post {
	start := (page - 1) * model.FeedPageSize
	if start >= len(posts) {
		return []model.Post{}
	}
	end := start + model.FeedPageSize
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end]
}
