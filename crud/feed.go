package crud

import (
	"github.com/samber/lo"
	"gorm.io/gorm"

	"chirper/domain"
)

// FeedService executes cursor-paginated feed queries.
// It implements the domain.FeedService interface.
type FeedService struct {
	feedGorm
}

// feedGorm runs the feed queries against the database.
type feedGorm struct {
	db *gorm.DB
}

// NewFeedService returns an instance of FeedService.
func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{
		feedGorm{
			db: db,
		},
	}
}

// Ensure the FeedService struct properly implements the domain.FeedService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.FeedService = &FeedService{}

// FetchFeed returns one page of the feed described by filter, newest first.
//
// It fetches limit+1 rows ordered by (created_at desc, id desc). The probe
// row, if present, proves there is more feed beyond this page; the page's
// NextCursor then points at the last returned tweet, and a follow-up query
// resumes strictly after that composite position. Cursoring on the ordering
// key instead of an offset means concurrent inserts can never make pages
// skip or repeat tweets.
func (fg *feedGorm) FetchFeed(filter domain.FeedFilter, cursor *domain.FeedCursor, limit int, callerID string) (*domain.FeedPage, error) {
	if limit <= 0 {
		limit = domain.DefaultFeedLimit
	}
	if limit > domain.MaxFeedLimit {
		limit = domain.MaxFeedLimit
	}

	// The following-only feed is meaningless without a caller. Anonymous
	// callers get an empty page, not the unfiltered firehose.
	if filter.OnlyFollowing && callerID == "" {
		return &domain.FeedPage{Tweets: []*domain.TweetView{}}, nil
	}

	q := fg.db.
		Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit + 1)
	if filter.OnlyFollowing {
		followedIDs := fg.db.
			Model(&domain.Follow{}).
			Select("followed_id").
			Where("follower_id = ?", callerID)
		q = q.Where("user_id IN (?)", followedIDs)
	} else if filter.AuthorID != "" {
		q = q.Where("user_id = ?", filter.AuthorID)
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var tweets []domain.Tweet
	if err := q.Find(&tweets).Error; err != nil {
		return nil, err
	}

	tweets, nextCursor := trimPage(tweets, limit)
	if len(tweets) == 0 {
		return &domain.FeedPage{Tweets: []*domain.TweetView{}}, nil
	}

	tweetIDs := lo.Map(tweets, func(t domain.Tweet, _ int) string { return t.ID })
	counts, err := fg.likeCounts(tweetIDs)
	if err != nil {
		return nil, err
	}
	liked := map[string]bool{}
	if callerID != "" {
		if liked, err = fg.likedByCaller(callerID, tweetIDs); err != nil {
			return nil, err
		}
	}

	return &domain.FeedPage{
		Tweets:     assembleViews(tweets, counts, liked),
		NextCursor: nextCursor,
	}, nil
}

// trimPage drops the probe row fetched beyond limit and derives the
// continuation cursor from the last tweet that stays on the page.
// A nil cursor means the feed is exhausted.
func trimPage(tweets []domain.Tweet, limit int) ([]domain.Tweet, *domain.FeedCursor) {
	if len(tweets) <= limit {
		return tweets, nil
	}
	tweets = tweets[:limit]
	last := tweets[len(tweets)-1]
	return tweets, &domain.FeedCursor{ID: last.ID, CreatedAt: last.CreatedAt}
}

// assembleViews joins tweets with their derived per-page state.
func assembleViews(tweets []domain.Tweet, counts map[string]int, liked map[string]bool) []*domain.TweetView {
	return lo.Map(tweets, func(t domain.Tweet, _ int) *domain.TweetView {
		return &domain.TweetView{
			ID:        t.ID,
			Content:   t.Content,
			CreatedAt: t.CreatedAt,
			LikeCount: counts[t.ID],
			LikedByMe: liked[t.ID],
			User:      t.User.Profile(),
		}
	})
}

// likeCounts returns the number of likes per tweet, in one grouped query.
// Tweets without likes are simply absent from the result.
func (fg *feedGorm) likeCounts(tweetIDs []string) (map[string]int, error) {
	type likeCount struct {
		TweetID string
		Count   int
	}
	var rows []likeCount
	err := fg.db.
		Model(&domain.Like{}).
		Select("tweet_id, count(*) as count").
		Where("tweet_id IN ?", tweetIDs).
		Group("tweet_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(rows, func(r likeCount) (string, int) {
		return r.TweetID, r.Count
	}), nil
}

// likedByCaller returns which of the given tweets the caller has liked.
func (fg *feedGorm) likedByCaller(callerID string, tweetIDs []string) (map[string]bool, error) {
	var ids []string
	err := fg.db.
		Model(&domain.Like{}).
		Where("user_id = ? AND tweet_id IN ?", callerID, tweetIDs).
		Pluck("tweet_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(ids, func(id string) (string, bool) {
		return id, true
	}), nil
}
