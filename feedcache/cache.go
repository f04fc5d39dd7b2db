// Package feedcache patches locally cached feed pages in place of a refetch.
//
// A Cache is an immutable snapshot of the pages a client has fetched so far.
// Patches are pure functions from one snapshot to the next: pages and tweets
// a patch doesn't touch keep their pointers, so a renderer can skip them by
// identity comparison.
package feedcache

import (
	"chirper/domain"
)

// Cache is a snapshot of all feed pages a client holds for one feed view.
type Cache struct {
	Pages []*domain.FeedPage
}

// New returns an empty cache snapshot.
func New() Cache {
	return Cache{}
}

// Append returns a snapshot with page added after the existing pages,
// the way an infinite-scroll client grows its cache.
func Append(cache Cache, page *domain.FeedPage) Cache {
	pages := make([]*domain.FeedPage, 0, len(cache.Pages)+1)
	pages = append(pages, cache.Pages...)
	pages = append(pages, page)
	return Cache{Pages: pages}
}

// Tweets flattens the cached pages into one sequence, in page order.
func (c Cache) Tweets() []*domain.TweetView {
	var all []*domain.TweetView
	for _, page := range c.Pages {
		all = append(all, page.Tweets...)
	}
	return all
}

// PrependTweet returns a snapshot with view at the head of the first page.
// Every other page, every other tweet, and every cursor keeps its pointer.
// An empty cache is left untouched, there is no page to anchor the tweet to.
func PrependTweet(cache Cache, view *domain.TweetView) Cache {
	if len(cache.Pages) == 0 {
		return cache
	}

	first := cache.Pages[0]
	tweets := make([]*domain.TweetView, 0, len(first.Tweets)+1)
	tweets = append(tweets, view)
	tweets = append(tweets, first.Tweets...)

	pages := make([]*domain.FeedPage, len(cache.Pages))
	copy(pages, cache.Pages)
	pages[0] = &domain.FeedPage{
		Tweets:     tweets,
		NextCursor: first.NextCursor,
	}
	return Cache{Pages: pages}
}

// ApplyLikeToggle returns a snapshot where every cached occurrence of the
// tweet reflects the confirmed toggle result: LikedByMe set to added and
// LikeCount adjusted by one in the matching direction. Pages that don't
// contain the tweet, and tweets with a different ID, keep their pointers.
// Ordering and cursors never change.
func ApplyLikeToggle(cache Cache, tweetID string, added bool) Cache {
	countModifier := -1
	if added {
		countModifier = 1
	}

	patched := false
	pages := make([]*domain.FeedPage, len(cache.Pages))
	for i, page := range cache.Pages {
		newPage, changed := patchPage(page, tweetID, added, countModifier)
		pages[i] = newPage
		patched = patched || changed
	}
	if !patched {
		return cache
	}
	return Cache{Pages: pages}
}

// patchPage replaces matching tweets of one page and reports whether
// anything matched. An unchanged page is returned as-is.
func patchPage(page *domain.FeedPage, tweetID string, added bool, countModifier int) (*domain.FeedPage, bool) {
	matched := false
	for _, tweet := range page.Tweets {
		if tweet.ID == tweetID {
			matched = true
			break
		}
	}
	if !matched {
		return page, false
	}

	tweets := make([]*domain.TweetView, len(page.Tweets))
	for i, tweet := range page.Tweets {
		if tweet.ID != tweetID {
			tweets[i] = tweet
			continue
		}
		patched := *tweet
		patched.LikedByMe = added
		patched.LikeCount += countModifier
		tweets[i] = &patched
	}
	return &domain.FeedPage{
		Tweets:     tweets,
		NextCursor: page.NextCursor,
	}, true
}
