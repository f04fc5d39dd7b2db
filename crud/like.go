package crud

import (
	"errors"

	"gorm.io/gorm"

	"chirper/domain"
	"chirper/errs"
)

// LikeService manages Likes.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeGorm
}

// likeGorm runs CRUD operations on the database using incoming Like data.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeGorm{
			db: db,
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// Toggle flips the like state of a tweet for a user. It reports whether the
// call added a like (true) or removed one (false).
//
// The existence check and the write happen inside one transaction, so two
// racing toggles from the same user cannot both observe "no like" and both
// insert. The composite primary key on (user_id, tweet_id) backstops even
// that: a double insert fails instead of producing two rows.
func (lg *likeGorm) Toggle(userID, tweetID string) (bool, error) {
	if userID == "" {
		return false, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in to like a tweet.")
	}
	if tweetID == "" {
		return false, errs.Errorf(errs.EINVALID, "Tweet ID is required.")
	}

	var added bool
	err := lg.db.Transaction(func(tx *gorm.DB) error {
		// Liking a deleted tweet must not leave an orphan Like behind.
		if err := tx.First(&domain.Tweet{}, "id = ?", tweetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Errorf(errs.ENOTFOUND, "The liked tweet does not exist.")
			}
			return err
		}

		var like domain.Like
		err := tx.Where("user_id = ? AND tweet_id = ?", userID, tweetID).First(&like).Error
		if err == nil {
			added = false
			return tx.Where("user_id = ? AND tweet_id = ?", userID, tweetID).
				Delete(&domain.Like{}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		added = true
		return tx.Create(&domain.Like{UserID: userID, TweetID: tweetID}).Error
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// CountByTweetID returns the total number of likes referencing a tweet.
func (lg *likeGorm) CountByTweetID(tweetID string) (int, error) {
	var count int64
	err := lg.db.Model(&domain.Like{}).Where("tweet_id = ?", tweetID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
