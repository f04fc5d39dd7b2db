package crud

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"chirper/domain"
	"chirper/errs"
)

// TweetService manages Tweets.
// It implements the domain.TweetService interface.
type TweetService struct {
	tweetValidator
}

// tweetValidator runs validations on incoming Tweet data.
// On success, it passes the data on to tweetGorm.
// Otherwise, it returns the error of the validation that has failed.
type tweetValidator struct {
	tweetGorm
}

// tweetGorm runs CRUD operations on the database using incoming Tweet data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type tweetGorm struct {
	db *gorm.DB
}

// NewTweetService returns an instance of TweetService.
func NewTweetService(db *gorm.DB) *TweetService {
	return &TweetService{
		tweetValidator{
			tweetGorm{
				db: db,
			},
		},
	}
}

// Ensure the TweetService struct properly implements the domain.TweetService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.TweetService = &TweetService{}

// Create runs validations needed for creating new Tweet database records.
func (tv *tweetValidator) Create(tweet *domain.Tweet) error {
	err := runTweetValFns(tweet,
		tv.userIdValid,
		tv.contentMinLength,
		tv.contentMaxLength)
	if err != nil {
		return err
	}
	return tv.tweetGorm.Create(tweet)
}

// Delete runs validations needed for deleting existing Tweet database records.
func (tv *tweetValidator) Delete(tweet *domain.Tweet) error {
	err := runTweetValFns(tweet, tv.idValid)
	if err != nil {
		return err
	}
	return tv.tweetGorm.Delete(tweet)
}

// runTweetValFns runs any number of functions of type tweetValFn on the passed in Tweet object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runTweetValFns(tweet *domain.Tweet, fns ...tweetValFn) error {
	for _, fn := range fns {
		if err := fn(tweet); err != nil {
			return err
		}
	}
	return nil
}

// A tweetValFn is any function that takes in a pointer to a domain.Tweet object and returns an error.
type tweetValFn = func(tweet *domain.Tweet) error

// contentMinLength makes sure that the Tweet's content is not empty.
func (tv *tweetValidator) contentMinLength(tweet *domain.Tweet) error {
	contentStripped := strings.TrimSpace(tweet.Content)
	if contentStripped == "" {
		return errs.Errorf(errs.EINVALID, "Tweet content must not be empty.")
	}
	return nil
}

// contentMaxLength makes sure that the Tweet's content does not exceed the maximum content length.
func (tv *tweetValidator) contentMaxLength(tweet *domain.Tweet) error {
	if utf8.RuneCountInString(tweet.Content) > 280 {
		return errs.Errorf(errs.EINVALID, "Tweet content max length is 280 characters.")
	}
	return nil
}

// idValid makes sure that the passed in ID of a Tweet to be deleted is present.
func (tv *tweetValidator) idValid(tweet *domain.Tweet) error {
	if tweet.ID == "" {
		return errs.Errorf(errs.EINVALID, "Tweet ID is required.")
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (tv *tweetValidator) userIdValid(tweet *domain.Tweet) error {
	if tweet.UserID == "" {
		return errs.Errorf(errs.EINVALID, "User ID is required.")
	}
	return nil
}

// ByID retrieves a single Tweet by ID, along with its author.
func (tg *tweetGorm) ByID(id string) (*domain.Tweet, error) {
	var tweet domain.Tweet
	err := tg.db.
		Preload("User").
		First(&tweet, "id = ?", id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The tweet does not exist.")
		}
		return nil, err
	}
	return &tweet, nil
}

// Create stores the data from the Tweet object in a new database record.
// The record's ID is generated here, its timestamps by the database layer.
// On success, the author relation is eager-loaded so the caller can build
// a full view of the created tweet without another query.
func (tg *tweetGorm) Create(tweet *domain.Tweet) error {
	if tweet.ID == "" {
		tweet.ID = uuid.NewString()
	}
	if err := tg.db.Create(tweet).Error; err != nil {
		return err
	}
	return tg.db.Preload("User").First(tweet, "id = ?", tweet.ID).Error
}

// Delete removes a Tweet record from the database, along with its Likes.
func (tg *tweetGorm) Delete(tweet *domain.Tweet) error {
	return tg.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tweet_id = ?", tweet.ID).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(tweet).Error
	})
}
