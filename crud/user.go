package crud

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"chirper/domain"
	"chirper/errs"
)

// UserService manages Users.
// It implements the domain.UserService interface.
type UserService struct {
	userValidator
}

// userValidator runs validations on incoming User data.
// On success, it passes the data on to userGorm.
// Otherwise, it returns the error of the validation that has failed.
type userValidator struct {
	userGorm
	pepper string
}

// userGorm runs CRUD operations on the database using incoming User data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type userGorm struct {
	db *gorm.DB
}

// NewUserService returns an instance of UserService. The pepper is appended
// to every password before hashing.
func NewUserService(db *gorm.DB, pepper string) *UserService {
	return &UserService{
		userValidator{
			userGorm: userGorm{
				db: db,
			},
			pepper: pepper,
		},
	}
}

// Ensure the UserService struct properly implements the domain.UserService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.UserService = &UserService{}

// Create runs validations needed for creating new User database records,
// hashes the password and stores the user.
func (uv *userValidator) Create(user *domain.User) error {
	err := runUserValFns(user,
		uv.emailRequired,
		uv.emailFormat,
		uv.emailNotTaken,
		uv.passwordMinLength)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password+uv.pepper), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.Password = ""
	return uv.userGorm.Create(user)
}

// Authenticate checks a user's credentials. It returns the user on success
// and an EUNAUTHORIZED error on any mismatch, without revealing whether the
// email or the password was wrong.
func (uv *userValidator) Authenticate(email, password string) (*domain.User, error) {
	user, err := uv.ByEmail(email)
	if err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return nil, errs.Errorf(errs.EUNAUTHORIZED, "Invalid email or password.")
		}
		return nil, err
	}
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password+uv.pepper))
	if err != nil {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "Invalid email or password.")
	}
	return user, nil
}

// runUserValFns runs any number of functions of type userValFn on the passed in User object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runUserValFns(user *domain.User, fns ...userValFn) error {
	for _, fn := range fns {
		if err := fn(user); err != nil {
			return err
		}
	}
	return nil
}

// A userValFn is any function that takes in a pointer to a domain.User object and returns an error.
type userValFn func(user *domain.User) error

// emailRequired makes sure an email address is provided.
func (uv *userValidator) emailRequired(user *domain.User) error {
	if user.Email == "" {
		return errs.Errorf(errs.EINVALID, "Email address is required.")
	}
	return nil
}

// emailFormat runs a loose shape check, real validation is the mail roundtrip.
func (uv *userValidator) emailFormat(user *domain.User) error {
	if !strings.Contains(user.Email, "@") {
		return errs.Errorf(errs.EINVALID, "Email address is not valid.")
	}
	return nil
}

// emailNotTaken makes sure the email address isn't already registered.
func (uv *userValidator) emailNotTaken(user *domain.User) error {
	_, err := uv.ByEmail(user.Email)
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "Email address is already taken.")
	}
	if errs.ErrorCode(err) == errs.ENOTFOUND {
		return nil
	}
	return err
}

// passwordMinLength makes sure the password is at least 8 characters long.
func (uv *userValidator) passwordMinLength(user *domain.User) error {
	if len(user.Password) < 8 {
		return errs.Errorf(errs.EINVALID, "Password must be at least 8 characters long.")
	}
	return nil
}

// ByID retrieves a single User by ID.
func (ug *userGorm) ByID(id string) (*domain.User, error) {
	var user domain.User
	err := ug.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
		}
		return nil, err
	}
	return &user, nil
}

// ByEmail retrieves a single User by email address.
func (ug *userGorm) ByEmail(email string) (*domain.User, error) {
	var user domain.User
	err := ug.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
		}
		return nil, err
	}
	return &user, nil
}

// Create stores the data from the User object in a new database record.
func (ug *userGorm) Create(user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return ug.db.Create(user).Error
}
