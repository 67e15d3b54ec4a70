package services

import (
	"context"
	"mime/multipart"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/gate"
	"github.com/LailaElmallass/projectElite-sub000/internal/apperr"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
	"github.com/LailaElmallass/projectElite-sub000/internal/policy"
	"github.com/LailaElmallass/projectElite-sub000/internal/storage"
	"github.com/LailaElmallass/projectElite-sub000/validation"
)

// userRules selects which user fields an operation accepts.
type userRules struct {
	creating      bool
	roles         []string // accepted roles; nil means the role cannot be changed
	allowPassword bool
	allowPhoto    bool
}

type boundUser struct {
	password string
	picture  *multipart.FileHeader
}

// bindUser validates in and applies the provided fields to u.
// Fields that are not sent keep their current value.
func bindUser(ctx context.Context, tx *gorm.DB, in *validation.Input, u *models.User, r userRules) (boundUser, error) {
	var out boundUser

	if r.creating {
		in.Required("name")
	}
	if name, ok := in.String("name"); ok {
		in.MaxLen("name", name, 255)
		u.Name = name
	}

	if r.creating {
		in.Required("email")
	}
	if email, ok := in.Email("email"); ok {
		in.MaxLen("email", email, 255)
		taken, err := exists(ctx, tx.Unscoped(), &models.User{}, "email = ? AND id <> ?", email, u.ID)
		if err != nil {
			return out, dbError(err)
		}
		in.Unique("email", taken)
		u.Email = email
	}

	if r.allowPassword {
		if r.creating {
			in.Required("password")
		}
		if pw, ok := in.String("password"); ok {
			checkPassword(in, pw)
			out.password = pw
		}
	}

	if r.roles != nil {
		if r.creating {
			in.Required("role")
		}
		if role, ok := in.String("role"); ok && in.In("role", role, r.roles...) {
			u.Role = auth.Role(role)
		}
	}

	if g, ok := in.String("gender"); ok && in.In("gender", g, models.Genders()...) {
		u.Gender = models.Gender(g)
	}
	setString(in, "specialty", 255, &u.Specialty)
	setString(in, "company_name", 255, &u.CompanyName)
	setString(in, "industry", 255, &u.Industry)
	setString(in, "goal", 255, &u.Goal)
	setString(in, "phone", 30, &u.Phone)
	setString(in, "bio", 1000, &u.Bio)

	// role dependent fields must be filled for the resulting role
	if u.Role.Valid() {
		in.RequiredIf("gender", u.Role.RequiresGender() && u.Gender == "" && !in.V.Has("gender"))
		in.RequiredIf("specialty", u.Role == auth.RoleCoach && u.Specialty == "")
		in.RequiredIf("company_name", u.Role == auth.RoleEntreprise && u.CompanyName == "")
		in.RequiredIf("industry", u.Role == auth.RoleEntreprise && u.Industry == "")
	}

	if r.allowPhoto {
		if fh, ok := in.Upload("profile_picture", false, validation.ImageMaxKB, validation.ImageExts...); ok {
			out.picture = fh
		}
	}
	return out, invalid(in)
}

// setString copies an optional string field; an explicit empty value clears it.
func setString(in *validation.Input, field string, max int, dst *string) {
	if !in.Present(field) {
		return
	}
	if !in.Has(field) {
		*dst = ""
		return
	}
	if s, ok := in.String(field); ok {
		in.MaxLen(field, s, max)
		*dst = s
	}
}

// bcrypt refuses longer inputs
const maxPasswordBytes = 72

func checkPassword(in *validation.Input, pw string) {
	in.MinLen("password", pw, 8)
	in.MaxBytes("password", pw, maxPasswordBytes)
	in.Confirmed("password")
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// UserService is the admin user management.
type UserService struct {
	db    *gorm.DB
	gate  *policy.AuthGate
	cache *auth.PrincipalCache
}

func NewUserService(db *gorm.DB, g *policy.AuthGate, cache *auth.PrincipalCache) *UserService {
	return &UserService{db: db, gate: g, cache: cache}
}

// List returns users, optionally filtered by role, newest first.
func (s *UserService) List(ctx context.Context, p auth.Principal, role string) ([]models.User, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionList, policy.ResUser, nil); err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if role = strings.TrimSpace(role); role != "" {
		if _, err := auth.ParseRole(role); err != nil {
			return []models.User{}, nil
		}
		q = q.Where("role = ?", role)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, dbError(err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, p auth.Principal, id uint) (*models.User, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionView, policy.ResUser, nil); err != nil {
		return nil, err
	}
	return find[models.User](ctx, s.db, id)
}

func (s *UserService) Create(ctx context.Context, p auth.Principal, in *validation.Input) (*models.User, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionCreate, policy.ResUser, nil); err != nil {
		return nil, err
	}
	u := &models.User{IsFirstTime: true}
	b, err := bindUser(ctx, s.db, in, u, userRules{creating: true, roles: auth.RoleStrings(auth.Roles()...), allowPassword: true})
	if err != nil {
		return nil, err
	}
	if u.Password, err = hashPassword(b.password); err != nil {
		return nil, dbError(err)
	}
	if u.Role == auth.RoleAdmin {
		u.IsFirstTime = false
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, dbError(err)
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, p auth.Principal, id uint, in *validation.Input) (*models.User, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionUpdate, policy.ResUser, nil); err != nil {
		return nil, err
	}
	u, err := find[models.User](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	b, err := bindUser(ctx, s.db, in, u, userRules{roles: auth.RoleStrings(auth.Roles()...), allowPassword: true})
	if err != nil {
		return nil, err
	}
	if b.password != "" {
		if u.Password, err = hashPassword(b.password); err != nil {
			return nil, dbError(err)
		}
	}
	if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, dbError(err)
	}
	s.cache.Invalidate(u.ID)
	return u, nil
}

// Delete soft-deletes a user; its tokens stop resolving once the cache entry is gone.
func (s *UserService) Delete(ctx context.Context, p auth.Principal, id uint) error {
	if err := s.gate.Authorize(ctx, p, gate.ActionDelete, policy.ResUser, nil); err != nil {
		return err
	}
	u, err := find[models.User](ctx, s.db, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(u).Error; err != nil {
		return dbError(err)
	}
	s.cache.Invalidate(u.ID)
	return nil
}

// ProfileService lets any user manage their own account.
type ProfileService struct {
	db    *gorm.DB
	gate  *policy.AuthGate
	store storage.Store
	auth  *auth.Authenticator
	cache *auth.PrincipalCache
}

func NewProfileService(db *gorm.DB, g *policy.AuthGate, store storage.Store, a *auth.Authenticator, cache *auth.PrincipalCache) *ProfileService {
	return &ProfileService{db: db, gate: g, store: store, auth: a, cache: cache}
}

func (s *ProfileService) Get(ctx context.Context, p auth.Principal) (*models.User, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionView, policy.ResProfile, nil); err != nil {
		return nil, err
	}
	return find[models.User](ctx, s.db, p.UserID)
}

// Update applies a partial profile update. The role cannot be changed here.
// A new picture replaces the previous file.
func (s *ProfileService) Update(ctx context.Context, p auth.Principal, in *validation.Input) (*models.User, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionUpdate, policy.ResProfile, nil); err != nil {
		return nil, err
	}
	u, err := find[models.User](ctx, s.db, p.UserID)
	if err != nil {
		return nil, err
	}
	b, err := bindUser(ctx, s.db, in, u, userRules{allowPhoto: true})
	if err != nil {
		return nil, err
	}
	old := u.ProfilePicture
	if b.picture != nil {
		url, err := s.store.Put(ctx, "profile_pictures", b.picture)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		u.ProfilePicture = url
	}
	if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, dbError(err)
	}
	if b.picture != nil && old != "" {
		storage.DeleteQuietly(ctx, s.store, old)
	}
	return u, nil
}

// ChangePassword checks the current password before setting the new one.
func (s *ProfileService) ChangePassword(ctx context.Context, p auth.Principal, in *validation.Input) error {
	if err := s.gate.Authorize(ctx, p, gate.ActionUpdate, policy.ResProfile, nil); err != nil {
		return err
	}
	u, err := find[models.User](ctx, s.db, p.UserID)
	if err != nil {
		return err
	}
	in.Required("current_password")
	in.Required("password")
	if cur, ok := in.String("current_password"); ok {
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(cur)) != nil {
			in.Fail("current_password", "validation.current_password")
		}
	}
	pw, ok := in.String("password")
	if ok {
		checkPassword(in, pw)
	}
	if err := invalid(in); err != nil {
		return err
	}
	hash, err := hashPassword(pw)
	if err != nil {
		return dbError(err)
	}
	return dbError(s.db.WithContext(ctx).Model(u).Update("password", hash).Error)
}

// Delete soft-deletes the account and revokes the token used for the request.
func (s *ProfileService) Delete(ctx context.Context, p auth.Principal, claims *auth.Claims) error {
	if err := s.gate.Authorize(ctx, p, gate.ActionDelete, policy.ResProfile, nil); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.User{}, p.UserID).Error; err != nil {
		return dbError(err)
	}
	s.cache.Invalidate(p.UserID)
	if err := s.auth.Revoke(ctx, claims); err != nil {
		return dbError(err)
	}
	return nil
}
