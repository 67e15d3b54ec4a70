package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/i18n"
	"github.com/LailaElmallass/projectElite-sub000/internal/apperr"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
	"github.com/LailaElmallass/projectElite-sub000/validation"
)

// AuthService registers accounts and issues bearer tokens.
type AuthService struct {
	db   *gorm.DB
	auth *auth.Authenticator
}

func NewAuthService(db *gorm.DB, a *auth.Authenticator) *AuthService {
	return &AuthService{db: db, auth: a}
}

// registrableRoles excludes admin: admins are created by other admins.
func registrableRoles() []string {
	return auth.RoleStrings(auth.RoleUtilisateur, auth.RoleCoach, auth.RoleEntreprise)
}

// Register creates the account and returns it with a token.
func (s *AuthService) Register(ctx context.Context, in *validation.Input) (*models.User, string, error) {
	u := &models.User{IsFirstTime: true}
	b, err := bindUser(ctx, s.db, in, u, userRules{creating: true, roles: registrableRoles(), allowPassword: true})
	if err != nil {
		return nil, "", err
	}
	if u.Password, err = hashPassword(b.password); err != nil {
		return nil, "", apperr.Internal(err)
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, "", dbError(err)
	}
	token, _, err := s.auth.Issuer().Issue(u.Principal())
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return u, token, nil
}

// Login checks the credentials. Unknown emails and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, in *validation.Input) (*models.User, string, error) {
	in.Required("email")
	in.Required("password")
	email, _ := in.Email("email")
	password, _ := in.String("password")
	if err := invalid(in); err != nil {
		return nil, "", err
	}

	failed := &apperr.Error{
		Kind:    apperr.KindUnauthenticated,
		Message: i18n.T(i18n.LangFromContext(ctx), "auth.failed"),
	}
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", failed
	}
	if err != nil {
		return nil, "", dbError(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, "", failed
	}
	token, _, err := s.auth.Issuer().Issue(u.Principal())
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return &u, token, nil
}

// Logout revokes the token of the request.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return apperr.Unauthenticated()
	}
	if err := s.auth.Revoke(ctx, claims); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Me returns the account of the principal.
func (s *AuthService) Me(ctx context.Context, p auth.Principal) (*models.User, error) {
	if !p.Authenticated() {
		return nil, apperr.Unauthenticated()
	}
	return find[models.User](ctx, s.db, p.UserID)
}

// UserLookup resolves token subjects to principals. Soft-deleted accounts do not resolve.
func UserLookup(db *gorm.DB) auth.LookupFunc {
	return func(ctx context.Context, userID uint) (auth.Principal, error) {
		var u models.User
		if err := db.WithContext(ctx).Select("id", "role").First(&u, userID).Error; err != nil {
			return auth.Principal{}, err
		}
		return u.Principal(), nil
	}
}
