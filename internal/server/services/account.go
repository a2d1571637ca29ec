// Package services contains the server's business logic. AccountService
// owns registration, login, logout and the authentication pipeline;
// ContentService owns everything members and administrators publish.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/dbx"
	"github.com/techelevate/platform/internal/logging"
	"github.com/techelevate/platform/internal/server/access"
	"github.com/techelevate/platform/internal/server/auth"
	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/mail"
	"github.com/techelevate/platform/internal/server/models"
	"github.com/techelevate/platform/internal/server/repositories/repomanager"
	"github.com/techelevate/platform/internal/server/revocation"
	"github.com/techelevate/platform/internal/server/storage"
	"golang.org/x/crypto/bcrypt"
)

// Principal is an authenticated caller: the live account and the claim of
// the token it presented.
type Principal struct {
	Account *identity.Account
	Claim   *auth.Claim
}

func (p *Principal) Subject() identity.Subject { return p.Account.Subject() }

// Actor returns the subject for guard checks. A nil principal is anonymous.
func (p *Principal) Actor() *identity.Subject {
	if p == nil || p.Account == nil {
		return nil
	}
	s := p.Account.Subject()
	return &s
}

// Session is returned by Register and Login.
type Session struct {
	Account   *identity.Account
	Token     string
	ExpiresAt time.Time
}

type RegisterInput struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Username    string `json:"username" validate:"required,min=3,max=80"`
	DisplayName string `json:"display_name" validate:"max=120"`
	Password    string `json:"password" validate:"required,min=8,bcrypt"`
}

type ProfileInput struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Username    string `json:"username" validate:"required,min=3,max=80"`
	DisplayName string `json:"display_name" validate:"max=120"`
}

type PasswordInput struct {
	Current string `json:"current_password" validate:"required"`
	New     string `json:"new_password" validate:"required,min=8,bcrypt"`
}

type AccountDeps struct {
	DB          *sql.DB
	Repos       repomanager.RepositoryManager
	Tokens      *auth.TokenService
	Revocations *revocation.Manager
	Guard       *access.Guard
	Mailer      mail.Sender
	Pictures    storage.Presigner
	Logger      logging.Logger
	BcryptCost  int
}

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	revocations *revocation.Manager
	guard       *access.Guard
	mailer      mail.Sender
	pictures    storage.Presigner
	logger      logging.Logger
	bcryptCost  int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAccountService(d AccountDeps) *AccountService {
	if d.Guard == nil {
		d.Guard = access.NewGuard()
	}
	if d.Logger == nil {
		d.Logger = logging.Nop{}
	}
	if d.Mailer == nil {
		d.Mailer = mail.NewLogSender(d.Logger)
	}
	if d.BcryptCost == 0 {
		d.BcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{
		db:          d.DB,
		repomanager: d.Repos,
		tokens:      d.Tokens,
		revocations: d.Revocations,
		guard:       d.Guard,
		mailer:      d.Mailer,
		pictures:    d.Pictures,
		logger:      d.Logger.With("module", "accounts"),
		bcryptCost:  d.BcryptCost,
	}
}

// Register creates a member account and logs it in. Duplicate email or
// username yields common.ConflictError for that field.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	a, err := s.createAccount(ctx, identity.RoleMember, in)
	if err != nil {
		return nil, err
	}
	s.sendWelcome(ctx, a)
	return s.issue(a)
}

// CreateAdministrator lets an administrator add another administrator.
func (s *AccountService) CreateAdministrator(ctx context.Context, actor *identity.Subject, in RegisterInput) (*identity.Account, error) {
	if err := s.guard.Authorize(actor, access.Moderate, access.Draft(access.KindAccount)); err != nil {
		return nil, err
	}
	a, err := s.createAccount(ctx, identity.RoleAdministrator, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "administrator created", "by", actor.String(), "id", a.ID)
	return a, nil
}

// BootstrapAdministrator creates an administrator without an acting
// account. It is only reachable from the admin CLI.
func (s *AccountService) BootstrapAdministrator(ctx context.Context, in RegisterInput) (*identity.Account, error) {
	a, err := s.createAccount(ctx, identity.RoleAdministrator, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "administrator bootstrapped", "id", a.ID)
	return a, nil
}

func (s *AccountService) createAccount(ctx context.Context, role identity.Role, in RegisterInput) (*identity.Account, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	display := in.DisplayName
	if display == "" {
		display = in.Username
	}

	// The unique constraints decide; there is no lookup first.
	a, err := s.repomanager.Accounts(s.db).Create(ctx, &identity.Account{
		Role:         role,
		Email:        in.Email,
		Username:     in.Username,
		DisplayName:  display,
		PasswordHash: hash,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return a, nil
}

func (s *AccountService) sendWelcome(ctx context.Context, a *identity.Account) {
	if err := s.mailer.Send(ctx, mail.Welcome(a.Email, a.Username)); err != nil {
		s.logger.Warn(ctx, "welcome mail failed", "subject", a.Subject().String(), "error", err.Error())
	}
}

// Login checks the password of the role's account with that email. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, role identity.Role, email, password string) (*Session, error) {
	if !role.Valid() {
		return nil, common.ErrorUnauthorized
	}

	a, err := s.repomanager.Accounts(s.db).FindByEmail(ctx, role, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "login lookup failed", "role", string(role), "error", err.Error())
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}
	if !a.Active {
		return nil, common.ErrAccountDeactivated
	}

	return s.issue(a)
}

// Logout revokes the token the principal authenticated with. Other
// sessions of the same account stay valid.
func (s *AccountService) Logout(ctx context.Context, p *Principal) error {
	if p == nil || p.Claim == nil {
		return common.ErrMissingCredential
	}
	if err := s.revocations.Revoke(ctx, p.Claim.TokenID, p.Claim.ExpiresAt); err != nil {
		return err
	}
	s.logger.Info(ctx, "logged out", "subject", p.Subject().String())
	return nil
}

// Authenticate runs the full pipeline: signature and expiry, revocation,
// then account resolution by the role in the token.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claim, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claim.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, common.ErrRevokedCredential
	}

	account, err := identity.NewResolver(s.repomanager.Accounts(s.db)).Resolve(ctx, claim.Subject)
	if err != nil {
		return nil, err
	}
	return &Principal{Account: account, Claim: claim}, nil
}

// Profile returns target's account. Holders see their own profile and
// administrators see everyone's.
func (s *AccountService) Profile(ctx context.Context, actor *identity.Subject, target identity.Subject) (*identity.Account, error) {
	a, err := s.find(ctx, target)
	if err != nil {
		return nil, err
	}
	res := models.AccountResource{Account: a}
	if err := s.guard.Authorize(actor, access.Read, res); err != nil {
		if s.guard.Authorize(actor, access.Moderate, res) != nil {
			return nil, err
		}
	}
	return a, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, actor *identity.Subject, target identity.Subject, in ProfileInput) (*identity.Account, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	a, err := s.find(ctx, target)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(actor, access.Update, models.AccountResource{Account: a}); err != nil {
		return nil, err
	}

	a.Email, a.Username, a.DisplayName = in.Email, in.Username, in.DisplayName
	if a.DisplayName == "" {
		a.DisplayName = a.Username
	}
	if err := s.repomanager.Accounts(s.db).UpdateProfile(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ChangePassword requires the current password even from the holder.
func (s *AccountService) ChangePassword(ctx context.Context, actor *identity.Subject, in PasswordInput) error {
	if actor == nil {
		return common.Deny(common.ReasonUnauthenticated)
	}
	if err := validateInput(&in); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		a, err := repo.FindByID(ctx, *actor)
		if err != nil {
			return err
		}
		if err := s.guard.Authorize(actor, access.Update, models.AccountResource{Account: a}); err != nil {
			return err
		}
		if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(in.Current)); err != nil {
			return common.ErrorUnauthorized
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(in.New), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		return repo.UpdatePassword(ctx, a.Subject(), hash)
	})
}

// SetActive activates or deactivates target. Deactivated accounts keep
// their data but every token they hold stops resolving.
func (s *AccountService) SetActive(ctx context.Context, actor *identity.Subject, target identity.Subject, active bool) error {
	a, err := s.find(ctx, target)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, access.Moderate, models.AccountResource{Account: a}); err != nil {
		return err
	}
	if err := s.repomanager.Accounts(s.db).SetActive(ctx, target, active); err != nil {
		return err
	}
	s.logger.Info(ctx, "account activation changed", "by", actor.String(), "subject", target.String(), "active", active)
	return nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, actor *identity.Subject, target identity.Subject) error {
	a, err := s.find(ctx, target)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, access.Moderate, models.AccountResource{Account: a}); err != nil {
		return err
	}
	if err := s.repomanager.Accounts(s.db).Delete(ctx, target); err != nil {
		return err
	}
	s.logger.Info(ctx, "account deleted", "by", actor.String(), "subject", target.String())
	return nil
}

func (s *AccountService) ListAccounts(ctx context.Context, actor *identity.Subject, role identity.Role) ([]*identity.Account, error) {
	if err := s.guard.Authorize(actor, access.Moderate, access.Draft(access.KindAccount)); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}
	return s.repomanager.Accounts(s.db).List(ctx, role)
}

// PictureUpload is a presigned upload target for a profile picture.
type PictureUpload struct {
	Key string
	URL string
}

// ProfilePictureUploadURL presigns an upload for target's new picture and
// records the key on the account.
func (s *AccountService) ProfilePictureUploadURL(ctx context.Context, actor *identity.Subject, target identity.Subject) (*PictureUpload, error) {
	if s.pictures == nil {
		return nil, fmt.Errorf("profile pictures: storage not configured")
	}

	a, err := s.find(ctx, target)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(actor, access.Update, models.AccountResource{Account: a}); err != nil {
		return nil, err
	}

	key := storage.ProfilePictureKey(target)
	url, err := s.pictures.PresignPut(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("presign: %w", err)
	}
	if err := s.repomanager.Accounts(s.db).SetProfilePicture(ctx, target, key); err != nil {
		return nil, err
	}
	return &PictureUpload{Key: key, URL: url}, nil
}

// ProfilePictureURL presigns a download of target's current picture. It
// is readable by whoever may read the profile.
func (s *AccountService) ProfilePictureURL(ctx context.Context, actor *identity.Subject, target identity.Subject) (string, error) {
	if s.pictures == nil {
		return "", fmt.Errorf("profile pictures: storage not configured")
	}

	a, err := s.Profile(ctx, actor, target)
	if err != nil {
		return "", err
	}
	if a.ProfilePictureKey == "" {
		return "", common.ErrorNotFound
	}

	url, err := s.pictures.PresignGet(ctx, a.ProfilePictureKey)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	return url, nil
}

// --- helpers below ---

func (s *AccountService) find(ctx context.Context, target identity.Subject) (*identity.Account, error) {
	if !target.Role.Valid() {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Accounts(s.db).FindByID(ctx, target)
}

func (s *AccountService) issue(a *identity.Account) (*Session, error) {
	token, claim, err := s.tokens.IssueDefault(a.Subject())
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{Account: a, Token: token, ExpiresAt: claim.ExpiresAt}, nil
}

// dummy is compared against for unknown emails so that both failure paths
// spend the same bcrypt work.
func (s *AccountService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("techelevate-dummy-password"), s.bcryptCost)
	})
	return s.dummyHash
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
