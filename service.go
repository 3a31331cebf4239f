package auth

import (
	"context"
	"net/url"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AuthService implements the account lifecycle: registration, email
// verification, credential login, session revocation, and onboarding.
// Every session registry write takes the per-user lock and re-reads the
// record inside the transaction, so concurrent logins for one account
// serialize instead of clobbering each other.
type AuthService struct {
	users      UserStore
	tx         repository.TransactionManager
	tokens     *TokenService
	dashboards DashboardCreator
	mailer     Mailer
	logger     Logger
	locks      userLocks
	now        func() time.Time

	verificationBaseURL string
}

func NewAuthService(repo RepositoryManager, tokens *TokenService, cfg Config) *AuthService {
	return NewAuthServiceWithStore(repo.Users(), repo, tokens, cfg)
}

// NewAuthServiceWithStore wires explicit collaborators, used by tests and
// callers that bring their own persistence.
func NewAuthServiceWithStore(users UserStore, tx repository.TransactionManager, tokens *TokenService, cfg Config) *AuthService {
	return &AuthService{
		users:               users,
		tx:                  tx,
		tokens:              tokens,
		logger:              defLogger{},
		now:                 time.Now,
		verificationBaseURL: cfg.VerificationBaseURL,
	}
}

// WithLogger overrides the logger used by the service.
func (s *AuthService) WithLogger(logger Logger) *AuthService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithMailer sets the delivery transport for account emails.
func (s *AuthService) WithMailer(mailer Mailer) *AuthService {
	s.mailer = mailer
	return s
}

// WithDashboardCreator sets the workspace provisioner invoked on first
// verification.
func (s *AuthService) WithDashboardCreator(dashboards DashboardCreator) *AuthService {
	s.dashboards = dashboards
	return s
}

// WithClock overrides the time source, useful for expiry tests.
func (s *AuthService) WithClock(clock func() time.Time) *AuthService {
	if clock != nil {
		s.now = clock
	}
	return s
}

type RegisterInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResult struct {
	User    Profile `json:"user"`
	Message string  `json:"message"`
}

// LoginResult is the outcome of any flow that establishes a session.
type LoginResult struct {
	User        Profile     `json:"user"`
	AccessToken string      `json:"access_token"`
	SessionID   string      `json:"session_id"`
	ExpiresAt   time.Time   `json:"expires_at"`
	Device      DeviceClass `json:"device"`
}

// Register creates an unverified account and sends the verification email.
// Delivery failures are logged, never surfaced; the caller can always hit
// the resend endpoint. The account id is derived from the normalized email
// so retried registrations stay idempotent at the id level.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	email := NormalizeEmail(input.Email)
	fullName := NormalizeName(input.FullName)

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
	}

	if id, err := hashid.NewUUID(email); err == nil {
		user.ID = id
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err = s.tx.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := s.users.GetByEmailTx(ctx, tx, email)
		if err == nil {
			return ErrDuplicateEmail
		}
		if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check existing account")
		}

		if user, err = s.users.RegisterTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "registration transaction failed")
	}

	s.sendVerificationEmail(ctx, user, DeliverBestEffort)

	return &RegisterResult{
		User:    user.Profile(),
		Message: "registration successful, check your email to verify your account",
	}, nil
}

// VerifyEmail consumes a verification token and logs the account in. The
// transition is idempotent: a second verification behaves like a login and
// never provisions a second dashboard.
func (s *AuthService) VerifyEmail(ctx context.Context, rawToken string, device DeviceClass) (*LoginResult, error) {
	claims, err := s.tokens.Validate(rawToken)
	if err != nil {
		return nil, err
	}

	userID := claims.UserID()

	unlock := s.locks.Lock(userID)
	defer unlock()

	var result *LoginResult
	err = s.tx.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := s.users.ByIDTx(ctx, tx, userID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrUserNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account")
		}

		if !user.IsVerified {
			user.IsVerified = true
			if s.dashboards != nil {
				if err := s.dashboards.CreateForUserTx(ctx, tx, user.ID); err != nil {
					return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to provision dashboard")
				}
			}
		}

		result, err = s.openSessionTx(ctx, tx, user, device)
		return err
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "verification transaction failed")
	}

	return result, nil
}

// ResendVerification issues a fresh verification email. Unknown addresses
// are reported, already verified accounts are a no-op, and delivery
// failures surface since sending the email is the whole point of the call.
func (s *AuthService) ResendVerification(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account")
	}

	if user.IsVerified {
		return "account is already verified", nil
	}

	if err := s.sendVerificationEmail(ctx, user, DeliverSurface); err != nil {
		return "", err
	}

	return "verification email sent", nil
}

// Login authenticates credentials and opens a session. Unknown emails and
// wrong passwords both return ErrInvalidCredentials so the response never
// reveals which half failed. Unverified accounts get a fresh verification
// email and no session.
func (s *AuthService) Login(ctx context.Context, email, password string, device DeviceClass) (*LoginResult, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account")
	}

	// Provider-only accounts have no password to compare against.
	if IsOAuthOnly(user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, err
	}

	if !user.IsVerified {
		s.sendVerificationEmail(ctx, user, DeliverBestEffort)
		return nil, ErrEmailNotVerified
	}

	return s.openSession(ctx, user.ID.String(), device)
}

// Logout revokes one session, or every session when sessionID is empty.
// Revoking an already removed session is not an error.
func (s *AuthService) Logout(ctx context.Context, userID, sessionID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	err := s.tx.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := s.users.ByIDTx(ctx, tx, userID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrUserNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account")
		}

		if sessionID == "" {
			user.ClearSessions()
		} else {
			user.RemoveSession(sessionID)
		}
		user.PruneSessions(s.now())

		_, err = s.users.SaveTx(ctx, tx, user)
		return err
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "logout transaction failed")
	}

	return nil
}

// Profile returns the public projection of an account.
func (s *AuthService) Profile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account")
	}

	profile := user.Profile()
	return &profile, nil
}

// CompleteOnboarding marks the onboarding flow finished. Repeat calls are
// acknowledged without a write.
func (s *AuthService) CompleteOnboarding(ctx context.Context, userID string) (*Profile, string, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	var profile Profile
	message := "onboarding completed"

	err := s.tx.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := s.users.ByIDTx(ctx, tx, userID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrUserNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account")
		}

		if user.HasCompletedOnboarding {
			message = "onboarding already completed"
			profile = user.Profile()
			return nil
		}

		user.HasCompletedOnboarding = true
		if _, err := s.users.SaveTx(ctx, tx, user); err != nil {
			return err
		}

		profile = user.Profile()
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, "", richErr
		}
		return nil, "", goerrors.Wrap(err, goerrors.CategoryInternal, "onboarding transaction failed")
	}

	return &profile, message, nil
}

// openSession records a session entry for the user and issues the matching
// access token. Callers that already hold the user lock and a transaction
// use openSessionTx directly.
func (s *AuthService) openSession(ctx context.Context, userID string, device DeviceClass) (*LoginResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	var result *LoginResult
	err := s.tx.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := s.users.ByIDTx(ctx, tx, userID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrUserNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account")
		}

		result, err = s.openSessionTx(ctx, tx, user, device)
		return err
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "login transaction failed")
	}

	return result, nil
}

func (s *AuthService) openSessionTx(ctx context.Context, tx bun.IDB, user *User, device DeviceClass) (*LoginResult, error) {
	if device == "" {
		device = DeviceUnknown
	}

	sessionID := uuid.NewString()

	token, expiresAt, err := s.tokens.IssueAccessToken(user.ID.String(), sessionID)
	if err != nil {
		return nil, err
	}

	user.AppendSession(SessionEntry{
		ID:        sessionID,
		ExpiresAt: expiresAt,
		Device:    device,
	}, s.now())

	if _, err := s.users.SaveTx(ctx, tx, user); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist session")
	}

	return &LoginResult{
		User:        user.Profile(),
		AccessToken: token,
		SessionID:   sessionID,
		ExpiresAt:   expiresAt,
		Device:      device,
	}, nil
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, user *User, policy DeliveryPolicy) error {
	token, err := s.tokens.IssueVerificationToken(user.ID.String())
	if err != nil {
		if policy == DeliverSurface {
			return err
		}
		s.logger.Error("failed to issue verification token for %s: %v", user.Email, err)
		return nil
	}

	link := s.verificationLink(token)

	if s.mailer == nil {
		s.logger.Info("verification link for %s: %s", user.Email, link)
		return nil
	}

	err = s.mailer.Send(ctx, Message{
		Recipient: user.Email,
		Subject:   "Verify your email",
		FullName:  user.FullName,
		Link:      link,
	})

	if err == nil {
		return nil
	}

	if policy == DeliverSurface {
		s.logger.Error("verification email to %s failed: %v", user.Email, err)
		return ErrEmailDeliveryFailed
	}

	s.logger.Error("verification email to %s failed, continuing: %v", user.Email, err)
	return nil
}

func (s *AuthService) verificationLink(token string) string {
	base := s.verificationBaseURL
	if base == "" {
		base = "/auth/verify-email"
	}
	return base + "?token=" + url.QueryEscape(token)
}
