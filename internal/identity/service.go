package identity

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/bazaar/internal/models"
	"github.com/example/bazaar/internal/utils"
)

// otpValidity bounds both verification codes and reset tokens.
const otpValidity = 2 * time.Minute

// Service owns the account lifecycle: issuing, validating and
// invalidating one-time codes and reset tokens, and minting session
// credentials on successful authentication. All state lives in the
// Store; the service itself is safe for concurrent use.
type Service struct {
	store    Store
	sender   Sender
	secret   string
	tokenTTL time.Duration
	log      zerolog.Logger

	// Overridable in tests.
	now           func() time.Time
	newOTP        func() (string, error)
	newResetToken func() (string, error)
}

// NewService constructs a Service backed by the given store and sender.
func NewService(store Store, sender Sender, secret string, tokenTTL time.Duration, log zerolog.Logger) *Service {
	return &Service{
		store:         store,
		sender:        sender,
		secret:        secret,
		tokenTTL:      tokenTTL,
		log:           log,
		now:           time.Now,
		newOTP:        generateOTP,
		newResetToken: generateResetToken,
	}
}

// Register creates an unverified account and emails it a verification
// code. The mail goes out before the row is written: a failed send
// aborts the whole registration so no account is ever stranded without
// a deliverable code.
func (s *Service) Register(name, email, password string) error {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return E(KindValidation, "name, email and password are required")
	}

	if _, err := s.store.FindByEmail(email); err == nil {
		return E(KindConflict, "user with this email already exists")
	} else if !errors.Is(err, ErrNotFound) {
		return s.internal("lookup account", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return s.internal("hash password", err)
	}

	code, err := s.newOTP()
	if err != nil {
		return s.internal("generate otp", err)
	}
	expires := s.now().Add(otpValidity)

	if err := s.sender.SendOTP(email, code); err != nil {
		return s.internal("send otp email", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		OTP:          &code,
		OTPExpiresAt: &expires,
	}
	if err := s.store.Create(user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return E(KindConflict, "user with this email already exists")
		}
		return s.internal("create account", err)
	}

	s.log.Info().Str("email", email).Msg("account registered, otp sent")
	return nil
}

// VerifyOTP consumes a pending verification code and activates the
// account. Activation is terminal; verified never reverts.
func (s *Service) VerifyOTP(email, code string) error {
	email = NormalizeEmail(email)
	if email == "" || code == "" {
		return E(KindValidation, "email and otp are required")
	}

	user, err := s.store.FindByEmail(email)
	if errors.Is(err, ErrNotFound) {
		return E(KindNotFound, "user not found")
	} else if err != nil {
		return s.internal("lookup account", err)
	}

	if user.Verified {
		return E(KindConflict, "user already verified")
	}
	if user.OTP == nil || user.OTPExpiresAt == nil {
		return E(KindInvalidState, "otp has already been used")
	}
	if s.now().After(*user.OTPExpiresAt) {
		return E(KindExpired, "otp has expired")
	}
	if *user.OTP != code {
		return E(KindInvalidCredential, "invalid otp")
	}

	user.OTP = nil
	user.OTPExpiresAt = nil
	user.Verified = true
	if err := s.store.Save(user); err != nil {
		return s.internal("save account", err)
	}

	s.log.Info().Str("email", email).Msg("account verified")
	return nil
}

// ResendOTP unconditionally replaces any pending code with a fresh one
// and redelivers it. The old code becomes invalid the moment the new
// one is persisted. No verified guard: a code is reissued even for an
// already-verified account, mirroring the legacy behavior.
func (s *Service) ResendOTP(email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return E(KindValidation, "email is required")
	}

	user, err := s.store.FindByEmail(email)
	if errors.Is(err, ErrNotFound) {
		return E(KindNotFound, "user not found")
	} else if err != nil {
		return s.internal("lookup account", err)
	}

	code, err := s.newOTP()
	if err != nil {
		return s.internal("generate otp", err)
	}
	expires := s.now().Add(otpValidity)
	user.OTP = &code
	user.OTPExpiresAt = &expires

	// Persist first: if the send fails the account still holds a live
	// code and a later resend recovers.
	if err := s.store.Save(user); err != nil {
		return s.internal("save account", err)
	}
	if err := s.sender.SendOTP(email, code); err != nil {
		return s.internal("send otp email", err)
	}

	return nil
}

// Login authenticates an account and mints a session credential. A
// missing account and a wrong password produce the same error so the
// response never confirms whether an email is registered.
func (s *Service) Login(email, password string) (models.PublicUser, string, error) {
	email = NormalizeEmail(email)

	user, err := s.store.FindActiveByEmail(email)
	if errors.Is(err, ErrNotFound) {
		return models.PublicUser{}, "", E(KindInvalidCredential, "invalid login credentials")
	} else if err != nil {
		return models.PublicUser{}, "", s.internal("lookup account", err)
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return models.PublicUser{}, "", E(KindInvalidCredential, "invalid login credentials")
	}

	token, err := GenerateToken(s.secret, user, s.tokenTTL)
	if err != nil {
		return models.PublicUser{}, "", s.internal("sign token", err)
	}

	return user.Public(), token, nil
}

// ForgotPassword starts a reset cycle: a fresh OTP is emailed to the
// account and an opaque reset token is handed back to the caller. Both
// expire on the same two-minute horizon.
func (s *Service) ForgotPassword(email string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return "", E(KindValidation, "email is required")
	}

	user, err := s.store.FindByEmail(email)
	if errors.Is(err, ErrNotFound) {
		return "", E(KindNotFound, "user not found")
	} else if err != nil {
		return "", s.internal("lookup account", err)
	}

	code, err := s.newOTP()
	if err != nil {
		return "", s.internal("generate otp", err)
	}
	token, err := s.newResetToken()
	if err != nil {
		return "", s.internal("generate reset token", err)
	}

	expires := s.now().Add(otpValidity)
	user.OTP = &code
	user.OTPExpiresAt = &expires
	user.ResetToken = &token
	user.ResetExpiresAt = &expires

	if err := s.store.Save(user); err != nil {
		return "", s.internal("save account", err)
	}
	if err := s.sender.SendOTP(email, code); err != nil {
		return "", s.internal("send otp email", err)
	}

	s.log.Info().Str("email", email).Msg("password reset initiated")
	return token, nil
}

// ResetPassword completes a reset cycle. The reset token selects the
// account and must still be live; the OTP is then checked on its own
// expiry. Success clears all four code/token fields in one save.
func (s *Service) ResetPassword(token, code, newPassword string) error {
	if token == "" || code == "" || newPassword == "" {
		return E(KindValidation, "token, otp and new password are required")
	}

	user, err := s.store.FindByLiveResetToken(token, s.now())
	if errors.Is(err, ErrNotFound) {
		return E(KindInvalidOrExpired, "invalid or expired token")
	} else if err != nil {
		return s.internal("lookup reset token", err)
	}

	if user.OTP == nil || *user.OTP != code {
		return E(KindInvalidCredential, "invalid otp")
	}
	if user.OTPExpiresAt != nil && s.now().After(*user.OTPExpiresAt) {
		return E(KindExpired, "otp has expired")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return s.internal("hash password", err)
	}

	user.PasswordHash = hash
	user.OTP = nil
	user.OTPExpiresAt = nil
	user.ResetToken = nil
	user.ResetExpiresAt = nil
	if err := s.store.Save(user); err != nil {
		return s.internal("save account", err)
	}

	s.log.Info().Str("email", user.Email).Msg("password reset completed")
	return nil
}

func (s *Service) internal(op string, err error) *Error {
	s.log.Error().Err(err).Str("op", op).Msg("identity operation failed")
	return E(KindInternal, "internal server error")
}

// NormalizeEmail lowercases and trims the lookup key, matching the
// case-normalization applied at account creation.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateOTP returns a uniformly random six-digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// generateResetToken returns 32 random bytes, hex encoded.
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
