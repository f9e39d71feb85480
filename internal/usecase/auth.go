package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"
	oauth2 "google.golang.org/api/oauth2/v2"

	"github.com/prasertsakk/job-portal-api/internal/config"
	"github.com/prasertsakk/job-portal-api/internal/model"
	"github.com/prasertsakk/job-portal-api/internal/repository"
	"github.com/prasertsakk/job-portal-api/shared/auth"
	"github.com/prasertsakk/job-portal-api/shared/security"
)

// AuthUsecase defines the business logic for registration, OTP verification
// and login.
type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) error
	VerifyOTP(ctx context.Context, email, otp string) error
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error)
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// AuthResult carries the signed access token and the authenticated user.
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// OTPMailer sends verification emails. Satisfied by *mailer.Mailer.
type OTPMailer interface {
	SendHTML(to []string, subject, htmlBody string) error
}

// GoogleVerifier validates Google ID tokens. Satisfied by *provider.GoogleOAuthProvider.
type GoogleVerifier interface {
	ValidateIDToken(ctx context.Context, idToken string) (*oauth2.Tokeninfo, error)
}

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotVerified    = errors.New("account is not verified")
	ErrAlreadyVerified    = errors.New("account is already verified")
	ErrUserBanned         = errors.New("account is banned")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrOTPExpired         = errors.New("OTP has expired")
	ErrOTPRateLimited     = errors.New("OTP was sent recently, try again later")
)

const (
	otpTTL            = 10 * time.Minute
	otpResendInterval = time.Minute
)

type authUsecase struct {
	userRepo repository.UserRepository
	jwtAuth  auth.JWTAuthenticator
	mailer   OTPMailer
	google   GoogleVerifier
	cfg      *config.Config
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	jwtAuth auth.JWTAuthenticator,
	mailer OTPMailer,
	google GoogleVerifier,
	cfg *config.Config,
) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		jwtAuth:  jwtAuth,
		mailer:   mailer,
		google:   google,
		cfg:      cfg,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) error {
	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return err
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}

	now := time.Now()
	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Role:          params.Role,
		Name:          params.Name,
		Email:         params.Email,
		PasswordHash:  passwordHash,
		Status:        model.UserStatusActive,
		Verified:      false,
		OTP:           otp,
		OTPExpiresAt:  now.Add(otpTTL),
		OTPLastSentAt: now,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserAlreadyExists
		}
		return err
	}

	return u.sendOTPEmail(user.Email, otp)
}

func (u *authUsecase) VerifyOTP(ctx context.Context, email, otp string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Verified {
		return ErrAlreadyVerified
	}

	if user.OTP == "" || user.OTP != otp {
		// Clear the code after a failed attempt so it cannot be brute forced.
		u.clearOTP(ctx, user.ID.Hex())
		return ErrInvalidOTP
	}

	if time.Now().After(user.OTPExpiresAt) {
		u.clearOTP(ctx, user.ID.Hex())
		return ErrOTPExpired
	}

	verified := true
	emptyOTP := ""
	_, err = u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		Verified: &verified,
		OTP:      &emptyOTP,
	})

	return err
}

func (u *authUsecase) ResendOTP(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Verified {
		return ErrAlreadyVerified
	}

	if time.Since(user.OTPLastSentAt) < otpResendInterval {
		return ErrOTPRateLimited
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}

	now := time.Now()
	expiresAt := now.Add(otpTTL)
	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		OTP:           &otp,
		OTPExpiresAt:  &expiresAt,
		OTPLastSentAt: &now,
	}); err != nil {
		return err
	}

	return u.sendOTPEmail(user.Email, otp)
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	return u.issueToken(user)
}

func (u *authUsecase) LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	tokenInfo, err := u.google.ValidateIDToken(ctx, idToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := u.userRepo.GetUserByGoogleID(ctx, tokenInfo.UserId)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	if user == nil || isNotFound(err) {
		user, err = u.userRepo.GetUserByEmail(ctx, tokenInfo.Email)
		if err != nil {
			if !isNotFound(err) {
				return nil, err
			}

			// First Google sign-in: provision a verified seeker account.
			user, err = u.userRepo.CreateUser(ctx, &model.User{
				Role:     model.RoleSeeker,
				Name:     nameFromEmail(tokenInfo.Email),
				Email:    tokenInfo.Email,
				GoogleID: tokenInfo.UserId,
				Status:   model.UserStatusActive,
				Verified: true,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return u.issueToken(user)
}

func (u *authUsecase) issueToken(user *model.User) (*AuthResult, error) {
	if !user.Verified {
		return nil, ErrUserNotVerified
	}
	if user.Status == model.UserStatusBanned {
		return nil, ErrUserBanned
	}

	now := time.Now()
	claims := auth.Claims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.cfg.Token.ExpiresIn)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    u.cfg.Token.Issuer,
			Audience:  jwt.ClaimStrings{u.cfg.Token.Issuer},
		},
	}

	token, err := u.jwtAuth.GenerateToken(claims, u.cfg.Token.Secret)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user}, nil
}

func (u *authUsecase) sendOTPEmail(email, otp string) error {
	htmlBody := fmt.Sprintf(`
		<p>Your verification code is:</p>
		<h1 style="font-size: 32px; letter-spacing: 5px;">%s</h1>
		<p>This code will expire in %d minutes.</p>
		<p>If you didn't request this code, please ignore this email.</p>
	`, otp, int(otpTTL.Minutes()))

	return u.mailer.SendHTML([]string{email}, "Your verification code", htmlBody)
}

func (u *authUsecase) clearOTP(ctx context.Context, userID string) {
	emptyOTP := ""
	_, _ = u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{OTP: &emptyOTP})
}

// generateOTP returns a random six digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}

func nameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
