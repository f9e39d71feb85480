package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prasertsakk/job-portal-api/internal/config"
	"github.com/prasertsakk/job-portal-api/internal/model"
	"github.com/prasertsakk/job-portal-api/internal/repository"
	"github.com/prasertsakk/job-portal-api/shared/auth"
	"github.com/prasertsakk/job-portal-api/shared/security"
)

// PasswordResetUsecase defines the business logic for the forgot password
// flow: issuing emailed reset tokens and consuming them.
type PasswordResetUsecase interface {
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

var (
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")
	ErrResetTokenUsed    = errors.New("reset token has already been used")
)

type passwordResetUsecase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.PasswordResetTokenRepository
	jwtAuth   auth.JWTAuthenticator
	mailer    OTPMailer
	cfg       *config.Config
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	tokenRepo repository.PasswordResetTokenRepository,
	jwtAuth auth.JWTAuthenticator,
	mailer OTPMailer,
	cfg *config.Config,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtAuth:   jwtAuth,
		mailer:    mailer,
		cfg:       cfg,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			// Do not reveal whether the address is registered.
			return nil
		}
		return err
	}

	if err := u.tokenRepo.InvalidateUserTokens(ctx, user.ID.Hex()); err != nil {
		return err
	}

	jti, err := generateJTI()
	if err != nil {
		return err
	}

	now := time.Now()
	expiresAt := now.Add(u.cfg.Token.PasswordResetExpiresIn)
	claims := auth.PasswordResetClaims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    u.cfg.Token.Issuer,
			Audience:  jwt.ClaimStrings{u.cfg.Token.Issuer},
		},
	}

	tokenStr, err := u.jwtAuth.GenerateToken(claims, u.cfg.Token.PasswordResetSecret)
	if err != nil {
		return err
	}

	if _, err := u.tokenRepo.CreateToken(ctx, &model.PasswordResetToken{
		UserID:    user.ID,
		JTI:       jti,
		Email:     user.Email,
		ExpiresAt: expiresAt,
	}); err != nil {
		return err
	}

	return u.sendResetEmail(user.Email, tokenStr)
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims := &auth.PasswordResetClaims{}
	if _, err := u.jwtAuth.ValidateTokenWithClaims(token, u.cfg.Token.PasswordResetSecret, claims); err != nil {
		return ErrResetTokenInvalid
	}

	record, err := u.tokenRepo.GetTokenByJTI(ctx, claims.RegisteredClaims.ID)
	if err != nil {
		if isNotFound(err) {
			return ErrResetTokenInvalid
		}
		return err
	}

	if record.Used {
		return ErrResetTokenUsed
	}
	if time.Now().After(record.ExpiresAt) {
		return ErrResetTokenInvalid
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if _, err := u.userRepo.UpdateUser(ctx, claims.UserID, repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	}); err != nil {
		if isNotFound(err) {
			return ErrResetTokenInvalid
		}
		return err
	}

	return u.tokenRepo.MarkTokenAsUsed(ctx, claims.RegisteredClaims.ID)
}

func (u *passwordResetUsecase) sendResetEmail(email, token string) error {
	link := fmt.Sprintf("%s?token=%s", u.cfg.PasswordResetURL, token)
	htmlBody := fmt.Sprintf(`
		<p>We received a request to reset your password.</p>
		<p><a href="%s">Reset your password</a></p>
		<p>This link will expire in %d minutes.</p>
		<p>If you didn't request a password reset, please ignore this email.</p>
	`, link, int(u.cfg.Token.PasswordResetExpiresIn.Minutes()))

	return u.mailer.SendHTML([]string{email}, "Reset your password", htmlBody)
}

// generateJTI returns a random 64 character hex token id.
func generateJTI() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
