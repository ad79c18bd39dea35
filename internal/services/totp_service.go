package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"

	"lpg-backend/internal/models"
	"lpg-backend/internal/repositories"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "LPG Distribution"

// TOTPService manages two-factor setup for staff accounts
type TOTPService struct {
	users *repositories.UserRepository
}

func NewTOTPService(users *repositories.UserRepository) *TOTPService {
	return &TOTPService{users: users}
}

// GenerateSetup creates a new TOTP secret for a user and returns the QR code
// for their authenticator app. The secret is stored but not enabled until the
// first code verifies.
func (s *TOTPService) GenerateSetup(ctx context.Context, user *models.User) (*models.TOTPSetupResponse, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	if err := s.users.SetTOTPSecret(ctx, user.TenantID, user.ID, key.Secret()); err != nil {
		return nil, err
	}

	qrImage, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, qrImage); err != nil {
		return nil, err
	}

	return &models.TOTPSetupResponse{
		Secret:      key.Secret(),
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Issuer:      totpIssuer,
		AccountName: user.Email,
	}, nil
}

// VerifyAndEnable turns 2FA on once the user proves their app works
func (s *TOTPService) VerifyAndEnable(ctx context.Context, tenantID, userID int, code string) error {
	user, err := s.users.Get(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == "" {
		return fmt.Errorf("%w: no pending 2FA setup", ErrInvalidInput)
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return fmt.Errorf("%w: invalid verification code", ErrInvalidInput)
	}
	return s.users.EnableTOTP(ctx, tenantID, userID)
}
