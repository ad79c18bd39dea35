package services

import (
	"context"

	"lpg-backend/internal/models"
	"lpg-backend/internal/repositories"
)

// WalletService exposes driver cash liabilities. Credits happen inside the
// delivery stored procedure; debits inside handover approval. This service
// is read-only by design of the workflow.
type WalletService struct {
	wallets *repositories.WalletRepository
}

func NewWalletService(wallets *repositories.WalletRepository) *WalletService {
	return &WalletService{wallets: wallets}
}

// Get returns one driver's wallet
func (s *WalletService) Get(ctx context.Context, tenantID, userID int) (*models.EmployeeWallet, error) {
	return s.wallets.Get(ctx, tenantID, userID)
}

// List returns every wallet for a tenant, highest liability first
func (s *WalletService) List(ctx context.Context, tenantID int) ([]models.EmployeeWallet, error) {
	return s.wallets.List(ctx, tenantID)
}
