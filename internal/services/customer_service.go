package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"lpg-backend/internal/cache"
	"lpg-backend/internal/models"
	"lpg-backend/internal/repositories"
)

// CustomerService owns customer profiles and their ledgers.
type CustomerService struct {
	customers *repositories.CustomerRepository
	ledger    *repositories.LedgerRepository
}

func NewCustomerService(customers *repositories.CustomerRepository, ledger *repositories.LedgerRepository) *CustomerService {
	return &CustomerService{customers: customers, ledger: ledger}
}

func (s *CustomerService) Create(ctx context.Context, tenantID int, req *models.CreateCustomerRequest) (*models.Customer, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	customer, err := s.customers.Create(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	cache.InvalidateCustomerCaches(ctx, strconv.Itoa(tenantID))
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, tenantID, id int) (*models.Customer, error) {
	customer, err := s.customers.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: customer %d", ErrNotFound, id)
	}
	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, tenantID, id int, req *models.UpdateCustomerRequest) error {
	if err := s.customers.Update(ctx, tenantID, id, req); err != nil {
		return err
	}
	cache.InvalidateCustomerCaches(ctx, strconv.Itoa(tenantID))
	return nil
}

func (s *CustomerService) Delete(ctx context.Context, tenantID, id int) error {
	if err := s.customers.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	cache.InvalidateCustomerCaches(ctx, strconv.Itoa(tenantID))
	return nil
}

// List serves customer lists through the cache; a miss falls through to the
// database and primes the cache for a minute.
func (s *CustomerService) List(ctx context.Context, tenantID, limit, offset int) ([]models.Customer, error) {
	cacheKey := fmt.Sprintf("customers:%d:list:%d:%d", tenantID, limit, offset)
	if data, ok := cache.GetCached(ctx, cacheKey); ok {
		var customers []models.Customer
		if err := json.Unmarshal(data, &customers); err == nil {
			return customers, nil
		}
	}

	customers, err := s.customers.List(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(customers); err == nil {
		cache.SetCached(ctx, cacheKey, data, time.Minute)
	}
	return customers, nil
}

func (s *CustomerService) SearchByPhone(ctx context.Context, tenantID int, phone string) ([]models.Customer, error) {
	return s.customers.SearchByPhone(ctx, tenantID, phone)
}

// PostLedgerEntry appends an immutable posting and moves the cached balance
// by the same delta. The two writes are not one transaction; the
// reconciliation scan exists exactly to catch the rare gap between them.
// Debit postings that would push the customer past their credit limit are
// rejected up front.
func (s *CustomerService) PostLedgerEntry(ctx context.Context, tenantID int, req *models.CreateLedgerEntryRequest) (*models.LedgerEntry, error) {
	if req.Debit < 0 || req.Credit < 0 {
		return nil, fmt.Errorf("%w: debit and credit must be non-negative", ErrInvalidInput)
	}
	if req.Debit == 0 && req.Credit == 0 {
		return nil, fmt.Errorf("%w: posting must move money", ErrInvalidInput)
	}
	if req.Debit > 0 && req.Credit > 0 {
		return nil, fmt.Errorf("%w: posting cannot be both debit and credit", ErrInvalidInput)
	}

	customer, err := s.customers.Get(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: customer %d", ErrNotFound, req.CustomerID)
	}

	delta := req.Debit - req.Credit
	if delta > 0 && customer.CreditLimit > 0 && customer.CurrentBalance+delta > customer.CreditLimit {
		return nil, fmt.Errorf("%w: balance %.2f + %.2f would exceed limit %.2f",
			ErrCreditLimit, customer.CurrentBalance, delta, customer.CreditLimit)
	}

	entry, err := s.ledger.Create(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	if err := s.customers.AdjustBalance(ctx, tenantID, req.CustomerID, delta); err != nil {
		// The posting is in; the cached balance is now stale until the next
		// reconciliation repair.
		return entry, fmt.Errorf("posting recorded but balance update failed: %w", err)
	}

	tenant := strconv.Itoa(tenantID)
	cache.InvalidateCustomerCaches(ctx, tenant)
	cache.InvalidateReconciliationCache(ctx, tenant)
	return entry, nil
}

// Statement returns a customer's ledger history, newest first
func (s *CustomerService) Statement(ctx context.Context, tenantID, customerID, limit, offset int) ([]models.LedgerEntry, error) {
	return s.ledger.GetByCustomer(ctx, tenantID, customerID, limit, offset)
}

// LedgerEntries returns filtered postings for audit views
func (s *CustomerService) LedgerEntries(ctx context.Context, tenantID int, filter *models.LedgerFilter) ([]models.LedgerEntry, error) {
	return s.ledger.GetAll(ctx, tenantID, filter)
}
