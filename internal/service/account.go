package service

import (
	"context"
	"time"

	"github.com/edledger/edledger/internal/api/dto"
	"github.com/edledger/edledger/internal/types"
)

// AccountService manages receiving accounts and payment methods
type AccountService interface {
	CreateAccount(ctx context.Context, req *dto.CreateAccountRequest) (*dto.AccountResponse, error)
	GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error)
	UpdateAccount(ctx context.Context, id string, req *dto.UpdateAccountRequest) (*dto.AccountResponse, error)
	DeleteAccount(ctx context.Context, id string) error
	ListAccounts(ctx context.Context, filter *types.QueryFilter) ([]*dto.AccountResponse, error)

	CreatePaymentMethod(ctx context.Context, req *dto.CreatePaymentMethodRequest) (*dto.PaymentMethodResponse, error)
	GetPaymentMethod(ctx context.Context, id string) (*dto.PaymentMethodResponse, error)
	UpdatePaymentMethod(ctx context.Context, id string, req *dto.UpdatePaymentMethodRequest) (*dto.PaymentMethodResponse, error)
	DeletePaymentMethod(ctx context.Context, id string) error
	ListPaymentMethods(ctx context.Context, filter *types.QueryFilter) ([]*dto.PaymentMethodResponse, error)
}

type accountService struct {
	ServiceParams
}

func NewAccountService(params ServiceParams) AccountService {
	return &accountService{
		ServiceParams: params,
	}
}

func (s *accountService) CreateAccount(ctx context.Context, req *dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	acct := req.ToAccount(ctx)
	if err := acct.Validate(); err != nil {
		return nil, err
	}
	if err := s.AccountRepo.Create(ctx, acct); err != nil {
		return nil, err
	}
	return dto.NewAccountResponse(acct), nil
}

func (s *accountService) GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error) {
	acct, err := s.AccountRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewAccountResponse(acct), nil
}

func (s *accountService) UpdateAccount(ctx context.Context, id string, req *dto.UpdateAccountRequest) (*dto.AccountResponse, error) {
	acct, err := s.AccountRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		acct.Name = *req.Name
	}
	if req.AccountNumber != nil {
		acct.AccountNumber = *req.AccountNumber
	}
	if req.BankName != nil {
		acct.BankName = *req.BankName
	}
	acct.UpdatedAt = time.Now().UTC()
	acct.UpdatedBy = types.GetUserID(ctx)

	if err := acct.Validate(); err != nil {
		return nil, err
	}
	if err := s.AccountRepo.Update(ctx, acct); err != nil {
		return nil, err
	}
	return dto.NewAccountResponse(acct), nil
}

func (s *accountService) DeleteAccount(ctx context.Context, id string) error {
	if _, err := s.AccountRepo.Get(ctx, id); err != nil {
		return err
	}
	return s.AccountRepo.Delete(ctx, id)
}

func (s *accountService) ListAccounts(ctx context.Context, filter *types.QueryFilter) ([]*dto.AccountResponse, error) {
	if filter == nil {
		filter = types.NewDefaultQueryFilter()
	}
	accounts, err := s.AccountRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.AccountResponse, 0, len(accounts))
	for _, acct := range accounts {
		resp = append(resp, dto.NewAccountResponse(acct))
	}
	return resp, nil
}

func (s *accountService) CreatePaymentMethod(ctx context.Context, req *dto.CreatePaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	method := req.ToPaymentMethod(ctx)
	if err := method.Validate(); err != nil {
		return nil, err
	}
	if err := s.PaymentMethodRepo.Create(ctx, method); err != nil {
		return nil, err
	}
	return dto.NewPaymentMethodResponse(method), nil
}

func (s *accountService) GetPaymentMethod(ctx context.Context, id string) (*dto.PaymentMethodResponse, error) {
	method, err := s.PaymentMethodRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentMethodResponse(method), nil
}

func (s *accountService) UpdatePaymentMethod(ctx context.Context, id string, req *dto.UpdatePaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	method, err := s.PaymentMethodRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		method.Name = *req.Name
	}
	method.UpdatedAt = time.Now().UTC()
	method.UpdatedBy = types.GetUserID(ctx)

	if err := method.Validate(); err != nil {
		return nil, err
	}
	if err := s.PaymentMethodRepo.Update(ctx, method); err != nil {
		return nil, err
	}
	return dto.NewPaymentMethodResponse(method), nil
}

func (s *accountService) DeletePaymentMethod(ctx context.Context, id string) error {
	if _, err := s.PaymentMethodRepo.Get(ctx, id); err != nil {
		return err
	}
	return s.PaymentMethodRepo.Delete(ctx, id)
}

func (s *accountService) ListPaymentMethods(ctx context.Context, filter *types.QueryFilter) ([]*dto.PaymentMethodResponse, error) {
	if filter == nil {
		filter = types.NewDefaultQueryFilter()
	}
	methods, err := s.PaymentMethodRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.PaymentMethodResponse, 0, len(methods))
	for _, method := range methods {
		resp = append(resp, dto.NewPaymentMethodResponse(method))
	}
	return resp, nil
}
