package service

import (
	"context"

	"github.com/paymenu/grouppay/internal/api/dto"
	"github.com/paymenu/grouppay/internal/domain/enduser"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/gateway"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/paymenu/grouppay/internal/validator"
	"github.com/samber/lo"
)

// EndUserService defines the interface for end user operations
type EndUserService interface {
	CreateEndUser(ctx context.Context, req dto.CreateEndUserRequest) (*dto.EndUserResponse, error)
	GetEndUser(ctx context.Context, id string) (*dto.EndUserResponse, error)
	ListEndUsers(ctx context.Context, filter *types.EndUserFilter) (*dto.ListEndUsersResponse, error)
	// AttachCard stores a card at the provider and binds it to the user
	AttachCard(ctx context.Context, id string, req dto.CardRequest) (*dto.EndUserResponse, error)
}

type endUserService struct {
	ServiceParams
}

// NewEndUserService creates a new end user service
func NewEndUserService(params ServiceParams) EndUserService {
	return &endUserService{ServiceParams: params}
}

func (s *endUserService) CreateEndUser(ctx context.Context, req dto.CreateEndUserRequest) (*dto.EndUserResponse, error) {
	if err := validator.ValidateRequest(&req); err != nil {
		return nil, err
	}

	user := req.ToEndUser(ctx)
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkUniqueness(ctx, user); err != nil {
		return nil, err
	}

	// register the customer at the provider so it can be charged later
	customer, err := s.Gateway.CreateCustomer(ctx, gateway.CustomerRequest{
		Name:           user.Name,
		Email:          user.Email,
		DocumentNumber: user.DocumentNumber,
		PhoneNumber:    user.PhoneNumber,
	})
	if err != nil {
		return nil, err
	}
	user.GatewayCustomerID = lo.ToPtr(customer.ID)

	if req.Card != nil {
		card, err := s.Gateway.CreateCard(ctx, gateway.CardRequest{
			CustomerID:     customer.ID,
			Number:         req.Card.Number,
			HolderName:     req.Card.HolderName,
			ExpirationDate: req.Card.ExpirationDate,
			CVV:            req.Card.CVV,
		})
		if err != nil {
			return nil, err
		}
		user.GatewayCardID = lo.ToPtr(card.ID)
	}

	if err := s.EndUserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.Logger.Infow("created end user",
		"end_user_id", user.ID,
		"system_id", user.SystemID,
		"has_card", user.HasCard(),
	)
	return &dto.EndUserResponse{EndUser: user}, nil
}

// checkUniqueness enforces the one-user-per-email, system id and phone
// number rules
func (s *endUserService) checkUniqueness(ctx context.Context, user *enduser.EndUser) error {
	if existing, err := s.EndUserRepo.GetByEmail(ctx, user.Email); err == nil && existing != nil {
		return ierr.NewError("an end user with this email already exists").
			WithReportableDetails(map[string]any{"email": user.Email}).
			Mark(ierr.ErrAlreadyExists)
	} else if err != nil && !ierr.IsNotFound(err) {
		return err
	}

	if existing, err := s.EndUserRepo.GetBySystemID(ctx, user.SystemID); err == nil && existing != nil {
		return ierr.NewError("an end user with this system id already exists").
			WithReportableDetails(map[string]any{"system_id": user.SystemID}).
			Mark(ierr.ErrAlreadyExists)
	} else if err != nil && !ierr.IsNotFound(err) {
		return err
	}

	if user.PhoneNumber != "" {
		if existing, err := s.EndUserRepo.GetByPhoneNumber(ctx, user.PhoneNumber); err == nil && existing != nil {
			return ierr.NewError("an end user with this phone number already exists").
				WithReportableDetails(map[string]any{"phone_number": user.PhoneNumber}).
				Mark(ierr.ErrAlreadyExists)
		} else if err != nil && !ierr.IsNotFound(err) {
			return err
		}
	}
	return nil
}

func (s *endUserService) GetEndUser(ctx context.Context, id string) (*dto.EndUserResponse, error) {
	user, err := s.EndUserRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.EndUserResponse{EndUser: user}, nil
}

func (s *endUserService) ListEndUsers(ctx context.Context, filter *types.EndUserFilter) (*dto.ListEndUsersResponse, error) {
	if filter == nil {
		filter = &types.EndUserFilter{}
	}

	users, err := s.EndUserRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.EndUserRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.EndUserResponse, len(users))
	for i, user := range users {
		items[i] = &dto.EndUserResponse{EndUser: user}
	}

	resp := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *endUserService) AttachCard(ctx context.Context, id string, req dto.CardRequest) (*dto.EndUserResponse, error) {
	if err := validator.ValidateRequest(&req); err != nil {
		return nil, err
	}

	user, err := s.EndUserRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.GatewayCustomerID == nil {
		return nil, ierr.NewError("end user has no provider customer").
			WithHint("The end user was never registered at the payment provider").
			WithReportableDetails(map[string]any{"end_user_id": id}).
			Mark(ierr.ErrInvalidOperation)
	}

	card, err := s.Gateway.CreateCard(ctx, gateway.CardRequest{
		CustomerID:     *user.GatewayCustomerID,
		Number:         req.Number,
		HolderName:     req.HolderName,
		ExpirationDate: req.ExpirationDate,
		CVV:            req.CVV,
	})
	if err != nil {
		return nil, err
	}

	user.GatewayCardID = lo.ToPtr(card.ID)
	if err := s.EndUserRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &dto.EndUserResponse{EndUser: user}, nil
}
