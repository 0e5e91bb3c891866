package service

import (
	"testing"

	"github.com/paymenu/grouppay/internal/api/dto"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/testutil"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type EndUserServiceSuite struct {
	testutil.BaseServiceTestSuite
	endUserService EndUserService
}

func TestEndUserService(t *testing.T) {
	suite.Run(t, new(EndUserServiceSuite))
}

func (s *EndUserServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.endUserService = NewEndUserService(newTestParams(&s.BaseServiceTestSuite))
}

func createEndUserRequest() dto.CreateEndUserRequest {
	return dto.CreateEndUserRequest{
		SystemID:    "stu-42",
		Name:        "Joana Lima",
		Email:       "joana@example.com",
		PhoneNumber: "+5511999990000",
	}
}

func (s *EndUserServiceSuite) TestCreateEndUser() {
	resp, err := s.endUserService.CreateEndUser(s.GetContext(), createEndUserRequest())
	s.NoError(err)
	s.NotEmpty(resp.ID)
	s.Require().NotNil(resp.GatewayCustomerID)
	s.False(resp.HasCard())
}

func (s *EndUserServiceSuite) TestCreateEndUserWithCard() {
	req := createEndUserRequest()
	req.Card = &dto.CardRequest{
		Number:         "4111111111111111",
		HolderName:     "JOANA LIMA",
		ExpirationDate: "1229",
		CVV:            "123",
	}

	resp, err := s.endUserService.CreateEndUser(s.GetContext(), req)
	s.NoError(err)
	s.True(resp.HasCard())
}

func (s *EndUserServiceSuite) TestCreateEndUserUniqueness() {
	_, err := s.endUserService.CreateEndUser(s.GetContext(), createEndUserRequest())
	s.Require().NoError(err)

	duplicateEmail := createEndUserRequest()
	duplicateEmail.SystemID = "stu-43"
	duplicateEmail.PhoneNumber = "+5511999990001"
	_, err = s.endUserService.CreateEndUser(s.GetContext(), duplicateEmail)
	s.True(ierr.IsAlreadyExists(err))

	duplicateSystemID := createEndUserRequest()
	duplicateSystemID.Email = "other@example.com"
	duplicateSystemID.PhoneNumber = "+5511999990002"
	_, err = s.endUserService.CreateEndUser(s.GetContext(), duplicateSystemID)
	s.True(ierr.IsAlreadyExists(err))

	duplicatePhone := createEndUserRequest()
	duplicatePhone.Email = "third@example.com"
	duplicatePhone.SystemID = "stu-44"
	_, err = s.endUserService.CreateEndUser(s.GetContext(), duplicatePhone)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *EndUserServiceSuite) TestAttachCard() {
	created, err := s.endUserService.CreateEndUser(s.GetContext(), createEndUserRequest())
	s.Require().NoError(err)

	resp, err := s.endUserService.AttachCard(s.GetContext(), created.ID, dto.CardRequest{
		Number:         "5555555555554444",
		HolderName:     "JOANA LIMA",
		ExpirationDate: "0530",
		CVV:            "321",
	})
	s.NoError(err)
	s.True(resp.HasCard())
}

func (s *EndUserServiceSuite) TestListEndUsersByEmail() {
	_, err := s.endUserService.CreateEndUser(s.GetContext(), createEndUserRequest())
	s.Require().NoError(err)

	other := createEndUserRequest()
	other.SystemID = "stu-43"
	other.Email = "pedro@example.com"
	other.PhoneNumber = "+5511999990009"
	_, err = s.endUserService.CreateEndUser(s.GetContext(), other)
	s.Require().NoError(err)

	resp, err := s.endUserService.ListEndUsers(s.GetContext(), &types.EndUserFilter{
		Email: lo.ToPtr("joana@example.com"),
	})
	s.NoError(err)
	s.Equal(1, resp.Pagination.Total)
	s.Equal("joana@example.com", resp.Items[0].Email)
}
