package service

import (
	"testing"

	"github.com/paymenu/grouppay/internal/api/dto"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/testutil"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/stretchr/testify/suite"
)

type GroupServiceSuite struct {
	testutil.BaseServiceTestSuite
	groupService      GroupService
	recurrenceService RecurrenceService
}

func TestGroupService(t *testing.T) {
	suite.Run(t, new(GroupServiceSuite))
}

func (s *GroupServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestParams(&s.BaseServiceTestSuite)
	s.groupService = NewGroupService(params)
	s.recurrenceService = NewRecurrenceService(params)
}

func (s *GroupServiceSuite) createRecurrence() string {
	resp, err := s.recurrenceService.CreateRecurrence(s.GetContext(), dto.CreateRecurrenceRequest{
		Name:           "monthly plan",
		Amount:         10000,
		Interval:       1,
		IntervalUnit:   types.IntervalUnitMonthly,
		PaymentMethods: []types.PaymentMethod{types.PaymentMethodCreditCard},
		SplitRules: []dto.SplitRuleRequest{
			{RecipientID: "rcp_main", Amount: 10000, Liable: true},
		},
	})
	s.Require().NoError(err)
	return resp.ID
}

func (s *GroupServiceSuite) TestCreateGroup() {
	resp, err := s.groupService.CreateGroup(s.GetContext(), dto.CreateGroupRequest{
		Name:        "school-a",
		Description: "classes of school A",
	})
	s.NoError(err)
	s.NotEmpty(resp.ID)
	s.Equal("school-a", resp.Name)
	s.Zero(resp.RecurrenceCount)
}

func (s *GroupServiceSuite) TestCreateGroupRequiresName() {
	_, err := s.groupService.CreateGroup(s.GetContext(), dto.CreateGroupRequest{})
	s.True(ierr.IsValidation(err))
}

func (s *GroupServiceSuite) TestAssignRecurrence() {
	g, err := s.groupService.CreateGroup(s.GetContext(), dto.CreateGroupRequest{Name: "g"})
	s.Require().NoError(err)
	recID := s.createRecurrence()

	s.NoError(s.groupService.AssignRecurrence(s.GetContext(), g.ID, recID))

	got, err := s.groupService.GetGroup(s.GetContext(), g.ID)
	s.NoError(err)
	s.Equal(1, got.RecurrenceCount)

	// assigning again is reported as a duplicate
	err = s.groupService.AssignRecurrence(s.GetContext(), g.ID, recID)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *GroupServiceSuite) TestAssignRecurrenceToSecondGroupFails() {
	g1, err := s.groupService.CreateGroup(s.GetContext(), dto.CreateGroupRequest{Name: "g1"})
	s.Require().NoError(err)
	g2, err := s.groupService.CreateGroup(s.GetContext(), dto.CreateGroupRequest{Name: "g2"})
	s.Require().NoError(err)
	recID := s.createRecurrence()

	s.Require().NoError(s.groupService.AssignRecurrence(s.GetContext(), g1.ID, recID))

	err = s.groupService.AssignRecurrence(s.GetContext(), g2.ID, recID)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *GroupServiceSuite) TestAssignRecurrenceRespectsCapacity() {
	g, err := s.groupService.CreateGroup(s.GetContext(), dto.CreateGroupRequest{Name: "tiny", Capacity: 1})
	s.Require().NoError(err)

	s.Require().NoError(s.groupService.AssignRecurrence(s.GetContext(), g.ID, s.createRecurrence()))

	err = s.groupService.AssignRecurrence(s.GetContext(), g.ID, s.createRecurrence())
	s.True(ierr.Is(err, ierr.ErrGroupFull))
}

func (s *GroupServiceSuite) TestRemoveRecurrence() {
	g, err := s.groupService.CreateGroup(s.GetContext(), dto.CreateGroupRequest{Name: "g"})
	s.Require().NoError(err)
	recID := s.createRecurrence()
	s.Require().NoError(s.groupService.AssignRecurrence(s.GetContext(), g.ID, recID))

	s.NoError(s.groupService.RemoveRecurrence(s.GetContext(), g.ID, recID))

	// removing twice is an error, the recurrence is no longer assigned
	err = s.groupService.RemoveRecurrence(s.GetContext(), g.ID, recID)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *GroupServiceSuite) TestDeleteGroupWithRecurrencesFails() {
	g, err := s.groupService.CreateGroup(s.GetContext(), dto.CreateGroupRequest{Name: "g"})
	s.Require().NoError(err)
	recID := s.createRecurrence()
	s.Require().NoError(s.groupService.AssignRecurrence(s.GetContext(), g.ID, recID))

	err = s.groupService.DeleteGroup(s.GetContext(), g.ID)
	s.True(ierr.Is(err, ierr.ErrNotEmpty))

	s.Require().NoError(s.groupService.RemoveRecurrence(s.GetContext(), g.ID, recID))
	s.NoError(s.groupService.DeleteGroup(s.GetContext(), g.ID))
}
