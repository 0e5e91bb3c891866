package types

import (
	"fmt"

	"github.com/samber/lo"
)

// RecurrenceStatus marks whether a recurrence is currently billing
type RecurrenceStatus string

const (
	RecurrenceStatusActive   RecurrenceStatus = "active"
	RecurrenceStatusInactive RecurrenceStatus = "inactive"
)

func (s RecurrenceStatus) String() string {
	return string(s)
}

func (s RecurrenceStatus) Validate() error {
	if !lo.Contains([]RecurrenceStatus{RecurrenceStatusActive, RecurrenceStatusInactive}, s) {
		return fmt.Errorf("invalid recurrence status: %s", s)
	}
	return nil
}

// IntervalUnit is the unit of a recurrence's billing interval
type IntervalUnit string

const (
	IntervalUnitMonthly IntervalUnit = "monthly"
	IntervalUnitWeekly  IntervalUnit = "weekly"
	IntervalUnitYearly  IntervalUnit = "yearly"
)

func (u IntervalUnit) String() string {
	return string(u)
}

func (u IntervalUnit) Validate() error {
	allowed := []IntervalUnit{
		IntervalUnitMonthly,
		IntervalUnitWeekly,
		IntervalUnitYearly,
	}
	if !lo.Contains(allowed, u) {
		return fmt.Errorf("invalid interval unit: %s", u)
	}
	return nil
}

// NotificationType is the channel used for expiration notifications
type NotificationType string

const (
	NotificationTypeEmail    NotificationType = "email"
	NotificationTypeSMS      NotificationType = "sms"
	NotificationTypePush     NotificationType = "push"
	NotificationTypeWhatsApp NotificationType = "whatsapp"
)

func (t NotificationType) String() string {
	return string(t)
}
