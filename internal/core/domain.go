package core

import (
	"context"
	"errors"
	"strings"
)

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

const (
	UserTypeEmployee = "Employee"
	UserTypeAdmin    = "Admin"
)

type (
	Status string

	// Bill is an expense report as stored by the data-access layer.
	// Date is the serialized creation date and may be malformed or empty.
	Bill struct {
		ID           string `json:"id" yaml:"id"`
		Email        string `json:"email" yaml:"email"`
		Type         string `json:"type" yaml:"type"`
		Name         string `json:"name" yaml:"name"`
		Amount       Money  `json:"amount" yaml:"amount"`
		Date         string `json:"date" yaml:"date"`
		VAT          string `json:"vat" yaml:"vat"`
		Pct          int    `json:"pct" yaml:"pct"`
		Commentary   string `json:"commentary" yaml:"commentary"`
		Status       Status `json:"status" yaml:"status"`
		FileURL      string `json:"fileUrl" yaml:"fileUrl"`
		FileName     string `json:"fileName" yaml:"fileName"`
		CommentAdmin string `json:"commentAdmin" yaml:"commentAdmin"`
	}

	// DisplayBill is a Bill ready for rendering.
	DisplayBill struct {
		Bill
		DisplayDate string
		StatusLabel string
	}

	// User is the identity stored under the "user" key of the session storage.
	User struct {
		Type  string `json:"type"`
		Email string `json:"email"`
	}
)

var (
	ErrEmptyID    = errors.New("empty bill id")
	ErrEmptyEmail = errors.New("empty employee email")
)

// Known reports whether s is one of the three workflow statuses.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused:
		return true
	}
	return false
}

// Validate checks the fields required to store a bill.
func (b Bill) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(b.Email) == "" {
		return ErrEmptyEmail
	}
	if b.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsEmployee reports whether the user is an employee.
func (u User) IsEmployee() bool {
	return u.Type == UserTypeEmployee
}

// SeesAllBills reports whether the user may list every employee's bills.
// Only admins do; users of any other or no type see their own.
func (u User) SeesAllBills() bool {
	return u.Type == UserTypeAdmin
}

type userKey struct{}

// WithUser attaches the current user to ctx so stores can scope requests.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the user set by WithUser.
func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey{}).(User)
	return u, ok
}
