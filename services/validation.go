package services

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"transporterp/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if a, ok := field.Interface().(Amount); ok {
			f, _ := a.Float64()
			return f
		}
		return nil
	}, Amount{})
	return v
}

// validateStruct runs the struct tags and reports the first failure as a
// ValidationError keyed by the JSON field name.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return invalid(fe.Field(), "is required")
	case "gte":
		return invalid(fe.Field(), "must not be negative")
	case "gt":
		return invalid(fe.Field(), "must be greater than %s", fe.Param())
	case "min":
		return invalid(fe.Field(), "must be at least %s characters", fe.Param())
	case "email":
		return invalid(fe.Field(), "must be a valid email address")
	case "oneof":
		return invalid(fe.Field(), "must be one of [%s]", fe.Param())
	default:
		return invalid(fe.Field(), "failed %q check", fe.Tag())
	}
}

// Amount is a money input. Blank strings and null read as zero.
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		a.Decimal = decimal.Zero
		return nil
	}
	return a.Decimal.UnmarshalJSON(b)
}

func NewAmount(v int64) Amount {
	return Amount{Decimal: decimal.NewFromInt(v)}
}

// ------------------------ Trip input ------------------------

// TripInput is the create/update payload. Derived fields (balances, profit,
// code, POD state) are never accepted from the caller.
type TripInput struct {
	LoadingDate      string `json:"loading_date" validate:"required"`
	UnloadingDate    string `json:"unloading_date"`
	FromLocation     string `json:"from_location" validate:"required"`
	ToLocation       string `json:"to_location" validate:"required"`
	VehicleNumber    string `json:"vehicle_number" validate:"required"`
	DriverNumber     string `json:"driver_number"`
	MotorOwnerName   string `json:"motor_owner_name"`
	MotorOwnerNumber string `json:"motor_owner_number"`
	PartyName        string `json:"party_name" validate:"required"`
	PartyNumber      string `json:"party_number"`

	GaadiFreight Amount `json:"gaadi_freight" validate:"gte=0"`
	GaadiAdvance Amount `json:"gaadi_advance" validate:"gte=0"`
	PartyFreight Amount `json:"party_freight" validate:"gte=0"`
	PartyAdvance Amount `json:"party_advance" validate:"gte=0"`
	TDS          Amount `json:"tds" validate:"gte=0"`
	Himmali      Amount `json:"himmali" validate:"gte=0"`
	Weight       Amount `json:"weight" validate:"gte=0"`
	Remark       string `json:"remark"`

	PaymentStatus      models.PaymentStatus `json:"payment_status" validate:"omitempty,oneof=UNPAID PAID"`
	GaadiBalanceStatus models.PaymentStatus `json:"gaadi_balance_status" validate:"omitempty,oneof=UNPAID PAID"`
}

// toTrip validates the payload and builds the editable part of a trip.
func (in *TripInput) toTrip() (*models.Trip, error) {
	in.trim()
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	loading, err := ParseDate("loading_date", in.LoadingDate)
	if err != nil {
		return nil, err
	}
	t := &models.Trip{
		LoadingDate:        loading,
		FromLocation:       in.FromLocation,
		ToLocation:         in.ToLocation,
		VehicleNumber:      in.VehicleNumber,
		DriverNumber:       optional(in.DriverNumber),
		MotorOwnerName:     optional(in.MotorOwnerName),
		MotorOwnerNumber:   optional(in.MotorOwnerNumber),
		PartyName:          in.PartyName,
		PartyNumber:        optional(in.PartyNumber),
		GaadiFreight:       in.GaadiFreight.Decimal,
		GaadiAdvance:       in.GaadiAdvance.Decimal,
		PartyFreight:       in.PartyFreight.Decimal,
		PartyAdvance:       in.PartyAdvance.Decimal,
		TDS:                in.TDS.Decimal,
		Himmali:            in.Himmali.Decimal,
		Remark:             optional(in.Remark),
		PaymentStatus:      in.PaymentStatus,
		GaadiBalanceStatus: in.GaadiBalanceStatus,
	}
	if in.UnloadingDate != "" {
		unloading, err := ParseDate("unloading_date", in.UnloadingDate)
		if err != nil {
			return nil, err
		}
		if unloading.Before(loading) {
			return nil, invalid("unloading_date", "must not be before loading_date")
		}
		t.UnloadingDate = &unloading
	}
	if in.Weight.IsPositive() {
		w := in.Weight.Decimal
		t.Weight = &w
	}
	if t.PaymentStatus == "" {
		t.PaymentStatus = models.StatusUnpaid
	}
	if t.GaadiBalanceStatus == "" {
		t.GaadiBalanceStatus = models.StatusUnpaid
	}
	return t, nil
}

func (in *TripInput) trim() {
	for _, s := range []*string{
		&in.LoadingDate, &in.UnloadingDate, &in.FromLocation, &in.ToLocation,
		&in.VehicleNumber, &in.DriverNumber, &in.MotorOwnerName, &in.MotorOwnerNumber,
		&in.PartyName, &in.PartyNumber, &in.Remark,
	} {
		*s = strings.TrimSpace(*s)
	}
	in.PaymentStatus = models.PaymentStatus(strings.ToUpper(strings.TrimSpace(string(in.PaymentStatus))))
	in.GaadiBalanceStatus = models.PaymentStatus(strings.ToUpper(strings.TrimSpace(string(in.GaadiBalanceStatus))))
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the
// calendar date at UTC midnight.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, invalid(field, "is required")
	}
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, invalid(field, "must be a date in YYYY-MM-DD form")
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ------------------------ Expense input ------------------------

type ExpenseInput struct {
	Date          string `json:"date" validate:"required"`
	Category      string `json:"category" validate:"required"`
	Amount        Amount `json:"amount" validate:"gt=0"`
	VehicleNumber string `json:"vehicle_number"`
	Notes         string `json:"notes"`
}

func (in *ExpenseInput) ToExpense() (*models.Expense, error) {
	in.Category = strings.TrimSpace(in.Category)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	d, err := ParseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	return &models.Expense{
		Date:          d,
		Category:      in.Category,
		Amount:        in.Amount.Decimal,
		VehicleNumber: optional(strings.TrimSpace(in.VehicleNumber)),
		Notes:         optional(strings.TrimSpace(in.Notes)),
	}, nil
}

// ------------------------ User input ------------------------

type UserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

func (in *UserInput) ToUser() (*models.AppUser, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = "user"
	}
	return &models.AppUser{Email: in.Email, Password: in.Password, Role: role}, nil
}
