package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateOfBirthLayout is the accepted date-of-birth format
const DateOfBirthLayout = "2006-01-02"

var (
	emailPattern = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,4}$`)
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// Customer owns one or more accounts
type Customer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	DateOfBirth time.Time `json:"date_of_birth"`
}

// Validate ensures the customer adheres to domain rules
func (c *Customer) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: customer ID cannot be empty", ErrInvalidCustomer)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidCustomer)
	}
	if !emailPattern.MatchString(c.Email) {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidCustomer, c.Email)
	}
	if !phonePattern.MatchString(c.Phone) {
		return fmt.Errorf("%w: invalid phone %q", ErrInvalidCustomer, c.Phone)
	}
	if c.DateOfBirth.IsZero() {
		return fmt.Errorf("%w: date of birth must be set", ErrInvalidCustomer)
	}
	return nil
}

// ParseDateOfBirth parses a YYYY-MM-DD date
func ParseDateOfBirth(s string) (time.Time, error) {
	dob, err := time.Parse(DateOfBirthLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date of birth %q", ErrInvalidCustomer, s)
	}
	return dob, nil
}
