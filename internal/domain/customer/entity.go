package customer

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPhone    = errors.New("phone must normalize to a 10-digit local number")
	ErrEmptyName       = errors.New("customer name cannot be empty")
	ErrInvalidCustomID = errors.New("invalid customer code")
	ErrCodeUnavailable = errors.New("could not generate a customer code")
)

const (
	LocalPhoneLength = 10
	CodePrefix       = "CUS"
	CodeSuffixLength = 6
	codeAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type Customer struct {
	id         uuid.UUID
	name       string
	phone      Phone
	email      string
	customID   string
	totalSpend decimal.Decimal
	visitCount int
	createdAt  time.Time
}

func NewCustomer(name string, phone Phone, email, customID string, now time.Time) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !IsCustomerCode(customID) {
		return nil, ErrInvalidCustomID
	}
	return &Customer{
		id:         uuid.New(),
		name:       name,
		phone:      phone,
		email:      strings.TrimSpace(email),
		customID:   customID,
		totalSpend: decimal.Zero,
		createdAt:  now,
	}, nil
}

func ReconstructCustomer(
	id uuid.UUID,
	name string,
	phone Phone,
	email, customID string,
	totalSpend decimal.Decimal,
	visitCount int,
	createdAt time.Time,
) *Customer {
	return &Customer{
		id:         id,
		name:       name,
		phone:      phone,
		email:      email,
		customID:   customID,
		totalSpend: totalSpend,
		visitCount: visitCount,
		createdAt:  createdAt,
	}
}

// WithCode returns a copy carrying a fresh customer code, used after a custom_id collision.
func (c *Customer) WithCode(code string) *Customer {
	cp := *c
	cp.customID = code
	return &cp
}

func (c *Customer) ID() uuid.UUID               { return c.id }
func (c *Customer) Name() string                { return c.name }
func (c *Customer) Phone() Phone                { return c.phone }
func (c *Customer) Email() string               { return c.email }
func (c *Customer) CustomID() string            { return c.customID }
func (c *Customer) TotalSpend() decimal.Decimal { return c.totalSpend }
func (c *Customer) VisitCount() int             { return c.visitCount }
func (c *Customer) CreatedAt() time.Time        { return c.createdAt }

// GenerateCode returns "CUS" followed by six upper-case alphanumerics.
func GenerateCode() (string, error) {
	var sb strings.Builder
	sb.WriteString(CodePrefix)
	limit := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < CodeSuffixLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", errors.Join(ErrCodeUnavailable, err)
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

func IsCustomerCode(code string) bool {
	if len(code) != len(CodePrefix)+CodeSuffixLength || !strings.HasPrefix(code, CodePrefix) {
		return false
	}
	for _, r := range code[len(CodePrefix):] {
		if !strings.ContainsRune(codeAlphabet, r) {
			return false
		}
	}
	return true
}
