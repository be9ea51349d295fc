package station

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyStationName = errors.New("station name cannot be empty")
	ErrNegativeRate     = errors.New("hourly rate cannot be negative")
)

type Type string

const (
	TypeConsole Type = "console"
	TypeTable   Type = "table"
	TypeVR      Type = "vr"
	TypePC      Type = "pc"
)

// Station is read-only collaborator data for the booking engine.
type Station struct {
	id         uuid.UUID
	name       string
	kind       Type
	hourlyRate decimal.Decimal
}

func NewStation(id uuid.UUID, name string, kind Type, hourlyRate decimal.Decimal) (*Station, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyStationName
	}
	if hourlyRate.IsNegative() {
		return nil, ErrNegativeRate
	}
	return &Station{
		id:         id,
		name:       name,
		kind:       kind,
		hourlyRate: hourlyRate,
	}, nil
}

func (s *Station) ID() uuid.UUID               { return s.id }
func (s *Station) Name() string                { return s.name }
func (s *Station) Type() Type                  { return s.kind }
func (s *Station) HourlyRate() decimal.Decimal { return s.hourlyRate }
