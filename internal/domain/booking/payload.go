package booking

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lounge-booking/internal/domain/slot"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPayload   = errors.New("invalid booking payload")
	ErrMalformedPayload = errors.New("booking payload is not a JSON object")
)

const (
	NotesKey       = "booking_data"
	NotesChunkSize = 250
)

type SlotTimes struct {
	StartTime string
	EndTime   string
}

type CustomerInfo struct {
	Name  string
	Phone string
	Email string
	ID    string
}

// Payload is the canonical checkout request, whichever wire form it arrived in.
type Payload struct {
	StationRefs     []string
	Date            string
	Slots           []SlotTimes
	DurationMinutes int
	Customer        CustomerInfo
	Pricing         Pricing
	CouponCode      string
}

// DecodePayload accepts the compact gateway-notes form and the verbose checkout form.
// For each field the compact key is tried first, then the verbose keys in order.
func DecodePayload(raw []byte) (Payload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(raw), &fields); err != nil || fields == nil {
		return Payload{}, ErrMalformedPayload
	}

	var (
		p   Payload
		err error
	)

	var refs flexStrings
	if err = decodeField(fields, &refs, "s", "station_ids", "stations", "station_id"); err != nil {
		return Payload{}, err
	}
	p.StationRefs = refs

	var date flexString
	if err = decodeField(fields, &date, "d", "booking_date", "date"); err != nil {
		return Payload{}, err
	}
	p.Date = strings.TrimSpace(string(date))

	if p.Slots, err = decodeSlots(fields); err != nil {
		return Payload{}, err
	}

	var duration flexInt
	if err = decodeField(fields, &duration, "du", "duration"); err != nil {
		return Payload{}, err
	}
	p.DurationMinutes = int(duration)

	if p.Customer, err = decodeCustomer(fields); err != nil {
		return Payload{}, err
	}

	if p.Pricing, err = decodePricing(fields); err != nil {
		return Payload{}, err
	}

	var coupon flexString
	if err = decodeField(fields, &coupon, "cp", "coupon_code"); err != nil {
		return Payload{}, err
	}
	p.CouponCode = strings.TrimSpace(string(coupon))

	return p, nil
}

// Validate checks everything the committer needs before touching storage.
func (p Payload) Validate() error {
	if len(p.StationRefs) == 0 {
		return fmt.Errorf("%w: no stations", ErrInvalidPayload)
	}
	if len(p.Slots) == 0 {
		return fmt.Errorf("%w: no slots", ErrInvalidPayload)
	}
	if _, err := p.SlotValues(); err != nil {
		return err
	}
	if strings.TrimSpace(p.Customer.Phone) == "" && strings.TrimSpace(p.Customer.ID) == "" {
		return fmt.Errorf("%w: customer phone or id required", ErrInvalidPayload)
	}
	if p.Pricing.IsNegative() {
		return fmt.Errorf("%w: negative pricing", ErrInvalidPayload)
	}
	return nil
}

// SlotValues parses every slot against the payload date.
func (p Payload) SlotValues() ([]slot.Slot, error) {
	out := make([]slot.Slot, 0, len(p.Slots))
	for _, st := range p.Slots {
		s, err := slot.NewSlot(p.Date, st.StartTime, st.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: slot %s-%s: %w", ErrInvalidPayload, st.StartTime, st.EndTime, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// RowDuration is the per-row duration in minutes; the payload value wins when set.
func (p Payload) RowDuration(s slot.Slot) int {
	if p.DurationMinutes > 0 {
		return p.DurationMinutes
	}
	return s.DurationMinutes()
}

// EncodeCompact renders the short-key form stored in gateway order notes.
func (p Payload) EncodeCompact() ([]byte, error) {
	type compactSlot struct {
		S string `json:"s"`
		E string `json:"e"`
	}
	slots := make([]compactSlot, 0, len(p.Slots))
	for _, s := range p.Slots {
		slots = append(slots, compactSlot{S: s.StartTime, E: s.EndTime})
	}
	return json.Marshal(struct {
		S  []string        `json:"s"`
		D  string          `json:"d"`
		T  []compactSlot   `json:"t"`
		Du int             `json:"du,omitempty"`
		C  compactCustomer `json:"c"`
		P  compactPricing  `json:"p"`
		Cp string          `json:"cp,omitempty"`
	}{
		S:  p.StationRefs,
		D:  p.Date,
		T:  slots,
		Du: p.DurationMinutes,
		C: compactCustomer{
			N: flexString(p.Customer.Name),
			P: flexString(p.Customer.Phone),
			E: flexString(p.Customer.Email),
			I: flexString(p.Customer.ID),
		},
		P: compactPricing{
			O:   p.Pricing.OriginalPrice,
			D:   p.Pricing.DiscountAmount,
			F:   p.Pricing.FinalPrice,
			TF:  p.Pricing.TransactionFee,
			TWF: p.Pricing.TotalWithFee,
		},
		Cp: p.CouponCode,
	})
}

// AssembleNotes returns the payload carried in gateway notes, either whole under
// booking_data or split across booking_data_1..N.
func AssembleNotes(notes map[string]string) (string, bool) {
	if v := strings.TrimSpace(notes[NotesKey]); v != "" {
		return v, true
	}
	var sb strings.Builder
	for i := 1; ; i++ {
		part, ok := notes[NotesKey+"_"+strconv.Itoa(i)]
		if !ok {
			break
		}
		sb.WriteString(part)
	}
	if sb.Len() == 0 {
		return "", false
	}
	return sb.String(), true
}

// SplitNotes is the inverse of AssembleNotes for values over the gateway's per-note limit.
func SplitNotes(data string, chunkSize int) map[string]string {
	if chunkSize <= 0 {
		chunkSize = NotesChunkSize
	}
	if len(data) <= chunkSize {
		return map[string]string{NotesKey: data}
	}
	notes := make(map[string]string, len(data)/chunkSize+1)
	for i := 0; len(data) > 0; i++ {
		n := min(chunkSize, len(data))
		notes[NotesKey+"_"+strconv.Itoa(i+1)] = data[:n]
		data = data[n:]
	}
	return notes
}

type compactCustomer struct {
	N flexString `json:"n"`
	P flexString `json:"p"`
	E flexString `json:"e,omitempty"`
	I flexString `json:"i,omitempty"`
}

type verboseCustomer struct {
	Name  flexString `json:"name"`
	Phone flexString `json:"phone"`
	Email flexString `json:"email"`
	ID    flexString `json:"id"`
}

type compactPricing struct {
	O   decimal.Decimal `json:"o"`
	D   decimal.Decimal `json:"d"`
	F   decimal.Decimal `json:"f"`
	TF  decimal.Decimal `json:"tf"`
	TWF decimal.Decimal `json:"twf"`
}

type verbosePricing struct {
	OriginalPrice  decimal.Decimal `json:"original_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalPrice     decimal.Decimal `json:"final_price"`
	TransactionFee decimal.Decimal `json:"transaction_fee"`
	TotalWithFee   decimal.Decimal `json:"total_with_fee"`
}

func decodeSlots(fields map[string]json.RawMessage) ([]SlotTimes, error) {
	if raw, ok := present(fields, "t"); ok {
		var compact []struct {
			S flexString `json:"s"`
			E flexString `json:"e"`
		}
		if err := json.Unmarshal(raw, &compact); err != nil {
			return nil, fieldErr("t", err)
		}
		out := make([]SlotTimes, 0, len(compact))
		for _, s := range compact {
			out = append(out, SlotTimes{StartTime: string(s.S), EndTime: string(s.E)})
		}
		return out, nil
	}

	for _, key := range []string{"slots", "selected_slots"} {
		raw, ok := present(fields, key)
		if !ok {
			continue
		}
		var verbose []struct {
			StartTime flexString `json:"start_time"`
			EndTime   flexString `json:"end_time"`
		}
		if err := json.Unmarshal(raw, &verbose); err != nil {
			return nil, fieldErr(key, err)
		}
		out := make([]SlotTimes, 0, len(verbose))
		for _, s := range verbose {
			out = append(out, SlotTimes{StartTime: string(s.StartTime), EndTime: string(s.EndTime)})
		}
		return out, nil
	}

	// single-slot checkout sends the interval at the top level
	var start, end flexString
	if err := decodeField(fields, &start, "start_time"); err != nil {
		return nil, err
	}
	if err := decodeField(fields, &end, "end_time"); err != nil {
		return nil, err
	}
	if start == "" && end == "" {
		return nil, nil
	}
	return []SlotTimes{{StartTime: string(start), EndTime: string(end)}}, nil
}

func decodeCustomer(fields map[string]json.RawMessage) (CustomerInfo, error) {
	if raw, ok := present(fields, "c"); ok {
		var c compactCustomer
		if err := json.Unmarshal(raw, &c); err != nil {
			return CustomerInfo{}, fieldErr("c", err)
		}
		return CustomerInfo{Name: string(c.N), Phone: string(c.P), Email: string(c.E), ID: string(c.I)}.trimmed(), nil
	}
	if raw, ok := present(fields, "customer"); ok {
		var c verboseCustomer
		if err := json.Unmarshal(raw, &c); err != nil {
			return CustomerInfo{}, fieldErr("customer", err)
		}
		return CustomerInfo{Name: string(c.Name), Phone: string(c.Phone), Email: string(c.Email), ID: string(c.ID)}.trimmed(), nil
	}

	var name, phone, email, id flexString
	for _, f := range []struct {
		dst *flexString
		key string
	}{{&name, "customer_name"}, {&phone, "customer_phone"}, {&email, "customer_email"}, {&id, "customer_id"}} {
		if err := decodeField(fields, f.dst, f.key); err != nil {
			return CustomerInfo{}, err
		}
	}
	return CustomerInfo{Name: string(name), Phone: string(phone), Email: string(email), ID: string(id)}.trimmed(), nil
}

func decodePricing(fields map[string]json.RawMessage) (Pricing, error) {
	if raw, ok := present(fields, "p"); ok {
		var c compactPricing
		if err := json.Unmarshal(raw, &c); err != nil {
			return Pricing{}, fieldErr("p", err)
		}
		return Pricing{
			OriginalPrice:  c.O,
			DiscountAmount: c.D,
			FinalPrice:     c.F,
			TransactionFee: c.TF,
			TotalWithFee:   c.TWF,
		}, nil
	}
	if raw, ok := present(fields, "pricing"); ok {
		var v verbosePricing
		if err := json.Unmarshal(raw, &v); err != nil {
			return Pricing{}, fieldErr("pricing", err)
		}
		return Pricing(v), nil
	}
	return Pricing{}, nil
}

func (c CustomerInfo) trimmed() CustomerInfo {
	return CustomerInfo{
		Name:  strings.TrimSpace(c.Name),
		Phone: strings.TrimSpace(c.Phone),
		Email: strings.TrimSpace(c.Email),
		ID:    strings.TrimSpace(c.ID),
	}
}

// present returns the first key whose value is set and not null.
func present(fields map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		raw, ok := fields[k]
		if ok && len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
			return raw, true
		}
	}
	return nil, false
}

func decodeField(fields map[string]json.RawMessage, dst any, keys ...string) error {
	for _, k := range keys {
		raw, ok := present(fields, k)
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fieldErr(k, err)
		}
		return nil
	}
	return nil
}

func fieldErr(key string, err error) error {
	return fmt.Errorf("%w: field %q: %w", ErrInvalidPayload, key, err)
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexStrings accepts a list, a single value or a CSV string.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(b []byte) error {
	var list []flexString
	if err := json.Unmarshal(b, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, s := range list {
			out = append(out, string(s))
		}
		*f = splitCSV(out)
		return nil
	}
	var one flexString
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*f = splitCSV([]string{string(one)})
	return nil
}

func splitCSV(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}
