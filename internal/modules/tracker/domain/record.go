package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusApplied             Status = "Applied"
	StatusConversationStarted Status = "Conversation Started"
	StatusInterviewing        Status = "Interviewing"
	StatusOffer               Status = "Offer"
	StatusRejected            Status = "Rejected"
	StatusGhosted             Status = "Ghosted"
)

var statuses = []Status{
	StatusApplied,
	StatusConversationStarted,
	StatusInterviewing,
	StatusOffer,
	StatusRejected,
	StatusGhosted,
}

type InteractionType string

const (
	TypeFormalApplication InteractionType = "Formal Application"
	TypeLinkedInDM        InteractionType = "LinkedIn DM"
	TypeReferralChat      InteractionType = "Referral Chat"
	TypeRecruiterCall     InteractionType = "Recruiter Call"
	TypeColdEmail         InteractionType = "Cold Email"
)

var interactionTypes = []InteractionType{
	TypeFormalApplication,
	TypeLinkedInDM,
	TypeReferralChat,
	TypeRecruiterCall,
	TypeColdEmail,
}

// DateLayout is the canonical date format. DisplayDateLayout is accepted on
// input as well.
const (
	DateLayout        = "2006-01-02"
	DisplayDateLayout = "02/01/2006"
)

// Statuses returns the allowed statuses in display order.
func Statuses() []Status {
	return append([]Status(nil), statuses...)
}

// InteractionTypes returns the allowed interaction types in display order.
func InteractionTypes() []InteractionType {
	return append([]InteractionType(nil), interactionTypes...)
}

func (s Status) Validate() error {
	for _, known := range statuses {
		if s == known {
			return nil
		}
	}
	if s == "" {
		return fmt.Errorf("%w: status is required", ErrInvalidStatus)
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
}

func (t InteractionType) Validate() error {
	for _, known := range interactionTypes {
		if t == known {
			return nil
		}
	}
	if t == "" {
		return fmt.Errorf("%w: interaction type is required", ErrInvalidType)
	}
	return fmt.Errorf("%w: %q", ErrInvalidType, string(t))
}

// ParseStatus matches raw against the enumeration ignoring case and
// surrounding space, and returns the canonical spelling.
func ParseStatus(raw string) (Status, error) {
	trimmed := strings.TrimSpace(raw)
	for _, known := range statuses {
		if strings.EqualFold(trimmed, string(known)) {
			return known, nil
		}
	}
	return "", Status(trimmed).Validate()
}

// ParseInteractionType is the ParseStatus counterpart for interaction types.
func ParseInteractionType(raw string) (InteractionType, error) {
	trimmed := strings.TrimSpace(raw)
	for _, known := range interactionTypes {
		if strings.EqualFold(trimmed, string(known)) {
			return known, nil
		}
	}
	return "", InteractionType(trimmed).Validate()
}

// ParseDate accepts DateLayout or DisplayDateLayout. A blank value resolves to
// fallback, unless fallback is zero.
func ParseDate(raw string, fallback time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if fallback.IsZero() {
			return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidDate)
		}
		return fallback, nil
	}
	for _, layout := range []string{DateLayout, DisplayDateLayout} {
		if d, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, trimmed)
}

// Fields are the user-visible columns of one logged interaction.
type Fields struct {
	Date    time.Time
	Company string
	Role    string
	Type    InteractionType
	Contact string
	Status  Status
	Notes   string
}

func (f Fields) Validate() error {
	var errs []error
	if f.Date.IsZero() {
		errs = append(errs, fmt.Errorf("%w: date is required", ErrInvalidDate))
	}
	if err := f.Type.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := f.Status.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (f Fields) Equal(other Fields) bool {
	return f.Date.Equal(other.Date) &&
		f.Company == other.Company &&
		f.Role == other.Role &&
		f.Type == other.Type &&
		f.Contact == other.Contact &&
		f.Status == other.Status &&
		f.Notes == other.Notes
}

// Record is one row of the canonical store. ID is assigned once and never
// changes.
type Record struct {
	ID string
	Fields
}

// Draft carries raw presenter input before validation.
type Draft struct {
	Date    string
	Company string
	Role    string
	Type    string
	Contact string
	Status  string
	Notes   string
}

// Resolve validates the categorical fields and the date. A blank date
// becomes today. Every failing field is reported.
func (d Draft) Resolve(today time.Time) (Fields, error) {
	var errs []error
	date, err := ParseDate(d.Date, today)
	if err != nil {
		errs = append(errs, err)
	}
	kind, err := ParseInteractionType(d.Type)
	if err != nil {
		errs = append(errs, err)
	}
	status, err := ParseStatus(d.Status)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Fields{}, errors.Join(errs...)
	}
	return Fields{
		Date:    date,
		Company: strings.TrimSpace(d.Company),
		Role:    strings.TrimSpace(d.Role),
		Type:    kind,
		Contact: strings.TrimSpace(d.Contact),
		Status:  status,
		Notes:   d.Notes,
	}, nil
}

// Patch is one edited grid row. Nil fields were not supplied.
type Patch struct {
	Date    *string
	Company *string
	Role    *string
	Type    *string
	Contact *string
	Status  *string
	Notes   *string
}

// Draft flattens the patch, treating missing fields as blank.
func (p Patch) Draft() Draft {
	return Draft{
		Date:    deref(p.Date),
		Company: deref(p.Company),
		Role:    deref(p.Role),
		Type:    deref(p.Type),
		Contact: deref(p.Contact),
		Status:  deref(p.Status),
		Notes:   deref(p.Notes),
	}
}

// Apply merges the patch into current. A supplied value only counts as an
// edit when it differs from before, the snapshot the user was looking at, so
// untouched columns keep whatever current holds.
func (p Patch) Apply(current, before Fields) (Fields, bool, error) {
	next := current
	var errs []error

	if p.Date != nil {
		d, err := ParseDate(*p.Date, time.Time{})
		switch {
		case err != nil:
			errs = append(errs, err)
		case !d.Equal(before.Date):
			next.Date = d
		}
	}
	if p.Type != nil {
		kind, err := ParseInteractionType(*p.Type)
		switch {
		case err != nil:
			errs = append(errs, err)
		case kind != before.Type:
			next.Type = kind
		}
	}
	if p.Status != nil {
		status, err := ParseStatus(*p.Status)
		switch {
		case err != nil:
			errs = append(errs, err)
		case status != before.Status:
			next.Status = status
		}
	}
	applyText(&next.Company, p.Company, before.Company)
	applyText(&next.Role, p.Role, before.Role)
	applyText(&next.Contact, p.Contact, before.Contact)
	if p.Notes != nil && *p.Notes != before.Notes {
		next.Notes = *p.Notes
	}

	if len(errs) > 0 {
		return current, false, errors.Join(errs...)
	}
	return next, !next.Equal(current), nil
}

func applyText(dst *string, value *string, before string) {
	if value == nil {
		return
	}
	if v := strings.TrimSpace(*value); v != before {
		*dst = v
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
