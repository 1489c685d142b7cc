package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/erp/storesync/internal/domain/shared"
)

// AttributeTypeColor is the palette type applied by color curation
const AttributeTypeColor = "color"

// ErrDuplicateAttribute is returned when the palette already holds the type and value
var ErrDuplicateAttribute = shared.NewDomainError(
	"ATTRIBUTE_DUPLICATE",
	"Attribute value already exists for this type",
)

var hexCodePattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ManagedAttribute is one entry of the locally managed attribute palette,
// e.g. the color "Bordeaux" with value "bordeaux" and hex code #7B1E2B.
// Active entries are offered when curating variations; inactive ones are
// kept for history.
type ManagedAttribute struct {
	shared.BaseEntity
	Type      string
	Name      string // display name
	Value     string // option stored on variations
	HexCode   string
	SortOrder int
	Active    bool
}

// NewManagedAttribute creates an active palette entry
func NewManagedAttribute(attrType, name, value, hexCode string, sortOrder int, now time.Time) (*ManagedAttribute, error) {
	attrType = strings.ToLower(strings.TrimSpace(attrType))
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	hexCode = strings.TrimSpace(hexCode)

	switch {
	case attrType == "":
		return nil, shared.ErrInvalidInput.WithMessage("attribute type is required")
	case name == "":
		return nil, shared.ErrInvalidInput.WithMessage("attribute name is required")
	case value == "":
		return nil, shared.ErrInvalidInput.WithMessage("attribute value is required")
	case hexCode != "" && !hexCodePattern.MatchString(hexCode):
		return nil, shared.ErrInvalidInput.WithMessage("hex code must look like #RRGGBB")
	}

	return &ManagedAttribute{
		BaseEntity: shared.NewBaseEntityAt(now),
		Type:       attrType,
		Name:       name,
		Value:      value,
		HexCode:    strings.ToUpper(hexCode),
		SortOrder:  sortOrder,
		Active:     true,
	}, nil
}

// SetActive activates or retires the entry. It reports whether anything changed.
func (a *ManagedAttribute) SetActive(active bool, now time.Time) bool {
	if a.Active == active {
		return false
	}
	a.Active = active
	a.UpdatedAt = now
	return true
}
