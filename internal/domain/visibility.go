package domain

import "strings"

// PartnerFilter narrows the partner listing.
type PartnerFilter string

// Partner listing filters. Anything else means "all".
const (
	PartnerFilterAll       PartnerFilter = "all"
	PartnerFilterAvailable PartnerFilter = "available"
	PartnerFilterMy        PartnerFilter = "my"
)

// ParsePartnerFilter maps the query value onto a filter; unknown values mean all.
func ParsePartnerFilter(s string) PartnerFilter {
	switch PartnerFilter(strings.ToLower(strings.TrimSpace(s))) {
	case PartnerFilterAvailable:
		return PartnerFilterAvailable
	case PartnerFilterMy:
		return PartnerFilterMy
	default:
		return PartnerFilterAll
	}
}

// ListScope is the union of record sets a caller may list.
// A zero ListScope selects nothing.
type ListScope struct {
	All        bool
	CustomerID *int64
	PartnerID  *int64
	Unassigned bool // status = pending AND partner IS NULL
}

// Empty reports whether the scope selects no records.
func (s ListScope) Empty() bool {
	return !s.All && s.CustomerID == nil && s.PartnerID == nil && !s.Unassigned
}

// Includes reports whether d belongs to the scope.
func (s ListScope) Includes(d *DeliveryRequest) bool {
	if s.All {
		return true
	}
	if s.CustomerID != nil && d.CustomerID == *s.CustomerID {
		return true
	}
	if s.PartnerID != nil && d.AssignedTo(*s.PartnerID) {
		return true
	}
	return s.Unassigned && d.Available()
}

// ListScopeFor resolves what p may list. The filter only applies to partners.
func ListScopeFor(p Principal, filter PartnerFilter) ListScope {
	id := p.UserID
	switch p.Role {
	case RoleCustomer:
		return ListScope{CustomerID: &id}
	case RolePartner:
		switch filter {
		case PartnerFilterAvailable:
			return ListScope{Unassigned: true}
		case PartnerFilterMy:
			return ListScope{PartnerID: &id}
		case PartnerFilterAll:
			return ListScope{PartnerID: &id, Unassigned: true}
		default:
			return ListScope{PartnerID: &id, Unassigned: true}
		}
	case RoleAdmin:
		return ListScope{All: true}
	case RoleUnknown:
		return ListScope{}
	default:
		return ListScope{}
	}
}

// CanView reports whether p may read the detail of d.
func CanView(p Principal, d *DeliveryRequest) bool {
	switch p.Role {
	case RoleAdmin:
		return true
	case RoleCustomer:
		return d.OwnedBy(p.UserID)
	case RolePartner:
		return d.AssignedTo(p.UserID) || d.Status == StatusPending
	case RoleUnknown:
		return false
	default:
		return false
	}
}
