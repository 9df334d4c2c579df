// Package filter derives filtered views over a user collection.
package filter

import (
	"fmt"
	"strings"

	"github.com/EO-DataHub/eodhp-user-admin/models"
)

// StatusFilter restricts a listing by user status.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = StatusFilter(models.StatusActive)
	StatusInactive StatusFilter = StatusFilter(models.StatusInactive)
)

// ParseStatusFilter validates a status filter; an empty value means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	}
	return "", fmt.Errorf("invalid status filter %q: must be all, active or inactive", s)
}

// Criteria is the current filter configuration of a listing.
type Criteria struct {
	Query      string
	Status     StatusFilter
	Role       string
	Department string
}

// IsZero reports whether the criteria let every record through.
func (c Criteria) IsZero() bool {
	return c.Query == "" &&
		(c.Status == "" || c.Status == StatusAll) &&
		c.Role == "" && c.Department == ""
}

// Match reports whether a single user passes all criteria.
func (c Criteria) Match(u models.User) bool {
	if q := strings.ToLower(c.Query); q != "" && !matchesQuery(u, q) {
		return false
	}
	if c.Status != "" && c.Status != StatusAll && StatusFilter(u.Status) != c.Status {
		return false
	}
	if c.Role != "" {
		role, ok := u.PrimaryRole()
		if !ok || role != c.Role {
			return false
		}
	}
	if c.Department != "" {
		dept, ok := u.Department()
		if !ok || dept != c.Department {
			return false
		}
	}
	return true
}

// matchesQuery expects q to be lower-cased already.
func matchesQuery(u models.User, q string) bool {
	fields := []string{u.Name, u.Email}
	if role, ok := u.PrimaryRole(); ok {
		fields = append(fields, role)
	}
	if dept, ok := u.Department(); ok {
		fields = append(fields, dept)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Filter returns the users matching the criteria, in input order. The input
// slice is never modified.
func Filter(users []models.User, c Criteria) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if c.Match(u) {
			out = append(out, u)
		}
	}
	return out
}

// DistinctRoles lists primary roles in first-seen order.
func DistinctRoles(users []models.User) []string {
	return distinct(users, models.User.PrimaryRole)
}

// DistinctDepartments lists departments in first-seen order.
func DistinctDepartments(users []models.User) []string {
	return distinct(users, models.User.Department)
}

func distinct(users []models.User, field func(models.User) (string, bool)) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, u := range users {
		v, ok := field(u)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
