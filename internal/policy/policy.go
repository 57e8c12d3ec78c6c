// Package policy decides which user may perform which ability on a resource.
package policy

import (
	"go-inventory-api/internal/model"
)

type Ability string

const (
	View        Ability = "view"
	Create      Ability = "create"
	Update      Ability = "update"
	Delete      Ability = "delete"
	Restore     Ability = "restore"
	ForceDelete Ability = "force_delete"
)

// PermissionDenied is returned when a policy rejects an ability.
type PermissionDenied struct {
	Message string
}

func (e *PermissionDenied) Error() string {
	return e.Message
}

// Rule returns nil to allow, or a denial.
type Rule func(user *model.User) *PermissionDenied

// Gate holds the rules per resource and ability. Abilities without a rule are allowed.
type Gate struct {
	rules map[string]map[Ability]Rule
}

func NewGate() *Gate {
	return &Gate{rules: map[string]map[Ability]Rule{}}
}

// Define registers rule for resource and ability, replacing any previous one.
func (g *Gate) Define(resource string, ability Ability, rule Rule) {
	if g.rules[resource] == nil {
		g.rules[resource] = map[Ability]Rule{}
	}
	g.rules[resource][ability] = rule
}

// Authorize checks ability for user. A nil user is always denied.
func (g *Gate) Authorize(user *model.User, resource string, ability Ability) error {
	if user == nil {
		return &PermissionDenied{Message: "Akses ditolak."}
	}
	rule, ok := g.rules[resource][ability]
	if !ok {
		return nil
	}
	if denied := rule(user); denied != nil {
		return denied
	}
	return nil
}

// Allows is Authorize as a boolean.
func (g *Gate) Allows(user *model.User, resource string, ability Ability) bool {
	return g.Authorize(user, resource, ability) == nil
}

// AdminOnly allows admins and denies everyone else with message.
func AdminOnly(message string) Rule {
	return func(user *model.User) *PermissionDenied {
		if user.IsAdmin() {
			return nil
		}
		return &PermissionDenied{Message: message}
	}
}
