package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/dmitrijs2005/pulsecity/internal/server/models"
)

// Capability is a (resource, action) pair a route requires.
type Capability struct {
	Resource string
	Action   string
}

var (
	CapUserGreeting  = Capability{Resource: "greeting/user", Action: "read"}
	CapAdminGreeting = Capability{Resource: "greeting/admin", Action: "read"}
	CapProfileRead   = Capability{Resource: "profile", Action: "read"}
	CapPostCreate    = Capability{Resource: "post", Action: "create"}
)

// There is no role_definition section: roles do not inherit from each other.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

var defaultPolicy = map[models.Role][]Capability{
	models.RoleUser:  {CapUserGreeting, CapProfileRead, CapPostCreate},
	models.RoleAdmin: {CapAdminGreeting, CapProfileRead, CapPostCreate},
}

// Authorizer decides whether a role holds a capability.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer builds a casbin enforcer loaded with the route policy.
func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("rbac model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("rbac enforcer: %w", err)
	}

	for role, caps := range defaultPolicy {
		for _, c := range caps {
			if _, err := e.AddPolicy(string(role), c.Resource, c.Action); err != nil {
				return nil, fmt.Errorf("rbac policy %s %s %s: %w", role, c.Resource, c.Action, err)
			}
		}
	}

	return &Authorizer{enforcer: e}, nil
}

// Allowed reports whether role holds c. RoleNone holds nothing.
func (a *Authorizer) Allowed(role models.Role, c Capability) (bool, error) {
	if !role.Valid() {
		return false, nil
	}
	return a.enforcer.Enforce(string(role), c.Resource, c.Action)
}
