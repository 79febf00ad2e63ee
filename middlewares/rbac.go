package middlewares

import (
	"fmt"
	"log"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	mongodbadapter "github.com/casbin/mongodb-adapter/v3"
)

var enforcer *casbin.Enforcer

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// InitCasbin initializes the Casbin enforcer with the MongoDB adapter
// and seeds the role capabilities of the grading domain. Ownership and
// enrollment checks live in the access policy, not here.
func InitCasbin(databaseURI string) error {
	adapter, err := mongodbadapter.NewAdapter(databaseURI)
	if err != nil {
		return fmt.Errorf("failed to create Casbin adapter: %w", err)
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return fmt.Errorf("failed to create Casbin model: %w", err)
	}

	enforcer, err = casbin.NewEnforcer(m, adapter)
	if err != nil {
		return fmt.Errorf("failed to create Casbin enforcer: %w", err)
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to load policy: %w", err)
	}

	ensureDefaultPolicies(enforcer)

	log.Println("Casbin RBAC initialized successfully")
	return nil
}

// ensureDefaultPolicies seeds the grading-domain policies (idempotent).
func ensureDefaultPolicies(e *casbin.Enforcer) {
	defaultPolicies := []struct {
		role     string
		resource string
		action   string
	}{
		{"student", "essay", "create"},
		{"student", "essay", "read"},
		{"student", "essay", "update"},
		{"student", "essay", "delete"},
		{"teacher", "essay", "create"},
		{"teacher", "essay", "read"},
		{"teacher", "essay", "update"},
		{"teacher", "essay", "delete"},
		{"teacher", "evaluation", "write"},
		{"teacher", "classroom", "manage"},
	}

	for _, policy := range defaultPolicies {
		exists, _ := e.HasPolicy(policy.role, policy.resource, policy.action)
		if !exists {
			e.AddPolicy(policy.role, policy.resource, policy.action)
			log.Printf("Added default policy: %s can %s %s", policy.role, policy.action, policy.resource)
		}
	}

	if err := e.SavePolicy(); err != nil {
		log.Printf("Warning: Failed to save policies: %v", err)
	}
}

// GetEnforcer returns the Casbin enforcer instance
func GetEnforcer() *casbin.Enforcer {
	return enforcer
}
