package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
)

func TestPolicies(t *testing.T) {
	member := &entity.Identity{ID: "m1"}
	admin := &entity.Identity{ID: "a1", IsAdmin: true}

	cases := []struct {
		name   string
		policy Policy
		who    *entity.Identity
		owner  string
		want   Kind
	}{
		{"authenticated anonymous", Authenticated(), nil, "", KindUnauthorized},
		{"authenticated member", Authenticated(), member, "", ""},
		{"admin anonymous", Admin(), nil, "", KindForbidden},
		{"admin member", Admin(), member, "", KindForbidden},
		{"admin admin", Admin(), admin, "", ""},
		{"self anonymous", SelfOrAdmin(), nil, "m1", KindUnauthorized},
		{"self own", SelfOrAdmin(), member, "m1", ""},
		{"self other", SelfOrAdmin(), member, "m2", KindForbidden},
		{"self missing target", SelfOrAdmin(), member, "", KindBadRequest},
		{"self admin other", SelfOrAdmin(), admin, "m2", ""},
		{"allof first denial", AllOf(Authenticated(), Admin()), nil, "", KindUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := tc.policy(tc.who, tc.owner)
			if tc.want == "" {
				assert.True(t, d.Allowed())
				return
			}
			if assert.False(t, d.Allowed()) {
				assert.Equal(t, tc.want, d.Err.Kind)
			}
		})
	}
}
