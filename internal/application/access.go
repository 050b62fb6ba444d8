package application

import "github.com/oksasatya/perfume-catalog/internal/domain/entity"

// Decision is the outcome of a Policy. Err is set when the request is denied.
type Decision struct {
	Err *Error
}

func (d Decision) Allowed() bool { return d.Err == nil }

func allow() Decision          { return Decision{} }
func deny(err *Error) Decision { return Decision{Err: err} }

// Policy decides whether identity may act on a resource owned by ownerID.
// identity is nil for anonymous requests.
type Policy func(identity *entity.Identity, ownerID string) Decision

// Authenticated allows any identified member.
func Authenticated() Policy {
	return func(identity *entity.Identity, _ string) Decision {
		if identity == nil {
			return deny(ErrUnauthorized)
		}
		return allow()
	}
}

// Admin allows administrators only.
func Admin() Policy {
	return func(identity *entity.Identity, _ string) Decision {
		if identity == nil || !identity.IsAdmin {
			return deny(Forbidden("Admin required"))
		}
		return allow()
	}
}

// SelfOrAdmin allows administrators, and members acting on their own id.
func SelfOrAdmin() Policy {
	return func(identity *entity.Identity, ownerID string) Decision {
		if identity == nil {
			return deny(ErrUnauthorized)
		}
		if identity.IsAdmin {
			return allow()
		}
		if ownerID == "" {
			return deny(BadRequest("Target id missing"))
		}
		if identity.ID == ownerID {
			return allow()
		}
		return deny(Forbidden("You can only modify your own account"))
	}
}

// AllOf allows only when every policy allows; the first denial wins.
func AllOf(policies ...Policy) Policy {
	return func(identity *entity.Identity, ownerID string) Decision {
		for _, p := range policies {
			if d := p(identity, ownerID); !d.Allowed() {
				return d
			}
		}
		return allow()
	}
}
