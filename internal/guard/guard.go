package guard

import (
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	"github.com/gearboxapp/gearbox-backend/pkg/errors"
)

// Action is what the actor is attempting against a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// Kind identifies the resource family a policy row applies to.
type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
	KindLike    Kind = "like"
	KindFollow  Kind = "follow"
	KindBuild   Kind = "build"
	KindPart    Kind = "part"
	KindUser    Kind = "user"
)

// Resource is the minimal ownership view services hand to the guard.
// OwnerID is the acting-side owner for the kind: post/build owner, comment
// author, like subject, follow follower, part submitter, or the user row id
// itself. Existence is the service's problem; by the time the guard runs the
// resource is known to exist, so a denial here is always 403, never 404.
type Resource struct {
	Kind         Kind
	OwnerID      int64
	PartVerified bool
}

type ruleFn func(actor *models.User, res Resource) error

// policy is the single authorization table. Reads are public for every kind;
// absence of a rule means deny.
var policy = map[Kind]map[Action]ruleFn{
	KindPost: {
		ActionRead:   public,
		ActionWrite:  ownerOnly("only the author can edit this post"),
		ActionDelete: ownerOnly("only the author can delete this post"),
	},
	KindComment: {
		ActionRead:   public,
		ActionDelete: ownerOnly("only the author can delete this comment"),
	},
	KindLike: {
		ActionRead:   public,
		ActionDelete: ownerOnly("you can only remove your own like"),
	},
	KindFollow: {
		ActionRead:   public,
		ActionWrite:  ownerOnly("you can only create follows for yourself"),
		ActionDelete: ownerOnly("you can only remove your own follow"),
	},
	KindBuild: {
		ActionRead:   public,
		ActionWrite:  ownerOnly("only the owner can modify this build"),
		ActionDelete: ownerOnly("only the owner can delete this build"),
	},
	KindPart: {
		ActionRead:   public,
		ActionWrite:  submitterOnly("only the submitter can edit this part"),
		ActionDelete: partDelete,
	},
	KindUser: {
		ActionRead:   public,
		ActionWrite:  selfOrAdmin("you can only modify your own account"),
		ActionDelete: selfOrAdmin("you can only delete your own account"),
	},
}

// Authorize applies the policy table. The most specific rule wins and the
// default is deny. A nil actor is allowed through public reads only.
func Authorize(actor *models.User, res Resource, action Action) error {
	rules, ok := policy[res.Kind]
	if !ok {
		return errors.New(errors.CodeForbidden, "unknown resource kind")
	}
	rule, ok := rules[action]
	if !ok {
		return errors.New(errors.CodeForbidden, "action not permitted on this resource")
	}
	return rule(actor, res)
}

func public(*models.User, Resource) error { return nil }

func requireActor(actor *models.User) error {
	if actor == nil {
		return errors.New(errors.CodeUnauthorized, "authentication required")
	}
	return nil
}

func ownerOnly(reason string) ruleFn {
	return func(actor *models.User, res Resource) error {
		if err := requireActor(actor); err != nil {
			return err
		}
		if actor.ID != res.OwnerID {
			return errors.New(errors.CodeForbidden, reason)
		}
		return nil
	}
}

func submitterOnly(reason string) ruleFn {
	return ownerOnly(reason)
}

// partDelete denies deletion of verified parts outright, even for the
// submitter. Unverified parts fall back to submitter-only.
func partDelete(actor *models.User, res Resource) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if res.PartVerified {
		return errors.New(errors.CodeForbidden, "verified parts cannot be deleted")
	}
	if actor.ID != res.OwnerID {
		return errors.New(errors.CodeForbidden, "only the submitter can delete this part")
	}
	return nil
}

func selfOrAdmin(reason string) ruleFn {
	return func(actor *models.User, res Resource) error {
		if err := requireActor(actor); err != nil {
			return err
		}
		if actor.IsAdmin || actor.ID == res.OwnerID {
			return nil
		}
		return errors.New(errors.CodeForbidden, reason)
	}
}
