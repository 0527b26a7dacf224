// Package policy is the pure authorization decision function. It never
// touches storage: callers load the resource (with its company references)
// and ask for a verdict before applying a mutation.
package policy

import (
	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk/internal/apperr"
	"github.com/crewdesk/crewdesk/internal/database/models"
)

type Action string

const (
	ActionCreate       Action = "create"
	ActionRead         Action = "read"
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
	ActionAddMember    Action = "add_member"
	ActionRemoveMember Action = "remove_member"
)

type Effect int

const (
	// Allow permits the action.
	Allow Effect = iota
	// DenyForbidden rejects the action for an actor who is allowed to know
	// the resource exists.
	DenyForbidden
	// DenyNotFound rejects cross-tenant access. Callers must surface it as
	// "not found" so resource existence does not leak across companies.
	DenyNotFound
)

type Decision struct {
	Effect Effect
	Reason string
}

func (d Decision) Allowed() bool { return d.Effect == Allow }

// Err translates a deny verdict into the error the caller should return.
func (d Decision) Err() error {
	switch d.Effect {
	case Allow:
		return nil
	case DenyNotFound:
		return apperr.NotFound("%s", d.Reason)
	default:
		return apperr.PermissionDenied("%s", d.Reason)
	}
}

func allow() Decision                 { return Decision{Effect: Allow} }
func forbidden(reason string) Decision { return Decision{Effect: DenyForbidden, Reason: reason} }
func notFound() Decision               { return Decision{Effect: DenyNotFound, Reason: "resource not found"} }

// Decide evaluates (actor, action, resource) against the rule set. Rules are
// checked in precedence order and the first match wins; anything that falls
// through is denied.
func Decide(actor *models.User, action Action, resource any) Decision {
	companyID, ok := resourceCompany(resource)
	if !ok {
		return notFound()
	}

	// Tenant boundary first. A resource outside the actor's company is
	// invisible, whatever the action.
	if !actor.InCompany(companyID) {
		return notFound()
	}

	switch res := resource.(type) {
	case *models.Project:
		return decideProject(actor, action, res)
	case *models.Team:
		return decideTeam(actor, action, res)
	case *models.Task:
		return decideTask(actor, action, res)
	case *models.TaskComment:
		return decideComment(actor, action, res)
	case *models.Company:
		return decideCompany(actor, action)
	case *models.User:
		return decideUser(actor, action, res)
	}
	return forbidden("unsupported resource")
}

func decideProject(actor *models.User, action Action, project *models.Project) Decision {
	switch action {
	case ActionRead:
		return allow()
	case ActionCreate:
		if actor.IsElevated() {
			return allow()
		}
		return forbidden("only admins and managers can create projects")
	case ActionUpdate, ActionDelete, ActionAddMember, ActionRemoveMember:
		if actor.IsElevated() || project.IsManager(actor.ID) {
			return allow()
		}
		return forbidden("requires admin, manager, or project manager")
	}
	return forbidden("unsupported action")
}

func decideTeam(actor *models.User, action Action, team *models.Team) Decision {
	switch action {
	case ActionRead:
		return allow()
	case ActionCreate:
		if actor.IsElevated() {
			return allow()
		}
		return forbidden("only admins and managers can create teams")
	case ActionUpdate, ActionDelete, ActionAddMember, ActionRemoveMember:
		if actor.IsElevated() || team.IsLead(actor.ID) {
			return allow()
		}
		return forbidden("requires admin, manager, or team lead")
	}
	return forbidden("unsupported action")
}

func decideTask(actor *models.User, action Action, task *models.Task) Decision {
	switch action {
	case ActionRead, ActionCreate:
		return allow()
	case ActionUpdate:
		// Any company member may update a task. Deliberately loose.
		return allow()
	case ActionDelete:
		if task.IsCreator(actor.ID) || actor.IsElevated() {
			return allow()
		}
		if task.Project != nil && task.Project.IsManager(actor.ID) {
			return allow()
		}
		return forbidden("requires task creator, project manager, or admin")
	}
	return forbidden("unsupported action")
}

func decideComment(actor *models.User, action Action, comment *models.TaskComment) Decision {
	switch action {
	case ActionRead:
		return allow()
	case ActionCreate, ActionUpdate:
		if comment.UserID == actor.ID {
			return allow()
		}
		return forbidden("only the comment author can modify a comment")
	case ActionDelete:
		if comment.UserID == actor.ID || actor.IsElevated() {
			return allow()
		}
		return forbidden("requires comment author or admin")
	}
	return forbidden("unsupported action")
}

func decideCompany(actor *models.User, action Action) Decision {
	switch action {
	case ActionRead:
		return allow()
	case ActionUpdate:
		if actor.Role == models.RoleAdmin {
			return allow()
		}
		return forbidden("only admins can update company details")
	}
	return forbidden("unsupported action")
}

func decideUser(actor *models.User, action Action, target *models.User) Decision {
	switch action {
	case ActionRead:
		return allow()
	case ActionUpdate:
		if target.ID == actor.ID || actor.IsElevated() {
			return allow()
		}
		return forbidden("you can only update your own profile")
	case ActionDelete:
		if actor.Role == models.RoleAdmin && target.ID != actor.ID {
			return allow()
		}
		return forbidden("only admins can deactivate other users")
	}
	return forbidden("unsupported action")
}

func resourceCompany(resource any) (uuid.UUID, bool) {
	switch res := resource.(type) {
	case *models.Project:
		return res.CompanyID, true
	case *models.Team:
		return res.CompanyID, true
	case *models.Task:
		if res.Project == nil {
			return uuid.Nil, false
		}
		return res.Project.CompanyID, true
	case *models.TaskComment:
		if res.Task == nil || res.Task.Project == nil {
			return uuid.Nil, false
		}
		return res.Task.Project.CompanyID, true
	case *models.Company:
		return res.ID, true
	case *models.User:
		if res.CompanyID == nil {
			return uuid.Nil, false
		}
		return *res.CompanyID, true
	}
	return uuid.Nil, false
}
