package gate

import "strings"

// Permission names one action on one resource type, written "resource:action":
// "job_offer:apply", "formation:complete", "interview:confirm".
type Permission string

// Everything grants every action on every resource. Only the admin role holds it.
const Everything Permission = "*:*"

// anyAction in the action half grants the whole resource, as in "profile:*".
const anyAction = "*"

func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

// Split returns both halves of p. A value without a colon yields two empty strings.
func (p Permission) Split() (resourceType string, action Action) {
	res, act, ok := strings.Cut(string(p), ":")
	if !ok {
		return "", ""
	}
	return res, Action(act)
}

// Grants reports whether a role holding p may perform requested.
func (p Permission) Grants(requested Permission) bool {
	if p == Everything || p == requested {
		return true
	}
	res, act := p.Split()
	reqRes, _ := requested.Split()
	return res != "" && res == reqRes && string(act) == anyAction
}
