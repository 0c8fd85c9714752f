// Package access decides whether an actor may write a resource.
//
// The check runs in two phases: HasPermission before the target is loaded
// (is this actor allowed to attempt the method at all) and
// HasObjectPermission once it is (may this actor change this object).
package access

import (
	"net/http"
	"net/url"
	"strings"

	"foodgram/internal/pkg/apperror"
)

// Actor is the authenticated identity behind a request. The zero value is
// the anonymous actor.
type Actor struct {
	ID    int64
	Admin bool
}

func (a Actor) Authenticated() bool {
	return a.ID > 0
}

// Request is the part of an inbound request the policy looks at.
type Request struct {
	Method  string
	Path    string
	Referer string
}

// Resource is anything owned by a single user.
type Resource interface {
	OwnerID() int64
}

type decision int

const (
	abstain decision = iota
	allow
	deny
)

type rule func(p *Policy, req Request, a Actor, res Resource) decision

// Rules are evaluated in order; the first non-abstaining rule wins and an
// exhausted table denies.
var (
	permissionRules = []rule{
		safeMethod,
		createRequiresAuth,
		deferToObject,
	}
	objectRules = []rule{
		safeMethod,
		editSegmentGuard,
		administrator,
		owner,
	}
)

// Policy is the recipe write policy. EditGuard enables the optional rule that
// denies non-owners (administrators included) mutating through a URL or
// referrer ending in an "edit" segment.
type Policy struct {
	EditGuard bool
}

func New(editGuard bool) *Policy {
	return &Policy{EditGuard: editGuard}
}

// HasPermission is the object-independent phase.
func (p *Policy) HasPermission(req Request, a Actor) bool {
	return p.evaluate(permissionRules, req, a, nil)
}

// HasObjectPermission is the object-dependent phase.
func (p *Policy) HasObjectPermission(req Request, a Actor, res Resource) bool {
	return p.evaluate(objectRules, req, a, res)
}

// MayWrite runs both phases; with a nil resource only the first one.
func (p *Policy) MayWrite(req Request, a Actor, res Resource) bool {
	if !p.HasPermission(req, a) {
		return false
	}
	if res == nil {
		return true
	}
	return p.HasObjectPermission(req, a, res)
}

// Denied returns the error for a rejected actor: anonymous actors are asked
// to authenticate, everybody else is forbidden.
func Denied(a Actor) error {
	if !a.Authenticated() {
		return apperror.ErrUnauthenticated
	}
	return apperror.ErrAccessDenied
}

func (p *Policy) evaluate(rules []rule, req Request, a Actor, res Resource) bool {
	for _, r := range rules {
		switch r(p, req, a, res) {
		case allow:
			return true
		case deny:
			return false
		}
	}
	return false
}

// IsSafeMethod reports read-only HTTP methods.
func IsSafeMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func safeMethod(_ *Policy, req Request, _ Actor, _ Resource) decision {
	if IsSafeMethod(req.Method) {
		return allow
	}
	return abstain
}

func createRequiresAuth(_ *Policy, req Request, a Actor, _ Resource) decision {
	if !strings.EqualFold(req.Method, http.MethodPost) {
		return abstain
	}
	if a.Authenticated() {
		return allow
	}
	return deny
}

func deferToObject(_ *Policy, _ Request, _ Actor, _ Resource) decision {
	return allow
}

func editSegmentGuard(p *Policy, req Request, a Actor, res Resource) decision {
	if !p.EditGuard || res == nil {
		return abstain
	}
	if a.ID == res.OwnerID() && a.Authenticated() {
		return abstain
	}
	if endsWithEdit(req.Path) || endsWithEdit(req.Referer) {
		return deny
	}
	return abstain
}

func administrator(_ *Policy, _ Request, a Actor, _ Resource) decision {
	if a.Authenticated() && a.Admin {
		return allow
	}
	return abstain
}

func owner(_ *Policy, _ Request, a Actor, res Resource) decision {
	if res != nil && a.Authenticated() && a.ID == res.OwnerID() {
		return allow
	}
	return deny
}

func endsWithEdit(raw string) bool {
	if raw == "" {
		return false
	}
	path := raw
	if u, err := url.Parse(raw); err == nil {
		path = u.Path
	}
	path = strings.TrimRight(path, "/")
	return path == "edit" || strings.HasSuffix(path, "/edit")
}
