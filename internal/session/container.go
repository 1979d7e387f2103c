// Package session holds the server-side session state for storefront clients:
// whether a caller is logged in and who they are, for the lifetime of the
// client session. It is pure state replacement; nothing here can fail.
package session

import "sync"

// User is the profile attached to an authenticated session.
// Field contents are whatever the upstream auth service supplied;
// the container performs no validation.
type User struct {
	Email       string   `json:"email"`
	FullName    string   `json:"fullName"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
}

// State is a snapshot of a container.
//
// Caller contract: User is non-nil only while IsAuthenticated is true.
// SetUser deliberately does not enforce this; it patches the profile
// without touching the authentication flag.
type State struct {
	IsAuthenticated bool  `json:"isAuthenticated"`
	User            *User `json:"user"`
}

// Container is the single source of truth for one client session.
// It must be explicitly owned and injected; there is no package-level
// instance. Every mutation fans out to all subscribers.
type Container struct {
	mu    sync.Mutex
	state State

	subs   map[int]func(State)
	nextID int
}

func NewContainer() *Container {
	return &Container{subs: make(map[int]func(State))}
}

// SetAuthenticated marks the session authenticated and sets the user to the
// given record, or nil when the caller has no profile to attach yet.
func (c *Container) SetAuthenticated(u *User) {
	c.mu.Lock()
	c.state = State{IsAuthenticated: true, User: cloneUser(u)}
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()

	notify(snap, subs)
}

// ClearAuth resets the container to its initial state. Idempotent.
func (c *Container) ClearAuth() {
	c.mu.Lock()
	c.state = State{}
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()

	notify(snap, subs)
}

// SetUser replaces the user record without touching the authentication flag.
// Used to patch profile fields after an edit without re-authenticating.
func (c *Container) SetUser(u *User) {
	c.mu.Lock()
	c.state.User = cloneUser(u)
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()

	notify(snap, subs)
}

// State returns a defensive snapshot; mutating the result does not affect
// the container.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{IsAuthenticated: c.state.IsAuthenticated, User: cloneUser(c.state.User)}
}

// Subscribe registers fn to be called with a state snapshot on every
// mutation. The returned func unsubscribes; it is safe to call more than
// once.
func (c *Container) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Container) snapshotLocked() (State, []func(State)) {
	snap := State{IsAuthenticated: c.state.IsAuthenticated, User: cloneUser(c.state.User)}
	subs := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return snap, subs
}

// notify runs outside the container lock so a subscriber may read state or
// unsubscribe without deadlocking.
func notify(snap State, subs []func(State)) {
	for _, fn := range subs {
		fn(snap)
	}
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.Roles != nil {
		out.Roles = append([]string(nil), u.Roles...)
	}
	if u.Permissions != nil {
		out.Permissions = append([]string(nil), u.Permissions...)
	}
	return &out
}
