package ntrack

import (
	"github.com/pkg/errors"
)

// Scope returns the current registration scope.  ApplicationScope is
// current when no scope is open.
func (c *Context) Scope() ItemID {
	if c.scope.IsZero() {
		return ApplicationScope
	}
	return c.scope
}

// OpenScope makes id the current scope.  It fails if a scope is
// already open.
func (c *Context) OpenScope(id ItemID) error {
	if !c.scope.IsZero() {
		return c.fail(errors.Wrapf(ErrScopeAlreadyOpen, "cannot open %s while %s is open", id, c.scope))
	}
	c.debugf("open scope %s", id)
	c.scope = id
	return nil
}

// CloseScope returns to the application scope.  It fails if no scope
// is open.
func (c *Context) CloseScope() error {
	if c.scope.IsZero() {
		return c.fail(errors.WithStack(ErrScopeNotOpen))
	}
	c.debugf("close scope %s", c.scope)
	c.scope = ItemID{}
	return nil
}

// ReplaceScope makes id the current scope and returns the previous
// one (zero for the application scope) so that it can be restored.
func (c *Context) ReplaceScope(id ItemID) ItemID {
	prev := c.scope
	c.scope = id
	return prev
}

// WithScope runs fn with id as the current scope.  The previous scope
// is restored when fn returns or panics.  Unlike OpenScope, WithScope
// can be nested.
func (c *Context) WithScope(id ItemID, fn func() error) error {
	prev := c.ReplaceScope(id)
	defer c.ReplaceScope(prev)
	return fn()
}

// withOpenScope is WithScope for the special scopes: they are only
// entered from the application scope.
func (c *Context) withOpenScope(id ItemID, fn func() error) error {
	if err := c.OpenScope(id); err != nil {
		return err
	}
	defer func() {
		c.scope = ItemID{}
	}()
	return fn()
}

// scopeKind classifies a scope id
func (c *Context) scopeKind(id ItemID) ScopeKind {
	if k, ok := specialScopeKind(id); ok {
		return k
	}
	if k, ok := c.scopeTypes[id.Type]; ok {
		return k
	}
	return ScopeApplication
}
