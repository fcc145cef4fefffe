// Package di provides a minimal typed-token dependency container.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read-only view of the container. Get resolves a
// service by name, invoking its factory on first use. It panics if the
// name was never registered; resolution failures are wiring bugs.
type ServiceRegistry interface {
	Get(name string) any
}

// Container registers and resolves services by name.
type Container interface {
	ServiceRegistry
	Register(name string, service any)
	RegisterFactory(name string, factory func(ServiceRegistry) any)
}

type container struct {
	mu        sync.Mutex
	instances map[string]any
	factories map[string]func(ServiceRegistry) any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		instances: make(map[string]any),
		factories: make(map[string]func(ServiceRegistry) any),
	}
}

func (c *container) Register(name string, service any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances[name] = service
}

func (c *container) RegisterFactory(name string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = factory
}

func (c *container) Get(name string) any {
	c.mu.Lock()
	if svc, ok := c.instances[name]; ok {
		c.mu.Unlock()
		return svc
	}
	factory, ok := c.factories[name]
	c.mu.Unlock()

	if !ok {
		panic(fmt.Sprintf("di: service %q not registered", name))
	}

	// The factory may resolve its own dependencies, so it runs unlocked.
	svc := factory(c)

	c.mu.Lock()
	c.instances[name] = svc
	c.mu.Unlock()
	return svc
}

// Token is a typed handle for a registered service.
type Token[T any] struct {
	name string
}

// NewToken creates a token with a unique name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the token's registration name.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a lazy factory under its token. The factory runs
// once, on first resolution.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(token.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves a service by token, panicking on mistyped entries.
func GetToken[T any](c ServiceRegistry, token Token[T]) T {
	raw := c.Get(token.name)
	svc, ok := raw.(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has unexpected type %T", token.name, raw))
	}
	return svc
}
