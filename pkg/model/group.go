package model

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
)

// Group errors.
var (
	ErrAttributeNotFound = errors.New("attribute not found")
	ErrGroupNotFound     = errors.New("group not found")
	ErrDuplicateName     = errors.New("name already exists in group")
)

// Group is a named directory of attributes and child groups.
type Group struct {
	mu sync.RWMutex

	name   string
	parent *Group

	// Attributes and children in insertion order.
	attributes []*Attribute
	children   []*Group

	subscribers []GroupSubscriber
}

// GroupSubscriber is notified when an attribute is written through a group.
type GroupSubscriber interface {
	// OnAttributeWritten is called after a successful write. The path is
	// relative to the group the subscriber is registered on.
	OnAttributeWritten(path string, value string)
}

// NewGroup creates a detached group.
func NewGroup(name string) *Group {
	return &Group{name: name}
}

// Name returns the group name.
func (g *Group) Name() string {
	return g.name
}

// Parent returns the parent group, or nil for a root.
func (g *Group) Parent() *Group {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.parent
}

// Path returns the slash separated path from the root, excluding the root's name.
func (g *Group) Path() string {
	var parts []string
	for cur := g; cur != nil; cur = cur.Parent() {
		if cur.Parent() == nil {
			break
		}
		parts = append([]string{cur.name}, parts...)
	}
	return strings.Join(parts, "/")
}

// AddAttribute adds attributes to the group.
// No attribute is added if any name is invalid or already taken.
func (g *Group) AddAttribute(attrs ...*Attribute) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	seen := make(map[string]bool, len(attrs))
	for _, attr := range attrs {
		name := attr.Name()
		if err := ValidateName(name); err != nil {
			return err
		}
		if seen[name] || g.hasNameUnlocked(name) {
			return fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		seen[name] = true
	}
	g.attributes = append(g.attributes, attrs...)
	return nil
}

// RemoveAttribute removes an attribute by name.
func (g *Group) RemoveAttribute(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, attr := range g.attributes {
		if attr.Name() == name {
			g.attributes = append(g.attributes[:i], g.attributes[i+1:]...)
			return nil
		}
	}
	return ErrAttributeNotFound
}

// Attribute returns a direct attribute by name.
func (g *Group) Attribute(name string) (*Attribute, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, attr := range g.attributes {
		if attr.Name() == name {
			return attr, nil
		}
	}
	return nil, ErrAttributeNotFound
}

// Attributes returns the group's attributes in insertion order.
func (g *Group) Attributes() []*Attribute {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]*Attribute, len(g.attributes))
	copy(result, g.attributes)
	return result
}

// AddGroup attaches child under this group.
func (g *Group) AddGroup(child *Group) error {
	if err := ValidateName(child.name); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hasNameUnlocked(child.name) {
		return fmt.Errorf("%w: %s", ErrDuplicateName, child.name)
	}

	child.mu.Lock()
	child.parent = g
	child.mu.Unlock()

	g.children = append(g.children, child)
	return nil
}

// RemoveGroup detaches a child group by name.
func (g *Group) RemoveGroup(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, child := range g.children {
		if child.name == name {
			g.children = append(g.children[:i], g.children[i+1:]...)
			child.mu.Lock()
			child.parent = nil
			child.mu.Unlock()
			return nil
		}
	}
	return ErrGroupNotFound
}

// Group returns a direct child group by name.
func (g *Group) Group(name string) (*Group, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, child := range g.children {
		if child.name == name {
			return child, nil
		}
	}
	return nil, ErrGroupNotFound
}

// Groups returns the child groups in insertion order.
func (g *Group) Groups() []*Group {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]*Group, len(g.children))
	copy(result, g.children)
	return result
}

func (g *Group) hasNameUnlocked(name string) bool {
	for _, attr := range g.attributes {
		if attr.Name() == name {
			return true
		}
	}
	for _, child := range g.children {
		if child.name == name {
			return true
		}
	}
	return false
}

// Lookup resolves a slash separated path relative to g to an attribute.
func (g *Group) Lookup(p string) (*Attribute, error) {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return nil, ErrAttributeNotFound
	}

	parts := strings.Split(p, "/")
	cur := g
	for _, part := range parts[:len(parts)-1] {
		next, err := cur.Group(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, p)
		}
		cur = next
	}

	attr, err := cur.Attribute(parts[len(parts)-1])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, p)
	}
	return attr, nil
}

// Read reads the attribute at path.
func (g *Group) Read(p string) (string, error) {
	attr, err := g.Lookup(p)
	if err != nil {
		return "", err
	}
	return attr.Show()
}

// Write writes value to the attribute at path and notifies subscribers
// on success.
func (g *Group) Write(p string, value string) error {
	attr, err := g.Lookup(p)
	if err != nil {
		return err
	}
	if err := attr.Store(value); err != nil {
		return err
	}

	g.notifyAttributeWritten(strings.Trim(path.Clean("/"+p), "/"), value)
	return nil
}

// Walk calls fn for every attribute below g, depth first, in insertion
// order. The path passed to fn is relative to g. Walk stops at the first
// error returned by fn.
func (g *Group) Walk(fn func(path string, attr *Attribute) error) error {
	return g.walk("", fn)
}

func (g *Group) walk(prefix string, fn func(string, *Attribute) error) error {
	for _, attr := range g.Attributes() {
		if err := fn(path.Join(prefix, attr.Name()), attr); err != nil {
			return err
		}
	}
	for _, child := range g.Groups() {
		if err := child.walk(path.Join(prefix, child.name), fn); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe adds a subscriber for write notifications.
func (g *Group) Subscribe(sub GroupSubscriber) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subscribers = append(g.subscribers, sub)
}

// Unsubscribe removes a subscriber.
func (g *Group) Unsubscribe(sub GroupSubscriber) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, s := range g.subscribers {
		if s == sub {
			g.subscribers = append(g.subscribers[:i], g.subscribers[i+1:]...)
			return
		}
	}
}

func (g *Group) notifyAttributeWritten(p string, value string) {
	g.mu.RLock()
	subs := make([]GroupSubscriber, len(g.subscribers))
	copy(subs, g.subscribers)
	g.mu.RUnlock()

	for _, sub := range subs {
		sub.OnAttributeWritten(p, value)
	}
}
