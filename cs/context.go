// Package cs provides the context-sensitivity layer of the pointer
// analysis: contexts, context-qualified program elements and the selectors
// deciding which contexts to use.
package cs

import (
	"fmt"
	"strings"
	"sync"
)

// Context is an immutable sequence of context elements (call sites, abstract
// objects, classes). Contexts are interned in a trie rooted at the empty
// context of the selector that created them, so two contexts from the same
// selector are equal exactly when they are the same pointer. The trie may be
// extended by several analyses sharing a selector at once.
type Context struct {
	parent   *Context
	elem     any
	depth    int
	trie     *trie
	children map[any]*Context
}

type trie struct{ mu sync.Mutex }

func newEmptyContext() *Context {
	return &Context{trie: new(trie)}
}

// Len returns the number of elements in the context.
func (c *Context) Len() int { return c.depth }

// Elems returns the elements of the context, oldest first.
func (c *Context) Elems() []any {
	res := make([]any, c.depth)
	for cur := c; cur.parent != nil; cur = cur.parent {
		res[cur.depth-1] = cur.elem
	}
	return res
}

// Last returns the most recent element, or nil for the empty context.
func (c *Context) Last() any { return c.elem }

func (c *Context) String() string {
	elems := c.Elems()
	strs := make([]string, len(elems))
	for i, e := range elems {
		strs[i] = fmt.Sprint(e)
	}
	return "[" + strings.Join(strs, ", ") + "]"
}

func (c *Context) root() *Context {
	cur := c
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

func (c *Context) child(elem any) *Context {
	c.trie.mu.Lock()
	defer c.trie.mu.Unlock()

	if ch, found := c.children[elem]; found {
		return ch
	}

	if c.children == nil {
		c.children = make(map[any]*Context)
	}
	ch := &Context{parent: c, elem: elem, depth: c.depth + 1, trie: c.trie}
	c.children[elem] = ch
	return ch
}

func (c *Context) make(elems []any) *Context {
	cur := c.root()
	for _, e := range elems {
		cur = cur.child(e)
	}
	return cur
}

// Truncate returns the context consisting of the last limit elements of c.
func (c *Context) Truncate(limit int) *Context {
	if limit < 0 {
		limit = 0
	}
	if c.depth <= limit {
		return c
	}
	elems := c.Elems()
	return c.make(elems[len(elems)-limit:])
}

// Append returns the context obtained by appending elem to c and keeping
// the last limit elements.
func (c *Context) Append(elem any, limit int) *Context {
	if limit <= 0 {
		return c.root()
	}
	if c.depth < limit {
		return c.child(elem)
	}
	elems := append(c.Elems(), elem)
	return c.make(elems[len(elems)-limit:])
}
