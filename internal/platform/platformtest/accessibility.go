// Package platformtest provides in-memory implementations of the platform
// interfaces for tests.
package platformtest

import (
	"fmt"
	"sync"

	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/platform"
)

// Node is a scripted accessibility element. Empty strings and nil geometry
// are reported as missing attributes.
type Node struct {
	RoleValue    string
	SubroleValue string
	Pos          *model.Point
	Sz           *model.Size
	Kids         []*Node
	ChildrenErr  error

	tree *Tree
}

// StatusItem builds a status item node with the given frame.
func StatusItem(role, subrole string, frame model.Rect) *Node {
	return &Node{
		RoleValue:    role,
		SubroleValue: subrole,
		Pos:          &model.Point{X: frame.X, Y: frame.Y},
		Sz:           &model.Size{Width: frame.Width, Height: frame.Height},
	}
}

// Group builds a container node.
func Group(role string, kids ...*Node) *Node {
	return &Node{RoleValue: role, Kids: kids}
}

func (n *Node) Role() (string, bool)    { return n.RoleValue, n.RoleValue != "" }
func (n *Node) Subrole() (string, bool) { return n.SubroleValue, n.SubroleValue != "" }

func (n *Node) Position() (model.Point, bool) {
	if n.Pos == nil {
		return model.Point{}, false
	}
	return *n.Pos, true
}

func (n *Node) Size() (model.Size, bool) {
	if n.Sz == nil {
		return model.Size{}, false
	}
	return *n.Sz, true
}

func (n *Node) Children() ([]platform.AXNode, error) {
	if n.ChildrenErr != nil {
		return nil, n.ChildrenErr
	}
	out := make([]platform.AXNode, len(n.Kids))
	for i, k := range n.Kids {
		k.tree = n.tree
		if n.tree != nil {
			n.tree.retain()
		}
		out[i] = k
	}
	return out, nil
}

func (n *Node) Release() {
	if n.tree != nil {
		n.tree.release()
	}
}

// Tree tracks outstanding node handles so tests can assert every handle was
// released.
type Tree struct {
	mu          sync.Mutex
	outstanding int
}

func (t *Tree) retain() {
	t.mu.Lock()
	t.outstanding++
	t.mu.Unlock()
}

func (t *Tree) release() {
	t.mu.Lock()
	t.outstanding--
	t.mu.Unlock()
}

// Outstanding returns the number of unreleased handles.
func (t *Tree) Outstanding() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outstanding
}

// App is one scripted process.
type App struct {
	Process platform.Process
	Root    *Node
	RootErr error
}

// Accessibility serves scripted process trees.
type Accessibility struct {
	Apps      []App
	ListErr   error
	Tree      Tree
	RootCalls []int
}

func (a *Accessibility) RunningProcesses() ([]platform.Process, error) {
	if a.ListErr != nil {
		return nil, a.ListErr
	}
	procs := make([]platform.Process, len(a.Apps))
	for i, app := range a.Apps {
		procs[i] = app.Process
	}
	return procs, nil
}

func (a *Accessibility) ApplicationRoot(pid int) (platform.AXNode, error) {
	a.RootCalls = append(a.RootCalls, pid)
	for _, app := range a.Apps {
		if app.Process.PID != pid {
			continue
		}
		if app.RootErr != nil {
			return nil, app.RootErr
		}
		if app.Root == nil {
			return nil, fmt.Errorf("no root for pid %d", pid)
		}
		app.Root.tree = &a.Tree
		a.Tree.retain()
		return app.Root, nil
	}
	return nil, fmt.Errorf("no process %d", pid)
}
