package iso

import (
	"cmp"
	"slices"
)

// Depth orders draw calls. Higher depths are drawn later, on top.
type Depth int

const (
	DepthTerrain            Depth = iota // ground tiles and the debug grid
	DepthHover                           // hovered-tile highlight
	DepthBehindCharacter                 // objects further up the screen than the character
	DepthCharacter                       // the character
	DepthInFrontOfCharacter              // objects level with or below the character
)

func (d Depth) String() string {
	switch d {
	case DepthTerrain:
		return "terrain"
	case DepthHover:
		return "hover"
	case DepthBehindCharacter:
		return "behind"
	case DepthCharacter:
		return "character"
	case DepthInFrontOfCharacter:
		return "front"
	default:
		return "unknown"
	}
}

// ObjectDepth places an object behind the character when the object's world
// Y is above (smaller than) the character's, and in front otherwise.
func ObjectDepth(objectY, characterY float64) Depth {
	if objectY < characterY {
		return DepthBehindCharacter
	}
	return DepthInFrontOfCharacter
}

// RenderRequest is one deferred draw call.
type RenderRequest struct {
	Depth Depth
	Seq   int // insertion order, breaks depth ties
	Draw  func(Surface)
}

// Compositor collects a frame's draw calls and runs them back to front.
type Compositor struct {
	reqs   []RenderRequest
	sorted bool
}

// Push queues a draw at depth d.
func (c *Compositor) Push(d Depth, draw func(Surface)) {
	c.reqs = append(c.reqs, RenderRequest{Depth: d, Seq: len(c.reqs), Draw: draw})
	c.sorted = false
}

// Len returns the number of queued requests.
func (c *Compositor) Len() int { return len(c.reqs) }

// Requests returns the queue in execution order.
func (c *Compositor) Requests() []RenderRequest {
	c.sort()
	return c.reqs
}

// Execute runs every queued draw in depth order. The queue is kept, so a
// second Execute redraws the same frame.
func (c *Compositor) Execute(s Surface) {
	c.sort()
	for _, r := range c.reqs {
		r.Draw(s)
	}
}

// Reset empties the queue for the next frame.
func (c *Compositor) Reset() {
	clear(c.reqs)
	c.reqs = c.reqs[:0]
	c.sorted = true
}

func (c *Compositor) sort() {
	if c.sorted {
		return
	}
	slices.SortFunc(c.reqs, func(a, b RenderRequest) int {
		return cmp.Or(cmp.Compare(a.Depth, b.Depth), cmp.Compare(a.Seq, b.Seq))
	})
	c.sorted = true
}
