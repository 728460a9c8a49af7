package graph

import (
	"errors"
	"fmt"
	"time"
)

// ErrPrimaryCollision indicates several primary documents map to one output path.
var ErrPrimaryCollision = errors.New("primary documents collide on output path")

// CollisionPolicy decides what happens when primary documents collide.
type CollisionPolicy string

const (
	// CollisionIgnore emits every edge silently; the executor keeps the last one.
	CollisionIgnore CollisionPolicy = "ignore"
	// CollisionWarn emits every edge and logs each collision.
	CollisionWarn CollisionPolicy = "warn"
	// CollisionFail rejects the graph before the executor runs.
	CollisionFail CollisionPolicy = "fail"
)

// ParseCollisionPolicy validates a policy name. The empty string means CollisionWarn.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch p := CollisionPolicy(s); p {
	case "":
		return CollisionWarn, nil
	case CollisionIgnore, CollisionWarn, CollisionFail:
		return p, nil
	default:
		return "", fmt.Errorf("unknown collision policy %q (want ignore, warn or fail)", s)
	}
}

// Collision lists the primary documents sharing an output path, in emission order.
type Collision struct {
	Output string
	Inputs []string
}

// Report summarizes a generated graph.
type Report struct {
	Convert int
	Copy    int
	// SkippedPassThrough holds pass-through inputs dropped in favour of a converted document.
	SkippedPassThrough []string
	Collisions         []Collision
	Duration           time.Duration
}

// Edges returns the number of build statements emitted.
func (r *Report) Edges() int {
	return r.Convert + r.Copy
}
