// Package transform composes ordered sequences of primitive transforms
// (scale, translate, axis rotations) into a single model matrix.
package transform

import (
	"errors"
	"fmt"

	"github.com/Faultbox/scenekit/pkg/math"
)

// ErrUnknownOp is returned for transform tags or kinds outside the
// supported set.
var ErrUnknownOp = errors.New("unknown transform op")

// Kind identifies a primitive transform.
type Kind uint8

// Supported transform kinds.
const (
	Scale Kind = iota + 1
	Translate
	RotateX
	RotateY
	RotateZ
)

var kindTags = map[string]Kind{
	"S":  Scale,
	"T":  Translate,
	"Rx": RotateX,
	"Ry": RotateY,
	"Rz": RotateZ,
}

// ParseKind maps a scene-description tag (S, T, Rx, Ry, Rz) to its Kind.
func ParseKind(tag string) (Kind, error) {
	k, ok := kindTags[tag]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownOp, tag)
	}
	return k, nil
}

// String returns the scene-description tag of the kind.
func (k Kind) String() string {
	for tag, kind := range kindTags {
		if kind == k {
			return tag
		}
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Op is one primitive transform. Scale and Translate use X, Y, Z as the
// per-axis factors or offsets; rotations use X as the angle in degrees.
type Op struct {
	Kind    Kind
	X, Y, Z float32
}

// Sequence is an ordered list of ops. The last op is applied to a vertex
// first.
type Sequence []Op

// ScaleOp returns a non-uniform scale.
func ScaleOp(x, y, z float32) Op { return Op{Kind: Scale, X: x, Y: y, Z: z} }

// TranslateOp returns a translation.
func TranslateOp(x, y, z float32) Op { return Op{Kind: Translate, X: x, Y: y, Z: z} }

// RotateXOp returns a rotation about X by deg degrees.
func RotateXOp(deg float32) Op { return Op{Kind: RotateX, X: deg} }

// RotateYOp returns a rotation about Y by deg degrees.
func RotateYOp(deg float32) Op { return Op{Kind: RotateY, X: deg} }

// RotateZOp returns a rotation about Z by deg degrees.
func RotateZOp(deg float32) Op { return Op{Kind: RotateZ, X: deg} }

// Matrix returns the elementary matrix of the op.
func (op Op) Matrix() (math.Mat4, error) {
	switch op.Kind {
	case Scale:
		return math.Scale(op.X, op.Y, op.Z), nil
	case Translate:
		return math.Translate(op.X, op.Y, op.Z), nil
	case RotateX:
		return math.RotateX(math.Radians(op.X)), nil
	case RotateY:
		return math.RotateY(math.Radians(op.X)), nil
	case RotateZ:
		return math.RotateZ(math.Radians(op.X)), nil
	default:
		return math.Mat4{}, fmt.Errorf("%w: kind %d", ErrUnknownOp, op.Kind)
	}
}

// Compose folds the sequence left to right into
// M = M(op0) * M(op1) * ... * M(opN). An empty sequence yields identity.
func Compose(seq Sequence) (math.Mat4, error) {
	var m math.Mat4
	if err := ComposeInto(&m, seq); err != nil {
		return math.Mat4{}, err
	}
	return m, nil
}

// ComposeInto is Compose writing into a caller-supplied matrix. dst is left
// unchanged on error.
func ComposeInto(dst *math.Mat4, seq Sequence) error {
	acc := math.Identity()
	for i, op := range seq {
		m, err := op.Matrix()
		if err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		math.MulInto(&acc, &acc, &m)
	}
	*dst = acc
	return nil
}
