package formats

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Scene description errors.
var (
	ErrMalformedRecord  = errors.New("malformed scene record")
	ErrUnknownRecord    = errors.New("unknown scene record kind")
	ErrUnknownPrimitive = errors.New("unknown primitive type")
)

// Scene description separators.
const (
	RecordSeparator = ";"
	FieldSeparator  = ","
	commentPrefix   = "//"
)

// PrimitiveType identifies a procedural mesh.
type PrimitiveType string

const (
	PrimitiveCube   PrimitiveType = "cube"
	PrimitiveSphere PrimitiveType = "sphere"
)

// Light and camera types accepted by the grammar.
const (
	LightPoint        = "point"
	CameraPerspective = "perspective"
)

// PrimitiveRecord declares a mesh: p,id,cube or p,id,sphere,stacks,sectors.
type PrimitiveRecord struct {
	Record  int // index of the record in the source
	ID      string
	Type    PrimitiveType
	Stacks  int // sphere only
	Sectors int // sphere only
}

// MaterialRecord declares a material. Missing color groups are zero.
type MaterialRecord struct {
	Record    int
	ID        string
	Ambient   [3]float32
	Diffuse   [3]float32
	Specular  [3]float32
	Shininess float32
	Texture   string // optional texture path
}

// ObjectRecord binds a mesh and a material: o,id,mesh,material.
type ObjectRecord struct {
	Record   int
	ID       string
	Mesh     string
	Material string
}

// TransformRecord appends one transform to an object's sequence:
// X,object,S|T|Rx|Ry|Rz,x[,y[,z]]. Missing y and z are zero.
type TransformRecord struct {
	Record int
	Object string
	Op     string
	Values [3]float32
}

// LightRecord declares a light: l,id,point,px,py,pz,ir,ig,ib.
type LightRecord struct {
	Record    int
	ID        string
	Type      string
	Position  [3]float32
	Intensity [3]float32
}

// CameraRecord declares a camera: c,id,perspective,eye,center,up.
type CameraRecord struct {
	Record int
	ID     string
	Type   string
	Eye    [3]float32
	Target [3]float32
	Up     [3]float32
}

// SceneDescription is a parsed scene file. Records of each kind keep their
// source order.
type SceneDescription struct {
	Primitives []PrimitiveRecord
	Materials  []MaterialRecord
	Objects    []ObjectRecord
	Transforms []TransformRecord
	Lights     []LightRecord
	Cameras    []CameraRecord
}

// RecordCount returns the total number of records.
func (d *SceneDescription) RecordCount() int {
	return len(d.Primitives) + len(d.Materials) + len(d.Objects) +
		len(d.Transforms) + len(d.Lights) + len(d.Cameras)
}

// ParseSceneFile reads and parses a scene description file.
func ParseSceneFile(path string) (*SceneDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	return ParseScene(data)
}

// ParseScene parses a scene description. Records are separated by ';' and
// fields by ','. Whitespace around records and fields is ignored, as are
// empty records and lines starting with "//".
func ParseScene(data []byte) (*SceneDescription, error) {
	desc := &SceneDescription{}

	for i, raw := range strings.Split(string(data), RecordSeparator) {
		rec := stripComments(raw)
		if rec == "" {
			continue
		}

		fields := strings.Split(rec, FieldSeparator)
		for k := range fields {
			fields[k] = strings.TrimSpace(fields[k])
		}

		p := &recordParser{index: i, fields: fields}
		if err := desc.parseRecord(p); err != nil {
			return nil, err
		}
	}

	return desc, nil
}

func (d *SceneDescription) parseRecord(p *recordParser) error {
	switch p.fields[0] {
	case "p":
		return d.parsePrimitive(p)
	case "m":
		return d.parseMaterial(p)
	case "o":
		return d.parseObject(p)
	case "X":
		return d.parseTransform(p)
	case "l":
		return d.parseLight(p)
	case "c":
		return d.parseCamera(p)
	default:
		return fmt.Errorf("record %d: %w: %q", p.index, ErrUnknownRecord, p.fields[0])
	}
}

func (d *SceneDescription) parsePrimitive(p *recordParser) error {
	if err := p.expect(3, 5); err != nil {
		return err
	}
	rec := PrimitiveRecord{Record: p.index, ID: p.id(), Type: PrimitiveType(p.fields[2])}

	switch rec.Type {
	case PrimitiveCube:
		if err := p.expect(3, 3); err != nil {
			return err
		}
	case PrimitiveSphere:
		if err := p.expect(5, 5); err != nil {
			return err
		}
		rec.Stacks = p.int(3)
		rec.Sectors = p.int(4)
	default:
		return fmt.Errorf("record %d: %w: %q", p.index, ErrUnknownPrimitive, p.fields[2])
	}

	if p.err != nil {
		return p.err
	}
	d.Primitives = append(d.Primitives, rec)
	return nil
}

func (d *SceneDescription) parseMaterial(p *recordParser) error {
	// m,id,ka[,kd[,ks[,shininess[,texture]]]]
	n := len(p.fields)
	if n != 5 && n != 8 && n != 11 && n != 12 && n != 13 {
		return p.malformed("material needs 5, 8, 11, 12 or 13 fields, got %d", n)
	}
	rec := MaterialRecord{Record: p.index, ID: p.id(), Ambient: p.vec3(2)}
	if n > 5 {
		rec.Diffuse = p.vec3(5)
	}
	if n > 8 {
		rec.Specular = p.vec3(8)
	}
	if n > 11 {
		rec.Shininess = p.float(11)
	}
	if n > 12 {
		rec.Texture = p.fields[12]
	}

	if p.err != nil {
		return p.err
	}
	d.Materials = append(d.Materials, rec)
	return nil
}

func (d *SceneDescription) parseObject(p *recordParser) error {
	if err := p.expect(4, 4); err != nil {
		return err
	}
	rec := ObjectRecord{Record: p.index, ID: p.id(), Mesh: p.ref(2), Material: p.ref(3)}
	if p.err != nil {
		return p.err
	}
	d.Objects = append(d.Objects, rec)
	return nil
}

func (d *SceneDescription) parseTransform(p *recordParser) error {
	if err := p.expect(4, 6); err != nil {
		return err
	}
	rec := TransformRecord{Record: p.index, Object: p.id(), Op: p.ref(2)}
	for k := 3; k < len(p.fields); k++ {
		rec.Values[k-3] = p.float(k)
	}
	if p.err != nil {
		return p.err
	}
	d.Transforms = append(d.Transforms, rec)
	return nil
}

func (d *SceneDescription) parseLight(p *recordParser) error {
	if err := p.expect(9, 9); err != nil {
		return err
	}
	rec := LightRecord{
		Record:    p.index,
		ID:        p.id(),
		Type:      p.fields[2],
		Position:  p.vec3(3),
		Intensity: p.vec3(6),
	}
	if rec.Type != LightPoint {
		return p.malformed("unsupported light type %q", rec.Type)
	}
	if p.err != nil {
		return p.err
	}
	d.Lights = append(d.Lights, rec)
	return nil
}

func (d *SceneDescription) parseCamera(p *recordParser) error {
	if err := p.expect(12, 12); err != nil {
		return err
	}
	rec := CameraRecord{
		Record: p.index,
		ID:     p.id(),
		Type:   p.fields[2],
		Eye:    p.vec3(3),
		Target: p.vec3(6),
		Up:     p.vec3(9),
	}
	if rec.Type != CameraPerspective {
		return p.malformed("unsupported camera type %q", rec.Type)
	}
	if p.err != nil {
		return p.err
	}
	d.Cameras = append(d.Cameras, rec)
	return nil
}

// stripComments drops "//" lines from a raw record and trims it.
func stripComments(raw string) string {
	if !strings.Contains(raw, commentPrefix) {
		return strings.TrimSpace(raw)
	}
	lines := strings.Split(raw, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), commentPrefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// recordParser converts the fields of one record, keeping the first error.
type recordParser struct {
	index  int
	fields []string
	err    error
}

func (p *recordParser) malformed(format string, args ...any) error {
	return fmt.Errorf("record %d (%s): %w: %s", p.index, p.fields[0], ErrMalformedRecord, fmt.Sprintf(format, args...))
}

func (p *recordParser) expect(lo, hi int) error {
	n := len(p.fields)
	if n < lo || n > hi {
		if lo == hi {
			return p.malformed("expected %d fields, got %d", lo, n)
		}
		return p.malformed("expected %d to %d fields, got %d", lo, hi, n)
	}
	return nil
}

func (p *recordParser) id() string {
	return p.ref(1)
}

func (p *recordParser) ref(k int) string {
	if p.fields[k] == "" && p.err == nil {
		p.err = p.malformed("field %d is empty", k)
	}
	return p.fields[k]
}

func (p *recordParser) float(k int) float32 {
	v, err := strconv.ParseFloat(p.fields[k], 32)
	if err != nil && p.err == nil {
		p.err = p.malformed("field %d: %v", k, err)
	}
	return float32(v)
}

func (p *recordParser) int(k int) int {
	v, err := strconv.Atoi(p.fields[k])
	if err != nil && p.err == nil {
		p.err = p.malformed("field %d: %v", k, err)
	}
	return v
}

func (p *recordParser) vec3(k int) [3]float32 {
	return [3]float32{p.float(k), p.float(k + 1), p.float(k + 2)}
}
