package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/pkg/math"
)

// OBJ decoding errors.
var (
	ErrNoFaces     = errors.New("obj: no faces")
	ErrBadIndex    = errors.New("obj: index out of range")
	ErrSyntax      = errors.New("obj: syntax error")
	ErrUnsupported = errors.New("obj: unsupported model format")
)

// corner is one face vertex reference: position, texture coordinate and
// normal indices, zero based. -1 marks a missing texture coordinate or normal.
type corner struct {
	v, t, n int
}

type objDecoder struct {
	positions [][3]float32
	texcoords [][2]float32
	normals   [][3]float32

	mesh     *Mesh
	seen     map[corner]uint32
	material string
	skipped  int
	line     int
}

// Load reads a mesh from a file. Only Wavefront OBJ is supported.
func Load(path string) (*Mesh, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".obj" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mesh, err := DecodeOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	mesh.Name = filepath.Base(path)

	if err := loadMaterials(mesh, filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debug("mesh loaded",
		zap.String("path", path),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", len(mesh.Indices)/3),
		zap.Int("groups", len(mesh.Groups)),
		zap.Int("materials", len(mesh.Materials)),
	)
	return mesh, nil
}

// DecodeOBJ parses positions, texture coordinates, normals and faces from an
// OBJ stream. Polygons are fan-triangulated; faces without normals get a flat
// face normal. usemtl starts a new Group and mtllib names are collected into
// MaterialLibs; the libraries themselves are read by Load.
func DecodeOBJ(r io.Reader) (*Mesh, error) {
	d := &objDecoder{
		mesh: &Mesh{Bounds: emptyBounds()},
		seen: make(map[corner]uint32),
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		d.line++
		if err := d.parseLine(scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", d.line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(d.mesh.Indices) == 0 {
		return nil, ErrNoFaces
	}
	d.closeGroups()
	if d.skipped > 0 {
		logger.Debug("obj degenerate faces skipped", zap.Int("count", d.skipped))
	}
	return d.mesh, nil
}

func (d *objDecoder) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	switch fields[0] {
	case "v":
		p, err := parseVec3(fields[1:])
		if err != nil {
			return err
		}
		d.positions = append(d.positions, p)
	case "vt":
		uv, err := parseUV(fields[1:])
		if err != nil {
			return err
		}
		d.texcoords = append(d.texcoords, uv)
	case "vn":
		n, err := parseVec3(fields[1:])
		if err != nil {
			return err
		}
		d.normals = append(d.normals, n)
	case "f":
		return d.parseFace(fields[1:])
	case "mtllib":
		if len(fields) < 2 {
			return fmt.Errorf("%w: mtllib without a file", ErrSyntax)
		}
		d.mesh.MaterialLibs = append(d.mesh.MaterialLibs, fields[1:]...)
	case "usemtl":
		if len(fields) < 2 {
			return fmt.Errorf("%w: usemtl without a name", ErrSyntax)
		}
		d.material = strings.Join(fields[1:], " ")
	}
	// o, g, s and anything else are ignored.
	return nil
}

// group opens a new Group when the material changed since the last face.
func (d *objDecoder) group() {
	groups := d.mesh.Groups
	if n := len(groups); n > 0 && groups[n-1].Material == d.material {
		return
	}
	d.mesh.Groups = append(groups, Group{Material: d.material, Start: len(d.mesh.Indices)})
}

// closeGroups sets the group counts and drops groups left empty by skipped
// faces.
func (d *objDecoder) closeGroups() {
	groups := d.mesh.Groups[:0]
	for i, g := range d.mesh.Groups {
		end := len(d.mesh.Indices)
		if i+1 < len(d.mesh.Groups) {
			end = d.mesh.Groups[i+1].Start
		}
		g.Count = end - g.Start
		if g.Count > 0 {
			groups = append(groups, g)
		}
	}
	d.mesh.Groups = groups
}

func (d *objDecoder) parseFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("%w: face needs at least 3 vertices, got %d", ErrSyntax, len(fields))
	}

	corners := make([]corner, len(fields))
	hasNormals := true
	for i, f := range fields {
		c, err := d.parseCorner(f)
		if err != nil {
			return err
		}
		corners[i] = c
		if c.n < 0 {
			hasNormals = false
		}
	}

	d.group()
	for i := 1; i+1 < len(corners); i++ {
		tri := [3]corner{corners[0], corners[i], corners[i+1]}
		if hasNormals {
			for _, c := range tri {
				d.mesh.Indices = append(d.mesh.Indices, d.shared(c))
			}
			continue
		}

		normal, ok := d.faceNormal(tri)
		if !ok {
			d.skipped++
			continue
		}
		for _, c := range tri {
			d.mesh.Indices = append(d.mesh.Indices, d.emit(c, normal))
		}
	}
	return nil
}

// parseCorner reads v, v/vt, v//vn or v/vt/vn. Negative indices count back
// from the most recent element.
func (d *objDecoder) parseCorner(s string) (corner, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return corner{}, fmt.Errorf("%w: face vertex %q", ErrSyntax, s)
	}

	v, err := resolveIndex(parts[0], len(d.positions))
	if err != nil {
		return corner{}, err
	}
	c := corner{v: v, t: -1, n: -1}
	if len(parts) >= 2 && parts[1] != "" {
		if c.t, err = resolveIndex(parts[1], len(d.texcoords)); err != nil {
			return corner{}, err
		}
	}
	if len(parts) == 3 && parts[2] != "" {
		if c.n, err = resolveIndex(parts[2], len(d.normals)); err != nil {
			return corner{}, err
		}
	}
	return c, nil
}

func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", ErrSyntax, s)
	}
	if i < 0 {
		i += count
	} else {
		i--
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("%w: %s of %d", ErrBadIndex, s, count)
	}
	return i, nil
}

// shared returns the index of the vertex for c, adding it on first use.
func (d *objDecoder) shared(c corner) uint32 {
	if idx, ok := d.seen[c]; ok {
		return idx
	}
	idx := d.emit(c, d.normals[c.n])
	d.seen[c] = idx
	return idx
}

func (d *objDecoder) emit(c corner, normal [3]float32) uint32 {
	v := Vertex{Position: d.positions[c.v], Normal: normal}
	if c.t >= 0 {
		v.UV = d.texcoords[c.t]
	}
	idx := uint32(len(d.mesh.Vertices))
	d.mesh.Vertices = append(d.mesh.Vertices, v)
	d.mesh.Bounds.extend(v.Position)
	return idx
}

func (d *objDecoder) faceNormal(tri [3]corner) ([3]float32, bool) {
	p0 := vec(d.positions[tri[0].v])
	p1 := vec(d.positions[tri[1].v])
	p2 := vec(d.positions[tri[2].v])

	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Length() < 1e-8 {
		return [3]float32{}, false
	}
	return n.Normalize().Array(), true
}

func vec(a [3]float32) math.Vec3 {
	return math.V3(a[0], a[1], a[2])
}

func parseVec3(fields []string) ([3]float32, error) {
	var out [3]float32
	if len(fields) < 3 {
		return out, fmt.Errorf("%w: need 3 components, got %d", ErrSyntax, len(fields))
	}
	// A fourth (w) component is allowed and ignored.
	err := parseFloats(fields[:3], out[:])
	return out, err
}

// parseUV reads u and an optional v; a w component is ignored.
func parseUV(fields []string) ([2]float32, error) {
	var out [2]float32
	if len(fields) == 0 {
		return out, fmt.Errorf("%w: texture coordinate without components", ErrSyntax)
	}
	err := parseFloats(fields[:min(len(fields), 2)], out[:])
	return out, err
}

func parseFloats(fields []string, dst []float32) error {
	for i, s := range fields {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		dst[i] = float32(f)
	}
	return nil
}
