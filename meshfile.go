package fold

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/titanous/json5"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// Mesh file formats.
const (
	FormatYAML  = "yaml"
	FormatJSON5 = "json5"
)

// meshFile is the on-disk layout of a mesh. Edges are stored as
// [v0, v1, match, angle] with the fold angle in degrees, angle optional.
type meshFile struct {
	Vertices [][]float64 `yaml:"vertices,flow" json:"vertices"`
	Edges    [][]float64 `yaml:"edges,flow" json:"edges"`
	Faces    [][]int     `yaml:"faces,flow" json:"faces"`
}

// LoadMesh reads and validates a mesh file. The format is picked from the
// file extension: .json and .json5 are JSON5, anything else is YAML.
func LoadMesh(path string) (*Mesh, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	format := FormatYAML
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".json5":
		format = FormatJSON5
	}
	m, err := ReadMesh(fp, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ReadMesh decodes a mesh in the given format and validates it.
func ReadMesh(r io.Reader, format string) (*Mesh, error) {
	var mf meshFile
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&mf); err != nil {
			return nil, err
		}
	case FormatJSON5:
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if err := json5.Unmarshal(b, &mf); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown mesh format %q", format)
	}
	m, err := mf.mesh()
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// WriteMesh encodes m as YAML.
func WriteMesh(w io.Writer, m *Mesh) error {
	mf := meshFile{
		Vertices: make([][]float64, len(m.Vertices)),
		Edges:    make([][]float64, len(m.Edges)),
		Faces:    make([][]int, len(m.Faces)),
	}
	for i, v := range m.Vertices {
		mf.Vertices[i] = []float64{v.X, v.Y, v.Z}
	}
	for i, e := range m.Edges {
		mf.Edges[i] = []float64{float64(e.V[0]), float64(e.V[1]), float64(e.Match), e.Angle * 180 / math.Pi}
	}
	for i, f := range m.Faces {
		mf.Faces[i] = []int{f[0], f[1], f[2]}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&mf); err != nil {
		return err
	}
	return enc.Close()
}

// SaveMesh writes m as YAML to path.
func SaveMesh(path string, m *Mesh) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := WriteMesh(fp, m); err != nil {
		return err
	}
	return fp.Close()
}

func (mf *meshFile) mesh() (*Mesh, error) {
	if len(mf.Vertices) == 0 {
		return nil, errors.New("mesh file has no vertices")
	}
	m := &Mesh{
		Vertices: make([]r3.Vec, len(mf.Vertices)),
		Edges:    make([]Edge, len(mf.Edges)),
		Faces:    make([]Face, len(mf.Faces)),
	}
	for i, v := range mf.Vertices {
		if len(v) != 3 {
			return nil, fmt.Errorf("vertex %d: want [x, y, z], got %d values", i, len(v))
		}
		m.Vertices[i] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	}
	for i, e := range mf.Edges {
		if len(e) != 3 && len(e) != 4 {
			return nil, fmt.Errorf("edge %d: want [v0, v1, match] or [v0, v1, match, angle], got %d values", i, len(e))
		}
		var ints [3]int
		for k := range ints {
			if e[k] != math.Trunc(e[k]) {
				return nil, fmt.Errorf("edge %d: value %g must be an integer", i, e[k])
			}
			ints[k] = int(e[k])
		}
		m.Edges[i] = Edge{V: [2]int{ints[0], ints[1]}, Match: ints[2]}
		if len(e) == 4 {
			m.Edges[i].Angle = e[3] * math.Pi / 180
		}
	}
	for i, f := range mf.Faces {
		if len(f) != 3 {
			return nil, fmt.Errorf("face %d: want 3 vertex indices, got %d", i, len(f))
		}
		m.Faces[i] = Face{f[0], f[1], f[2]}
	}
	return m, nil
}
