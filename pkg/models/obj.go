package models

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
)

// LoadOBJ loads a Wavefront OBJ file. Faces with more than three
// vertices are fan-triangulated. Face indices referring outside the
// declared attribute lists are a load error, never a panic later.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh := NewMesh(filepath.Base(path))

	var (
		positions []math3d.Vec3
		normals   []math3d.Vec3
		uvs       []math3d.Vec2
	)

	// OBJ corners reference position/uv/normal triples independently;
	// each unique triple becomes one mesh vertex.
	corners := make(map[[3]int]int)

	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			positions = append(positions, v)

		case "vn":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			normals = append(normals, v)

		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: texcoord needs 2 components", lineNo)
			}
			u, err1 := strconv.ParseFloat(fields[1], 64)
			v, err2 := strconv.ParseFloat(fields[2], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: invalid texcoord", lineNo)
			}
			uvs = append(uvs, math3d.V2(u, v))

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			face := make([]int, 0, len(fields)-1)
			for _, spec := range fields[1:] {
				vi, err := resolveCorner(spec, positions, normals, uvs, corners, mesh)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				face = append(face, vi)
			}
			// Fan triangulation, winding reversed from OBJ's
			// counter-clockwise to the engine's clockwise.
			for i := 1; i+1 < len(face); i++ {
				mesh.Faces = append(mesh.Faces, [3]int{face[0], face[i+1], face[i]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("obj %s: no triangles", path)
	}

	if len(normals) == 0 {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Zero3(), fmt.Errorf("need 3 components, got %d", len(fields))
	}
	x, err1 := strconv.ParseFloat(fields[0], 64)
	y, err2 := strconv.ParseFloat(fields[1], 64)
	z, err3 := strconv.ParseFloat(fields[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return math3d.Zero3(), fmt.Errorf("invalid float in %q", strings.Join(fields, " "))
	}
	return math3d.V3(x, y, z), nil
}

// resolveCorner parses one "v", "v/vt", "v//vn" or "v/vt/vn" corner
// spec and returns the mesh vertex index for it, adding the vertex on
// first use.
func resolveCorner(spec string, positions, normals []math3d.Vec3, uvs []math3d.Vec2, corners map[[3]int]int, mesh *Mesh) (int, error) {
	parts := strings.Split(spec, "/")

	key := [3]int{0, 0, 0}
	for i := 0; i < len(parts) && i < 3; i++ {
		if parts[i] == "" {
			continue
		}
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return 0, fmt.Errorf("invalid face index %q", spec)
		}
		key[i] = n
	}

	if vi, ok := corners[key]; ok {
		return vi, nil
	}

	var vert render.Vertex

	pi, err := resolveIndex(key[0], len(positions))
	if err != nil {
		return 0, fmt.Errorf("position index %d: %w", key[0], err)
	}
	vert.Position = positions[pi]

	if key[1] != 0 {
		ti, err := resolveIndex(key[1], len(uvs))
		if err != nil {
			return 0, fmt.Errorf("texcoord index %d: %w", key[1], err)
		}
		vert.UV = uvs[ti]
	}
	if key[2] != 0 {
		ni, err := resolveIndex(key[2], len(normals))
		if err != nil {
			return 0, fmt.Errorf("normal index %d: %w", key[2], err)
		}
		vert.Normal = normals[ni]
	}

	vi := len(mesh.Vertices)
	mesh.Vertices = append(mesh.Vertices, vert)
	corners[key] = vi
	return vi, nil
}

// resolveIndex converts a 1-based OBJ index, possibly negative for
// relative addressing, into a 0-based slice index.
func resolveIndex(idx, count int) (int, error) {
	switch {
	case idx > 0 && idx <= count:
		return idx - 1, nil
	case idx < 0 && -idx <= count:
		return count + idx, nil
	default:
		return 0, fmt.Errorf("out of range (have %d)", count)
	}
}
