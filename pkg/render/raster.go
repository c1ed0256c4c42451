package render

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/orrery/pkg/math3d"
)

// MeshSource provides geometry to the pipeline without importing the
// models package.
type MeshSource interface {
	VertexCount() int
	TriangleCount() int
	Vertex(i int) Vertex
	Face(i int) [3]int
}

// BoundedMeshSource extends MeshSource with a bounding sphere for
// frustum culling.
type BoundedMeshSource interface {
	MeshSource
	BoundingSphere() (center math3d.Vec3, radius float64)
}

// CullingStats tracks per-frame frustum culling counts.
type CullingStats struct {
	Tested int
	Culled int
	Drawn  int
}

// drawCmd is one screen triangle queued for the opaque pass, bound to
// its fragment shader.
type drawCmd struct {
	tri   ScreenTriangle
	shade ShadeFunc
}

// Rasterizer drives the software pipeline: vertex transform, triangle
// assembly, rasterization, shading, and framebuffer writes. Opaque
// draws are queued and flushed so the rasterization work can be
// scattered over disjoint row bands; transparent draws happen
// immediately after the flush, back-to-front.
type Rasterizer struct {
	camera   *Camera
	fb       *Framebuffer
	viewport math3d.Mat4

	frustum      Frustum
	frustumDirty bool

	// Workers is the number of row bands the opaque pass is split
	// into. Values below 2 mean single-threaded rasterization.
	Workers int

	// DisableBackfaceCulling renders both sides of every triangle.
	DisableBackfaceCulling bool

	CullingStats CullingStats

	queue []drawCmd
}

// NewRasterizer creates a rasterizer drawing into fb through camera.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	return &Rasterizer{
		camera:       camera,
		fb:           fb,
		viewport:     math3d.Viewport(float64(fb.Width), float64(fb.Height)),
		frustumDirty: true,
	}
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int { return r.fb.Width }

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int { return r.fb.Height }

// InvalidateFrustum marks the cached frustum planes stale. Call when
// the camera moves or rotates.
func (r *Rasterizer) InvalidateFrustum() {
	r.frustumDirty = true
}

// Frustum returns the current frustum planes, recomputing if stale.
func (r *Rasterizer) Frustum() Frustum {
	if r.frustumDirty {
		r.frustum = ExtractFrustum(r.camera.ViewProjectionMatrix())
		r.frustumDirty = false
	}
	return r.frustum
}

// Begin starts a frame: resets the opaque queue and culling stats and
// refreshes the frustum.
func (r *Rasterizer) Begin() {
	r.queue = r.queue[:0]
	r.CullingStats = CullingStats{}
	r.frustumDirty = true
	r.Frustum()
}

// cullMesh tests a mesh's bounding sphere under the model transform
// against the view frustum. Returns true if the mesh is not visible.
func (r *Rasterizer) cullMesh(mesh MeshSource, model math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshSource)
	if !ok {
		return false
	}
	r.CullingStats.Tested++

	center, radius := bounded.BoundingSphere()
	worldCenter := model.MulVec3(center)
	worldRadius := radius * maxScale(model)
	if !r.Frustum().IntersectsSphere(worldCenter, worldRadius) {
		r.CullingStats.Culled++
		return true
	}
	r.CullingStats.Drawn++
	return false
}

// maxScale returns the largest basis-vector length of a transform,
// an upper bound for how much it can stretch a radius.
func maxScale(m math3d.Mat4) float64 {
	sx := math3d.V3(m[0], m[1], m[2]).Len()
	sy := math3d.V3(m[4], m[5], m[6]).Len()
	sz := math3d.V3(m[8], m[9], m[10]).Len()
	return math.Max(sx, math.Max(sy, sz))
}

// transformVertices runs the vertex stage once per mesh vertex.
func (r *Rasterizer) transformVertices(mesh MeshSource, model math3d.Mat4) []clipVertex {
	viewProj := r.camera.ViewProjectionMatrix()
	mvp := viewProj.Mul(model)

	verts := make([]clipVertex, mesh.VertexCount())
	for i := range verts {
		v := mesh.Vertex(i)
		verts[i] = clipVertex{
			Pos:    mvp.MulVec4(math3d.V4FromV3(v.Position, 1)),
			Local:  v.Position,
			World:  model.MulVec3(v.Position),
			Normal: model.MulVec3Dir(v.Normal).Normalize(),
			UV:     v.UV,
		}
	}
	return verts
}

// DrawMesh queues an opaque mesh for rasterization. The shade function
// is evaluated per fragment during Flush.
func (r *Rasterizer) DrawMesh(mesh MeshSource, model math3d.Mat4, shade ShadeFunc) {
	if r.cullMesh(mesh, model) {
		return
	}
	verts := r.transformVertices(mesh, model)
	cull := !r.DisableBackfaceCulling

	var tris []ScreenTriangle
	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.Face(i)
		tris = assembleTriangle(verts[face[0]], verts[face[1]], verts[face[2]], r.viewport, cull, tris[:0])
		for _, tri := range tris {
			r.queue = append(r.queue, drawCmd{tri: tri, shade: shade})
		}
	}
}

// Flush rasterizes all queued opaque triangles. With Workers > 1 the
// framebuffer is split into disjoint horizontal bands and each band is
// rasterized by its own goroutine; no two workers ever touch the same
// pixel, so the depth-test invariant holds without locking.
func (r *Rasterizer) Flush() {
	if len(r.queue) == 0 {
		return
	}
	if r.Workers < 2 {
		for _, cmd := range r.queue {
			r.rasterize(cmd.tri, cmd.shade, 0, r.fb.Height, false)
		}
		return
	}

	bandHeight := (r.fb.Height + r.Workers - 1) / r.Workers
	var g errgroup.Group
	for band := 0; band < r.Workers; band++ {
		yLo := band * bandHeight
		yHi := min(yLo+bandHeight, r.fb.Height)
		if yLo >= yHi {
			break
		}
		g.Go(func() error {
			for _, cmd := range r.queue {
				r.rasterize(cmd.tri, cmd.shade, yLo, yHi, false)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
}

// DrawMeshBlend rasterizes a transparent mesh immediately, compositing
// fragments by alpha over the opaque result. Callers must invoke it
// after Flush and order transparent meshes back-to-front.
func (r *Rasterizer) DrawMeshBlend(mesh MeshSource, model math3d.Mat4, shade ShadeFunc) {
	if r.cullMesh(mesh, model) {
		return
	}
	verts := r.transformVertices(mesh, model)
	cull := !r.DisableBackfaceCulling

	var tris []ScreenTriangle
	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.Face(i)
		tris = assembleTriangle(verts[face[0]], verts[face[1]], verts[face[2]], r.viewport, cull, tris[:0])
		for _, tri := range tris {
			r.rasterize(tri, shade, 0, r.fb.Height, true)
		}
	}
}

// edgeCoeffs computes coefficients for the edge function
// E(x,y) = A*x + B*y + C along the directed edge (x0,y0) -> (x1,y1).
// E is positive on the interior side for positive-area triangles.
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

// topLeft reports whether an edge with the given coefficients is a top
// or left edge. Pixels exactly on a shared edge belong to the triangle
// for which that edge is top or left, so adjacent triangles never
// double-shade a pixel or leave a gap.
func topLeft(A, B float64) bool {
	return A > 0 || (A == 0 && B > 0)
}

// covered applies the top-left fill rule to one edge function value.
func covered(w, A, B float64) bool {
	if w > 0 {
		return true
	}
	return w == 0 && topLeft(A, B)
}

// rasterize walks the triangle's bounding box clamped to the
// framebuffer and the [yLo, yHi) row band, emitting a shaded fragment
// per covered pixel. Edge functions are stepped incrementally;
// attribute interpolation is perspective-correct (barycentric weights
// scaled by 1/w and renormalized).
func (r *Rasterizer) rasterize(tri ScreenTriangle, shade ShadeFunc, yLo, yHi int, blend bool) {
	v := &tri.V

	minX := int(math.Max(0, math.Floor(min3(v[0].X, v[1].X, v[2].X))))
	maxX := int(math.Min(float64(r.fb.Width-1), math.Ceil(max3(v[0].X, v[1].X, v[2].X))))
	minY := int(math.Max(float64(yLo), math.Floor(min3(v[0].Y, v[1].Y, v[2].Y))))
	maxY := int(math.Min(float64(yHi-1), math.Ceil(max3(v[0].Y, v[1].Y, v[2].Y))))
	if minX > maxX || minY > maxY {
		return
	}

	// Edge 0 opposes vertex 0, and so on.
	A0, B0, C0 := edgeCoeffs(v[1].X, v[1].Y, v[2].X, v[2].Y)
	A1, B1, C1 := edgeCoeffs(v[2].X, v[2].Y, v[0].X, v[0].Y)
	A2, B2, C2 := edgeCoeffs(v[0].X, v[0].Y, v[1].X, v[1].Y)

	area2 := signedArea2(v[0], v[1], v[2])
	if area2 <= 0 {
		return
	}
	invArea := 1.0 / area2

	var invW [3]float64
	for i := range 3 {
		if v[i].W != 0 {
			invW[i] = 1.0 / v[i].W
		}
	}

	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := A0*px + B0*py + C0
	w1Row := A1*px + B1*py + C1
	w2Row := A2*px + B2*py + C2

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row

		for x := minX; x <= maxX; x++ {
			if covered(w0, A0, B0) && covered(w1, A1, B1) && covered(w2, A2, B2) {
				bc0 := w0 * invArea
				bc1 := w1 * invArea
				bc2 := w2 * invArea

				// Depth interpolates linearly in screen space.
				z := bc0*v[0].Z + bc1*v[1].Z + bc2*v[2].Z

				// Perspective-correct weights for the remaining
				// attributes.
				pw0 := bc0 * invW[0]
				pw1 := bc1 * invW[1]
				pw2 := bc2 * invW[2]
				oneOverW := pw0 + pw1 + pw2
				if oneOverW != 0 {
					inv := 1.0 / oneOverW
					pw0 *= inv
					pw1 *= inv
					pw2 *= inv

					frag := Fragment{
						X:     x,
						Y:     y,
						Depth: z,
						Local: math3d.V3(
							pw0*v[0].Local.X+pw1*v[1].Local.X+pw2*v[2].Local.X,
							pw0*v[0].Local.Y+pw1*v[1].Local.Y+pw2*v[2].Local.Y,
							pw0*v[0].Local.Z+pw1*v[1].Local.Z+pw2*v[2].Local.Z,
						),
						World: math3d.V3(
							pw0*v[0].World.X+pw1*v[1].World.X+pw2*v[2].World.X,
							pw0*v[0].World.Y+pw1*v[1].World.Y+pw2*v[2].World.Y,
							pw0*v[0].World.Z+pw1*v[1].World.Z+pw2*v[2].World.Z,
						),
						Normal: math3d.V3(
							pw0*v[0].Normal.X+pw1*v[1].Normal.X+pw2*v[2].Normal.X,
							pw0*v[0].Normal.Y+pw1*v[1].Normal.Y+pw2*v[2].Normal.Y,
							pw0*v[0].Normal.Z+pw1*v[1].Normal.Z+pw2*v[2].Normal.Z,
						).Normalize(),
						UV: math3d.V2(
							pw0*v[0].UV.X+pw1*v[1].UV.X+pw2*v[2].UV.X,
							pw0*v[0].UV.Y+pw1*v[1].UV.Y+pw2*v[2].UV.Y,
						),
					}

					c := shade(frag)
					if blend {
						if c.A != 0 {
							r.fb.BlendWrite(x, y, c, z)
						}
					} else {
						r.fb.Write(x, y, c, z)
					}
				}
			}

			w0 += A0
			w1 += A1
			w2 += A2
		}

		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
