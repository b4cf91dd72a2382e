package reader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/hzb-viewer/asset"
	"github.com/achilleasa/hzb-viewer/log"
	"github.com/achilleasa/hzb-viewer/scene"
	"github.com/achilleasa/hzb-viewer/types"
)

// Default vertical fov for scenes that do not define a camera.
const defaultFOV float32 = 54

// wavefrontReader extracts triangle geometry from wavefront object files.
// Only vertex positions and faces are used; normals, texture coordinates and
// material statements are skipped.
type wavefrontReader struct {
	logger log.Logger

	mesh       *scene.Mesh
	vertexList []types.Vec3

	// Optional camera setup
	cameraFOV  float32
	cameraEye  *types.Vec3
	cameraLook *types.Vec3

	// Keywords that were skipped; each one is only reported once.
	skipped map[string]bool
}

func newWavefrontReader(name string) *wavefrontReader {
	return &wavefrontReader{
		logger:     log.New("wavefront reader"),
		mesh:       scene.NewMesh(name),
		vertexList: make([]types.Vec3, 0),
		cameraFOV:  defaultFOV,
		skipped:    make(map[string]bool),
	}
}

// Read a scene from a local or remote (http/https) wavefront object file.
func ReadScene(filename string) (*scene.Scene, error) {
	return ReadSceneContext(context.Background(), filename)
}

// ReadSceneContext is like ReadScene but aborts remote fetches when ctx is
// cancelled.
func ReadSceneContext(ctx context.Context, filename string) (*scene.Scene, error) {
	res, err := asset.Open(ctx, filename)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	if res.Ext() != ".obj" {
		return nil, fmt.Errorf("reader: unsupported file format for %q", filename)
	}
	return Read(res, res.Path())
}

// Read a scene from a stream containing wavefront object data. The name is
// only used for error messages.
func Read(in io.Reader, name string) (*scene.Scene, error) {
	r := newWavefrontReader(name)

	r.logger.Noticef(`parsing scene from "%s"`, name)
	start := time.Now()
	if err := r.parse(in, name); err != nil {
		return nil, err
	}
	r.logger.Noticef("parsed %d vertices and %d triangles in %d ms", len(r.mesh.Vertices), len(r.mesh.Triangles), time.Since(start).Nanoseconds()/1e6)

	sc := scene.NewScene()
	if err := sc.AddMesh(r.mesh); err != nil {
		return nil, err
	}
	sc.SetCamera(r.camera(sc.Mesh.BBox()))
	return sc, nil
}

// Setup the scene camera. Without explicit camera statements the camera is
// placed in front of the mesh looking at its center.
func (r *wavefrontReader) camera(bbox scene.AABB) *scene.Camera {
	camera := scene.NewCamera(r.cameraFOV)

	look := bbox.Center()
	if r.cameraLook != nil {
		look = *r.cameraLook
	}

	if r.cameraEye != nil {
		camera.Position = *r.cameraEye
	} else if !bbox.IsEmpty() {
		extent := bbox.Max.Sub(bbox.Min).Len()
		camera.Position = look.Add(types.XYZ(0, 0, extent))
	}

	camera.LookAt(look)
	return camera
}

func (r *wavefrontReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	return fmt.Errorf("[%s: %d] error: %s", file, line, fmt.Sprintf(msgFormat, args...))
}

func (r *wavefrontReader) parse(in io.Reader, name string) error {
	var lineNum int = 0
	var err error

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(name, lineNum, err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "f":
			tris, err := r.parseFace(lineTokens)
			if err != nil {
				return r.emitError(name, lineNum, err.Error())
			}
			r.mesh.Triangles = append(r.mesh.Triangles, tris...)
		case "camera_fov":
			r.cameraFOV, err = parseFloat32(lineTokens)
			if err != nil {
				return r.emitError(name, lineNum, err.Error())
			}
		case "camera_eye":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(name, lineNum, err.Error())
			}
			r.cameraEye = &v
		case "camera_look":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(name, lineNum, err.Error())
			}
			r.cameraLook = &v
		default:
			if !r.skipped[lineTokens[0]] {
				r.skipped[lineTokens[0]] = true
				r.logger.Debugf("skipping unsupported statement %q", lineTokens[0])
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return fmt.Errorf("reader: %s: %w", name, err)
	}

	r.mesh.Vertices = r.vertexList
	return nil
}

// Parse a face statement and fan-triangulate it. Each face argument may use
// any of the v, v/vt, v//vn or v/vt/vn forms; only the vertex index is used.
func (r *wavefrontReader) parseFace(lineTokens []string) ([]scene.Triangle, error) {
	if len(lineTokens) < 4 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	indices := make([]uint32, len(lineTokens)-1)
	for arg := range indices {
		vTokens := strings.Split(lineTokens[arg+1], "/")
		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList))
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		indices[arg] = uint32(vOffset)
	}

	tris := make([]scene.Triangle, 0, len(indices)-2)
	for i := 1; i < len(indices)-1; i++ {
		tris = append(tris, scene.Triangle{indices[0], indices[i], indices[i+1]})
	}
	return tris, nil
}

// Convert a 1-based (or negative, relative to the end of the list) face
// coordinate index into a 0-based offset.
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = int(index - 1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a float scalar value.
func parseFloat32(lineTokens []string) (float32, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	val, err := strconv.ParseFloat(lineTokens[1], 32)
	if err != nil {
		return 0, err
	}
	return float32(val), nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
