package reader

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jLantxa/PathTracer/asset"
	"github.com/jLantxa/PathTracer/log"
	"github.com/jLantxa/PathTracer/scene"
	"github.com/jLantxa/PathTracer/types"
)

// Default field of view for scenes that place a camera without setting it.
const defaultSceneFOV = 60.0

type textMaterial struct {
	Name string

	// Diffuse color.
	Kd types.Vec3

	// Emissive color and scaler.
	Ke       types.Vec3
	KeScaler float64

	hasKe       bool
	hasKeScaler bool

	// Material instance shared by all primitives using it.
	instance *scene.Material
}

// Build the scene material. An emission scaler without an emissive color
// scales the diffuse color.
func (tm *textMaterial) Material() *scene.Material {
	if tm.instance != nil {
		return tm.instance
	}

	var emission types.Vec3
	switch {
	case tm.hasKe && tm.hasKeScaler:
		emission = tm.Ke.Mul(tm.KeScaler)
	case tm.hasKe:
		emission = tm.Ke
	case tm.hasKeScaler:
		emission = tm.Kd.Mul(tm.KeScaler)
	}

	tm.instance = &scene.Material{
		Color:    tm.Kd,
		Emission: emission,
	}
	return tm.instance
}

type textSceneReader struct {
	logger log.Logger

	// The parsed scene.
	scene *scene.Scene

	// Parsed materials by name.
	materials map[string]*textMaterial

	// Currently selected material.
	curMaterial *textMaterial

	// Parsed vertices.
	vertexList []types.Vec3

	// An error stack that provides additional error information when
	// scene files include other files (geometry, mat libs e.t.c)
	errStack []string

	// Paths of the resources that are currently being parsed.
	openPaths map[string]struct{}
}

// Create a new text scene reader.
func newTextReader() *textSceneReader {
	return &textSceneReader{
		logger:     log.New("text scene reader"),
		scene:      scene.NewScene(),
		materials:  make(map[string]*textMaterial),
		vertexList: make([]types.Vec3, 0),
		errStack:   make([]string, 0),
		openPaths:  make(map[string]struct{}),
	}
}

// Read scene definition.
func (r *textSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	r.openPaths[sceneRes.Path()] = struct{}{}
	err := r.parse(sceneRes)
	if err != nil {
		return nil, err
	}

	r.logger.Noticef("parsed %d primitives in %d ms", len(r.scene.Primitives), time.Since(start).Nanoseconds()/1e6)
	return r.scene, nil
}

// Generate an error message that also includes any data in the error stack.
func (r *textSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n"))
	} else {
		errMsg = fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n"))
	}

	return errors.New(strings.Trim(errMsg, "\n"))
}

// Push a frame to the error stack.
func (r *textSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *textSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Create and select a default material for surfaces not using one.
func (r *textSceneReader) defaultMaterial() *textMaterial {
	matName := ""

	mat, exists := r.materials[matName]
	if !exists {
		mat = &textMaterial{Kd: scene.DefaultDiffuse}
		r.materials[matName] = mat
	}
	r.curMaterial = mat
	return mat
}

// Get the scene viewpoint, creating a default one if needed.
func (r *textSceneReader) viewpoint() *scene.Viewpoint {
	if r.scene.Viewpoint == nil {
		r.scene.Viewpoint = &scene.Viewpoint{
			Facing: types.Vec3{0, 0, -1},
			FOV:    defaultSceneFOV,
		}
	}
	return r.scene.Viewpoint
}

// Parse the text scene format.
func (r *textSceneReader) parse(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call", "mtllib":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, lineTokens[0]))

			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			incPath := incRes.Path()
			if _, open := r.openPaths[incPath]; open {
				incRes.Close()
				return r.emitError(res.Path(), lineNum, `include cycle: "%s" is already being parsed`, incPath)
			}
			r.openPaths[incPath] = struct{}{}

			switch lineTokens[0] {
			case "call":
				err = r.parse(incRes)
			case "mtllib":
				err = r.parseMaterials(incRes)
			}
			incRes.Close()
			delete(r.openPaths, incPath)

			if err != nil {
				return err
			}
			r.popFrame()
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			mat, exists := r.materials[lineTokens[1]]
			if !exists {
				return r.emitError(res.Path(), lineNum, `undefined material with name "%s"`, lineTokens[1])
			}
			r.curMaterial = mat
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "f":
			prim, err := r.parseFace(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			if err = r.scene.AddPrimitive(prim); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "sphere":
			prim, err := r.parseSphere(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			if err = r.scene.AddPrimitive(prim); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "plane":
			prim, err := r.parsePlane(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			if err = r.scene.AddPrimitive(prim); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "background":
			r.scene.Background, err = parseVec3(lineTokens)
			if err == nil {
				err = checkColor(r.scene.Background)
			}
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "camera_fov":
			fov, err := parseFloat(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			if fov <= 0 || fov >= 180 {
				return r.emitError(res.Path(), lineNum, "camera fov must be in the (0, 180) range; got %g", fov)
			}
			r.viewpoint().FOV = fov
		case "camera_eye":
			r.viewpoint().Eye, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "camera_facing":
			facing, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			if facing.IsZero() {
				return r.emitError(res.Path(), lineNum, "camera facing must not be the zero vector")
			}
			r.viewpoint().Facing = facing
		default:
			r.logger.Debugf(`%s:%d: ignoring unsupported directive "%s"`, res.Path(), lineNum, lineTokens[0])
		}
	}

	return scanner.Err()
}

// Parse a triangular face definition. Each face argument starts with a
// vertex index optionally followed by slash-separated texture and normal
// indices that are ignored. Indices start from 1 and may be negative to
// indicate an offset off the end of the vertex list.
func (r *textSceneReader) parseFace(lineTokens []string) (*scene.Primitive, error) {
	if len(lineTokens) != 4 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected 3 arguments for triangular face; got %d`, len(lineTokens)-1)
	}

	var vertices [3]types.Vec3
	for arg := 0; arg < 3; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")
		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList))
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[vOffset]
	}

	return scene.NewTriangle(vertices[0], vertices[1], vertices[2], r.activeMaterial()), nil
}

// Parse a sphere definition: sphere cX cY cZ radius
func (r *textSceneReader) parseSphere(lineTokens []string) (*scene.Primitive, error) {
	if len(lineTokens) != 5 {
		return nil, fmt.Errorf(`unsupported syntax for "sphere"; expected 4 arguments: cX cY cZ radius; got %d`, len(lineTokens)-1)
	}
	center, err := parseVec3(lineTokens[:4])
	if err != nil {
		return nil, err
	}
	radius, err := strconv.ParseFloat(lineTokens[4], 64)
	if err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, fmt.Errorf("sphere radius must be positive; got %g", radius)
	}
	return scene.NewSphere(center, radius, r.activeMaterial()), nil
}

// Parse a plane definition: plane pX pY pZ nX nY nZ
func (r *textSceneReader) parsePlane(lineTokens []string) (*scene.Primitive, error) {
	if len(lineTokens) != 7 {
		return nil, fmt.Errorf(`unsupported syntax for "plane"; expected 6 arguments: pX pY pZ nX nY nZ; got %d`, len(lineTokens)-1)
	}
	point, err := parseVec3(lineTokens[:4])
	if err != nil {
		return nil, err
	}
	normal, err := parseVec3(append([]string{lineTokens[0]}, lineTokens[4:]...))
	if err != nil {
		return nil, err
	}
	if normal.IsZero() {
		return nil, fmt.Errorf("plane normal must not be the zero vector")
	}
	return scene.NewPlane(point, normal, r.activeMaterial()), nil
}

func (r *textSceneReader) activeMaterial() *scene.Material {
	if r.curMaterial == nil {
		r.defaultMaterial()
	}
	return r.curMaterial.Material()
}

// Parse a material library.
func (r *textSceneReader) parseMaterials(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	r.logger.Infof(`parsing material library "%s"`, res.Path())

	scanner := bufio.NewScanner(res)

	var curMaterial *textMaterial = nil

	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "newmtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName := lineTokens[1]
			if _, exists := r.materials[matName]; exists {
				return r.emitError(res.Path(), lineNum, `material "%s" already defined`, matName)
			}

			curMaterial = &textMaterial{
				Name: matName,
				Kd:   scene.DefaultDiffuse,
			}
			r.materials[matName] = curMaterial
		default:
			if curMaterial == nil {
				return r.emitError(res.Path(), lineNum, `got "%s" without a "newmtl"`, lineTokens[0])
			}

			switch lineTokens[0] {
			case "include":
				if len(lineTokens) != 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}

				baseMaterial, exists := r.materials[lineTokens[1]]
				if !exists || baseMaterial == curMaterial {
					return r.emitError(res.Path(), lineNum, `could not include unknown material "%s"`, lineTokens[1])
				}

				name := curMaterial.Name
				*curMaterial = *baseMaterial
				curMaterial.Name = name
				curMaterial.instance = nil
			case "Kd":
				if curMaterial.Kd, err = parseVec3(lineTokens); err == nil {
					err = checkColor(curMaterial.Kd)
				}
			case "Ke":
				if curMaterial.Ke, err = parseVec3(lineTokens); err == nil {
					err = checkEmission(curMaterial.Ke)
				}
				curMaterial.hasKe = true
			case "Ne":
				curMaterial.KeScaler, err = parseFloat(lineTokens)
				if err == nil && (!(curMaterial.KeScaler >= 0) || math.IsInf(curMaterial.KeScaler, 1)) {
					err = fmt.Errorf("emission must not be negative; got %g", curMaterial.KeScaler)
				}
				curMaterial.hasKeScaler = true
			default:
				r.logger.Debugf(`%s:%d: ignoring unsupported material directive "%s"`, res.Path(), lineNum, lineTokens[0])
			}

			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		}
	}

	return scanner.Err()
}

// Given an index for a face coord calculate the proper offset into the coord
// list. Negative indices reference elements from the end of the coord list.
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
func parseFloat(lineTokens []string) (float64, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	return strconv.ParseFloat(lineTokens[1], 64)
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 64)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = coord
	}
	return v, nil
}
