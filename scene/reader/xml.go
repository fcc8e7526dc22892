package reader

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jLantxa/PathTracer/asset"
	"github.com/jLantxa/PathTracer/log"
	"github.com/jLantxa/PathTracer/scene"
	"github.com/jLantxa/PathTracer/types"
	"golang.org/x/image/colornames"
)

// Reads scenes described as a <scene> element with one child element per
// camera or primitive.
type xmlSceneReader struct {
	logger log.Logger
}

func newXMLReader() *xmlSceneReader {
	return &xmlSceneReader{
		logger: log.New("xml scene reader"),
	}
}

// Read scene definition.
func (r *xmlSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	sc, err := r.parse(sceneRes)
	if err != nil {
		return nil, err
	}

	r.logger.Noticef("parsed %d primitives in %d ms", len(sc.Primitives), time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

func (r *xmlSceneReader) parse(res *asset.Resource) (*scene.Scene, error) {
	dec := xml.NewDecoder(res)
	emitError := func(msgFormat string, args ...interface{}) error {
		line, _ := dec.InputPos()
		return fmt.Errorf("[%s: %d] error: %s", res.Path(), line, fmt.Sprintf(msgFormat, args...))
	}

	var sc *scene.Scene
	depth := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, emitError("%s", err.Error())
		}

		switch elem := tok.(type) {
		case xml.StartElement:
			depth++
			attrs := attrMap(elem.Attr)
			switch {
			case depth == 1 && elem.Name.Local == "scene":
				if sc != nil {
					return nil, emitError(`duplicate "scene" element`)
				}
				sc = scene.NewScene()
				if bg, ok := attrs["background"]; ok {
					if sc.Background, err = parseColor(bg); err != nil {
						return nil, emitError(`invalid "background" attribute: %s`, err.Error())
					}
					if err = checkColor(sc.Background); err != nil {
						return nil, emitError(`invalid "background" attribute: %s`, err.Error())
					}
				}
			case depth == 1:
				return nil, emitError(`expected root element "scene"; got "%s"`, elem.Name.Local)
			case depth == 2:
				if err = r.parseElement(sc, elem.Name.Local, attrs); err != nil {
					return nil, emitError("%s", err.Error())
				}
			default:
				return nil, emitError(`unexpected nested element "%s"`, elem.Name.Local)
			}
		case xml.EndElement:
			depth--
		}
	}

	if sc == nil {
		return nil, fmt.Errorf("[%s] error: missing \"scene\" element", res.Path())
	}
	return sc, nil
}

func (r *xmlSceneReader) parseElement(sc *scene.Scene, name string, attrs map[string]string) error {
	if name == "camera" {
		return parseXMLCamera(sc, attrs)
	}

	var prim *scene.Primitive
	switch name {
	case "sphere":
		center, err := requiredVec3(attrs, "center")
		if err != nil {
			return err
		}
		radius, err := requiredFloat(attrs, "radius")
		if err != nil {
			return err
		}
		if radius <= 0 {
			return fmt.Errorf("sphere radius must be positive; got %g", radius)
		}
		prim = scene.NewSphere(center, radius, nil)
	case "plane":
		point, err := requiredVec3(attrs, "point")
		if err != nil {
			return err
		}
		normal, err := requiredVec3(attrs, "normal")
		if err != nil {
			return err
		}
		if normal.IsZero() {
			return fmt.Errorf("plane normal must not be the zero vector")
		}
		prim = scene.NewPlane(point, normal, nil)
	case "triangle":
		var vertices [3]types.Vec3
		for index, attr := range []string{"a", "b", "c"} {
			v, err := requiredVec3(attrs, attr)
			if err != nil {
				return err
			}
			vertices[index] = v
		}
		prim = scene.NewTriangle(vertices[0], vertices[1], vertices[2], nil)
	default:
		return fmt.Errorf(`unsupported element "%s"`, name)
	}

	mat, err := parseXMLMaterial(attrs)
	if err != nil {
		return err
	}
	prim.Material = mat

	r.logger.Debugf("parsed %s", prim)
	return sc.AddPrimitive(prim)
}

func parseXMLCamera(sc *scene.Scene, attrs map[string]string) error {
	vp := &scene.Viewpoint{
		Facing: types.Vec3{0, 0, -1},
		FOV:    defaultSceneFOV,
	}

	var err error
	if val, ok := attrs["eye"]; ok {
		if vp.Eye, err = parseVec3String(val); err != nil {
			return fmt.Errorf(`invalid "eye" attribute: %s`, err.Error())
		}
	}
	if val, ok := attrs["facing"]; ok {
		if vp.Facing, err = parseVec3String(val); err != nil {
			return fmt.Errorf(`invalid "facing" attribute: %s`, err.Error())
		}
		if vp.Facing.IsZero() {
			return fmt.Errorf("camera facing must not be the zero vector")
		}
	}
	if val, ok := attrs["fov"]; ok {
		if vp.FOV, err = strconv.ParseFloat(val, 64); err != nil {
			return fmt.Errorf(`invalid "fov" attribute: %s`, err.Error())
		}
		if vp.FOV <= 0 || vp.FOV >= 180 {
			return fmt.Errorf("camera fov must be in the (0, 180) range; got %g", vp.FOV)
		}
	}

	sc.Viewpoint = vp
	return nil
}

// Build a material from the optional color and emission attributes. The
// emitted radiance is color scaled by emission.
func parseXMLMaterial(attrs map[string]string) (*scene.Material, error) {
	color := scene.DefaultDiffuse
	if val, ok := attrs["color"]; ok {
		var err error
		if color, err = parseColor(val); err != nil {
			return nil, fmt.Errorf(`invalid "color" attribute: %s`, err.Error())
		}
		if err = checkColor(color); err != nil {
			return nil, fmt.Errorf(`invalid "color" attribute: %s`, err.Error())
		}
	}

	var strength float64
	if val, ok := attrs["emission"]; ok {
		var err error
		if strength, err = strconv.ParseFloat(val, 64); err != nil {
			return nil, fmt.Errorf(`invalid "emission" attribute: %s`, err.Error())
		}
		if !(strength >= 0) || math.IsInf(strength, 1) {
			return nil, fmt.Errorf("emission must not be negative; got %g", strength)
		}
	}

	if strength == 0 {
		return scene.NewDiffuseMaterial(color), nil
	}
	return scene.NewEmissiveMaterial(color, strength), nil
}

func attrMap(attrs []xml.Attr) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, attr := range attrs {
		out[attr.Name.Local] = strings.TrimSpace(attr.Value)
	}
	return out
}

func requiredVec3(attrs map[string]string, name string) (types.Vec3, error) {
	val, ok := attrs[name]
	if !ok {
		return types.Vec3{}, fmt.Errorf(`missing required attribute "%s"`, name)
	}
	v, err := parseVec3String(val)
	if err != nil {
		return v, fmt.Errorf(`invalid "%s" attribute: %s`, name, err.Error())
	}
	return v, nil
}

func requiredFloat(attrs map[string]string, name string) (float64, error) {
	val, ok := attrs[name]
	if !ok {
		return 0, fmt.Errorf(`missing required attribute "%s"`, name)
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf(`invalid "%s" attribute: %s`, name, err.Error())
	}
	return f, nil
}

// Parse a "x y z" vector. Commas are accepted as separators.
func parseVec3String(val string) (types.Vec3, error) {
	fields := strings.Fields(strings.ReplaceAll(val, ",", " "))
	if len(fields) != 3 {
		return types.Vec3{}, fmt.Errorf("expected 3 components; got %d", len(fields))
	}
	return parseVec3(append([]string{"vec3"}, fields...))
}

// Parse a color given as a CSS color name, a RRGGBB hex value or as "r g b" channels
// in the [0, 1] range.
func parseColor(val string) (types.Color, error) {
	if strings.ContainsAny(val, " ,") {
		return parseVec3String(val)
	}

	if named, exists := colornames.Map[strings.ToLower(val)]; exists {
		return types.Color{float64(named.R) / 255, float64(named.G) / 255, float64(named.B) / 255}, nil
	}

	hex := strings.TrimPrefix(strings.TrimPrefix(val, "#"), "0x")
	if len(hex) != 6 {
		return types.Color{}, fmt.Errorf(`expected a RRGGBB hex color; got "%s"`, val)
	}
	packed, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return types.Color{}, fmt.Errorf(`expected a RRGGBB hex color; got "%s"`, val)
	}
	return types.ColorFromHex(uint32(packed)), nil
}
