package reader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jLantxa/PathTracer/asset"
	"github.com/jLantxa/PathTracer/scene"
	"github.com/jLantxa/PathTracer/types"
)

func writeFiles(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestFloatParser(t *testing.T) {
	expError := `unsupported syntax for "camera_fov"; expected 1 argument; got 0`
	_, err := parseFloat([]string{"camera_fov"})
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}

	_, err = parseFloat([]string{"camera_fov", "not-a-float"})
	if err == nil {
		t.Fatal("expected to get a parse error")
	}

	v, err := parseFloat([]string{"camera_fov", "3.14"})
	if err != nil {
		t.Fatal(err)
	}
	if v != 3.14 {
		t.Fatalf("expected parsed value to be 3.14; got %f", v)
	}
}

func TestVec3Parser(t *testing.T) {
	expError := `unsupported syntax for "v"; expected 3 arguments; got 0`
	_, err := parseVec3([]string{"v"})
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}

	_, err = parseVec3([]string{"v", "not-a-float", "2", "3"})
	if err == nil {
		t.Fatal("expected to get a parse error")
	}

	v, err := parseVec3([]string{"v", "3.14", "0", "0.4"})
	if err != nil {
		t.Fatal(err)
	}
	if exp := (types.Vec3{3.14, 0, 0.4}); v != exp {
		t.Fatalf("expected parsed value to be %v; got %v", exp, v)
	}
}

func TestSelectFaceCoordinate(t *testing.T) {
	expError := "index out of bounds"
	type spec struct {
		in       string
		listLen  int
		out      int
		expError string
	}
	specs := []spec{
		{"2", 1, -1, expError},
		{"-2", 1, -1, expError},
		{"0", 1, -1, expError},
		{"1", 10, 0, ""}, // indices are 1-based
		{"-1", 10, 9, ""},
	}

	for idx, s := range specs {
		v, err := selectFaceCoordIndex(s.in, s.listLen)
		if s.expError != "" && (err == nil || err.Error() != s.expError) {
			t.Fatalf("[spec %d] expected error %s; got %v", idx, s.expError, err)
		} else if v != s.out {
			t.Fatalf("[spec %d] expected index to be %d; got %d", idx, s.out, v)
		}
	}
}

func TestReadTextScene(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"room.scene": `
# A small test scene
background 0.1 0.2 0.3
camera_eye 0 1 2
camera_facing 0 0 -1
camera_fov 45
mtllib room.mtl

v 0 0 -5
v 1 0 -5
v 0 1 -5
usemtl red
f 1 2 3
f -3/1 -2/2 -1/3

usemtl lamp
sphere 0 5 -5 1

usemtl blue
plane 0 -1 0 0 2 0
`,
		"room.mtl": `
newmtl red
Kd 1 0 0

newmtl lamp
Kd 1 1 1
Ne 10

newmtl blue
include red
Kd 0 0 1
Ke 0.5 0.5 0.5
`,
	})

	sc, err := ReadScene(filepath.Join(dir, "room.scene"))
	if err != nil {
		t.Fatal(err)
	}

	if exp := (types.Vec3{0.1, 0.2, 0.3}); sc.Background != exp {
		t.Fatalf("expected background %v; got %v", exp, sc.Background)
	}

	expViewpoint := &scene.Viewpoint{
		Eye:    types.Vec3{0, 1, 2},
		Facing: types.Vec3{0, 0, -1},
		FOV:    45,
	}
	if diff := cmp.Diff(expViewpoint, sc.Viewpoint); diff != "" {
		t.Fatalf("unexpected viewpoint (-want +got):\n%s", diff)
	}

	expTypes := []scene.PrimitiveType{scene.TrianglePrimitive, scene.TrianglePrimitive, scene.SpherePrimitive, scene.PlanePrimitive}
	if len(sc.Primitives) != len(expTypes) {
		t.Fatalf("expected %d primitives; got %d", len(expTypes), len(sc.Primitives))
	}
	for index, prim := range sc.Primitives {
		if prim.Type != expTypes[index] {
			t.Fatalf("[prim %d] expected type %s; got %s", index, expTypes[index], prim.Type)
		}
	}

	if sc.Primitives[0].Vertices != sc.Primitives[1].Vertices {
		t.Fatal("expected positive and negative face indices to select the same vertices")
	}
	if sc.Primitives[0].Material != sc.Primitives[1].Material {
		t.Fatal("expected primitives using the same material to share a material instance")
	}

	expMaterials := []scene.Material{
		{Color: types.Vec3{1, 0, 0}},
		{Color: types.Vec3{1, 0, 0}},
		{Color: types.Vec3{1, 1, 1}, Emission: types.Vec3{10, 10, 10}},
		{Color: types.Vec3{0, 0, 1}, Emission: types.Vec3{0.5, 0.5, 0.5}},
	}
	for index, prim := range sc.Primitives {
		if diff := cmp.Diff(expMaterials[index], *prim.Material); diff != "" {
			t.Fatalf("[prim %d] unexpected material (-want +got):\n%s", index, diff)
		}
	}

	plane := sc.Primitives[3]
	if exp := (types.Vec3{0, 1, 0}); plane.Normal != exp {
		t.Fatalf("expected plane normal to be normalized to %v; got %v", exp, plane.Normal)
	}
}

func TestTextSceneDefaultMaterial(t *testing.T) {
	res := asset.NewResourceFromStream("inline.scene", strings.NewReader("sphere 0 0 0 1"))
	sc, err := newTextReader().Read(res)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Viewpoint != nil {
		t.Fatalf("expected no viewpoint; got %+v", sc.Viewpoint)
	}
	if got := sc.Primitives[0].Material.Color; got != scene.DefaultDiffuse {
		t.Fatalf("expected default material color %v; got %v", scene.DefaultDiffuse, got)
	}
}

func TestTextSceneErrors(t *testing.T) {
	type spec struct {
		payload  string
		expError string
	}
	specs := []spec{
		{"usemtl missing", `[inline.scene: 1] error: undefined material with name "missing"`},
		{"v 0 0 0\nf 1 2 3", "[inline.scene: 2] error: could not parse vertex coord for face argument 1: index out of bounds"},
		{"v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nf 1 2 3 4", `[inline.scene: 5] error: unsupported syntax for "f"; expected 3 arguments for triangular face; got 4`},
		{"sphere 0 0 0 -1", "[inline.scene: 1] error: sphere radius must be positive; got -1"},
		{"sphere 0 0 0", `[inline.scene: 1] error: unsupported syntax for "sphere"; expected 4 arguments: cX cY cZ radius; got 3`},
		{"plane 0 0 0 0 0 0", "[inline.scene: 1] error: plane normal must not be the zero vector"},
		{"camera_fov 180", "[inline.scene: 1] error: camera fov must be in the (0, 180) range; got 180"},
		{"\n\nmtllib", `[inline.scene: 3] error: unsupported syntax for "mtllib"; expected 1 argument; got 0`},
		{"background -0.5 0 0", "[inline.scene: 1] error: color channels must be in the [0, 1] range; got -0.5 0 0"},
		{"\nbackground 0 2 0", "[inline.scene: 2] error: color channels must be in the [0, 1] range; got 0 2 0"},
	}

	for index, s := range specs {
		res := asset.NewResourceFromStream("inline.scene", strings.NewReader(s.payload))
		_, err := newTextReader().Read(res)
		if err == nil || err.Error() != s.expError {
			t.Fatalf("[spec %d] expected error:\n%s\ngot:\n%v", index, s.expError, err)
		}
	}
}

func TestTextSceneIncludeErrorStack(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.scene": "call geometry.scene\n",
		"geometry.scene": "v 0 0 0\nusemtl missing\n",
	})

	mainPath := filepath.Join(dir, "main.scene")
	_, err := ReadScene(mainPath)
	if err == nil {
		t.Fatal("expected an error")
	}

	expError := strings.Join([]string{
		`[` + filepath.Join(dir, "geometry.scene") + `: 2] error: undefined material with name "missing"`,
		`referenced from ` + mainPath + `:1 [call]`,
	}, "\n")
	if err.Error() != expError {
		t.Fatalf("expected error:\n%s\ngot:\n%s", expError, err.Error())
	}
}

func TestMaterialLibraryErrors(t *testing.T) {
	type spec struct {
		mtl      string
		expError string
	}
	specs := []spec{
		{"Kd 1 1 1", `got "Kd" without a "newmtl"`},
		{"newmtl a\nnewmtl a", `material "a" already defined`},
		{"newmtl a\ninclude b", `could not include unknown material "b"`},
		{"newmtl a\nKe 1 x 1", `invalid syntax`},
		{"newmtl a\nKd -1 0.5 2", `[0, 1] range; got -1 0.5 2`},
		{"newmtl a\nKd 0.5 0.5 1.5", `[0, 1] range; got 0.5 0.5 1.5`},
		{"newmtl a\nKe 1 -1 1", `emission must not be negative; got 1 -1 1`},
		{"newmtl a\nNe -2", `emission must not be negative; got -2`},
		{"newmtl a\nNe NaN", `emission must not be negative; got NaN`},
	}

	for index, s := range specs {
		dir := writeFiles(t, map[string]string{
			"main.scene": "mtllib lib.mtl\n",
			"lib.mtl":    s.mtl,
		})
		_, err := ReadScene(filepath.Join(dir, "main.scene"))
		if err == nil || !strings.Contains(err.Error(), s.expError) {
			t.Fatalf("[spec %d] expected error containing %q; got %v", index, s.expError, err)
		}
	}
}

func TestMaterialLibraryErrorPosition(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.scene": "mtllib lib.mtl\n",
		"lib.mtl":    "newmtl a\nKd 0.5 0.5 0.5\nKe 1 1 -1\n",
	})

	mainPath := filepath.Join(dir, "main.scene")
	_, err := ReadScene(mainPath)
	expError := strings.Join([]string{
		`[` + filepath.Join(dir, "lib.mtl") + `: 3] error: emission must not be negative; got 1 1 -1`,
		`referenced from ` + mainPath + `:1 [mtllib]`,
	}, "\n")
	if err == nil || err.Error() != expError {
		t.Fatalf("expected error:\n%s\ngot:\n%v", expError, err)
	}
}

func TestTextSceneIncludeCycle(t *testing.T) {
	type spec struct {
		files map[string]string
		entry string
	}
	specs := []spec{
		{map[string]string{"a.scene": "sphere 0 0 0 1\ncall a.scene\n"}, "a.scene"},
		{map[string]string{"a.scene": "call b.scene\n", "b.scene": "call a.scene\n"}, "a.scene"},
		{map[string]string{"a.scene": "mtllib a.scene\n"}, "a.scene"},
	}

	for index, s := range specs {
		dir := writeFiles(t, s.files)
		_, err := ReadScene(filepath.Join(dir, s.entry))
		if err == nil || !strings.Contains(err.Error(), "include cycle") {
			t.Fatalf("[spec %d] expected an include cycle error; got %v", index, err)
		}
		if len(err.Error()) > 1024 {
			t.Fatalf("[spec %d] expected a short error message; got %d bytes", index, len(err.Error()))
		}
	}

	// Including the same file twice without nesting is allowed
	dir := writeFiles(t, map[string]string{
		"main.scene": "mtllib lib.mtl\nmtllib lib.mtl\ncall geometry.scene\ncall geometry.scene\n",
		"lib.mtl":    "",
		"geometry.scene": "sphere 0 0 0 1\n",
	})
	sc, err := ReadScene(filepath.Join(dir, "main.scene"))
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Primitives) != 2 {
		t.Fatalf("expected 2 primitives; got %d", len(sc.Primitives))
	}
}

func TestUnsupportedSceneFormat(t *testing.T) {
	res := asset.NewResourceFromStream("scene.zip", strings.NewReader(""))
	if _, err := Read(res); err == nil {
		t.Fatal("expected an error for an unsupported scene format")
	}
}
