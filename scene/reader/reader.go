package reader

import (
	"fmt"
	"math"

	"github.com/jLantxa/PathTracer/asset"
	"github.com/jLantxa/PathTracer/scene"
	"github.com/jLantxa/PathTracer/types"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Read scene from a local file or a http/https URL.
func ReadScene(filename string) (*scene.Scene, error) {
	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return Read(res)
}

// Read a scene from a resource selecting the reader based on the resource
// file extension.
func Read(res *asset.Resource) (*scene.Scene, error) {
	reader, err := readerFor(res.Ext())
	if err != nil {
		return nil, err
	}
	return reader.Read(res)
}

func readerFor(ext string) (Reader, error) {
	switch ext {
	case ".scene", ".obj", ".txt":
		return newTextReader(), nil
	case ".xml":
		return newXMLReader(), nil
	}
	return nil, fmt.Errorf("readScene: unsupported file format %q", ext)
}

// Check that every channel of a surface or background color is in [0, 1].
func checkColor(c types.Color) error {
	for _, ch := range c {
		if !(ch >= 0 && ch <= 1) {
			return fmt.Errorf("color channels must be in the [0, 1] range; got %g %g %g", c[0], c[1], c[2])
		}
	}
	return nil
}

// Check that every channel of an emitted radiance value is finite and not
// negative.
func checkEmission(e types.Vec3) error {
	for _, ch := range e {
		if !(ch >= 0) || math.IsInf(ch, 1) {
			return fmt.Errorf("emission must not be negative; got %g %g %g", e[0], e[1], e[2])
		}
	}
	return nil
}
