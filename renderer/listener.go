package renderer

import "github.com/jLantxa/PathTracer/scene"

// A Listener receives render progress notifications. Listeners may read the
// camera surface while being notified but must not modify it.
type Listener interface {
	// Invoked after each completed block.
	OnPartialResult(sc *scene.Scene, cam *scene.Camera)

	// Invoked once after all blocks and passes complete.
	OnRenderFinished(sc *scene.Scene, cam *scene.Camera)
}

// An adapter for using plain functions as listeners. Nil fields are skipped.
type ListenerFuncs struct {
	PartialResult  func(sc *scene.Scene, cam *scene.Camera)
	RenderFinished func(sc *scene.Scene, cam *scene.Camera)
}

func (lf ListenerFuncs) OnPartialResult(sc *scene.Scene, cam *scene.Camera) {
	if lf.PartialResult != nil {
		lf.PartialResult(sc, cam)
	}
}

func (lf ListenerFuncs) OnRenderFinished(sc *scene.Scene, cam *scene.Camera) {
	if lf.RenderFinished != nil {
		lf.RenderFinished(sc, cam)
	}
}
