// Package sway drives short-lived visual effects on the nodes of a
// retained-mode 2D scene for [Ebitengine].
//
// Two effect kinds are provided:
//
//   - [TransformEffect] applies a single 4x4 matrix and an opacity from a
//     [TransformModel] every frame. Use it for open/close animations such as
//     fades, zooms and spins.
//   - [GridEffect] subdivides the node into a [GridMesh] and remaps every
//     vertex through a [GridModel] every frame. Use it for non-affine warps.
//
// # Quick start
//
//	scene := sway.NewScene()
//	win := sway.NewSprite("window", img)
//	win.SetPosition(100, 80)
//	scene.Root().AddChild(win)
//
//	model := sway.NewTweenTransform(sway.TransformTween{
//		From:     sway.TransformState{ScaleX: 0.6, ScaleY: 0.6},
//		To:       sway.IdentityState(),
//		Duration: 250 * time.Millisecond,
//		Ease:     ease.OutCubic,
//		PivotX:   win.Width / 2, PivotY: win.Height / 2,
//	})
//	fx := scene.NewTransformEffect(model)
//	win.AddEffect(fx)
//	fx.SetEnabled(true)
//
// Then call [Scene.Update] and [Scene.Draw] from your [ebiten.Game].
//
// # Frame clock
//
// Every effect owns a [FrameClock] that ticks at [FrameInterval] on the
// scene's timer service. A tick converts the monotonic time since the last
// tick into milliseconds (correcting for counter wraparound), skips
// zero-length ticks, and steps the model. When the model reports completion
// the effect cleans up and disables itself.
//
// # Paint volumes
//
// While an effect runs, [Node.PaintVolume] is widened to cover everything
// the node may paint over the rest of the animation, using the extremes the
// model reports for the corners of the node's paint box. The host culls
// against this volume, so it never shrinks below the node's own volume.
//
// # Threading
//
// sway is single-threaded. Effects, nodes and the scene must be used from
// the goroutine running the game loop; timer callbacks are delivered from
// [Scene.Update].
//
// [Ebitengine]: https://ebitengine.org
package sway
