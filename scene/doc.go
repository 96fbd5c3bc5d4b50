// Package scene orchestrates one display path: a scene controller, its
// layer mixer, the channels mounted on it, optional write-back taps and
// the timing generator that drives it.
//
// Configuration writes go to a [dpu.Target] chosen with [WithTarget]
// (the next-frame batch by default) and take effect after [Scene.ConfigReady].
// Bring-up follows the hardware sequence:
//
//	s, _ := scene.New(ctl, mixer)
//	s.MountChannel(ch)
//	s.ConfigureLayer(scene.Layer{Stage: 0, Channel: ch, Dst: rect, Blend: intent})
//	s.MountTiming(itgen, mode)
//	s.ConfigReady(dpu.Frame())
//	s.Flush(mgr, consumer)
//	s.Enable(ctx)
//
// Enable pulses the scene clear and waits for the hardware acknowledge with
// a bounded poll before starting the scene.
package scene
