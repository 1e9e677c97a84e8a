// Package dynamo provides the core value types shared by the n-body engine.
//
// The package defines the data that flows between the engine's stages:
//
//   - [Vec3]: three-component position/velocity vector
//   - [Body]: point mass with position and velocity
//   - [Frame]: one snapshot of all body positions
//   - [FrameSequence]: the recorded history of a run
//
// # Example
//
//	bodies, _ := resolve.New(n, src).Resolve(directives)
//	rec := sim.New(integrators.NewSemiImplicitEuler())
//	frames, _ := rec.Record(bodies, 10, 60)
//	b := bounds.Compute(frames, false, false)
//
// # Thread Safety
//
// Bodies are mutated in place by the integrator. A body list must be owned by a
// single run at a time; frames returned by a run are independent copies.
package dynamo
