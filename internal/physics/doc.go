// Package physics provides the gravitational force model and the
// conservation quantities used to check a run.
//
//   - [Gravity]: Newtonian point-mass attraction, implementing [dynamo.ForceModel]
//   - [Energy]: total kinetic plus potential energy
//   - [Momentum]: total linear momentum
//   - [CenterOfMass]: mass-weighted mean position
//
// # Degenerate Configurations
//
// Two bodies at the same position have no defined force direction. [Gravity.Force]
// reports [dynamo.ErrDegenerateConfiguration] instead of producing NaN or Inf:
//
//	f, err := physics.NewGravity().Force(b1, b2)
//	if errors.Is(err, dynamo.ErrDegenerateConfiguration) {
//	    // reject the configuration
//	}
package physics
