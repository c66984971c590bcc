// Package dynamo provides the core types for classical nuclear dynamics on a
// one-dimensional potential energy surface.
//
//   - [State]: bond separation and its rate of change
//   - [Trajectory]: states on a uniform time grid
//   - [Integrator]: one time step under a force field
//   - [Observer], [Metric]: per-step hooks run by the driver
//
// All quantities are in atomic units: bohr, hartree, electron masses and
// atomic time units.
//
// # Example
//
//	force := field.ForceField(spline)
//	s := sim.New(integrators.NewVelocityVerlet())
//	traj, _ := s.Run(ctx, x0, mu, force, 0.1, 1000)
package dynamo
