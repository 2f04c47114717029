// Package battery models a rechargeable battery one timestep at a time.
//
// A Battery composes four sub-models: a capacity model (KiBaM or lithium
// ion) tracking charge and state of charge, a voltage model (dynamic or
// basic), a lumped thermal model derating capacity with temperature, and a
// lifetime model counting rainflow cycles over depth of discharge. A Bank
// replicates one Battery across series and parallel strings.
//
// Sign convention throughout: positive current and power discharge the
// battery, negative values charge it. Charge is in Ah, time in hours.
package battery
