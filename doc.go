/*
Copyright © 2017 the ClusterDyn authors.
This file is part of ClusterDyn.

ClusterDyn is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ClusterDyn is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ClusterDyn.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package clusterdyn models the evolution of helium, vacancy, and
// interstitial defect clusters in an irradiated material on a
// one-dimensional grid below the surface.
//
// A ReactionNetwork holds the tracked clusters and the reactions
// among them; a SolverHandler assembles the right-hand side and
// Jacobian of the resulting reaction-advection-diffusion system for an
// external implicit time integrator, with a reference explicit driver
// included for testing and small studies.
package clusterdyn
