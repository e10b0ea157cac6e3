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

package clusterdyn

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
)

// Outputter evaluates user-defined expressions over per-point derived
// quantities of the simulation state.
type Outputter struct {
	outputVariables map[string]string
	expressions     map[string]*govaluate.EvaluableExpression
	functions       map[string]govaluate.ExpressionFunction
}

// The derived quantities available to output expressions at every
// interior grid point.
var outputBaseVariables = []string{
	"Depth",               // distance below the surface [nm]
	"HeliumContent",       // helium atoms per volume over all clusters
	"VacancyContent",      // vacancies per volume over all clusters
	"InterstitialContent", // interstitials per volume over all clusters
	"MobileHelium",        // helium atoms per volume in mobile clusters
}

// NewOutputter creates an Outputter from a map of output variable
// names to expressions. Expressions may reference the built-in derived
// quantities and other output variables. funcs adds to the default
// expression functions (exp, sqrt, log, log10, sum).
func NewOutputter(outputVariables map[string]string, funcs ...map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	defaultFuncs := map[string]govaluate.ExpressionFunction{
		"exp": func(args ...interface{}) (interface{}, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("exp expects 1 argument, got %d", len(args))
			}
			return math.Exp(args[0].(float64)), nil
		},
		"sqrt": func(args ...interface{}) (interface{}, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("sqrt expects 1 argument, got %d", len(args))
			}
			return math.Sqrt(args[0].(float64)), nil
		},
		"log": func(args ...interface{}) (interface{}, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("log expects 1 argument, got %d", len(args))
			}
			return math.Log(args[0].(float64)), nil
		},
		"log10": func(args ...interface{}) (interface{}, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("log10 expects 1 argument, got %d", len(args))
			}
			return math.Log10(args[0].(float64)), nil
		},
		"sum": func(args ...interface{}) (interface{}, error) {
			var s float64
			for _, a := range args {
				s += a.(float64)
			}
			return s, nil
		},
	}
	for _, fs := range funcs {
		for name, f := range fs {
			defaultFuncs[name] = f
		}
	}
	o := &Outputter{
		outputVariables: outputVariables,
		expressions:     make(map[string]*govaluate.EvaluableExpression),
		functions:       defaultFuncs,
	}
	for name, expr := range outputVariables {
		e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, o.functions)
		if err != nil {
			return nil, fmt.Errorf("clusterdyn: parsing output expression %s: %v", name, err)
		}
		o.expressions[name] = e
	}
	if err := o.checkOutputVars(); err != nil {
		return nil, err
	}
	return o, nil
}

// checkOutputVars verifies every referenced variable is a built-in
// quantity or another output variable.
func (o *Outputter) checkOutputVars() error {
	known := make(map[string]bool)
	for _, v := range outputBaseVariables {
		known[v] = true
	}
	for name := range o.outputVariables {
		known[name] = true
	}
	for name, e := range o.expressions {
		for _, v := range e.Vars() {
			if !known[v] {
				return fmt.Errorf("clusterdyn: output expression %s references unknown variable %s", name, v)
			}
		}
	}
	return nil
}

// baseValues computes the built-in derived quantities for one dof
// block.
func (s *SolverHandler) baseValues(xi int, block []float64) map[string]interface{} {
	var heC, vC, iC, mobileHe float64
	for _, c := range s.network.all {
		conc := block[c.id-1]
		heC += float64(c.comp.He) * conc
		vC += float64(c.comp.V) * conc
		iC += float64(c.comp.I) * conc
		if c.comp.He > 0 && c.d0 > 0 {
			mobileHe += float64(c.comp.He) * conc
		}
	}
	for _, sc := range s.network.supers {
		heC += sc.heliumContent(block[sc.id-1], block[sc.momentId-1])
		vC += float64(sc.vSize) * block[sc.id-1]
	}
	return map[string]interface{}{
		"Depth":               s.grid.Depth(xi),
		"HeliumContent":       heC,
		"VacancyContent":      vC,
		"InterstitialContent": iC,
		"MobileHelium":        mobileHe,
	}
}

// Output evaluates every output expression over the interior grid
// points, returning one value per point per variable, indexed like the
// grid (boundary points hold zero). Expressions referencing other
// output variables are resolved in dependency order.
func (o *Outputter) Output(s *SolverHandler, state []float64) (map[string][]float64, error) {
	if err := s.checkContext(); err != nil {
		return nil, err
	}
	if len(state) != s.grid.Size()*s.dof {
		return nil, fmt.Errorf("clusterdyn: state length %d does not match %d points × %d dof", len(state), s.grid.Size(), s.dof)
	}
	results := make(map[string][]float64)
	for name := range o.expressions {
		results[name] = make([]float64, s.grid.Size())
	}
	for xi := 0; xi < s.grid.Size(); xi++ {
		if s.grid.IsBoundary(xi) {
			continue
		}
		params := s.baseValues(xi, state[xi*s.dof:(xi+1)*s.dof])
		remaining := make(map[string]*govaluate.EvaluableExpression)
		for name, e := range o.expressions {
			remaining[name] = e
		}
		for len(remaining) > 0 {
			progress := false
			for name, e := range remaining {
				ready := true
				for _, v := range e.Vars() {
					if _, ok := params[v]; !ok {
						ready = false
						break
					}
				}
				if !ready {
					continue
				}
				val, err := e.Evaluate(params)
				if err != nil {
					return nil, fmt.Errorf("clusterdyn: evaluating output expression %s: %v", name, err)
				}
				f, ok := val.(float64)
				if !ok {
					return nil, fmt.Errorf("clusterdyn: output expression %s is not numeric", name)
				}
				params[name] = f
				results[name][xi] = f
				delete(remaining, name)
				progress = true
			}
			if !progress {
				return nil, fmt.Errorf("clusterdyn: circular dependency among output expressions")
			}
		}
	}
	return results, nil
}
