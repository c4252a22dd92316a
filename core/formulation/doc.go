// Package formulation expands an RCPSP instance into a time-continuous
// MILP: one start variable per task, a makespan variable carrying the
// objective, and optional constraint families for precedence, makespan
// linking, disjunctive resource ordering, resource unavailability windows
// and time-indexed capacities.
//
// Generation is a pure function of the instance and the Config. Variable
// and constraint names are derived from task ids, resource indices and
// time points, so two runs over the same input produce identical models.
// The instance is expected to satisfy model.Instance.Validate and to have
// an acyclic precedence graph; cycles and negative capacities are not
// detected here and simply yield an infeasible model.
package formulation
