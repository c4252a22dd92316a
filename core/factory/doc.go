// Package factory provides a small generic registry used to instantiate
// pluggable components (metrics sinks, run stores, solvers) from
// configuration. A component is named by a type string and carries a map of
// raw settings that its factory decodes into a typed struct.
//
//	reg := factory.NewRegistry[solver.Solver]()
//	reg.Register("branch_bound", func(conf map[string]any) (solver.Solver, error) {
//	    var c struct{ NodeLimit int `json:"node_limit"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return &BranchBound{NodeLimit: c.NodeLimit}, nil
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "branch_bound"})
package factory
