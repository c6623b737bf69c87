package vm

import "fmt"

// ----------------------------------------------------------------------------
// Call graph / liveness analysis

// This section builds the static call graph of a Program and computes the
// set of subroutines reachable from a given entrypoint, letting the codegen
// phase drop unreachable functions instead of emitting dead ROM words.
//
// Grounded on the reachability pass in the original Rust implementation's
// call_graph_analyser.rs ('find_live_subroutines'): a function is live if and
// only if it's the entrypoint or it's called (directly or transitively) by
// another live function. We don't attempt to resolve calls through function
// pointers or any other indirection, the VM language has none.

// BuildLiveSet walks every module of 'program', builds the static
// caller -> callees graph and returns the set of function names reachable
// from 'entry' (transitively, via FuncCallOp). 'entry' itself must be
// defined somewhere in the program (e.g. 'Sys.init'), or an error is
// returned. Callees referenced but never defined anywhere are tolerated:
// they don't extend the live set (there's no body to emit for them) but
// don't fail the analysis either.
func BuildLiveSet(program Program, entry string) (map[string]bool, error) {
	graph := map[string][]string{}

	for _, module := range program {
		current := "" // name of the function whose body we're currently inside
		for _, op := range module {
			switch decl := op.(type) {
			case FuncDecl:
				current = decl.Name
				if _, seen := graph[current]; !seen {
					graph[current] = nil
				}
			case FuncCallOp:
				graph[current] = append(graph[current], decl.Name)
			}
		}
	}

	if _, defined := graph[entry]; !defined {
		return nil, fmt.Errorf("entrypoint '%s' is not defined in the program", entry)
	}

	live := map[string]bool{}
	var visit func(name string)
	visit = func(name string) {
		if _, defined := graph[name]; !defined || live[name] {
			return // unknown callee: don't extend the live set, don't recurse into it
		}
		live[name] = true
		for _, callee := range graph[name] {
			visit(callee)
		}
	}
	visit(entry)

	return live, nil
}
