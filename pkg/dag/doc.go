// Package dag provides the directed graph used to reason about installed
// package dependencies.
//
// # Overview
//
// pipdeptree reports an environment's pip packages as a forest: every
// top-level entry is a package nothing else requires, and nested entries are
// its (transitive) requirements. Loading that forest into a [DAG] collapses
// repeated subtrees into single nodes, so a package shared by many parents is
// one node with many incoming edges.
//
// The leaves of a conda-pip-minimal export are the graph's [DAG.Sources]:
// nodes with no incoming edge, i.e. packages no other installed package
// depends on.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "requests"})
//	g.AddNode(dag.Node{ID: "urllib3"})
//	g.AddEdge(dag.Edge{From: "requests", To: "urllib3"})
//	g.Sources() // [requests]
//
// # Cycles
//
// Python packages occasionally depend on each other in a loop. A cycle has no
// source, which would hide every package in it. [DAG.BreakCycles] removes
// back edges found by depth-first search so each cycle contributes exactly one
// source.
//
// # Metadata
//
// Nodes carry arbitrary [Metadata]; the installed version lives under
// "version".
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
package dag
