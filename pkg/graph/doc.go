// Package graph provides the directed graph that backs a sociogram.
//
// # Overview
//
// A sociogram records who chose whom. Every participant and every name they
// mention becomes a node, and every stated preference becomes a directed edge
// from the chooser to the chosen. This package stores exactly that: a simple
// directed graph keyed by string IDs, without parallel edges.
//
// # Basic Usage
//
// Create a graph with [New] and add edges with [Graph.AddEdge]. Endpoints are
// created implicitly, so there is no need to declare nodes first:
//
//	g := graph.New()
//	g.AddEdge("alice", "bob")
//	g.AddEdge("alice", "bob") // duplicate, ignored
//	g.AddNode("carol")        // a node without edges
//
// Query the structure with [Graph.Successors], [Graph.Predecessors],
// [Graph.InDegree], [Graph.OutDegree] and [Graph.Neighbors].
//
// # Ordering
//
// Nodes remember the order in which they were first created and [Graph.Nodes]
// returns them in that order. Analyses built on top of the graph rely on this
// to break ties deterministically.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Read-only access from
// multiple goroutines is fine once construction has finished.
package graph
