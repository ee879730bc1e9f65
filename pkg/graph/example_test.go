package graph_test

import (
	"fmt"

	"github.com/matzehuels/sociogram/pkg/graph"
)

func ExampleGraph_basic() {
	// alice chooses bob and carol; bob chooses carol
	g := graph.New()
	_ = g.AddEdge("alice", "bob")
	_ = g.AddEdge("alice", "carol")
	_ = g.AddEdge("bob", "carol")

	fmt.Println("Nodes:", g.Nodes())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("In-degree of carol:", g.InDegree("carol"))
	// Output:
	// Nodes: [alice bob carol]
	// Edges: 3
	// In-degree of carol: 2
}

func ExampleGraph_AddEdge_duplicate() {
	// Repeating a preference does not create a parallel edge
	g := graph.New()
	_ = g.AddEdge("alice", "bob")
	_ = g.AddEdge("alice", "bob")

	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Out-degree of alice:", g.OutDegree("alice"))
	// Output:
	// Edges: 1
	// Out-degree of alice: 1
}

func ExampleGraph_Neighbors() {
	g := graph.New()
	_ = g.AddEdge("a", "b")
	_ = g.AddEdge("c", "a")

	fmt.Println("Neighbors of a:", g.Neighbors("a"))
	// Output:
	// Neighbors of a: [b c]
}
