package sociogram

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/sociogram/pkg/graph"
	"github.com/matzehuels/sociogram/pkg/preferences"
)

func set(entries ...preferences.Entry) *preferences.Set {
	return preferences.New(entries...)
}

func entry(participant string, peers ...string) preferences.Entry {
	return preferences.Entry{Participant: participant, Peers: peers}
}

func classExample() *preferences.Set {
	return set(
		entry("A", "B", "C"),
		entry("B", "C"),
		entry("D"),
	)
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		set       *preferences.Set
		wantNodes []string
		wantEdges []graph.Edge
	}{
		{
			name:      "Nil",
			set:       nil,
			wantNodes: []string{},
		},
		{
			name:      "Empty",
			set:       set(),
			wantNodes: []string{},
		},
		{
			name:      "ClassExample",
			set:       classExample(),
			wantNodes: []string{"A", "B", "C", "D"},
			wantEdges: []graph.Edge{{From: "A", To: "B"}, {From: "A", To: "C"}, {From: "B", To: "C"}},
		},
		{
			name:      "PeerNeverSubmitted",
			set:       set(entry("A", "ghost")),
			wantNodes: []string{"A", "ghost"},
			wantEdges: []graph.Edge{{From: "A", To: "ghost"}},
		},
		{
			name:      "DuplicatePreferences",
			set:       set(entry("A", "B", "B", "B")),
			wantNodes: []string{"A", "B"},
			wantEdges: []graph.Edge{{From: "A", To: "B"}},
		},
		{
			name:      "SelfPreference",
			set:       set(entry("A", "A")),
			wantNodes: []string{"A"},
			wantEdges: []graph.Edge{{From: "A", To: "A"}},
		},
		{
			name:      "CaseSensitive",
			set:       set(entry("Bob", "bob")),
			wantNodes: []string{"Bob", "bob"},
			wantEdges: []graph.Edge{{From: "Bob", To: "bob"}},
		},
		{
			name:      "PeerBeforeParticipant",
			set:       set(entry("A", "C"), entry("B"), entry("C", "A")),
			wantNodes: []string{"A", "C", "B"},
			wantEdges: []graph.Edge{{From: "A", To: "C"}, {From: "C", To: "A"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.set)
			if got := g.Nodes(); !slices.Equal(got, tt.wantNodes) {
				t.Errorf("Nodes() = %v, want %v", got, tt.wantNodes)
			}
			if got := g.Edges(); !slices.Equal(got, tt.wantEdges) {
				t.Errorf("Edges() = %v, want %v", got, tt.wantEdges)
			}
		})
	}
}

func TestAnalyzeClassExample(t *testing.T) {
	res := Analyze(Build(classExample()))

	wantPopular := []Popularity{{"C", 2}, {"B", 1}, {"A", 0}, {"D", 0}}
	if !slices.Equal(res.Popular, wantPopular) {
		t.Errorf("Popular = %v, want %v", res.Popular, wantPopular)
	}
	if !slices.Equal(res.Isolated, []string{"D"}) {
		t.Errorf("Isolated = %v, want [D]", res.Isolated)
	}
	wantClusters := [][]string{{"A", "B", "C"}, {"D"}}
	if !reflect.DeepEqual(res.Clusters, wantClusters) {
		t.Errorf("Clusters = %v, want %v", res.Clusters, wantClusters)
	}
	if res.NodeCount != 4 || res.EdgeCount != 3 {
		t.Errorf("counts = %d nodes, %d edges, want 4, 3", res.NodeCount, res.EdgeCount)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	for name, g := range map[string]*graph.Graph{"nil": nil, "empty": graph.New()} {
		t.Run(name, func(t *testing.T) {
			res := Analyze(g)
			if len(res.Popular) != 0 || len(res.Isolated) != 0 || len(res.Clusters) != 0 {
				t.Errorf("Analyze(%s) = %+v, want all empty", name, res)
			}
			if res.Popular == nil || res.Isolated == nil || res.Clusters == nil {
				t.Error("empty results should be non-nil slices")
			}
		})
	}
}

func TestAnalyzeChosenOnlyIsNotIsolated(t *testing.T) {
	res := Analyze(Build(set(entry("A", "ghost"))))

	in, ok := res.InDegree("ghost")
	if !ok || in < 1 {
		t.Errorf("InDegree(ghost) = %d, %v, want >= 1", in, ok)
	}
	if res.IsIsolated("ghost") {
		t.Error("ghost was chosen and should not be isolated")
	}
	if res.IsIsolated("A") {
		t.Error("A chose someone and should not be isolated")
	}
}

func TestAnalyzeSelfLoopIsNotIsolated(t *testing.T) {
	res := Analyze(Build(set(entry("A", "A"), entry("B"))))
	if !slices.Equal(res.Isolated, []string{"B"}) {
		t.Errorf("Isolated = %v, want [B]", res.Isolated)
	}
	if in, _ := res.InDegree("A"); in != 1 {
		t.Errorf("InDegree(A) = %d, want 1", in)
	}
}

func TestAnalyzeClusters(t *testing.T) {
	tests := []struct {
		name string
		set  *preferences.Set
		want [][]string
	}{
		{
			name: "DirectionIgnored",
			set:  set(entry("A", "X"), entry("B", "X")),
			want: [][]string{{"A", "X", "B"}},
		},
		{
			name: "TwoGroups",
			set:  set(entry("A", "B"), entry("C", "D"), entry("B", "A"), entry("E")),
			want: [][]string{{"A", "B"}, {"C", "D"}, {"E"}},
		},
		{
			name: "LateBridge",
			set:  set(entry("A", "B"), entry("C", "D"), entry("D", "B")),
			want: [][]string{{"A", "B", "C", "D"}},
		},
		{
			name: "AllIsolated",
			set:  set(entry("x"), entry("y"), entry("z")),
			want: [][]string{{"x"}, {"y"}, {"z"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Analyze(Build(tt.set))
			if !reflect.DeepEqual(res.Clusters, tt.want) {
				t.Errorf("Clusters = %v, want %v", res.Clusters, tt.want)
			}
		})
	}
}

// classroom builds a larger, irregular preference set for property tests.
// It never produces self-preferences: a node whose only edge is a self-loop
// is neither isolated nor part of a multi-node cluster.
func classroom(n int) *preferences.Set {
	s := preferences.New()
	for i := 0; i < n; i++ {
		var peers []string
		for j := 1; j <= i%4; j++ {
			if k := (i*7 + j*3) % (n + 3); k != i {
				peers = append(peers, fmt.Sprintf("s%d", k))
			}
		}
		if i%5 == 0 {
			peers = nil
		}
		s.Put(fmt.Sprintf("s%d", i), peers)
	}
	return s
}

func TestAnalyzeProperties(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5, 13, 40} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			g := Build(classroom(n))
			res := Analyze(g)

			// Every node is in exactly one cluster.
			count := make(map[string]int)
			for _, c := range res.Clusters {
				for _, id := range c {
					count[id]++
				}
			}
			for _, id := range g.Nodes() {
				if count[id] != 1 {
					t.Errorf("node %s appears in %d clusters", id, count[id])
				}
			}
			if len(count) != g.NodeCount() {
				t.Errorf("clusters cover %d nodes, graph has %d", len(count), g.NodeCount())
			}

			// Isolated + non-singleton cluster members == all nodes.
			inBig := 0
			for _, c := range res.Clusters {
				if len(c) > 1 {
					inBig += len(c)
				}
			}
			if len(res.Isolated)+inBig != g.NodeCount() {
				t.Errorf("isolated %d + clustered %d != nodes %d", len(res.Isolated), inBig, g.NodeCount())
			}

			// Popularity is a permutation of nodes, descending by in-degree.
			if len(res.Popular) != g.NodeCount() {
				t.Fatalf("Popular has %d entries, want %d", len(res.Popular), g.NodeCount())
			}
			seen := make(map[string]bool)
			for i, p := range res.Popular {
				if seen[p.Node] {
					t.Errorf("node %s ranked twice", p.Node)
				}
				seen[p.Node] = true
				if p.InDegree != g.InDegree(p.Node) {
					t.Errorf("%s in-degree %d, graph says %d", p.Node, p.InDegree, g.InDegree(p.Node))
				}
				if i > 0 {
					prev := res.Popular[i-1]
					if prev.InDegree < p.InDegree {
						t.Errorf("ranking not descending at %d", i)
					}
					if prev.InDegree == p.InDegree && g.Position(prev.Node) > g.Position(p.Node) {
						t.Errorf("tie between %s and %s not in creation order", prev.Node, p.Node)
					}
				}
			}

			// Recomputing gives identical output.
			again := Analyze(Build(classroom(n)))
			if !reflect.DeepEqual(res, again) {
				t.Error("Analyze is not deterministic")
			}
		})
	}
}

func TestInDegreeIndependentOfOrder(t *testing.T) {
	forward := classroom(20)
	entries := forward.Entries()
	slices.Reverse(entries)
	backward := preferences.New(entries...)

	a := Analyze(Build(forward))
	b := Analyze(Build(backward))
	for _, p := range a.Popular {
		in, ok := b.InDegree(p.Node)
		if !ok || in != p.InDegree {
			t.Errorf("%s: forward %d, backward %d", p.Node, p.InDegree, in)
		}
	}
}

func TestResultHelpers(t *testing.T) {
	res := Analyze(Build(classExample()))

	if got := res.Top(2); !slices.Equal(got, []Popularity{{"C", 2}, {"B", 1}}) {
		t.Errorf("Top(2) = %v", got)
	}
	if got := res.Top(10); len(got) != 4 {
		t.Errorf("Top(10) len = %d, want 4", len(got))
	}
	if got := res.Top(-1); len(got) != 4 {
		t.Errorf("Top(-1) len = %d, want 4", len(got))
	}
	if res.ClusterOf("C") != 0 || res.ClusterOf("D") != 1 || res.ClusterOf("nobody") != -1 {
		t.Error("ClusterOf returned unexpected index")
	}
	if _, ok := res.InDegree("nobody"); ok {
		t.Error("InDegree(nobody) should report missing")
	}
}

func TestReport(t *testing.T) {
	tests := []struct {
		name string
		set  *preferences.Set
		want string
	}{
		{
			name: "ClassExample",
			set:  classExample(),
			want: "Popular students (most chosen):\n" +
				"- C: chosen 2 times\n" +
				"- B: chosen 1 times\n" +
				"- A: chosen 0 times\n" +
				"- D: chosen 0 times\n" +
				"\n" +
				"Isolated students (no connections):\n" +
				"- D\n" +
				"\n" +
				"Clusters in the class:\n" +
				"- Cluster 1: A, B, C\n" +
				"- Cluster 2: D",
		},
		{
			name: "Empty",
			set:  set(),
			want: "Popular students (most chosen):\n" +
				"\n" +
				"Isolated students (no connections):\n" +
				"\n" +
				"Clusters in the class:",
		},
		{
			name: "TopFiveOnly",
			set: set(
				entry("a", "b", "c", "d", "e", "f", "g"),
				entry("b", "c", "d", "e", "f", "g"),
				entry("c", "d", "e", "f", "g"),
			),
			want: "Popular students (most chosen):\n" +
				"- d: chosen 3 times\n" +
				"- e: chosen 3 times\n" +
				"- f: chosen 3 times\n" +
				"- g: chosen 3 times\n" +
				"- c: chosen 2 times\n" +
				"\n" +
				"Isolated students (no connections):\n" +
				"\n" +
				"Clusters in the class:\n" +
				"- Cluster 1: a, b, c, d, e, f, g",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Report(Analyze(Build(tt.set)))
			if got != tt.want {
				t.Errorf("Report() =\n%s\n--- want ---\n%s", got, tt.want)
			}
		})
	}
}

func TestWriteReport(t *testing.T) {
	res := Analyze(Build(classExample()))
	var b strings.Builder
	if err := WriteReport(&b, res); err != nil {
		t.Fatalf("WriteReport error: %v", err)
	}
	if b.String() != Report(res) {
		t.Error("WriteReport output differs from Report")
	}
}

func TestReportTop(t *testing.T) {
	res := Analyze(Build(classExample()))

	if got := ReportTop(res, DefaultTopN); got != Report(res) {
		t.Error("ReportTop with DefaultTopN should match Report")
	}

	got := ReportTop(res, 1)
	if !strings.HasPrefix(got, "Popular students (most chosen):\n- C: chosen 2 times\n\n") {
		t.Errorf("ReportTop(1) should list only C:\n%s", got)
	}

	for _, top := range []int{0, -3} {
		all := ReportTop(res, top)
		if n := strings.Count(all, "chosen "); n != 4 {
			t.Errorf("ReportTop(%d) lists %d nodes, want all 4", top, n)
		}
	}
}
