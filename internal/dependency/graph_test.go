package dependency

import (
	"fmt"
	"testing"
)

var flattenTests = [...]struct {
	edges   []string
	ordered []string
	cyclic  bool
}{
	{
		edges: []string{
			"Inpatient -> Patient",
			"Outpatient -> Patient",
			"Patient -> Person",
			"Visit -> Encounter",
		},
		ordered: []string{
			"Person",
			"Patient",
			"Inpatient",
			"Outpatient",
			"Encounter",
			"Visit",
		},
	},
	{
		// Order shouldn't matter
		edges: []string{
			"Visit -> Encounter",
			"Patient -> Person",
			"Outpatient -> Patient",
			"Inpatient -> Patient",
		},
		ordered: []string{
			"Person",
			"Patient",
			"Inpatient",
			"Outpatient",
			"Encounter",
			"Visit",
		},
	},
	{
		// Loops are not followed
		edges: []string{
			"Address -> Region",
			"Address -> Street",
			"Region -> Country",
			"Country -> Region",
		},
		ordered: []string{
			"Country",
			"Region",
			"Street",
			"Address",
		},
		cyclic: true,
	},
}

func buildGraph(t *testing.T, edges []string) *Graph {
	var graph Graph
	for _, edge := range edges {
		var target string
		var dep string
		if _, err := fmt.Sscanf(edge, "%s -> %s", &target, &dep); err != nil {
			t.Fatal("bad test edge " + edge)
		}
		graph.Add(target, dep)
	}
	return &graph
}

func TestFlatten(t *testing.T) {
	for _, tt := range flattenTests {
		graph := buildGraph(t, tt.edges)
		var i int
		graph.Flatten(func(vertex string) {
			if i >= len(tt.ordered) {
				t.Fatalf("advanced past expected output with %s", vertex)
			}
			if tt.ordered[i] != vertex {
				t.Errorf("got %q, wanted %q", vertex, tt.ordered[i])
			} else {
				t.Log(vertex)
			}
			i++
		})
	}
}

func TestCycle(t *testing.T) {
	for _, tt := range flattenTests {
		graph := buildGraph(t, tt.edges)
		cycle := graph.Cycle()
		if tt.cyclic && cycle == nil {
			t.Errorf("no cycle found in %v", tt.edges)
		}
		if !tt.cyclic && cycle != nil {
			t.Errorf("unexpected cycle %v in %v", cycle, tt.edges)
		}
		if cycle != nil {
			if first, last := cycle[0], cycle[len(cycle)-1]; first != last {
				t.Errorf("cycle %v does not close on itself", cycle)
			}
		}
	}
}

func TestCycleSelfReference(t *testing.T) {
	var graph Graph
	graph.Add("a", "a")
	cycle := graph.Cycle()
	if len(cycle) != 2 || cycle[0] != "a" || cycle[1] != "a" {
		t.Errorf("got cycle %v, wanted [a a]", cycle)
	}
}
