package dag_test

import (
	"reflect"
	"testing"

	"github.com/gyaneshwarpardhi/funnelsim/internal/component"
	"github.com/gyaneshwarpardhi/funnelsim/internal/dag"
	"github.com/gyaneshwarpardhi/funnelsim/internal/funnel"
)

func node(id, typ string, props map[string]interface{}) funnel.Node {
	return funnel.Node{ID: id, Type: typ, Properties: props}
}

func edge(from, to string) funnel.Edge {
	return funnel.Edge{ID: from + "->" + to, SourceID: from, TargetID: to}
}

func decodeAll(nodes []funnel.Node) map[string]component.Component {
	reg := component.Default()
	params := funnel.Params{MonthlyBudget: 10000}
	out := make(map[string]component.Component, len(nodes))
	for _, n := range nodes {
		out[n.ID] = reg.Decode(n, params)
	}
	return out
}

func TestBuild_Adjacency(t *testing.T) {
	nodes := []funnel.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	edges := []funnel.Edge{edge("a", "b"), edge("a", "c"), edge("a", "b"), edge("b", "ghost")}

	g := dag.Build(nodes, edges)

	if got, want := g.Forward["a"], []string{"b", "c", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("forward[a] = %v, want %v", got, want)
	}
	if got, want := g.Backward["b"], []string{"a", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("backward[b] = %v, want %v", got, want)
	}
	if got := g.Backward["ghost"]; len(got) != 1 || got[0] != "b" {
		t.Errorf("dangling target should still be recorded, got %v", got)
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 4 {
		t.Errorf("EdgeCount = %d, want 4", g.EdgeCount())
	}
}

func TestPrune_DropsDanglingEdges(t *testing.T) {
	nodes := []funnel.Node{{ID: "a"}, {ID: "b"}}
	edges := []funnel.Edge{edge("a", "b"), edge("a", "x"), edge("y", "b")}

	got := dag.Prune(nodes, edges)
	if len(got) != 1 || got[0].SourceID != "a" || got[0].TargetID != "b" {
		t.Errorf("Prune = %v, want only a->b", got)
	}
}

func TestHasCycle(t *testing.T) {
	cases := []struct {
		name  string
		ids   []string
		edges []funnel.Edge
		want  bool
	}{
		{"empty", nil, nil, false},
		{"chain", []string{"a", "b", "c"}, []funnel.Edge{edge("a", "b"), edge("b", "c")}, false},
		{"diamond", []string{"a", "b", "c", "d"}, []funnel.Edge{edge("a", "b"), edge("a", "c"), edge("b", "d"), edge("c", "d")}, false},
		{"mutual", []string{"a", "b"}, []funnel.Edge{edge("a", "b"), edge("b", "a")}, true},
		{"indirect", []string{"a", "b", "c"}, []funnel.Edge{edge("a", "b"), edge("b", "c"), edge("c", "b")}, true},
		{"triangle", []string{"a", "b", "c"}, []funnel.Edge{edge("a", "b"), edge("b", "c"), edge("c", "a")}, true},
		{"self loop", []string{"a"}, []funnel.Edge{edge("a", "a")}, true},
		{"edge-only ids", nil, []funnel.Edge{edge("x", "y"), edge("y", "x")}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nodes := make([]funnel.Node, 0, len(tc.ids))
			for _, id := range tc.ids {
				nodes = append(nodes, funnel.Node{ID: id})
			}
			g := dag.Build(nodes, tc.edges)
			if got := dag.HasCycle(g.Forward, g.IDs()); got != tc.want {
				t.Errorf("HasCycle = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFindCycle_Path(t *testing.T) {
	nodes := []funnel.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	g := dag.Build(nodes, []funnel.Edge{edge("a", "b"), edge("b", "c"), edge("c", "b")})

	got := dag.FindCycle(g.Forward, g.IDs())
	want := []string{"b", "c", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindCycle = %v, want %v", got, want)
	}
}

func TestPropagate_Chain(t *testing.T) {
	nodes := []funnel.Node{
		node("ads", component.TypeGoogleAds, map[string]interface{}{"cpc": 2.0, "budget": 4000.0}),
		node("lp", component.TypeLandingPage, map[string]interface{}{"conversionRate": 0.15}),
		node("bf", component.TypeBookingForm, map[string]interface{}{"conversionRate": 0.25}),
	}
	g := dag.Build(nodes, []funnel.Edge{edge("ads", "lp"), edge("lp", "bf")})

	flow := dag.Propagate(g, decodeAll(nodes))

	if got := flow.Outbound("ads"); got != 2000 {
		t.Errorf("ads outbound = %v, want 2000", got)
	}
	if got := flow["lp"].Inbound; got != 2000 {
		t.Errorf("lp inbound = %v, want 2000", got)
	}
	if got := flow.Outbound("bf"); got != 75 {
		t.Errorf("bf outbound = %v, want 75", got)
	}
	if !flow["ads"].Source || flow["lp"].Source {
		t.Errorf("only ads should be a source: %+v", flow)
	}
	if !flow["bf"].Sink || flow["lp"].Sink {
		t.Errorf("only bf should be a sink: %+v", flow)
	}
}

func TestPropagate_FanInSumsBeforeConverting(t *testing.T) {
	nodes := []funnel.Node{
		node("g", component.TypeGoogleAds, map[string]interface{}{"cpc": 2.0, "budget": 4000.0}),
		node("f", component.TypeFacebookAds, map[string]interface{}{"cpc": 1.0, "budget": 1000.0}),
		node("stage", "custom-stage", map[string]interface{}{"conversionRate": 0.2}),
	}
	g := dag.Build(nodes, []funnel.Edge{edge("g", "stage"), edge("f", "stage")})

	flow := dag.Propagate(g, decodeAll(nodes))

	if got := flow["stage"].Inbound; got != 3000 {
		t.Errorf("stage inbound = %v, want 3000", got)
	}
	if got := flow.Outbound("stage"); got != 600 {
		t.Errorf("stage outbound = %v, want 600", got)
	}
}

func TestPropagate_DuplicateEdgesCountOnce(t *testing.T) {
	nodes := []funnel.Node{
		node("g", component.TypeGoogleAds, map[string]interface{}{"cpc": 1.0, "budget": 100.0}),
		node("lp", component.TypeLandingPage, map[string]interface{}{"conversionRate": 0.5}),
	}
	g := dag.Build(nodes, []funnel.Edge{edge("g", "lp"), edge("g", "lp")})

	flow := dag.Propagate(g, decodeAll(nodes))
	if got := flow["lp"].Inbound; got != 100 {
		t.Errorf("lp inbound = %v, want 100", got)
	}
}

func TestPropagate_IgnoresMissingPredecessors(t *testing.T) {
	nodes := []funnel.Node{
		node("lp", component.TypeLandingPage, map[string]interface{}{"conversionRate": 0.9}),
	}
	g := dag.Build(nodes, []funnel.Edge{edge("ghost", "lp")})

	flow := dag.Propagate(g, decodeAll(nodes))
	if got := flow["lp"]; got.Inbound != 0 || got.Outbound != 0 {
		t.Errorf("lp = %+v, want zero flow", got)
	}
	if _, ok := flow["ghost"]; ok {
		t.Errorf("missing node should not appear in flow")
	}
}

func TestPropagate_TrafficInboundIsAdditive(t *testing.T) {
	nodes := []funnel.Node{
		node("email", component.TypeEmailCampaign, map[string]interface{}{"recipients": 1000.0, "clickThroughRate": 0.1}),
		node("ads", component.TypeGoogleAds, map[string]interface{}{"cpc": 1.0, "budget": 50.0}),
	}
	g := dag.Build(nodes, []funnel.Edge{edge("email", "ads")})

	flow := dag.Propagate(g, decodeAll(nodes))
	if got := flow.Outbound("ads"); got != 150 {
		t.Errorf("ads outbound = %v, want 150", got)
	}
	if flow["ads"].Source {
		t.Errorf("traffic node with inbound edge is not a source")
	}
}
