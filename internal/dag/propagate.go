package dag

import (
	"github.com/gyaneshwarpardhi/funnelsim/internal/component"
)

// NodeFlow is the propagated state of a single node.
type NodeFlow struct {
	Inbound  float64 `json:"inbound"`
	Outbound float64 `json:"outbound"`
	Source   bool    `json:"source"`
	Sink     bool    `json:"sink"`
}

// Flow maps node id to its propagated state.
type Flow map[string]NodeFlow

// Outbound returns the outbound unit count of id (zero when unknown).
func (f Flow) Outbound(id string) float64 {
	return f[id].Outbound
}

// Propagate evaluates every node in comps against g, leaf-first.
// g must be acyclic; callers gate on HasCycle before calling.
// Each node's transfer function runs exactly once.
func Propagate(g *Graph, comps map[string]component.Component) Flow {
	p := &propagator{
		g:     g,
		comps: comps,
		flow:  make(Flow, len(comps)),
		state: make(map[string]int, len(comps)),
	}
	for _, id := range g.IDs() {
		if _, ok := comps[id]; ok {
			p.resolve(id)
		}
	}
	return p.flow
}

type propagator struct {
	g     *Graph
	comps map[string]component.Component
	flow  Flow
	state map[string]int
}

func (p *propagator) resolve(id string) float64 {
	switch p.state[id] {
	case done:
		return p.flow[id].Outbound
	case inStack:
		return 0
	}
	p.state[id] = inStack

	c := p.comps[id]
	var inbound float64
	preds := p.parents(id)
	for _, pred := range preds {
		inbound += p.resolve(pred)
	}

	nf := NodeFlow{
		Inbound:  inbound,
		Outbound: c.Transfer(inbound),
		Source:   c.Role() == component.RoleTraffic && len(preds) == 0,
		Sink:     len(p.children(id)) == 0,
	}
	p.flow[id] = nf
	p.state[id] = done
	return nf.Outbound
}

// parents returns distinct existing predecessors of id in edge order.
func (p *propagator) parents(id string) []string {
	return p.distinct(p.g.Parents(id))
}

func (p *propagator) children(id string) []string {
	return p.distinct(p.g.Children(id))
}

func (p *propagator) distinct(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := p.comps[id]; !ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
