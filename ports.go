package automation

// Ports describes the connection points a node kind exposes.
type Ports struct {
	Input   bool
	Outputs []Handle
}

// HasOutput reports whether h is one of the output handles.
func (p Ports) HasOutput(h Handle) bool {
	for _, o := range p.Outputs {
		if o == h {
			return true
		}
	}
	return false
}

// PortsFor returns the ports of kind k. Triggers have no input; conditions
// branch through a true and a false output.
func PortsFor(k Kind) Ports {
	switch k {
	case KindTrigger:
		return Ports{Input: false, Outputs: []Handle{HandleDefault}}
	case KindCondition:
		return Ports{Input: true, Outputs: []Handle{HandleTrue, HandleFalse}}
	case KindAction:
		return Ports{Input: true, Outputs: []Handle{HandleDefault}}
	default:
		return Ports{}
	}
}

// CanConnect applies the editor's interactive restrictions to a prospective
// edge. The graph model itself accepts any edge.
func CanConnect(g *Graph, source, target string, handle Handle) error {
	src, ok := g.Node(source)
	if !ok {
		return &ConnectionError{Source: source, Target: target, Reason: "source node does not exist"}
	}
	dst, ok := g.Node(target)
	if !ok {
		return &ConnectionError{Source: source, Target: target, Reason: "target node does not exist"}
	}
	if source == target {
		return &ConnectionError{Source: source, Target: target, Reason: "a node cannot connect to itself"}
	}
	if !PortsFor(dst.Kind).Input {
		return &ConnectionError{Source: source, Target: target, Reason: "a " + string(dst.Kind) + " node has no input"}
	}
	if !PortsFor(src.Kind).HasOutput(handle) {
		if handle == HandleDefault {
			return &ConnectionError{Source: source, Target: target, Reason: "a condition node must connect from its true or false output"}
		}
		return &ConnectionError{Source: source, Target: target, Reason: "a " + string(src.Kind) + " node has no " + string(handle) + " output"}
	}
	return nil
}
