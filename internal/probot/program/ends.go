package program

// ResolveEnds pairs every opener with its terminator. Each opener kind keeps
// its own nesting depth, so an If only counts nested Ifs and EndIfs. Loop
// terminators get a back-link to their opener.
func (p *Program) ResolveEnds() error {
	for i := p.Head; i != None; i = p.Nodes[i].Next {
		if !p.Nodes[i].Kind.IsOpener() {
			continue
		}
		end, err := p.resolveEnd(i)
		if err != nil {
			return err
		}
		p.Nodes[i].End = end
		if p.Nodes[i].Kind.IsLoop() {
			p.Nodes[end].ReturnTo = i
		}
	}
	return nil
}

func (p *Program) resolveEnd(opener int) (int, error) {
	kind := p.Nodes[opener].Kind
	term, _ := kind.Terminator()

	depth := 1
	for j := p.Nodes[opener].Next; j != None; j = p.Nodes[j].Next {
		switch p.Nodes[j].Kind {
		case kind:
			depth++
		case term:
			depth--
			if depth == 0 {
				return j, nil
			}
		}
	}
	return None, &MissingEndBlockError{Opener: kind, BlockID: p.Nodes[opener].BlockID}
}
