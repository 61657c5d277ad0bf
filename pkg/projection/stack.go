package projection

// NodeStack orders the nodes sharing one layout id. The lead renders; the
// previous lead is what the lead animates from.
type NodeStack struct {
	members  []*Node
	lead     *Node
	prevLead *Node
}

// Members returns the stack members in join order.
func (s *NodeStack) Members() []*Node { return append([]*Node(nil), s.members...) }

// Lead returns the current lead, or nil.
func (s *NodeStack) Lead() *Node { return s.lead }

// PrevLead returns the previous lead, or nil.
func (s *NodeStack) PrevLead() *Node { return s.prevLead }

// Add appends node unless it is already a member.
func (s *NodeStack) Add(node *Node) {
	for _, m := range s.members {
		if m == node {
			return
		}
	}
	s.members = append(s.members, node)
	node.ScheduleRender()
}

// Remove drops node. If it led, the most recent present member takes
// over, or the most recent member when none is present.
func (s *NodeStack) Remove(node *Node) {
	for i, m := range s.members {
		if m == node {
			s.members = append(s.members[:i], s.members[i+1:]...)
			break
		}
	}
	if node == s.prevLead {
		s.prevLead = nil
	}
	if node != s.lead || len(s.members) == 0 {
		return
	}
	next := s.members[len(s.members)-1]
	for i := len(s.members) - 1; i >= 0; i-- {
		if s.members[i].isPresent {
			next = s.members[i]
			break
		}
	}
	s.Promote(next, false)
}

// Relegate hands leadership to the most recent present member that
// joined before node. It reports whether one was found.
func (s *NodeStack) Relegate(node *Node) bool {
	idx := -1
	for i, m := range s.members {
		if m == node {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return false
	}
	for i := idx - 1; i >= 0; i-- {
		if m := s.members[i]; m.isPresent {
			s.Promote(m, false)
			return true
		}
	}
	return false
}

// Promote makes node the lead. The new lead resumes from the old one and
// inherits its snapshot, with the values the old lead was rendering.
func (s *NodeStack) Promote(node *Node, preserveFollowOpacity bool) {
	prev := s.lead
	if node == prev {
		return
	}
	s.prevLead = prev
	s.lead = node
	node.Show()

	if prev == nil {
		return
	}
	if prev.instance != nil {
		prev.ScheduleRender()
	}
	node.ScheduleRender()
	node.resumeFrom = prev
	if preserveFollowOpacity {
		prev.preserveOpacity = true
	}
	if prev.snapshot != nil {
		node.snapshot = prev.snapshot
		if prev.animationValues != nil {
			node.snapshot.LatestValues = prev.animationValues
		} else {
			node.snapshot.LatestValues = prev.latestValues
		}
	}
	if node.tree.isUpdating {
		node.isLayoutDirty = true
	}
	if node.options.DisableCrossfade {
		prev.Hide()
	}
}

// ExitAnimationComplete tells every member, and whatever it resumed from,
// that exit animations are done.
func (s *NodeStack) ExitAnimationComplete() {
	for _, m := range append([]*Node(nil), s.members...) {
		if m.options.OnExitComplete != nil {
			m.options.OnExitComplete()
		}
		if r := m.resumingFrom; r != nil && r.options.OnExitComplete != nil {
			r.options.OnExitComplete()
		}
	}
}

// ScheduleRender schedules a render for every mounted member.
func (s *NodeStack) ScheduleRender() {
	for _, m := range s.members {
		if m.instance != nil {
			m.ScheduleRender()
		}
	}
}

// RemoveLeadSnapshot drops the lead's snapshot once an update finished.
func (s *NodeStack) RemoveLeadSnapshot() {
	if s.lead != nil {
		s.lead.snapshot = nil
	}
}
