package engine

// PlayerState is the mutable record of one seat.
type PlayerState struct {
	ID        int
	Name      string
	Position  int
	Weight    int
	Carried   []Treasure
	Direction Direction
	Finished  bool
	Score     int

	provider DecisionProvider
}

func newPlayerState(id int, name string, provider DecisionProvider) *PlayerState {
	p := &PlayerState{ID: id, Name: name, provider: provider}
	p.resetRound()
	return p
}

// resetRound puts the diver back in the submarine. Score is kept.
func (p *PlayerState) resetRound() {
	p.Position = Submarine
	p.Weight = 0
	p.Carried = nil
	p.Direction = Forward
	p.Finished = false
}

// turnAround flips the diver towards the submarine. It never flips back.
func (p *PlayerState) turnAround() {
	p.Direction = Backward
}

func (p *PlayerState) take(t Treasure) {
	p.Carried = append(p.Carried, t)
	p.Weight = len(p.Carried)
}

// lightestIndex returns the index of the carried treasure with the fewest
// dots, earliest first on ties, or -1 when empty-handed.
func (p *PlayerState) lightestIndex() int {
	idx := -1
	for i, t := range p.Carried {
		if idx == -1 || t.Dots < p.Carried[idx].Dots {
			idx = i
		}
	}
	return idx
}

// release removes and returns the carried treasure at index i.
func (p *PlayerState) release(i int) Treasure {
	t := p.Carried[i]
	p.Carried = append(p.Carried[:i:i], p.Carried[i+1:]...)
	p.Weight = len(p.Carried)
	return t
}

// bank reveals the carried treasures and adds their value to the score.
func (p *PlayerState) bank() int {
	total := 0
	for _, t := range p.Carried {
		total += t.HiddenValue
	}
	p.Score += total
	p.Finished = true
	return total
}

func (p *PlayerState) view() PlayerView {
	dots := make([]int, len(p.Carried))
	for i, t := range p.Carried {
		dots[i] = t.Dots
	}
	return PlayerView{
		ID:          p.ID,
		Name:        p.Name,
		Position:    p.Position,
		Weight:      p.Weight,
		CarriedDots: dots,
		Direction:   p.Direction.String(),
		Finished:    p.Finished,
		Score:       p.Score,
	}
}
