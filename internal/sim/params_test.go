package sim

import "testing"

func TestFromSlots_AskDefaultTakesDefaults(t *testing.T) {
	slots := make([]int, NumSlots)
	for i := range slots {
		slots[i] = AskDefault
	}
	p := FromSlots(slots)
	if p.Heuristic != HeuristicBoehm {
		t.Errorf("Heuristic = %v, want %v", p.Heuristic, HeuristicBoehm)
	}
	if p.SolutionCount != 1 {
		t.Errorf("SolutionCount = %d, want 1", p.SolutionCount)
	}
	if p.LearnOrder != 3 {
		t.Errorf("LearnOrder = %d, want 3", p.LearnOrder)
	}
	if p.LearnType != RelevanceBounded {
		t.Errorf("LearnType = %v, want relevance", p.LearnType)
	}
	if p.MaxVarIndex != 100 || p.MaxClauseCount != 1000 {
		t.Errorf("limits = (%d, %d), want (100, 1000)", p.MaxVarIndex, p.MaxClauseCount)
	}
}

func TestFromSlots_ShortArrayActsAsAskDefault(t *testing.T) {
	p := FromSlots([]int{AskDefault, AskDefault, int(HeuristicSatz)})
	if p.Heuristic != HeuristicSatz {
		t.Errorf("Heuristic = %v, want %v", p.Heuristic, HeuristicSatz)
	}
	if p.SolutionCount != 1 {
		t.Errorf("SolutionCount = %d, want the default 1", p.SolutionCount)
	}
}

func TestFromSlots_ExplicitValues(t *testing.T) {
	slots := make([]int, NumSlots)
	for i := range slots {
		slots[i] = AskDefault
	}
	slots[SlotSolutionCount] = 4
	slots[SlotLearnType] = int(SizeBounded)
	slots[SlotIndepProps] = 1
	slots[SlotMaxVarIndex] = 2000

	p := FromSlots(slots)
	if p.SolutionCount != 4 || p.LearnType != SizeBounded || !p.IndepProps || p.MaxVarIndex != 2000 {
		t.Errorf("FromSlots() = %+v, want the explicit slot values applied", p)
	}

	back := p.Slots()
	if back[SlotSolutionCount] != 4 || back[SlotIndepProps] != 1 || back[SlotMaxVarIndex] != 2000 {
		t.Errorf("Slots() = %v, want the explicit values back", back)
	}
}
