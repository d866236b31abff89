package templateformat

import "sort"

// SortBlocks orders a block list by ascending Order in place
func SortBlocks(blocks []TemplateBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Order < blocks[j].Order
	})
}

// NormalizeOrder re-assigns every block's Order to its positional index
// in ascending-Order iteration, restoring the dense 0..N-1 invariant.
func NormalizeOrder(blocks []TemplateBlock) {
	SortBlocks(blocks)
	for i := range blocks {
		blocks[i].Order = i
	}
}

// Reorder moves the block at fromIndex to toIndex in the list ordered by
// current Order, then renormalizes every Order to 0..N-1. It reports
// whether anything changed: invalid indices and fromIndex == toIndex are
// no-ops. This is the only operation that mutates Order.
func Reorder(blocks []TemplateBlock, fromIndex, toIndex int) bool {
	n := len(blocks)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n || fromIndex == toIndex {
		return false
	}

	SortBlocks(blocks)
	moved := blocks[fromIndex]
	rest := make([]TemplateBlock, 0, n-1)
	rest = append(rest, blocks[:fromIndex]...)
	rest = append(rest, blocks[fromIndex+1:]...)

	blocks = blocks[:0]
	blocks = append(blocks, rest[:toIndex]...)
	blocks = append(blocks, moved)
	blocks = append(blocks, rest[toIndex:]...)

	for i := range blocks {
		blocks[i].Order = i
	}
	return true
}

// Toggle flips the enabled flag of the block with the given id. Order
// and conditions are untouched. Unknown ids are a no-op.
func Toggle(blocks []TemplateBlock, blockID string) bool {
	for i := range blocks {
		if blocks[i].ID == blockID {
			blocks[i].Enabled = !blocks[i].Enabled
			return true
		}
	}
	return false
}

// FindBlock returns a pointer to the block with the given id, or nil
func FindBlock(blocks []TemplateBlock, blockID string) *TemplateBlock {
	for i := range blocks {
		if blocks[i].ID == blockID {
			return &blocks[i]
		}
	}
	return nil
}

// AddCondition appends a rule to the block's condition list. Unknown
// block ids are a no-op.
func AddCondition(blocks []TemplateBlock, blockID string, rule ConditionalRule) bool {
	b := FindBlock(blocks, blockID)
	if b == nil {
		return false
	}
	b.Conditions = append(b.Conditions, rule)
	return true
}

// UpdateCondition replaces the rule with newRule.ID's matching id on the
// given block. Unknown block or rule ids are a no-op; other blocks are
// never touched.
func UpdateCondition(blocks []TemplateBlock, blockID, ruleID string, newRule ConditionalRule) bool {
	b := FindBlock(blocks, blockID)
	if b == nil {
		return false
	}
	for i := range b.Conditions {
		if b.Conditions[i].ID == ruleID {
			newRule.ID = ruleID
			b.Conditions[i] = newRule
			return true
		}
	}
	return false
}

// DeleteCondition removes the rule with the given id from the block.
// Unknown block or rule ids are a no-op.
func DeleteCondition(blocks []TemplateBlock, blockID, ruleID string) bool {
	b := FindBlock(blocks, blockID)
	if b == nil {
		return false
	}
	for i := range b.Conditions {
		if b.Conditions[i].ID == ruleID {
			b.Conditions = append(b.Conditions[:i], b.Conditions[i+1:]...)
			return true
		}
	}
	return false
}
