package cart

import "github.com/shopspring/decimal"

// State is the ordered list of cart lines for one storefront session.
// Insertion order is irrelevant to totals but preserved for display.
type State struct {
	Lines []Line `json:"lines"`
}

// Add merges into an existing line when the identity key matches,
// otherwise appends a new line with quantity 1.
func (s *State) Add(product Product, extras *Extras) {
	var variants map[string]string
	var modifiers []ModifierGroup
	if extras != nil {
		variants = extras.SelectedVariants
		modifiers = extras.SelectedModifiers
	}
	key := IdentityKey(product.ID, variants, modifiers)

	for i := range s.Lines {
		if s.Lines[i].IdentityKey() == key {
			s.Lines[i].Quantity++
			return
		}
	}

	s.Lines = append(s.Lines, newLine(product, extras))
}

// Remove drops the line with the given id. Unknown ids are a no-op.
func (s *State) Remove(lineID string) {
	for i := range s.Lines {
		if s.Lines[i].ID == lineID {
			s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity replaces a line's quantity; n <= 0 removes the line so a
// zero-quantity line is never persisted.
func (s *State) UpdateQuantity(lineID string, n int) {
	if n <= 0 {
		s.Remove(lineID)
		return
	}
	for i := range s.Lines {
		if s.Lines[i].ID == lineID {
			s.Lines[i].Quantity = n
			return
		}
	}
}

// Clear empties the cart.
func (s *State) Clear() {
	s.Lines = nil
}

// TotalItems is the sum of quantities, recomputed on every call.
func (s *State) TotalItems() int {
	total := 0
	for _, line := range s.Lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice is the sum of line totals, recomputed on every call.
func (s *State) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// Find returns the line with the given id, or nil.
func (s *State) Find(lineID string) *Line {
	for i := range s.Lines {
		if s.Lines[i].ID == lineID {
			return &s.Lines[i]
		}
	}
	return nil
}
