package solvectx

import "github.com/tolga/roomopt/internal/model"

func (c *Context) buildAllowableTypes(p *model.Problem) error {
	c.AllowableTypes = make([][]string, len(p.Reservations))
	for i, r := range p.Reservations {
		seen := map[string]struct{}{}
		var types []string
		add := func(t string) {
			if t == "" {
				return
			}
			if _, ok := seen[t]; ok {
				return
			}
			seen[t] = struct{}{}
			types = append(types, t)
		}
		add(r.Type)
		for _, t := range r.AllowableTypes {
			add(t)
		}
		if len(types) == 0 {
			add(model.DefaultRoomType)
		}
		if len(r.TypeOrder) > 0 {
			types = orderByPreference(types, r.TypeOrder)
		}
		c.AllowableTypes[i] = types
	}
	return nil
}

// orderByPreference sorts types to match the order they appear in
// typeOrder, preserving any types not named in typeOrder at the end in
// their original relative order. This keeps the type-downgrade semantics
// used by the split-group downgrade penalty: types[0] is always the most
// preferred, and moving to a later type in the slice is a downgrade.
func orderByPreference(types []string, typeOrder []string) []string {
	rank := make(map[string]int, len(typeOrder))
	for i, t := range typeOrder {
		rank[t] = i
	}
	ordered := make([]string, len(types))
	copy(ordered, types)
	rankOf := make(map[string]int, len(types))
	for i, t := range ordered {
		if r, ok := rank[t]; ok {
			rankOf[t] = r
		} else {
			rankOf[t] = len(typeOrder) + i
		}
	}
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && rankOf[ordered[j]] < rankOf[ordered[j-1]]; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return ordered
}
