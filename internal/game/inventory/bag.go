package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNoSuchSlot is returned when an inventory index does not exist.
var ErrNoSuchSlot = errors.New("no such inventory slot")

// Stack is a quantity of one item occupying one inventory slot.
//
// Invariant: 1 <= Quantity <= Item.StackLimit.
type Stack struct {
	ID       string `json:"id"`
	Item     Item   `json:"item"`
	Quantity int    `json:"quantity"`
}

// Bag is the ordered list of stacks a player carries. Bag values are never
// mutated in place; every operation returns a new Bag.
type Bag []Stack

// Add places one unit of it into the first same-named stack with room, or
// opens a new stack at the end.
//
// Precondition: it.StackLimit >= 1.
// Postcondition: total quantity of it increases by exactly one; no stack
// exceeds its limit.
func (b Bag) Add(it Item) Bag {
	out := make(Bag, len(b), len(b)+1)
	copy(out, b)
	for i := range out {
		if out[i].Item.Name == it.Name && out[i].Quantity < out[i].Item.StackLimit {
			out[i].Quantity++
			return out
		}
	}
	return append(out, Stack{ID: uuid.NewString(), Item: it, Quantity: 1})
}

// At returns the stack at index.
func (b Bag) At(index int) (Stack, error) {
	if index < 0 || index >= len(b) {
		return Stack{}, fmt.Errorf("index %d: %w", index, ErrNoSuchSlot)
	}
	return b[index], nil
}

// Consume removes one unit from the stack at index, dropping the slot when it empties.
//
// Postcondition: on success the returned Item is the consumed unit's definition.
func (b Bag) Consume(index int) (Bag, Item, error) {
	s, err := b.At(index)
	if err != nil {
		return b, Item{}, err
	}
	out := make(Bag, 0, len(b))
	out = append(out, b[:index]...)
	if s.Quantity > 1 {
		s.Quantity--
		out = append(out, s)
	}
	out = append(out, b[index+1:]...)
	return out, s.Item, nil
}

// Count returns the total quantity of items named name.
func (b Bag) Count(name string) int {
	n := 0
	for _, s := range b {
		if s.Item.Name == name {
			n += s.Quantity
		}
	}
	return n
}
