// internal/game/rules.go
package game

import "fmt"

// HouseRules holds the table configuration for a game.
type HouseRules struct {
	HandSize int   `json:"handSize"` // cards dealt to each player; 0 deals the whole deck evenly
	Seed     int64 `json:"seed"`     // RNG seed for shuffling, starting ranks and agents; 0 picks one at random
}

// handSizeFor resolves HandSize for a table of n players.
func (rules HouseRules) handSizeFor(n int) int {
	if rules.HandSize > 0 {
		return rules.HandSize
	}
	if n <= 0 {
		return 0
	}
	return DeckSize / n
}

// Update will update the house rules with the new rules provided.
// If a rule is not set or defined, it will be ignored, and the old value will persist.
func (rules *HouseRules) Update(newRules map[string]interface{}) error {
	assignInt := func(key string, minVal int64, set func(int64)) error {
		val, exists := newRules[key]
		if !exists || val == nil {
			return nil
		}
		var n int64
		switch v := val.(type) {
		case float64: // JSON numbers decode as float64
			n = int64(v)
		case int:
			n = int64(v)
		case int64:
			n = v
		default:
			return fmt.Errorf("invalid type for %s", key)
		}
		if n < minVal {
			return fmt.Errorf("%s must be at least %d", key, minVal)
		}
		set(n)
		return nil
	}

	if err := assignInt("handSize", 0, func(n int64) { rules.HandSize = int(n) }); err != nil {
		return err
	}
	if err := assignInt("seed", 0, func(n int64) { rules.Seed = n }); err != nil {
		return err
	}
	return nil
}

// ParseRules converts a map of rules to a HouseRules struct. It will ensure the types are valid.
func ParseRules(rules map[string]interface{}, current HouseRules) (HouseRules, error) {
	houseRules := current
	err := houseRules.Update(rules)
	return houseRules, err
}
