package game

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownEnemy = errors.New("enemy not found in registry")
	ErrUnknownSpell = errors.New("spell not found in registry")
)

// Spell is a learned spell the hero may cast after winning a round with Spell.
type Spell struct {
	Name        string
	Description string
}

func (s Spell) String() string {
	return s.Name
}

// SpellRegistry maps spell names to their definitions.
var SpellRegistry = map[string]Spell{
	"Flare":       {Name: "Flare", Description: "A burst of flame that scorches the target."},
	"Frost Lance": {Name: "Frost Lance", Description: "A spear of ice hurled at the target."},
	"Thunderclap": {Name: "Thunderclap", Description: "Lightning called down from above."},
	"Gale":        {Name: "Gale", Description: "A cutting wind that tears through armor."},
	"Radiance":    {Name: "Radiance", Description: "Holy light that sears the wicked."},
}

// LookupSpell returns the named spell.
func LookupSpell(name string) (Spell, error) {
	s, ok := SpellRegistry[name]
	if !ok {
		return Spell{}, fmt.Errorf("%q: %w", name, ErrUnknownSpell)
	}
	return s, nil
}

// SpellNames returns all registered spell names, sorted.
func SpellNames() []string {
	names := make([]string, 0, len(SpellRegistry))
	for name := range SpellRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnemyRegistry maps enemy type names to their constructor functions.
var EnemyRegistry = map[string]func() *Enemy{
	"Slime":           Slime,
	"Goblin":          Goblin,
	"Skeleton Knight": SkeletonKnight,
	"Dark Mage":       DarkMage,
	"Wyvern":          Wyvern,
	"Demon Lord":      DemonLord,
}

// LookupEnemy returns a fresh instance of the named enemy.
func LookupEnemy(name string) (*Enemy, error) {
	ctor, ok := EnemyRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownEnemy)
	}
	return ctor(), nil
}

func Slime() *Enemy {
	return &Enemy{typeName: "Slime", description: "A wobbling blob of goo.", hp: 30, maxHP: 30, attack: 8, defense: 1}
}

func Goblin() *Enemy {
	return &Enemy{typeName: "Goblin", description: "A cunning raider armed with a rusty blade.", hp: 55, maxHP: 55, attack: 14, defense: 3}
}

func SkeletonKnight() *Enemy {
	return &Enemy{typeName: "Skeleton Knight", description: "Bones bound in cursed plate.", hp: 90, maxHP: 90, attack: 20, defense: 8}
}

func DarkMage() *Enemy {
	return &Enemy{typeName: "Dark Mage", description: "A robed figure muttering forbidden words.", hp: 75, maxHP: 75, attack: 24, defense: 4}
}

func Wyvern() *Enemy {
	return &Enemy{typeName: "Wyvern", description: "A winged drake with a venomous tail.", hp: 140, maxHP: 140, attack: 28, defense: 10}
}

func DemonLord() *Enemy {
	return &Enemy{typeName: "Demon Lord", description: "The master of the castle.", hp: 260, maxHP: 260, attack: 36, defense: 14}
}
