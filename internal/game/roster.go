package game

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RosterFile represents the top-level YAML structure.
type RosterFile struct {
	Hero    HeroEntry    `yaml:"hero"`
	Enemies []EnemyEntry `yaml:"enemies"`
}

// HeroEntry describes the player's starting profile.
type HeroEntry struct {
	Name    string          `yaml:"name"`
	MaxHP   int             `yaml:"max_hp"`
	Attack  int             `yaml:"attack"`
	Defense int             `yaml:"defense"`
	Weapon  *EquipmentEntry `yaml:"weapon,omitempty"`
	Armor   *EquipmentEntry `yaml:"armor,omitempty"`
	Spells  []string        `yaml:"spells"`
}

// EquipmentEntry describes one piece of equipment.
type EquipmentEntry struct {
	Name        string  `yaml:"name"`
	Attack      int     `yaml:"attack"`
	Defense     int     `yaml:"defense"`
	SlayerOf    string  `yaml:"slayer_of,omitempty"`
	SlayerBonus float64 `yaml:"slayer_bonus,omitempty"`
}

// EnemyEntry is either a reference to a registered enemy (name only) or a
// fully specified custom enemy.
type EnemyEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	MaxHP       int    `yaml:"max_hp,omitempty"`
	Attack      int    `yaml:"attack,omitempty"`
	Defense     int    `yaml:"defense,omitempty"`
}

// ParseRoster parses roster YAML.
func ParseRoster(data []byte) (*RosterFile, error) {
	var rf RosterFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse roster YAML: %w", err)
	}
	if rf.Hero.MaxHP <= 0 {
		return nil, fmt.Errorf("hero %q: max_hp must be positive", rf.Hero.Name)
	}
	if rf.Hero.Attack < 0 || rf.Hero.Defense < 0 {
		return nil, fmt.Errorf("hero %q: attack and defense must not be negative", rf.Hero.Name)
	}
	for i, e := range rf.Enemies {
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("enemy %d %q: %w", i+1, e.Name, err)
		}
	}
	return &rf, nil
}

// validate checks a custom entry's stats. Registry references carry none.
func (e EnemyEntry) validate() error {
	switch {
	case e.MaxHP < 0:
		return errors.New("max_hp must be positive")
	case e.MaxHP == 0 && (e.Attack != 0 || e.Defense != 0):
		return errors.New("attack and defense need max_hp")
	case e.Attack < 0 || e.Defense < 0:
		return errors.New("attack and defense must not be negative")
	}
	return nil
}

// ParseRosterFile reads and parses a roster YAML file.
func ParseRosterFile(path string) (*RosterFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRoster(data)
}

// NewHero builds a fresh Player from the hero entry.
func (rf *RosterFile) NewHero() (*Player, error) {
	h := rf.Hero
	p := NewPlayer(h.Name, h.MaxHP, h.Attack, h.Defense)
	if h.Weapon != nil {
		p.Equip(h.Weapon.toEquipment(SlotWeapon))
	}
	if h.Armor != nil {
		p.Equip(h.Armor.toEquipment(SlotArmor))
	}
	for _, name := range h.Spells {
		s, err := LookupSpell(name)
		if err != nil {
			return nil, fmt.Errorf("hero %q: %w", h.Name, err)
		}
		p.Spells = append(p.Spells, s)
	}
	return p, nil
}

func (e *EquipmentEntry) toEquipment(slot EquipSlot) Equipment {
	return Equipment{
		Name:        e.Name,
		Slot:        slot,
		ATK:         e.Attack,
		DEF:         e.Defense,
		SlayerOf:    e.SlayerOf,
		SlayerBonus: e.SlayerBonus,
	}
}

// NewEnemy builds a fresh Enemy from the entry. Entries without stats are
// looked up in EnemyRegistry.
func (e EnemyEntry) NewEnemy() (*Enemy, error) {
	if e.MaxHP == 0 {
		return LookupEnemy(e.Name)
	}
	return &Enemy{
		typeName:    e.Name,
		description: e.Description,
		hp:          e.MaxHP,
		maxHP:       e.MaxHP,
		attack:      e.Attack,
		defense:     e.Defense,
	}, nil
}

// EnemyByNumber returns the Nth enemy (1-indexed) of the roster.
func (rf *RosterFile) EnemyByNumber(n int) (*Enemy, error) {
	if n < 1 || n > len(rf.Enemies) {
		return nil, fmt.Errorf("enemy %d not found (have %d enemies)", n, len(rf.Enemies))
	}
	return rf.Enemies[n-1].NewEnemy()
}

// LoadMatchup reads the roster file and returns a fresh hero and the Nth enemy.
func LoadMatchup(path string, enemyNumber int) (*Player, *Enemy, error) {
	rf, err := ParseRosterFile(path)
	if err != nil {
		return nil, nil, err
	}
	hero, err := rf.NewHero()
	if err != nil {
		return nil, nil, err
	}
	enemy, err := rf.EnemyByNumber(enemyNumber)
	if err != nil {
		return nil, nil, err
	}
	return hero, enemy, nil
}
