package web

import (
	"fmt"

	"github.com/peterkuimelis/rpgx/internal/game"
)

// EnemyInfo is the JSON representation of an enemy for the /api/enemies endpoint.
type EnemyInfo struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MaxHP       int    `json:"maxHp"`
	Attack      int    `json:"attack"`
	Defense     int    `json:"defense"`
}

// HeroInfo is the JSON representation of the roster hero.
type HeroInfo struct {
	Name    string   `json:"name"`
	MaxHP   int      `json:"maxHp"`
	Attack  int      `json:"attack"`
	Defense int      `json:"defense"`
	Weapon  string   `json:"weapon,omitempty"`
	Armor   string   `json:"armor,omitempty"`
	Spells  []string `json:"spells"`
}

// RosterInfo is the payload of the /api/roster endpoint.
type RosterInfo struct {
	Hero    HeroInfo    `json:"hero"`
	Enemies []EnemyInfo `json:"enemies"`
}

// SpellInfo is the JSON representation of a registered spell.
type SpellInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func loadRosterInfo(path string) (*RosterInfo, error) {
	rf, err := game.ParseRosterFile(path)
	if err != nil {
		return nil, err
	}

	hero, err := rf.NewHero()
	if err != nil {
		return nil, err
	}
	info := &RosterInfo{
		Hero: HeroInfo{
			Name:    hero.Name(),
			MaxHP:   hero.MaxHP(),
			Attack:  hero.Attack(),
			Defense: hero.Defense(),
			Spells:  []string{},
		},
		Enemies: []EnemyInfo{},
	}
	if w := hero.Weapon(); w != nil {
		info.Hero.Weapon = w.Name
	}
	if a := hero.Armor(); a != nil {
		info.Hero.Armor = a.Name
	}
	for _, s := range hero.Spells {
		info.Hero.Spells = append(info.Hero.Spells, s.Name)
	}

	for i := range rf.Enemies {
		e, err := rf.EnemyByNumber(i + 1)
		if err != nil {
			return nil, fmt.Errorf("enemy %d: %w", i+1, err)
		}
		info.Enemies = append(info.Enemies, EnemyInfo{
			Number:      i + 1,
			Name:        e.Name(),
			Description: e.Description(),
			MaxHP:       e.MaxHP(),
			Attack:      e.Attack(),
			Defense:     e.Defense(),
		})
	}
	return info, nil
}

func spellInfos() []SpellInfo {
	var spells []SpellInfo
	for _, name := range game.SpellNames() {
		s := game.SpellRegistry[name]
		spells = append(spells, SpellInfo{Name: s.Name, Description: s.Description})
	}
	return spells
}
