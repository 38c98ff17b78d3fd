package game

import (
	"fmt"
	"math"
)

// Combatant is the minimal surface the battle core reads from either side.
type Combatant interface {
	Name() string
	HP() int
	MaxHP() int
	Attack() int
	Defense() int
	Alive() bool
}

// Hero is the player's side. DamageWithBonus folds in equipment effects
// against a specific target.
type Hero interface {
	Combatant
	DamageWithBonus(target Combatant) int
}

// --- Equipment ---

type EquipSlot int

const (
	SlotWeapon EquipSlot = iota
	SlotArmor
)

func (s EquipSlot) String() string {
	if s == SlotWeapon {
		return "Weapon"
	}
	return "Armor"
}

// Equipment adds flat stats and an optional bonus against one enemy type.
type Equipment struct {
	Name        string
	Slot        EquipSlot
	ATK         int
	DEF         int
	SlayerOf    string  // enemy type name, empty for none
	SlayerBonus float64 // e.g. 0.5 for +50% against SlayerOf
}

// --- Player ---

// Player is the hero controlled by the user.
type Player struct {
	name    string
	hp      int
	maxHP   int
	attack  int
	defense int
	weapon  *Equipment
	armor   *Equipment
	Spells  []Spell
}

// NewPlayer creates a hero at full HP.
func NewPlayer(name string, maxHP, attack, defense int) *Player {
	return &Player{name: name, hp: maxHP, maxHP: maxHP, attack: attack, defense: defense}
}

func (p *Player) Name() string { return p.name }
func (p *Player) HP() int { return p.hp }
func (p *Player) MaxHP() int { return p.maxHP }
func (p *Player) Alive() bool { return p.hp > 0 }

// Attack returns base attack plus weapon and armor bonuses.
func (p *Player) Attack() int {
	atk := p.attack
	for _, e := range p.equipped() {
		atk += e.ATK
	}
	return atk
}

// Defense returns the total defense including equipment.
func (p *Player) Defense() int {
	def := p.defense
	for _, e := range p.equipped() {
		def += e.DEF
	}
	return def
}

func (p *Player) equipped() []*Equipment {
	var result []*Equipment
	if p.weapon != nil {
		result = append(result, p.weapon)
	}
	if p.armor != nil {
		result = append(result, p.armor)
	}
	return result
}

// Equip places equipment in its slot, replacing what was there.
func (p *Player) Equip(e Equipment) {
	if e.Slot == SlotWeapon {
		p.weapon = &e
		return
	}
	p.armor = &e
}

// Weapon returns the equipped weapon, or nil.
func (p *Player) Weapon() *Equipment { return p.weapon }

// Armor returns the equipped armor, or nil.
func (p *Player) Armor() *Equipment { return p.armor }

// DamageWithBonus returns attack against target, applying slayer bonuses.
func (p *Player) DamageWithBonus(target Combatant) int {
	dmg := float64(p.Attack())
	for _, e := range p.equipped() {
		if e.SlayerOf != "" && target != nil && e.SlayerOf == target.Name() {
			dmg *= 1 + e.SlayerBonus
		}
	}
	return int(math.Floor(dmg))
}

// TakeDamage lowers HP (not below 0) and returns the HP actually lost.
func (p *Player) TakeDamage(n int) int {
	lost := min(max(n, 0), p.hp)
	p.hp -= lost
	return lost
}

func (p *Player) String() string {
	return fmt.Sprintf("%s (HP %d/%d, ATK %d, DEF %d)", p.name, p.hp, p.maxHP, p.Attack(), p.Defense())
}

// --- Enemy ---

// Enemy is a monster encountered in battle.
type Enemy struct {
	typeName    string
	description string
	hp          int
	maxHP       int
	attack      int
	defense     int
}

// NewEnemy creates an enemy at full HP.
func NewEnemy(typeName string, maxHP, attack, defense int) *Enemy {
	return &Enemy{typeName: typeName, hp: maxHP, maxHP: maxHP, attack: attack, defense: defense}
}

func (e *Enemy) Name() string { return e.typeName }
func (e *Enemy) HP() int { return e.hp }
func (e *Enemy) MaxHP() int { return e.maxHP }
func (e *Enemy) Attack() int { return e.attack }
func (e *Enemy) Defense() int { return e.defense }
func (e *Enemy) Alive() bool { return e.hp > 0 }
func (e *Enemy) Description() string { return e.description }

// TakeDamage lowers HP (not below 0) and returns the HP actually lost.
func (e *Enemy) TakeDamage(n int) int {
	lost := min(max(n, 0), e.hp)
	e.hp -= lost
	return lost
}

func (e *Enemy) String() string {
	return fmt.Sprintf("%s (HP %d/%d, ATK %d)", e.typeName, e.hp, e.maxHP, e.attack)
}
