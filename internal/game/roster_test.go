package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testRoster = `
hero:
  name: Arlen
  max_hp: 120
  attack: 18
  defense: 6
  weapon:
    name: Goblin Bane
    attack: 4
    slayer_of: Goblin
    slayer_bonus: 0.5
  armor:
    name: Leather Vest
    defense: 3
  spells: [Flare, Gale]
enemies:
  - name: Goblin
  - name: Mimic
    description: A chest with teeth.
    max_hp: 44
    attack: 16
    defense: 2
`

func TestParseRoster(t *testing.T) {
	rf, err := ParseRoster([]byte(testRoster))
	if err != nil {
		t.Fatal(err)
	}

	hero, err := rf.NewHero()
	if err != nil {
		t.Fatal(err)
	}
	if hero.Name() != "Arlen" || hero.HP() != 120 || hero.MaxHP() != 120 {
		t.Errorf("hero = %s", hero)
	}
	if hero.Attack() != 22 || hero.Defense() != 9 {
		t.Errorf("ATK/DEF = %d/%d, want 22/9", hero.Attack(), hero.Defense())
	}
	if hero.Weapon() == nil || hero.Weapon().Name != "Goblin Bane" || hero.Armor() == nil {
		t.Errorf("equipment = %+v / %+v", hero.Weapon(), hero.Armor())
	}
	if len(hero.Spells) != 2 || hero.Spells[0].Name != "Flare" || hero.Spells[1].Name != "Gale" {
		t.Errorf("spells = %v", hero.Spells)
	}

	goblin, err := rf.EnemyByNumber(1)
	if err != nil {
		t.Fatal(err)
	}
	if goblin.Name() != "Goblin" || goblin.MaxHP() != 55 {
		t.Errorf("registry enemy = %s", goblin)
	}
	// 22 * 1.5
	if got := hero.DamageWithBonus(goblin); got != 33 {
		t.Errorf("damage vs Goblin = %d, want 33", got)
	}

	mimic, err := rf.EnemyByNumber(2)
	if err != nil {
		t.Fatal(err)
	}
	if mimic.Name() != "Mimic" || mimic.HP() != 44 || mimic.Attack() != 16 || mimic.Defense() != 2 {
		t.Errorf("custom enemy = %s", mimic)
	}
	if mimic.Description() != "A chest with teeth." {
		t.Errorf("description = %q", mimic.Description())
	}
	if got := hero.DamageWithBonus(mimic); got != 22 {
		t.Errorf("damage vs Mimic = %d, want 22", got)
	}

	if _, err := rf.EnemyByNumber(3); err == nil {
		t.Error("expected error for enemy 3")
	}
	if _, err := rf.EnemyByNumber(0); err == nil {
		t.Error("expected error for enemy 0")
	}
}

func TestParseRosterErrors(t *testing.T) {
	if _, err := ParseRoster([]byte("hero: [")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := ParseRoster([]byte("hero:\n  name: Ghost\n")); err == nil {
		t.Error("expected error for missing max_hp")
	}

	bad := []struct {
		name string
		yaml string
	}{
		{"negative hero attack", "hero: {name: Arlen, max_hp: 10, attack: -1}\n"},
		{"negative enemy max_hp", "hero: {name: Arlen, max_hp: 10}\nenemies:\n  - {name: Wisp, max_hp: -5, attack: 3}\n"},
		{"negative enemy attack", "hero: {name: Arlen, max_hp: 10}\nenemies:\n  - {name: Wisp, max_hp: 5, attack: -3}\n"},
		{"negative enemy defense", "hero: {name: Arlen, max_hp: 10}\nenemies:\n  - {name: Wisp, max_hp: 5, defense: -1}\n"},
		{"stats without max_hp", "hero: {name: Arlen, max_hp: 10}\nenemies:\n  - {name: Slime}\n  - {name: Wisp, attack: 3}\n"},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			if rf, err := ParseRoster([]byte(tc.yaml)); err == nil {
				t.Errorf("ParseRoster accepted %+v", rf)
			}
		})
	}

	rf, err := ParseRoster([]byte("hero:\n  name: Arlen\n  max_hp: 10\n  spells: [Meteor]\nenemies:\n  - name: Kraken\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rf.NewHero(); !errors.Is(err, ErrUnknownSpell) {
		t.Errorf("NewHero error = %v, want ErrUnknownSpell", err)
	}
	if _, err := rf.EnemyByNumber(1); !errors.Is(err, ErrUnknownEnemy) {
		t.Errorf("EnemyByNumber error = %v, want ErrUnknownEnemy", err)
	}
}

func TestLoadMatchup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	if err := os.WriteFile(path, []byte(testRoster), 0o644); err != nil {
		t.Fatal(err)
	}

	hero, enemy, err := LoadMatchup(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	if hero.Name() != "Arlen" || enemy.Name() != "Mimic" {
		t.Errorf("matchup = %s vs %s", hero.Name(), enemy.Name())
	}

	// Each call builds fresh combatants.
	hero.TakeDamage(50)
	hero2, _, err := LoadMatchup(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	if hero2.HP() != hero2.MaxHP() {
		t.Errorf("second load HP = %d, want full", hero2.HP())
	}

	if _, _, err := LoadMatchup(filepath.Join(t.TempDir(), "missing.yaml"), 1); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRegistryLookups(t *testing.T) {
	for name := range EnemyRegistry {
		e, err := LookupEnemy(name)
		if err != nil {
			t.Fatal(err)
		}
		if e.Name() != name || e.HP() != e.MaxHP() || e.MaxHP() <= 0 {
			t.Errorf("LookupEnemy(%q) = %s", name, e)
		}
	}
	a, _ := LookupEnemy("Slime")
	b, _ := LookupEnemy("Slime")
	a.TakeDamage(5)
	if b.HP() != b.MaxHP() {
		t.Error("registry enemies share state")
	}

	names := SpellNames()
	if len(names) != len(SpellRegistry) {
		t.Fatalf("SpellNames = %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("SpellNames not sorted: %v", names)
		}
	}
	if _, err := LookupSpell("Flare"); err != nil {
		t.Error(err)
	}
}

func TestPlayerHP(t *testing.T) {
	p := NewPlayer("Arlen", 50, 10, 2)
	if lost := p.TakeDamage(20); lost != 20 || p.HP() != 30 {
		t.Errorf("TakeDamage(20) lost %d, HP %d", lost, p.HP())
	}
	if lost := p.TakeDamage(-5); lost != 0 || p.HP() != 30 {
		t.Errorf("negative damage changed HP to %d", p.HP())
	}
	if lost := p.TakeDamage(80); lost != 30 || p.Alive() || p.HP() != 0 {
		t.Errorf("overkill lost %d, HP %d, alive %v", lost, p.HP(), p.Alive())
	}
}
