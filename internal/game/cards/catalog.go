// Package cards holds the card definitions the engine knows about and
// loads deck lists that refer to them by name.
package cards

import (
	"fmt"
	"slices"
	"strings"

	"github.com/magefree/mage-rules-go/internal/game"
	"github.com/magefree/mage-rules-go/internal/game/counters"
	"github.com/magefree/mage-rules-go/internal/game/mana"
)

// Registry maps lower-case card names to their constructors.
var Registry = map[string]func() *game.CardTemplate{
	"mountain":          Mountain,
	"forest":            Forest,
	"goblin assailant":  GoblinAssailant,
	"grizzly bears":     GrizzlyBears,
	"llanowar elves":    LlanowarElves,
	"zurgo bellstriker": ZurgoBellstriker,
	"miraris wake":      MirarisWake,
	"mirari's wake":     MirarisWake,
	"hardened scales":   HardenedScales,
	"energy field":      EnergyField,
	"lava spike":        LavaSpike,
	"lightning bolt":    LightningBolt,
	"battlegrowth":      Battlegrowth,
	"chandra, ablaze":   ChandraAblaze,
}

// Lookup returns a new template for the named card. Names are matched
// case-insensitively.
func Lookup(name string) (*game.CardTemplate, error) {
	ctor, ok := Registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown card %q", name)
	}
	return ctor(), nil
}

// Names returns the registered card names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func basicLand(name, subtype, text string, produces mana.ManaType) *game.CardTemplate {
	return &game.CardTemplate{
		Name: name,
		Types: game.TypeLine{
			Supertypes: []game.SuperType{game.SuperBasic},
			Types:      []game.CardType{game.TypeLand},
			Subtypes:   []string{subtype},
		},
		Text: text,
		Abilities: []game.AbilityTemplate{{
			Class:       game.ClassActivated,
			Description: "{T}: Add {" + produces.Symbol() + "}",
			Cost:        game.Cost{Tap: true},
			Effect:      AddMana{Mana: produces},
		}},
	}
}

func creature(name, cost string, power, toughness int, subtypes ...string) *game.CardTemplate {
	return &game.CardTemplate{
		Name:      name,
		Cost:      mana.MustParseCost(cost),
		Types:     game.TypeLine{Types: []game.CardType{game.TypeCreature}, Subtypes: subtypes},
		Power:     power,
		Toughness: toughness,
	}
}

func spell(name, cost string, t game.CardType, speed game.Speed, text string, effect game.OneShot) *game.CardTemplate {
	return &game.CardTemplate{
		Name:  name,
		Cost:  mana.MustParseCost(cost),
		Types: game.TypeLine{Types: []game.CardType{t}},
		Text:  text,
		Castables: []game.CastableTemplate{{
			Description: "Cast " + name,
			Speed:       speed,
			Spawner:     game.SpellEffect{Effect: effect},
		}},
	}
}

func Mountain() *game.CardTemplate {
	return basicLand("Mountain", "Mountain", "One day, night will come to these mountains.", mana.ManaRed)
}

func Forest() *game.CardTemplate {
	return basicLand("Forest", "Forest", "", mana.ManaGreen)
}

func GoblinAssailant() *game.CardTemplate {
	t := creature("Goblin Assailant", "{1}{R}", 2, 2, "Goblin", "Warrior")
	t.Text = "What he lacks in patience, intelligence, empathy, lucidity, hygiene, ability to follow orders, self-regard, and discernible skills, he makes up for in sheer chaotic violence."
	return t
}

func GrizzlyBears() *game.CardTemplate {
	return creature("Grizzly Bears", "{1}{G}", 2, 2, "Bear")
}

func LlanowarElves() *game.CardTemplate {
	t := creature("Llanowar Elves", "{G}", 1, 1, "Elf", "Druid")
	t.Abilities = []game.AbilityTemplate{{
		Class:       game.ClassActivated,
		Description: "{T}: Add {G}",
		Cost:        game.Cost{Tap: true},
		Effect:      AddMana{Mana: mana.ManaGreen},
	}}
	return t
}

func ZurgoBellstriker() *game.CardTemplate {
	t := creature("Zurgo Bellstriker", "{R}", 2, 2, "Orc", "Warrior")
	t.Types.Supertypes = []game.SuperType{game.SuperLegendary}
	return t
}

func MirarisWake() *game.CardTemplate {
	return &game.CardTemplate{
		Name:  "Mirari's Wake",
		Cost:  mana.MustParseCost("{3}{G}{W}"),
		Types: game.TypeLine{Types: []game.CardType{game.TypeEnchantment}},
		Text:  "Even after a false god tore the magic from Dominaria, power still radiated from the Mirari sword that slew her.",
		Abilities: []game.AbilityTemplate{
			{
				Class:       game.ClassStatic,
				Description: "Creatures you control get +1/+1.",
				Effect:      Anthem{Power: 1, Toughness: 1},
			},
			{
				Class:       game.ClassTriggered,
				Description: "Whenever you tap a land for mana, add one mana of any type that land produced.",
				Effect:      LandManaDoubler{},
			},
		},
	}
}

func HardenedScales() *game.CardTemplate {
	return &game.CardTemplate{
		Name:  "Hardened Scales",
		Cost:  mana.MustParseCost("{G}"),
		Types: game.TypeLine{Types: []game.CardType{game.TypeEnchantment}},
		Abilities: []game.AbilityTemplate{{
			Class:       game.ClassTriggered,
			Description: "If one or more +1/+1 counters would be put on a creature you control, that many plus one are put on it instead.",
			Effect:      ExtraCounters{Extra: 1},
		}},
	}
}

func EnergyField() *game.CardTemplate {
	return &game.CardTemplate{
		Name:  "Energy Field",
		Cost:  mana.MustParseCost("{1}{U}"),
		Types: game.TypeLine{Types: []game.CardType{game.TypeEnchantment}},
		Abilities: []game.AbilityTemplate{{
			Class:       game.ClassReplacement,
			Description: "Prevent all damage that would be dealt to you.",
			Effect:      PreventDamage{},
		}},
	}
}

func LavaSpike() *game.CardTemplate {
	return spell("Lava Spike", "{R}", game.TypeSorcery, game.SpeedSorcery,
		"Lava Spike deals 3 damage to each opponent.", DamageOpponents{Amount: 3})
}

func LightningBolt() *game.CardTemplate {
	return spell("Lightning Bolt", "{R}", game.TypeInstant, game.SpeedInstant,
		"Lightning Bolt deals 3 damage to each opponent.", DamageOpponents{Amount: 3})
}

func Battlegrowth() *game.CardTemplate {
	return spell("Battlegrowth", "{G}", game.TypeInstant, game.SpeedInstant,
		"Put a +1/+1 counter on each creature you control.",
		CounterEach{Counter: counters.CounterTypeP1P1, Amount: 1})
}

func ChandraAblaze() *game.CardTemplate {
	return &game.CardTemplate{
		Name: "Chandra, Ablaze",
		Cost: mana.MustParseCost("{4}{R}{R}"),
		Types: game.TypeLine{
			Supertypes: []game.SuperType{game.SuperLegendary},
			Types:      []game.CardType{game.TypePlaneswalker},
			Subtypes:   []string{"Chandra"},
		},
		Loyalty: 5,
		Abilities: []game.AbilityTemplate{{
			Class:       game.ClassActivated,
			Description: "-1: Chandra deals 1 damage to each opponent.",
			Effect:      Loyalty{Cost: 1, Then: DamageOpponents{Amount: 1}},
		}},
	}
}
