package game

// Query is a read that static abilities may modify in place. Queries are
// always passed as pointers.
type Query interface {
	Name() string
	isQuery()
}

// PermanentAbilitiesQuery asks which abilities a permanent has.
type PermanentAbilitiesQuery struct {
	Permanent PermanentID
	Abilities []AbilityID
}

// CardAbilitiesQuery asks which abilities a card has while off the battlefield.
type CardAbilitiesQuery struct {
	Card      CardID
	Abilities []AbilityID
}

// CardCastablesQuery asks in which ways a card can be played.
type CardCastablesQuery struct {
	Card      CardID
	Castables []CastableID
}

// ObservePermanentQuery asks for the current characteristics of a permanent.
type ObservePermanentQuery struct {
	Permanent Permanent
}

func (*PermanentAbilitiesQuery) Name() string { return "PermanentAbilities" }
func (*CardAbilitiesQuery) Name() string      { return "CardAbilities" }
func (*CardCastablesQuery) Name() string      { return "CardCastables" }
func (*ObservePermanentQuery) Name() string   { return "ObservePermanent" }

func (*PermanentAbilitiesQuery) isQuery() {}
func (*CardAbilitiesQuery) isQuery()      {}
func (*CardCastablesQuery) isQuery()      {}
func (*ObservePermanentQuery) isQuery()   {}
