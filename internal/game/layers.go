package game

import "slices"

// Layer corresponds to the comprehensive rules layers for continuous effects.
type Layer int

const (
	LayerCopy Layer = 1 + iota
	LayerControl
	LayerText
	LayerType
	LayerColor
	LayerAbility
	LayerPowerToughness
)

var layerNames = map[Layer]string{
	LayerCopy:           "COPY",
	LayerControl:        "CONTROL",
	LayerText:           "TEXT",
	LayerType:           "TYPE",
	LayerColor:          "COLOR",
	LayerAbility:        "ABILITY",
	LayerPowerToughness: "POWER_TOUGHNESS",
}

func (l Layer) String() string {
	return layerNames[l]
}

// Layered is implemented by static effects that belong to a specific layer.
// Statics without a layer are applied with the ability layer.
type Layered interface {
	Layer() Layer
}

func layerOf(e Effect) Layer {
	if l, ok := e.(Layered); ok && l.Layer() >= LayerCopy && l.Layer() <= LayerPowerToughness {
		return l.Layer()
	}
	return LayerAbility
}

// sortByLayer orders statics by layer, keeping discovery order within a layer.
func sortByLayer(statics []AssignedAbility, layer func(AssignedAbility) Layer) []AssignedAbility {
	sorted := slices.Clone(statics)
	slices.SortStableFunc(sorted, func(a, b AssignedAbility) int {
		return int(layer(a)) - int(layer(b))
	})
	return sorted
}
