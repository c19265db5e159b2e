package lexicon

import "github.com/fabulist-labs/descry/internal/core/domain"

// defaultTerms returns the built-in per-type vocabularies. The lists are
// deliberately small and high-precision; recall comes from running the
// engine alongside the others in an ensemble.
func defaultTerms() map[domain.DescriptionType]map[string]bool {
	return map[domain.DescriptionType]map[string]bool{
		domain.TypeLocation:   toSet(locationTerms),
		domain.TypeCharacter:  toSet(characterTerms),
		domain.TypeAtmosphere: toSet(atmosphereTerms),
		domain.TypeObject:     toSet(objectTerms),
		domain.TypeAction:     toSet(actionTerms),
	}
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

var locationTerms = []string{
	"castle", "tower", "hall", "chamber", "corridor", "courtyard",
	"forest", "wood", "grove", "meadow", "valley", "mountain", "cliff",
	"river", "lake", "shore", "harbour", "harbor", "sea", "ocean",
	"village", "town", "city", "street", "alley", "square", "market",
	"tavern", "inn", "church", "cathedral", "temple", "palace",
	"garden", "orchard", "field", "road", "bridge", "gate", "wall",
	"cottage", "cabin", "hut", "manor", "mansion", "library", "cellar",
	"attic", "kitchen", "stable", "dungeon", "cave", "cavern", "ruins",
}

var characterTerms = []string{
	"man", "woman", "boy", "girl", "child", "stranger", "figure",
	"face", "eyes", "hair", "beard", "hands", "shoulders", "smile",
	"tall", "short", "slender", "stout", "gaunt", "handsome",
	"beautiful", "pale", "weathered", "wrinkled", "youthful",
	"old", "young", "elderly", "dressed", "wearing", "clad", "cloaked",
	"soldier", "knight", "priest", "merchant", "servant", "king",
	"queen", "prince", "princess", "lady", "lord", "captain", "doctor",
}

var atmosphereTerms = []string{
	"dark", "darkness", "gloom", "gloomy", "shadow", "shadows",
	"light", "sunlight", "moonlight", "twilight", "dusk", "dawn",
	"mist", "misty", "fog", "foggy", "haze", "rain", "storm",
	"thunder", "lightning", "wind", "breeze", "snow", "frost", "cold",
	"warm", "heat", "silence", "silent", "quiet", "still", "eerie",
	"grim", "cheerful", "golden", "grey", "gray", "crimson", "chill",
	"damp", "smoke", "glow", "glimmer", "flicker", "gleam",
}

var objectTerms = []string{
	"sword", "dagger", "blade", "shield", "armour", "armor", "helmet",
	"bow", "arrow", "spear", "staff", "wand", "ring", "amulet",
	"crown", "sceptre", "scepter", "chalice", "goblet", "cup",
	"book", "tome", "scroll", "letter", "map", "key", "chest", "coffer",
	"lantern", "lamp", "candle", "torch", "mirror", "portrait",
	"table", "chair", "throne", "bed", "carpet", "tapestry", "curtain",
	"cloak", "coat", "gown", "hat", "boots", "gloves", "purse", "coin",
}

var actionTerms = []string{
	"ran", "running", "leapt", "leaped", "jumped", "climbed", "fell",
	"falling", "rode", "riding", "galloped", "charged", "fled",
	"chased", "fought", "fighting", "struck", "swung", "stabbed",
	"threw", "throwing", "caught", "grabbed", "seized", "dragged",
	"pushed", "pulled", "lifted", "carried", "danced", "dancing",
	"marched", "crept", "crawled", "stumbled", "dashed", "sprinted",
	"dove", "plunged", "burst", "smashed", "shattered", "collapsed",
}
