// Package event is the message-passing context shared by the simulations and the
// presentation layer: a typed synchronous bus plus a scheduler for delayed publishes.
package event

// Kind identifies an event variant. The set is closed; every payload type in this
// package reports exactly one Kind.
type Kind uint8

const (
	KindStep           Kind = iota // player completed a 24px step
	KindLevelUp                    // player gained a level
	KindItemGet                    // item zone granted an item
	KindRecoverHP                  // water or nap zone healed the player
	KindLoseHP                     // player took damage in battle
	KindEncounter                  // map rolled a random encounter
	KindBattleStart                // battle screen is taking over
	KindBattleEnd                  // battle concluded (won or ran)
	KindRun                        // user pressed run
	KindFailToRun                  // run failed; run is disabled for this encounter
	KindSetItem                    // player inventory offered to the ingredient picker
	KindBattleDialog               // one dialog line
	KindBattleReady                // intro finished, battle accepts actions
	KindMapStart                   // map screen became active
	KindMapEnd                     // map screen stopped
	KindKey                        // direction key pressed or released
	KindMix                        // user submitted ingredients
	KindCocktailReveal             // enemy's cocktail name revealed
	KindGameOver                   // player HP reached 0 in battle
	kindCount                      // sentinel
)

var kindNames = [kindCount]string{
	KindStep:           "step",
	KindLevelUp:        "levelUp",
	KindItemGet:        "itemGet",
	KindRecoverHP:      "recoverHp",
	KindLoseHP:         "loseHp",
	KindEncounter:      "encounter",
	KindBattleStart:    "battleStart",
	KindBattleEnd:      "battleEnd",
	KindRun:            "run",
	KindFailToRun:      "failToRun",
	KindSetItem:        "setItem",
	KindBattleDialog:   "battleDialog",
	KindBattleReady:    "battleReady",
	KindMapStart:       "mapStart",
	KindMapEnd:         "mapEnd",
	KindKey:            "key",
	KindMix:            "mix",
	KindCocktailReveal: "cocktailReveal",
	KindGameOver:       "gameOver",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}
