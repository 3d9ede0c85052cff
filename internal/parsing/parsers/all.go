/**
 * @description
 * Compile-time parser registry: constructs one instance of every parser.
 * Replaces the original source's dynamic loader() discovery mechanism
 * with an explicit list, per the rearchitecture guidance to prefer
 * compile-time registries over runtime module discovery.
 */

package parsers

import "github.com/oracle-observer/backend/internal/parsing"

// All returns a fresh instance of every parser.
func All() []parsing.Parser {
	return []parsing.Parser{
		NewItemChangeParser(),
		NewBagModifyParser(),
		NewPlayerJoinParser(),
		NewGameViewParser(),
		NewGamePauseParser(),
		NewExpUpdateParser(),
		NewExitLevelParser(),
		NewLoadingProgressParser(),
		NewMapLoadedParser(),
		NewWorldTransitionParser(),
		NewPingParser(),
		NewS12GameplayParser(),
		NewTransitionStyleParser(),
		NewGameMessageParser(),
		NewEnterLevelParser(),
		NewStageAffixParser(),
	}
}
