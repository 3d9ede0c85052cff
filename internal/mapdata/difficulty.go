/**
 * @description
 * Map difficulty tier, ordered hardest-to-easiest. Grounded on the
 * original source's parsing/parsers/maps/difficulty.py OrderedEnumMixin.
 */

package mapdata

// Difficulty is an ordered tier label, hardest first.
type Difficulty string

const (
	T8Plus Difficulty = "T8_PLUS"
	T8_2   Difficulty = "T8_2"
	T8_1   Difficulty = "T8_1"
	T8_0   Difficulty = "T8_0"
	T7_2   Difficulty = "T7_2"
	T7_1   Difficulty = "T7_1"
	T7_0   Difficulty = "T7_0"
	T6     Difficulty = "T6"
	T5     Difficulty = "T5"
	T4     Difficulty = "T4"
	T3     Difficulty = "T3"
	T2     Difficulty = "T2"
	T1     Difficulty = "T1"
	DS     Difficulty = "DS"
)

// orderedTiers lists every tier hardest-to-easiest, mirroring the
// enumeration order of the original OrderedEnumMixin.
var orderedTiers = []Difficulty{T8Plus, T8_2, T8_1, T8_0, T7_2, T7_1, T7_0, T6, T5, T4, T3, T2, T1, DS}

func rank(d Difficulty) int {
	for i, t := range orderedTiers {
		if t == d {
			return i
		}
	}
	return len(orderedTiers)
}

// Harder reports whether a is a strictly harder tier than b.
func Harder(a, b Difficulty) bool { return rank(a) < rank(b) }
