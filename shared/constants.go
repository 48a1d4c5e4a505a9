package shared

type Emoji = string

var EMOJIS = struct {
	CIRCLE_CHECK Emoji
	CIRCLE_CROSS Emoji
	CASH         Emoji
	TECH         Emoji
	SWORDS       Emoji
	SHIELD       Emoji
	WARNING      Emoji
	ANARCHY      Emoji
	DOVE         Emoji
}{
	CIRCLE_CHECK: ":white_check_mark:",
	CIRCLE_CROSS: ":x:",
	CASH:         ":moneybag:",
	TECH:         ":gear:",
	SWORDS:       ":crossed_swords:",
	SHIELD:       ":shield:",
	WARNING:      ":warning:",
	ANARCHY:      ":fire:",
	DOVE:         ":dove:",
}

// How many lines of aid recommendations fit in one embed before the rest are summarised.
const MAX_AID_LINES = 20

// Attackers listed per defender page in /stagger.
const ATTACKERS_PER_PAGE = 10
