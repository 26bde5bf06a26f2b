package state

// Type tags each concrete state. The Machine owns exactly one state per Type.
type Type int

const (
	TypeTitle Type = iota
	TypeSceneTransition
	TypeFadeIn
	TypeFadeOut
	TypePlayMusic
	TypeMonologue
	TypeAISelect
	TypePlayerSelect
	TypePlayerLoop
	TypeDecisionInit
	TypeSkillName
	TypeSkillAnimation
	TypeDamageCalc
	TypeSkillLoop
	TypeBattleLoop
	TypeOutcome
	TypeWin
	TypeLose
	TypeClose
	TypeLevelUpLoad
	TypeLevelUpSelect
	TypeLevelUpLoop

	typeCount
)

var typeNames = [typeCount]string{
	TypeTitle:           "title",
	TypeSceneTransition: "scene_transition",
	TypeFadeIn:          "fade_in",
	TypeFadeOut:         "fade_out",
	TypePlayMusic:       "play_music",
	TypeMonologue:       "monologue",
	TypeAISelect:        "ai_select",
	TypePlayerSelect:    "player_select",
	TypePlayerLoop:      "player_loop",
	TypeDecisionInit:    "decision_init",
	TypeSkillName:       "skill_name",
	TypeSkillAnimation:  "skill_animation",
	TypeDamageCalc:      "damage_calc",
	TypeSkillLoop:       "skill_loop",
	TypeBattleLoop:      "battle_loop",
	TypeOutcome:         "outcome",
	TypeWin:             "win",
	TypeLose:            "lose",
	TypeClose:           "close",
	TypeLevelUpLoad:     "level_up_load",
	TypeLevelUpSelect:   "level_up_select",
	TypeLevelUpLoop:     "level_up_loop",
}

// String returns the snake_case state name.
func (t Type) String() string {
	if t < 0 || t >= typeCount {
		return "unknown"
	}
	return typeNames[t]
}

// Flow names one of the scripted sequences the Machine can run.
type Flow int

const (
	FlowBeginning Flow = iota
	FlowBattle
	FlowBattleLost
	FlowLevelUp

	flowCount
)

// String returns the flow name.
func (f Flow) String() string {
	switch f {
	case FlowBeginning:
		return "beginning"
	case FlowBattle:
		return "battle"
	case FlowBattleLost:
		return "battle_lost"
	case FlowLevelUp:
		return "level_up"
	default:
		return "unknown"
	}
}

// Sequences returns the state order of every flow.
func Sequences() map[Flow][]Type {
	return map[Flow][]Type{
		FlowBeginning: {TypeTitle, TypeSceneTransition},
		FlowBattle: {
			TypeFadeIn, TypePlayMusic, TypeMonologue,
			TypeAISelect, TypePlayerSelect, TypePlayerLoop,
			TypeDecisionInit, TypeSkillName, TypeSkillAnimation, TypeDamageCalc, TypeSkillLoop,
			TypeBattleLoop, TypeOutcome, TypeWin, TypeFadeOut, TypeSceneTransition,
		},
		FlowBattleLost: {TypeLose, TypeFadeOut, TypeClose},
		FlowLevelUp: {
			TypeFadeIn, TypePlayMusic,
			TypeLevelUpLoad, TypeLevelUpSelect, TypeLevelUpLoop,
			TypeFadeOut, TypeSceneTransition,
		},
	}
}
