/**
 * @description
 * Parser-originated event structs. One struct per parser output, field
 * shapes grounded on the original source's parsing/events/* dataclasses
 * and the individual parser implementations under parsing/parsers/*.py.
 *
 * @dependencies
 * - internal/eventbus (EventType, Event)
 * - internal/mapdata (MapStarted-equivalent lookups use this downstream)
 */

package events

import (
	"time"

	"github.com/oracle-observer/backend/internal/eventbus"
	"github.com/oracle-observer/backend/internal/mapdata"
)

type ItemChangeAction string

const (
	ItemChangeAdd    ItemChangeAction = "Add"
	ItemChangeUpdate ItemChangeAction = "Update"
	ItemChangeDelete ItemChangeAction = "Delete"
)

// ItemChangeEvent mirrors ItemChange@ log lines.
type ItemChangeEvent struct {
	Timestamp time.Time
	Action    ItemChangeAction
	ItemID    int
	Amount    int
	Page      int
	Slot      int
	Name      string
	Category  string
}

func (ItemChangeEvent) Type() eventbus.EventType { return eventbus.EventItemChange }

// BagModifyEvent mirrors BagMgr@:Modfy BagItem log lines.
type BagModifyEvent struct {
	Timestamp time.Time
	Page      int
	Slot      int
	ItemID    int
	Quantity  int
}

func (BagModifyEvent) Type() eventbus.EventType { return eventbus.EventBagModify }

// PlayerJoinEvent mirrors SwitchBattleAreaUtil:_JoinFight log lines.
type PlayerJoinEvent struct {
	Timestamp  time.Time
	PlayerName string
	AreaID     int
}

func (PlayerJoinEvent) Type() eventbus.EventType { return eventbus.EventPlayerJoin }

// GameViewEvent mirrors CurRunView= log lines. Timestamp uses wall-clock
// receipt time (the original does not parse a timestamp from this line).
type GameViewEvent struct {
	Timestamp time.Time
	View      string
}

func (GameViewEvent) Type() eventbus.EventType { return eventbus.EventGameView }

// GamePauseEvent mirrors UGameMgr::AddGamePausedForUI() and
// UGameMgr::RemovePausedForUI() lines.
type GamePauseEvent struct {
	Timestamp time.Time
	IsPaused  bool
}

func (GamePauseEvent) Type() eventbus.EventType { return eventbus.EventGamePause }

// ExpUpdateEvent mirrors ExpMgr@UpdateExp Percent: log lines.
type ExpUpdateEvent struct {
	Timestamp  time.Time
	Experience int
	Level      int
}

func (ExpUpdateEvent) Type() eventbus.EventType { return eventbus.EventExpUpdate }

// ExitLevelEvent mirrors UGameMgr::ExitLevel() lines.
type ExitLevelEvent struct {
	Timestamp time.Time
}

func (ExitLevelEvent) Type() eventbus.EventType { return eventbus.EventExitLevel }

// LoadingProgressEvent mirrors Loading@ P=,S= lines.
type LoadingProgressEvent struct {
	Timestamp time.Time
	Page      int
	Stage     string
	Percent   int
}

func (LoadingProgressEvent) Type() eventbus.EventType { return eventbus.EventLoadingProgress }

// MapLoadedEvent mirrors SceneLevelMgr@ OpenMainWorld END! lines.
type MapLoadedEvent struct {
	Timestamp time.Time
	LevelPath string
}

func (MapLoadedEvent) Type() eventbus.EventType { return eventbus.EventMapLoaded }

// WorldTransitionEvent mirrors PageApplyBase@ BackFlow lines.
type WorldTransitionEvent struct {
	Timestamp                 time.Time
	BackFlow                  int
	IsSwitchingSubWorldToMain bool
}

func (WorldTransitionEvent) Type() eventbus.EventType { return eventbus.EventWorldTransition }

// PingEvent mirrors TCP Ping Result: lines.
type PingEvent struct {
	Timestamp time.Time
	PingMS    int
}

func (PingEvent) Type() eventbus.EventType { return eventbus.EventPing }

// S12GameplayEvent mirrors PlayS12GamePlayBGM layer= lines. Layer is
// parsed and forwarded to WebSocket clients but consumed by no domain
// service, matching the original.
type S12GameplayEvent struct {
	Timestamp time.Time
	Layer     int
}

func (S12GameplayEvent) Type() eventbus.EventType { return eventbus.EventS12Gameplay }

// TransitionStyleEvent mirrors TransitionMgr@ShowTransition lines.
type TransitionStyleEvent struct {
	Timestamp time.Time
	Style     string
}

func (TransitionStyleEvent) Type() eventbus.EventType { return eventbus.EventTransitionStyle }

// GameMessageEvent mirrors MsgMgr@:Show MsgValue= lines.
type GameMessageEvent struct {
	Timestamp time.Time
	Message   string
}

func (GameMessageEvent) Type() eventbus.EventType { return eventbus.EventGameMessage }

// EnterLevelEvent is emitted by the 3-line enter-level FSM.
type EnterLevelEvent struct {
	Timestamp time.Time
	LevelID   int
	LevelUID  int
	LevelType int
	Map       mapdata.Map
}

func (EnterLevelEvent) Type() eventbus.EventType { return eventbus.EventEnterLevel }

// StageAffixEvent is emitted by the AffixInfos/OnEnterAreaEnd block FSM.
type StageAffixEvent struct {
	Timestamp time.Time
	LevelID   int
	Affixes   []AffixInfo
}

func (StageAffixEvent) Type() eventbus.EventType { return eventbus.EventStageAffix }

// AffixInfo is one +Id/+Description pair captured within a StageAffix
// block.
type AffixInfo struct {
	AffixID     string
	Description string
}
