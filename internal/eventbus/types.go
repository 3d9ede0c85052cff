/**
 * @description
 * The canonical event-type keyspace. Parser events and service events
 * share one enum, collapsing the two parallel enums the original source
 * kept (ParserEventType, ServiceEventType) into a single registry, per the
 * rearchitecture guidance to collapse duplicate event-type modules.
 */

package eventbus

// EventType identifies the kind of an Event flowing through the bus.
type EventType string

const (
	EventNone EventType = "none"

	// Parser-originated events.
	EventItemChange         EventType = "item_change"
	EventItemPickup         EventType = "item_pickup"
	EventGameView           EventType = "game_view"
	EventSceneTransitionStart EventType = "scene_transition_start"
	EventBagModify           EventType = "bag_modify"
	EventPing                EventType = "ping"
	EventLoadingProgress     EventType = "loading_progress"
	EventEnterLevel          EventType = "enter_level"
	EventExitLevel           EventType = "exit_level"
	EventStageAffix          EventType = "stage_affix"
	EventMapLoaded           EventType = "map_loaded"
	EventWorldTransition     EventType = "world_transition"
	EventMonsterSpawn        EventType = "monster_spawn"
	EventLevelUp             EventType = "level_up"
	EventBossSpawn           EventType = "boss_spawn"
	EventLootDrop            EventType = "loot_drop"
	EventGamePause           EventType = "game_pause"
	EventExpUpdate           EventType = "exp_update"
	EventGameMessage         EventType = "game_message"
	EventS12Gameplay         EventType = "s12_gameplay"
	EventTransitionStyle     EventType = "transition_style"
	EventPlayerJoin          EventType = "player_join"

	// Service-originated / control events.
	EventClientConnected    EventType = "client_connected"
	EventClientDisconnected EventType = "client_disconnected"
	EventRequestInventory   EventType = "request_inventory"
	EventRequestMap         EventType = "request_map"
	EventInventorySnapshot  EventType = "inventory_snapshot"
	EventInventoryUpdate    EventType = "inventory_update"
	EventMapSnapshot        EventType = "map_snapshot"
	EventItemLoot           EventType = "item_loot"
	EventMapStarted         EventType = "map_started"
	EventMapFinished        EventType = "map_finished"
	EventMapStats           EventType = "map_stats"
	EventMarketAction       EventType = "market_action"
	EventMarketTransaction  EventType = "market_transaction"
	EventStatsUpdate        EventType = "stats_update"
	EventStatsControl       EventType = "stats_control"
	EventSessionControl     EventType = "session_control"
	EventSessionStarted     EventType = "session_started"
	EventSessionFinished    EventType = "session_finished"
	EventSessionRestore     EventType = "session_restore"
	EventRequestSession     EventType = "request_session"
	EventSessionSnapshot    EventType = "session_snapshot"
	EventPlayerChanged      EventType = "player_changed"
	EventMapRecord          EventType = "map_record"
	EventWebSocketConnected EventType = "websocket_connected"
	EventWebSocketDisconnected EventType = "websocket_disconnected"
	EventNotification       EventType = "notification"
	EventItemDataChanged    EventType = "item_data_changed"
	EventLevelProgress      EventType = "level_progress"
)

// Event is implemented by every event dataclass-equivalent struct that
// travels through the bus.
type Event interface {
	Type() EventType
}
