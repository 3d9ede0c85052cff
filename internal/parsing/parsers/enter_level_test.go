package parsers

import (
	"testing"
	"time"

	"github.com/oracle-observer/backend/internal/events"
)

func feedEnterLevelSequence(p *EnterLevelParser) {
	p.FeedLine(`[2026.01.15-10.30.00:123][  0]GameLog: Display: [Game] LevelMgr@ EnterLevel`)
	p.FeedLine(`[2026.01.15-10.30.00:456][  0]GameLog: Display: [Game] LevelMgr@ LevelUid, LevelType, LevelId = 111 2 33`)
	p.FeedLine(`[2026.01.15-10.30.00:789][  0]GameLog: Display: [Game] LevelMgr@:LevelPath, Model = /Game/Maps/Something`)
}

func TestEnterLevelParserEmitsOnFullSequence(t *testing.T) {
	p := NewEnterLevelParser()
	feedEnterLevelSequence(p)

	select {
	case evt := <-p.Results():
		el, ok := evt.(events.EnterLevelEvent)
		if !ok {
			t.Fatalf("expected an EnterLevelEvent, got %T", evt)
		}
		if el.LevelUID != 111 || el.LevelType != 2 || el.LevelID != 33 {
			t.Fatalf("unexpected fields: %+v", el)
		}
	default:
		t.Fatal("expected an event after the full 3-line sequence")
	}
}

func TestEnterLevelParserResetsWithoutCompletingSequence(t *testing.T) {
	p := NewEnterLevelParser()
	p.FeedLine(`[2026.01.15-10.30.00:123][  0]GameLog: Display: [Game] LevelMgr@ EnterLevel`)
	for i := 0; i < enterLevelNonIdleLimit; i++ {
		p.FeedLine("an unrelated line")
	}
	if p.state != enterLevelIdle {
		t.Fatalf("expected the FSM to reset to idle after %d unrelated lines", enterLevelNonIdleLimit)
	}

	select {
	case evt := <-p.Results():
		t.Fatalf("expected no event without a completed sequence, got %v", evt)
	default:
	}

	// The FSM should still accept a fresh sequence after resetting.
	feedEnterLevelSequence(p)
	select {
	case <-p.Results():
	default:
		t.Fatal("expected the parser to recover and emit after a fresh sequence")
	}
}

func TestEnterLevelParserTimesOutStaleState(t *testing.T) {
	p := NewEnterLevelParser()
	p.FeedLine(`[2026.01.15-10.30.00:123][  0]GameLog: Display: [Game] LevelMgr@ EnterLevel`)
	p.stateEnteredAt = time.Now().Add(-10 * time.Second)

	// A line arriving after the 2s state timeout must force a reset, so
	// feeding the level-info line alone (without a fresh EnterLevel marker)
	// produces no event.
	p.FeedLine(`[2026.01.15-10.30.00:456][  0]GameLog: Display: [Game] LevelMgr@ LevelUid, LevelType, LevelId = 111 2 33`)

	select {
	case evt := <-p.Results():
		t.Fatalf("expected the stale state to have reset, got %v", evt)
	default:
	}
}
