package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMemoryLogger_SequencesAndQueries(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(NewTurnEvent(1, 0))
	l.Log(NewDrawEvent(1, 0, "Three"))
	l.Log(NewDrawEvent(1, 0, "Joker"))

	events := l.Events()
	require.Len(t, events, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{events[0].Seq, events[1].Seq, events[2].Seq})

	draws := l.EventsOfType(EventDraw)
	assert.Len(t, draws, 2)
	assert.Equal(t, "Joker", l.LastEvent().Card)

	since := l.Since(1)
	require.Len(t, since, 2)
	assert.Equal(t, 2, since[0].Seq)
	assert.Nil(t, l.Since(3))
}

func TestMemoryLogger_EmptyLastEvent(t *testing.T) {
	assert.Equal(t, GameEvent{}, NewMemoryLogger().LastEvent())
}

func TestTextLogger_WritesFormattedLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf)
	l.Log(NewHPChangeEvent(2, "Resolving", 1, 1000, 952, "Triple"))

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "T2  Resolving       | "), line)
	assert.Contains(t, line, "P2 HP: 1000.0 → 952.0 (Triple)")
	assert.Len(t, l.Events(), 1)
}

func TestEventTypeNames(t *testing.T) {
	assert.Equal(t, "Reflect", EventReflect.String())
	assert.Equal(t, "DrawCount", EventDrawCount.String())
	assert.Equal(t, "Unknown", EventType(999).String())
}

func TestZapLogger_ForwardsFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := NewZapLogger(zap.New(core))

	l.Log(NewEvaluateEvent(3, "Evaluating", 0, "attack", "Two Pair", 29.9))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "P1 attack: Two Pair (29.9)", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "Evaluate", fields["type"])
	assert.Equal(t, "Two Pair", fields["rule"])
	assert.Equal(t, 29.9, fields["amount"])
	assert.Len(t, l.Events(), 1)
}
