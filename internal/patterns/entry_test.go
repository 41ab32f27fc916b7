package patterns

import (
	"testing"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
)

const (
	skater1 = 101
	skater2 = 102
)

var attackers = map[int]bool{skater1: true, skater2: true}

// frame places the puck and up to two attacking skaters.
func frame(puckX, puckY float64, skaters map[int]model.Point) Frame {
	f := Frame{PuckEntityID: {X: puckX, Y: puckY}}
	for id, p := range skaters {
		f[id] = p
	}
	return f
}

func TestClassifyEntry_Carry(t *testing.T) {
	d := newDetector()
	frames := []Frame{
		frame(20, 0, map[int]model.Point{skater1: {X: 18, Y: 1}}),
		frame(26, 0, map[int]model.Point{skater1: {X: 25, Y: 1}}), // crossing, skater1 on the puck
		frame(35, 2, map[int]model.Point{skater1: {X: 34, Y: 2}}),
		frame(45, 3, map[int]model.Point{skater1: {X: 44, Y: 3}}),
	}
	if got := d.ClassifyEntry(frames, attackers); got != model.EntryCarry {
		t.Errorf("expected carry, got %s", got)
	}
}

func TestClassifyEntry_Pass(t *testing.T) {
	d := newDetector()
	frames := []Frame{
		frame(26, 0, map[int]model.Point{skater1: {X: 25, Y: 1}, skater2: {X: 40, Y: -20}}),
		frame(35, -5, map[int]model.Point{skater1: {X: 28, Y: 3}, skater2: {X: 36, Y: -6}}),
	}
	if got := d.ClassifyEntry(frames, attackers); got != model.EntryPass {
		t.Errorf("expected pass, got %s", got)
	}
}

func TestClassifyEntry_Dump(t *testing.T) {
	d := newDetector()
	// Puck crosses with no attacker anywhere near it.
	frames := []Frame{
		frame(26, 0, map[int]model.Point{skater1: {X: 0, Y: 20}}),
		frame(60, 10, map[int]model.Point{skater1: {X: 20, Y: 20}}),
	}
	if got := d.ClassifyEntry(frames, attackers); got != model.EntryDump {
		t.Errorf("expected dump, got %s", got)
	}
}

func TestClassifyEntry_ClipStartsInZone(t *testing.T) {
	d := newDetector()
	// First frame already past the blue line: possessor test applies there.
	frames := []Frame{
		frame(40, 0, map[int]model.Point{skater1: {X: 39, Y: 1}}),
		frame(50, 0, map[int]model.Point{skater1: {X: 49, Y: 1}}),
	}
	if got := d.ClassifyEntry(frames, attackers); got != model.EntryCarry {
		t.Errorf("expected carry for in-zone clip, got %s", got)
	}
}

func TestClassifyEntry_NoFramesOrNoCrossing(t *testing.T) {
	d := newDetector()
	if got := d.ClassifyEntry(nil, attackers); got != model.EntryDump {
		t.Errorf("expected dump for empty clip, got %s", got)
	}
	// Puck never reaches the blue line.
	frames := []Frame{frame(0, 0, nil), frame(10, 5, nil)}
	if got := d.ClassifyEntry(frames, attackers); got != model.EntryDump {
		t.Errorf("expected dump when the puck never crosses, got %s", got)
	}
}
