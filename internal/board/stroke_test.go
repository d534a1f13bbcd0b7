package board

import (
	"testing"
)

func commitTestStroke(l *Log, user string) *Stroke {
	s := l.StartStroke(user, ToolBrush, "#000", 4, Point{X: 1, Y: 1})
	l.Commit(s)
	return s
}

func TestStartStrokeAllocation(t *testing.T) {
	l := NewLog()

	s := l.StartStroke("user-1", ToolBrush, "#ff0000", 6, Point{X: 10, Y: 20})

	if s.ID == "" {
		t.Error("Stroke should get a fresh ID")
	}
	if s.UserID != "user-1" {
		t.Errorf("Expected userId user-1, got %s", s.UserID)
	}
	if len(s.Points) != 1 || s.Points[0].X != 10 || s.Points[0].Y != 20 {
		t.Errorf("Expected single origin point {10 20}, got %v", s.Points)
	}
	if l.Len() != 0 {
		t.Error("StartStroke must not touch the committed history")
	}

	s2 := l.StartStroke("user-1", ToolBrush, "#ff0000", 6, Point{X: 10, Y: 20})
	if s.ID == s2.ID {
		t.Error("Stroke IDs should be unique")
	}
}

func TestAddPointWhileInProgress(t *testing.T) {
	l := NewLog()

	s := l.StartStroke("user-1", ToolBrush, "#000", 4, Point{X: 10, Y: 10})
	s.AddPoint(Point{X: 20, Y: 20})
	l.Commit(s)

	snapshot := l.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("Expected 1 committed stroke, got %d", len(snapshot))
	}
	pts := snapshot[0].Points
	if len(pts) != 2 || pts[0] != (Point{X: 10, Y: 10}) || pts[1] != (Point{X: 20, Y: 20}) {
		t.Errorf("Point sequence mismatch: %v", pts)
	}
}

func TestUndoRemovesLastStroke(t *testing.T) {
	l := NewLog()
	commitTestStroke(l, "a")
	last := commitTestStroke(l, "b")

	strokes, ok := l.Undo()
	if !ok {
		t.Fatal("Undo on a non-empty log should succeed")
	}
	if len(strokes) != 1 {
		t.Fatalf("Expected 1 stroke after undo, got %d", len(strokes))
	}
	if strokes[0].UserID != "a" {
		t.Error("Undo should remove the most recent stroke")
	}

	strokes, ok = l.Redo()
	if !ok {
		t.Fatal("Redo right after undo should succeed")
	}
	if len(strokes) != 2 || strokes[1].ID != last.ID {
		t.Error("Redo should restore the undone stroke at the end")
	}
}

func TestUndoEmptyLogReturnsSentinel(t *testing.T) {
	l := NewLog()

	if _, ok := l.Undo(); ok {
		t.Error("Undo on an empty log should report the no-op sentinel")
	}
	if _, ok := l.Redo(); ok {
		t.Error("Redo with an empty redo stack should report the no-op sentinel")
	}
}

func TestUndoToEmptyIsNotTheSentinel(t *testing.T) {
	l := NewLog()
	commitTestStroke(l, "a")

	strokes, ok := l.Undo()
	if !ok {
		t.Fatal("Undoing the only stroke should succeed")
	}
	if len(strokes) != 0 {
		t.Errorf("Expected empty resulting history, got %d strokes", len(strokes))
	}
}

func TestCommitClearsRedoStack(t *testing.T) {
	l := NewLog()
	commitTestStroke(l, "a")

	if _, ok := l.Undo(); !ok {
		t.Fatal("Undo should succeed")
	}

	// A new commit branches history, so the undone stroke is unrecoverable
	commitTestStroke(l, "b")

	if _, ok := l.Redo(); ok {
		t.Error("Redo after an intervening commit should be unavailable")
	}
	if l.Len() != 1 {
		t.Errorf("Expected 1 committed stroke, got %d", l.Len())
	}
}

func TestUndoCascade(t *testing.T) {
	l := NewLog()
	for i := 0; i < 3; i++ {
		commitTestStroke(l, "a")
	}

	for want := 2; want >= 0; want-- {
		strokes, ok := l.Undo()
		if !ok {
			t.Fatalf("Undo #%d should succeed", 3-want)
		}
		if len(strokes) != want {
			t.Errorf("Expected %d strokes remaining, got %d", want, len(strokes))
		}
	}

	if _, ok := l.Undo(); ok {
		t.Error("Fourth undo should be a no-op")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	l := NewLog()
	commitTestStroke(l, "a")

	snapshot := l.Snapshot()
	snapshot[0] = nil

	if l.Snapshot()[0] == nil {
		t.Error("Mutating a snapshot must not affect the log")
	}
}
