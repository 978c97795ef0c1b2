package ui

import (
	"strings"
	"testing"
)

func TestSimpleTable(t *testing.T) {
	table := NewSimpleTable("Test Table", []string{"Col1", "Col2"})
	table.AddRow("Row1Col1", "Row1Col2")

	view := table.View(DefaultStyles())

	if !strings.Contains(view, "Test Table") {
		t.Error("View missing title")
	}
	if !strings.Contains(view, "Row1Col1") {
		t.Error("View missing cell content")
	}
}

func TestSimpleTableEmpty(t *testing.T) {
	if view := NewSimpleTable("Empty", []string{"A"}).View(DefaultStyles()); view != "" {
		t.Errorf("expected empty view, got %q", view)
	}
}

func TestOperationTable(t *testing.T) {
	m, _ := newTestModel(t)

	table := OperationTable("Operations", m.console.Selectable())
	view := table.View(DefaultStyles())

	for _, want := range []string{"Heal", "amount:int", "static", "id:player.adjust", "resolved *playground.Player", "hero hp=100"} {
		if !strings.Contains(view, want) {
			t.Errorf("table missing %q:\n%s", want, view)
		}
	}
}
