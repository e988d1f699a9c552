package tui

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestURLInputModel_RequiresAURL(t *testing.T) {
	m := NewURLInputModel()

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	got := next.(URLInputModel)
	if cmd != nil {
		t.Error("empty input should not quit")
	}
	if got.hint == "" {
		t.Error("empty input should show a hint")
	}
}

func TestURLInputModel_Submit(t *testing.T) {
	m := NewURLInputModel()
	m.textarea.SetValue("https://youtu.be/AAAAAAAAAAA\n\n# skip\nhttps://youtu.be/BBBBBBBBBBB\n")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	got := next.(URLInputModel)
	if cmd == nil {
		t.Fatal("submit should quit the program")
	}
	if got.Cancelled() {
		t.Error("submitted input reported as cancelled")
	}

	want := []string{"https://youtu.be/AAAAAAAAAAA", "https://youtu.be/BBBBBBBBBBB"}
	if !reflect.DeepEqual(got.URLs(), want) {
		t.Errorf("URLs() = %v, want %v", got.URLs(), want)
	}
}

func TestURLInputModel_Cancel(t *testing.T) {
	m := NewURLInputModel()
	m.textarea.SetValue("https://youtu.be/AAAAAAAAAAA")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(URLInputModel).Cancelled() {
		t.Error("esc should cancel")
	}
}
