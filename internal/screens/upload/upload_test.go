package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/flashdeck/flashdeck/internal/api"
	"github.com/flashdeck/flashdeck/internal/bus"
	"github.com/flashdeck/flashdeck/internal/cache"
	"github.com/flashdeck/flashdeck/internal/config"
)

func newTestUpload(client api.Client) (*UploadScreen, *cache.Cache) {
	store := cache.New(cache.NewMemStore(), nil)
	cfg := &config.Config{
		API:   config.APIConfig{GenerateTimeoutSeconds: 5},
		Study: config.StudyConfig{CardsWanted: 12},
	}
	return New(store, client, cfg, bus.New(nil)), store
}

// writeTestPDF drops a dummy file into a temp dir and returns its path.
func writeTestPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photosynthesis notes.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// drainForBuildDone runs cmd, following batches, until the build finishes.
func drainForBuildDone(t *testing.T, cmd tea.Cmd) buildDoneMsg {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case buildDoneMsg:
			return msg
		case tea.BatchMsg:
			queue = append(queue, msg...)
		}
	}
	t.Fatal("no build completion message produced")
	return buildDoneMsg{}
}

func TestTabReachesBuildButton(t *testing.T) {
	s, _ := newTestUpload(api.NewMockClient())

	for i := 0; i < 3; i++ {
		s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	}
	if s.focus != buttonField {
		t.Fatalf("focus = %d after three tabs, want the build button (%d)", s.focus, buttonField)
	}
	if !s.button.Active {
		t.Error("focused button should render active")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if s.focus != 0 {
		t.Errorf("focus = %d, want wraparound to the first field", s.focus)
	}
	if s.button.Active {
		t.Error("button should deactivate when focus moves on")
	}
}

func TestFormViewShowsBuildButton(t *testing.T) {
	s, _ := newTestUpload(api.NewMockClient())

	if !strings.Contains(s.View(100, 40), "BUILD DECK") {
		t.Error("form view should render the build button")
	}
}

func TestButtonEnterRunsBuild(t *testing.T) {
	client := api.NewMockClient(api.MockReply{
		Result: &api.BuildResult{DeckID: "d42", CardsCreated: 9},
	})
	s, store := newTestUpload(client)
	s.pathInput.Model.SetValue(writeTestPDF(t))

	s.setFocus(buttonField)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.phase != phaseUploading {
		t.Fatalf("phase = %d, want uploading", s.phase)
	}
	if cmd == nil {
		t.Fatal("expected the button press to start the upload")
	}

	done := drainForBuildDone(t, cmd)
	if done.Err != nil {
		t.Fatalf("build failed: %v", done.Err)
	}
	if done.Result.DeckID != "d42" {
		t.Errorf("deck id = %q", done.Result.DeckID)
	}
	if client.CallCount() != 1 {
		t.Errorf("backend called %d times, want 1", client.CallCount())
	}

	// The backend omitted the deck name, so the resume slot carries the
	// name derived from the file.
	meta, ok := store.LoadLastDeck()
	if !ok {
		t.Fatal("expected the build to be recorded for resume")
	}
	if meta.Name != "photosynthesis notes" {
		t.Errorf("resume name = %q, want the file-derived fallback", meta.Name)
	}
	if meta.CardsCount != 9 {
		t.Errorf("resume cards = %d, want 9", meta.CardsCount)
	}
}

func TestSubmitWithoutPathStaysOnForm(t *testing.T) {
	s, _ := newTestUpload(api.NewMockClient())

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("an empty form must not start an upload")
	}
	if s.phase != phaseForm {
		t.Errorf("phase = %d, want the form", s.phase)
	}
	if s.errMsg == "" {
		t.Error("expected a validation message")
	}
}

func TestUploadingViewShowsProgress(t *testing.T) {
	s, _ := newTestUpload(api.NewMockClient())
	s.phase = phaseUploading
	s.uploadStart = time.Now().Add(-10 * time.Second)

	v := s.View(100, 40)
	if !strings.Contains(v, "Building") {
		t.Error("uploading view should render the progress bar label")
	}
	if !strings.Contains(v, "Uploading and building") {
		t.Error("uploading view should keep the wait hint")
	}

	if p := s.buildProgress(); p <= 0 || p >= 1 {
		t.Errorf("progress = %v, want a partial fill that never completes", p)
	}
}
