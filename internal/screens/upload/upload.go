// Package upload drives a deck build: pick a PDF, choose a card count,
// upload, and land in the mode picker when the deck is ready.
package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/flashdeck/flashdeck/internal/api"
	"github.com/flashdeck/flashdeck/internal/bus"
	"github.com/flashdeck/flashdeck/internal/cache"
	"github.com/flashdeck/flashdeck/internal/config"
	"github.com/flashdeck/flashdeck/internal/router"
	"github.com/flashdeck/flashdeck/internal/screen"
	"github.com/flashdeck/flashdeck/internal/screens/picker"
	"github.com/flashdeck/flashdeck/internal/ui/components"
	"github.com/flashdeck/flashdeck/internal/ui/layout"
	"github.com/flashdeck/flashdeck/internal/ui/theme"
)

type phase int

const (
	phaseForm phase = iota
	phaseUploading
	phaseError
)

// fieldCount is the number of focusable form elements: three inputs plus
// the build button at buttonField.
const (
	fieldCount  = 4
	buttonField = 3
)

// buildDoneMsg is sent when the backend finishes (or fails) a deck build.
type buildDoneMsg struct {
	Result  *api.BuildResult
	Elapsed time.Duration
	Err     error
}

// buildTickMsg redraws the progress bar while an upload is in flight.
type buildTickMsg time.Time

func buildTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return buildTickMsg(t)
	})
}

// UploadScreen collects build parameters and runs the upload.
type UploadScreen struct {
	store  *cache.Cache
	client api.Client
	cfg    *config.Config
	events *bus.Bus

	pathInput  components.TextInput
	nameInput  components.TextInput
	cardsInput components.TextInput
	button     components.Button
	focus      int

	phase       phase
	uploadStart time.Time
	errMsg      string
	warnings    []string
}

var _ screen.Screen = (*UploadScreen)(nil)
var _ screen.KeyHintProvider = (*UploadScreen)(nil)

// New creates the upload form.
func New(store *cache.Cache, client api.Client, cfg *config.Config, events *bus.Bus) *UploadScreen {
	s := &UploadScreen{
		store:      store,
		client:     client,
		cfg:        cfg,
		events:     events,
		pathInput:  components.NewTextInput("/path/to/notes.pdf", false, 120),
		nameInput:  components.NewTextInput("Deck name (blank = file name)", false, 60),
		cardsInput: components.NewTextInput(fmt.Sprintf("%d", cfg.Study.CardsWanted), true, 3),
	}
	s.nameInput.Model.Blur()
	s.cardsInput.Model.Blur()
	s.button = components.NewButton("BUILD DECK", false, s.submit)
	return s
}

func (s *UploadScreen) Init() tea.Cmd {
	return s.pathInput.Init()
}

func (s *UploadScreen) Title() string {
	return "New Deck"
}

func (s *UploadScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseUploading:
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	case phaseError:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Try again"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Build deck"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

// setFocus moves keyboard focus to field i.
func (s *UploadScreen) setFocus(i int) tea.Cmd {
	s.focus = (i + fieldCount) % fieldCount
	s.pathInput.Model.Blur()
	s.nameInput.Model.Blur()
	s.cardsInput.Model.Blur()
	s.button.Active = s.focus == buttonField
	switch s.focus {
	case 0:
		return s.pathInput.Model.Focus()
	case 1:
		return s.nameInput.Model.Focus()
	case 2:
		return s.cardsInput.Model.Focus()
	default:
		return nil
	}
}

// submit validates the form and starts the upload.
func (s *UploadScreen) submit() tea.Cmd {
	path := strings.TrimSpace(s.pathInput.Value())
	if path == "" {
		s.errMsg = "Choose a PDF file first."
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		s.errMsg = fmt.Sprintf("Cannot read %s: %v", path, err)
		return nil
	}

	name := strings.TrimSpace(s.nameInput.Value())
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	cards := s.cfg.Study.CardsWanted
	if n, err := s.cardsInput.NumericValue(); err == nil && n > 0 {
		cards = n
	}

	s.phase = phaseUploading
	s.uploadStart = time.Now()
	s.errMsg = ""

	store, client, cfg := s.store, s.client, s.cfg
	return tea.Batch(buildTick(), func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return buildDoneMsg{Err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.API.GenerateTimeoutSeconds)*time.Second)
		defer cancel()

		start := time.Now()
		result, err := client.Generate(ctx, api.GenerateRequest{
			DeckName:    name,
			CardsWanted: cards,
			FileName:    filepath.Base(path),
			File:        f,
		})
		elapsed := time.Since(start)
		if err != nil {
			return buildDoneMsg{Err: err, Elapsed: elapsed}
		}

		store.RecordBuild(cache.BuildRecord{
			DeckID:       result.DeckID,
			DeckName:     result.DeckName,
			FallbackName: name,
			CardsCreated: result.CardsCreated,
			Elapsed:      elapsed,
			Metrics:      result.Metrics,
			Template:     result.Template,
		})
		return buildDoneMsg{Result: result, Elapsed: elapsed}
	})
}

func (s *UploadScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case buildTickMsg:
		if s.phase == phaseUploading {
			return s, buildTick()
		}
		return s, nil

	case buildDoneMsg:
		if msg.Err != nil {
			s.phase = phaseError
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.warnings = msg.Result.Warnings

		name := msg.Result.DeckName
		if name == "" {
			name = strings.TrimSpace(s.nameInput.Value())
		}
		next := picker.New(s.store, s.client, s.cfg, s.events,
			msg.Result.DeckID, name, msg.Result.CardsCreated)
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: next}
		}

	case tea.KeyMsg:
		switch s.phase {
		case phaseUploading:
			return s, nil
		case phaseError:
			if msg.String() == "enter" {
				s.phase = phaseForm
				s.errMsg = ""
			}
			return s, nil
		}

		switch msg.String() {
		case "tab", "shift+tab":
			delta := 1
			if msg.String() == "shift+tab" {
				delta = -1
			}
			return s, s.setFocus(s.focus + delta)
		case "enter":
			if s.focus == buttonField {
				var cmd tea.Cmd
				s.button, cmd = s.button.Update(msg)
				return s, cmd
			}
			return s, s.submit()
		}

		var cmd tea.Cmd
		switch s.focus {
		case 0:
			s.pathInput, cmd = s.pathInput.Update(msg)
		case 1:
			s.nameInput, cmd = s.nameInput.Update(msg)
		case 2:
			s.cardsInput, cmd = s.cardsInput.Update(msg)
		}
		return s, cmd
	}
	return s, nil
}

// buildProgress maps elapsed build time onto a bar fill that rises quickly,
// slows, and never reaches full. The backend reports no intermediate
// progress, so the screen change is the completion signal.
func (s *UploadScreen) buildProgress() float64 {
	elapsed := time.Since(s.uploadStart)
	return float64(elapsed) / float64(elapsed+30*time.Second)
}

func (s *UploadScreen) View(width, height int) string {
	if s.phase == phaseUploading {
		bar := components.NewProgressBar("Building", s.buildProgress(), false,
			min(width-16, 60))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			bar.View()+"\n\n"+
				theme.Hint.Render("Uploading and building your deck...\nLarge PDFs can take a few minutes."))
	}
	if s.phase == phaseError {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Incorrect.Render("Build failed")+"\n\n"+
				theme.Body.Render(s.errMsg)+"\n\n"+
				theme.Hint.Render("Press Enter to try again"))
	}

	label := func(text string, active bool) string {
		if active {
			return theme.Selected.Render(text)
		}
		return theme.Body.Render(text)
	}

	form := strings.Join([]string{
		theme.Title.Render("Build a new deck"),
		"",
		label("PDF file", s.focus == 0),
		s.pathInput.View(),
		"",
		label("Deck name", s.focus == 1),
		s.nameInput.View(),
		"",
		label("Cards wanted", s.focus == 2),
		s.cardsInput.View(),
		"",
		s.button.View(),
	}, "\n")

	if s.errMsg != "" {
		form += "\n\n" + theme.Incorrect.Render(s.errMsg)
	}

	panel := theme.Card.Width(min(width-8, 80)).Render(form)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}
