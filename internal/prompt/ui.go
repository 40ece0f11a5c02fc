// Package prompt renders the interactive pickers and confirmations used by the CLI.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/conn-castle/jdk-pulse/internal/jdk"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/terminal"
)

// ErrCancelled is returned when the user dismisses a prompt with Esc or Ctrl+C.
var ErrCancelled = errors.New(messages.PromptCancelled)

// Option is one choice in a Select prompt.
type Option struct {
	Label string
	Value string
}

// UI defines the interaction methods.
type UI interface {
	Select(title string, options []Option, current *string) error
	Confirm(title string, value *bool) error
}

// HuhUI implements UI using charmbracelet/huh.
type HuhUI struct {
	isTerminal func() bool
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhUI creates a HuhUI that requires an interactive terminal.
func NewHuhUI() *HuhUI {
	return &HuhUI{isTerminal: terminal.IsInteractive}
}

func (ui *HuhUI) ensureInteractive() error {
	checker := ui.isTerminal
	if checker == nil {
		checker = terminal.IsInteractive
	}
	if checker() {
		return nil
	}
	return errors.New(messages.PromptRequiresTerminal)
}

// keyMap makes Esc and Ctrl+C both abort the form.
func keyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "cancel"))
	return km
}

// interruptFilter converts InterruptMsg to QuitMsg so the renderer clears the form.
func interruptFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.InterruptMsg); ok {
		return tea.QuitMsg{}
	}
	return msg
}

func (ui *HuhUI) runForm(form *huh.Form) error {
	if err := ui.ensureInteractive(); err != nil {
		return err
	}
	form.WithKeyMap(keyMap())
	form.WithProgramOptions(
		tea.WithOutput(os.Stderr),
		tea.WithFilter(interruptFilter),
	)
	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}

// Select renders a single-choice prompt; current holds the preselected value on entry
// and the choice on return.
func (ui *HuhUI) Select(title string, options []Option, current *string) error {
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o.Label, o.Value)
	}
	return ui.runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(opts...).
				Value(current),
		),
	))
}

// Confirm renders a yes/no prompt.
func (ui *HuhUI) Confirm(title string, value *bool) error {
	return ui.runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(value),
		),
	))
}

// JdkOptions turns records into picker options valued by record ID. The record whose
// home matches activeHome is labeled as active.
func JdkOptions(records []jdk.Record, activeHome string) []Option {
	options := make([]Option, 0, len(records))
	for _, record := range records {
		label := fmt.Sprintf(messages.PromptJdkOptionFmt, strconv.Itoa(record.VersionMajor), record.Label())
		if activeHome != "" && jdk.SameHome(record.Home, activeHome) {
			label = fmt.Sprintf(messages.PromptJdkActiveFmt, label)
		}
		options = append(options, Option{Label: label, Value: record.ID})
	}
	return options
}

// PickJdk asks the user to choose one of records and returns its ID.
func PickJdk(ui UI, records []jdk.Record, activeHome string) (string, error) {
	if len(records) == 0 {
		return "", errors.New(messages.PromptNoJdks)
	}
	choice := records[0].ID
	for _, record := range records {
		if activeHome != "" && jdk.SameHome(record.Home, activeHome) {
			choice = record.ID
			break
		}
	}
	if err := ui.Select(messages.PromptSelectJdkTitle, JdkOptions(records, activeHome), &choice); err != nil {
		return "", err
	}
	return choice, nil
}
