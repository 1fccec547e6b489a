package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/tracker"
	"github.com/julianstephens/quitline/internal/utils"
)

const otherMethod = tracker.OtherCopingMethod

type CravingFormModel struct {
	Intensity int
	Method    string
	Other     string
	Note      string
}

// CopingMethod is the selected method, or the free text for "other".
func (fm *CravingFormModel) CopingMethod() string {
	if fm.Method == otherMethod {
		return strings.TrimSpace(fm.Other)
	}
	return fm.Method
}

type QuitDateFormModel struct {
	Date string
}

// NewCravingForm creates the form for recording a craving
func NewCravingForm(fm *CravingFormModel) *huh.Form {
	intensities := make([]huh.Option[int], 0, constants.MaxIntensity)
	for i := constants.MinIntensity; i <= constants.MaxIntensity; i++ {
		intensities = append(intensities, huh.NewOption(fmt.Sprintf("%d - %s", i, tracker.IntensityLabel(i)), i))
	}

	methods := methodOptions()

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Intensity").
				Options(intensities...).
				Value(&fm.Intensity),
			huh.NewSelect[string]().
				Title("Coping method").
				Options(methods...).
				Value(&fm.Method),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Coping method").
				Description("What helped?").
				Value(&fm.Other),
		).WithHideFunc(func() bool { return fm.Method != otherMethod }),
		huh.NewGroup(
			huh.NewText().
				Title("Note").
				Value(&fm.Note),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewQuitDateForm creates the form for setting the quit date. today is the
// latest date accepted.
func NewQuitDateForm(fm *QuitDateFormModel, today string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Quit date").
				Description("YYYY-MM-DD").
				Placeholder(today).
				Value(&fm.Date).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if !utils.ValidateDateFormat(s) {
						return fmt.Errorf("date must be YYYY-MM-DD")
					}
					// YYYY-MM-DD compares chronologically as text
					if s > today {
						return fmt.Errorf("date cannot be in the future")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// methodOptions lists "None" then the suggested coping methods, with "other"
// opening the free-text field.
func methodOptions() []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("None", "")}
	for _, m := range tracker.CopingMethods {
		label := m
		if m == otherMethod {
			label = "Other..."
		}
		opts = append(opts, huh.NewOption(label, m))
	}
	return opts
}
