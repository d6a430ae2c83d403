package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"image-editor/internal/algorithms"
	"image-editor/internal/geometry"
)

// ControlCallbacks connects the panel to the editor.
type ControlCallbacks struct {
	OnParameter func(field algorithms.Field, value int)
	OnPreset    func(preset algorithms.Preset)
	OnGeometry  func(op geometry.Op)
	OnReset     func()
	OnOpen      func()
	OnSave      func()
}

type parameterControl struct {
	info   algorithms.ParameterInfo
	slider *widget.Slider
	value  *widget.Label
}

// ControlPanel holds the adjustment sliders, the preset selector and the
// geometry buttons. Everything except Open stays disabled until an image loads.
type ControlPanel struct {
	container *fyne.Container
	callbacks ControlCallbacks

	sliders      []*parameterControl
	presetSelect *widget.Select
	openButton   *widget.Button
	saveButton   *widget.Button
	rotateButton *widget.Button
	flipHButton  *widget.Button
	flipVButton  *widget.Button
	resetButton  *widget.Button

	// syncing suppresses callbacks while SetParams moves the widgets
	syncing bool
}

func NewControlPanel(callbacks ControlCallbacks) *ControlPanel {
	cp := &ControlPanel{callbacks: callbacks}

	cp.openButton = widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), cp.fire(callbacks.OnOpen))
	cp.saveButton = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), cp.fire(callbacks.OnSave))
	cp.rotateButton = widget.NewButtonWithIcon("Rotate", theme.ViewRefreshIcon(), cp.geometry(geometry.RotateClockwise))
	cp.flipHButton = widget.NewButton("Flip H", cp.geometry(geometry.FlipHorizontal))
	cp.flipVButton = widget.NewButton("Flip V", cp.geometry(geometry.FlipVertical))
	cp.resetButton = widget.NewButtonWithIcon("Reset", theme.ContentUndoIcon(), cp.fire(callbacks.OnReset))

	adjustments := container.NewVBox()
	for _, info := range algorithms.Fields() {
		pc := cp.newParameterControl(info)
		cp.sliders = append(cp.sliders, pc)
		adjustments.Add(container.NewBorder(nil, nil, widget.NewLabel(info.Label), pc.value, pc.slider))
	}

	names := make([]string, 0, len(algorithms.Presets()))
	for _, p := range algorithms.Presets() {
		names = append(names, p.String())
	}
	cp.presetSelect = widget.NewSelect(names, func(selected string) {
		if cp.syncing || cp.callbacks.OnPreset == nil {
			return
		}
		if p, err := algorithms.ParsePreset(selected); err == nil {
			cp.callbacks.OnPreset(p)
		}
	})
	cp.syncing = true
	cp.presetSelect.SetSelected(algorithms.PresetNone.String())
	cp.syncing = false

	cp.container = container.NewVBox(
		widget.NewCard("File", "", container.NewGridWithColumns(2, cp.openButton, cp.saveButton)),
		widget.NewCard("Adjustments", "", adjustments),
		widget.NewCard("Filter", "", cp.presetSelect),
		widget.NewCard("Transform", "", container.NewGridWithColumns(2,
			cp.rotateButton, cp.resetButton, cp.flipHButton, cp.flipVButton)),
	)

	cp.Disable()
	return cp
}

func (cp *ControlPanel) newParameterControl(info algorithms.ParameterInfo) *parameterControl {
	pc := &parameterControl{
		info:   info,
		slider: widget.NewSlider(float64(info.Min), float64(info.Max)),
		value:  widget.NewLabel(info.FormatValue(info.Default)),
	}
	pc.slider.Step = 1
	pc.slider.SetValue(float64(info.Default))
	pc.slider.OnChanged = func(v float64) {
		value := int(v)
		pc.value.SetText(info.FormatValue(value))
		if cp.syncing || cp.callbacks.OnParameter == nil {
			return
		}
		cp.callbacks.OnParameter(info.Field, value)
	}
	return pc
}

func (cp *ControlPanel) fire(fn func()) func() {
	return func() {
		if fn != nil {
			fn()
		}
	}
}

func (cp *ControlPanel) geometry(op geometry.Op) func() {
	return func() {
		if cp.callbacks.OnGeometry != nil {
			cp.callbacks.OnGeometry(op)
		}
	}
}

// SetParams moves the widgets to p without firing callbacks.
func (cp *ControlPanel) SetParams(p algorithms.Parameters) {
	cp.syncing = true
	defer func() { cp.syncing = false }()

	for _, pc := range cp.sliders {
		v, err := p.Get(pc.info.Field)
		if err != nil {
			continue
		}
		pc.slider.SetValue(float64(v))
		pc.value.SetText(pc.info.FormatValue(v))
	}
	cp.presetSelect.SetSelected(p.Preset.String())
}

func (cp *ControlPanel) Enable() {
	for _, pc := range cp.sliders {
		pc.slider.Enable()
	}
	cp.presetSelect.Enable()
	cp.saveButton.Enable()
	cp.rotateButton.Enable()
	cp.flipHButton.Enable()
	cp.flipVButton.Enable()
	cp.resetButton.Enable()
}

func (cp *ControlPanel) Disable() {
	for _, pc := range cp.sliders {
		pc.slider.Disable()
	}
	cp.presetSelect.Disable()
	cp.saveButton.Disable()
	cp.rotateButton.Disable()
	cp.flipHButton.Disable()
	cp.flipVButton.Disable()
	cp.resetButton.Disable()
}

func (cp *ControlPanel) GetContainer() fyne.CanvasObject {
	return cp.container
}
