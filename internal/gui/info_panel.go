package gui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"image-editor/internal/core"
)

// InfoPanel shows the loaded file, its dimensions and comparison metrics.
type InfoPanel struct {
	container    *fyne.Container
	fileLabel    *widget.Label
	sizeLabel    *widget.Label
	metricsLabel *widget.Label
	renderLabel  *widget.Label
	messageLabel *widget.Label
}

func NewInfoPanel() *InfoPanel {
	ip := &InfoPanel{
		fileLabel:    widget.NewLabel("No image"),
		sizeLabel:    widget.NewLabel(""),
		metricsLabel: widget.NewLabel(""),
		renderLabel:  widget.NewLabel(""),
		messageLabel: widget.NewLabel(""),
	}
	ip.messageLabel.Wrapping = fyne.TextWrapWord

	ip.container = container.NewVBox(widget.NewCard("Image", "", container.NewVBox(
		ip.fileLabel,
		ip.sizeLabel,
		ip.metricsLabel,
		ip.renderLabel,
		ip.messageLabel,
	)))
	return ip
}

func (ip *InfoPanel) ShowImageInfo(name string, meta core.ImageMetadata) {
	ip.fileLabel.SetText(fmt.Sprintf("%s (%s, %s)", name, strings.ToUpper(meta.Format), humanize.Bytes(uint64(meta.EncodedSize))))
	ip.ShowDimensions(meta)
	ip.metricsLabel.SetText("")
	ip.messageLabel.SetText("")
}

// ShowDimensions shows the working size, and the source size when the image
// was scaled on load.
func (ip *InfoPanel) ShowDimensions(meta core.ImageMetadata) {
	text := fmt.Sprintf("%d × %d", meta.Width, meta.Height)
	if meta.SourceWidth*meta.SourceHeight != meta.Width*meta.Height {
		text += fmt.Sprintf(" (source %d × %d)", meta.SourceWidth, meta.SourceHeight)
	}
	ip.sizeLabel.SetText(text)
}

func (ip *InfoPanel) UpdateMetrics(metrics map[string]float64) {
	ip.metricsLabel.SetText(formatMetrics(metrics))
}

func (ip *InfoPanel) ShowRenderTime(d time.Duration) {
	ip.renderLabel.SetText("Rendered in " + d.Round(time.Millisecond/10).String())
}

func (ip *InfoPanel) ShowMessage(message string) {
	ip.messageLabel.SetText(message)
}

func (ip *InfoPanel) GetContainer() fyne.CanvasObject {
	return ip.container
}

func formatMetrics(metrics map[string]float64) string {
	if len(metrics) == 0 {
		return ""
	}
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		v := metrics[name]
		switch {
		case math.IsInf(v, 1):
			parts = append(parts, name+": ∞")
		case name == "psnr":
			parts = append(parts, fmt.Sprintf("%s: %.2f dB", name, v))
		default:
			parts = append(parts, fmt.Sprintf("%s: %.2f", name, v))
		}
	}
	return strings.Join(parts, "  ")
}
