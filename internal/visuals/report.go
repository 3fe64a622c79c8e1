package visuals

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"welfare-mcp/internal/chart"
	"welfare-mcp/internal/risk"
	"welfare-mcp/internal/stats"
	"welfare-mcp/internal/trend"
)

//go:embed report.html tooltip.js
var assets embed.FS

// PerformanceFill is the bar colour for performance scores; wellness bars use
// their risk category colour.
const PerformanceFill = "#3b82f6"

// maxAxisLabels keeps date labels under the bars legible.
const maxAxisLabels = 12

// ReportInput is everything needed to draw one horse's report.
type ReportInput struct {
	HorseID    string
	Events     []trend.ProcessedEvent // display order, oldest first
	Layout     chart.Layout
	Samples    []stats.AnalyticsSample
	Alerts     []stats.Alert
	HoverDelay time.Duration
	Generated  time.Time
}

type reportView struct {
	Title            string
	Generated        string
	EventCount       string
	Mode             chart.DisplayMode
	TimeProportional bool
	HoverDelayMS     int64

	Width, Height            float64
	Left, Right, Top, Bottom float64

	Ticks           []tickView
	Groups          []groupView
	PerformanceLine string
	WellnessLine    string

	Samples []stats.AnalyticsSample
	Alerts  []stats.Alert
	History []trend.ProcessedEvent
	Script  template.JS
}

type tickView struct {
	Y     float64
	Label string
}

type groupView struct {
	ID      string
	Center  float64
	Label   string
	Tooltip string
	Alert   bool
	Bars    []barView
}

type barView struct {
	X, Y, Width, Height float64
	Fill                string
}

// Renderer draws the HTML trend report.
type Renderer struct {
	tmpl   *template.Template
	script template.JS
}

var (
	scriptOnce sync.Once
	scriptMin  string
	scriptErr  error
)

// NewRenderer parses the embedded template and minifies the tooltip script.
func NewRenderer() (*Renderer, error) {
	titleCase := cases.Title(language.English)

	funcMap := template.FuncMap{
		"num":    func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
		"fixed":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"pct":    func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"signed": func(v float64) string { return fmt.Sprintf("%+.1f%%", v) },
		"add":    func(a, b float64) float64 { return a + b },
		"sub":    func(a, b float64) float64 { return a - b },
		"color":  func(c risk.Category) template.CSS { return template.CSS(c.Color()) },
		"title":  titleCase.String,
	}

	content, err := assets.ReadFile("report.html")
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("report").Funcs(funcMap).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}

	scriptOnce.Do(func() {
		src, err := assets.ReadFile("tooltip.js")
		if err != nil {
			scriptErr = err
			return
		}
		scriptMin, scriptErr = MinifyScript(string(src))
	})
	if scriptErr != nil {
		return nil, scriptErr
	}

	return &Renderer{tmpl: tmpl, script: template.JS(scriptMin)}, nil
}

// MinifyScript compacts JavaScript with esbuild.
func MinifyScript(src string) (string, error) {
	result := api.Transform(src, api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2017,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		return "", fmt.Errorf("failed to minify script: %s", result.Errors[0].Text)
	}
	return string(result.Code), nil
}

// Render writes the HTML report.
func (r *Renderer) Render(w io.Writer, in ReportInput) error {
	if err := r.tmpl.Execute(w, r.view(in)); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// RenderToFile writes the HTML report to path.
func (r *Renderer) RenderToFile(path string, in ReportInput) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	return r.Render(f, in)
}

func (r *Renderer) view(in ReportInput) reportView {
	l := in.Layout
	if l.ChartWidth == 0 && l.ChartHeight == 0 {
		l = chart.ComputeLayout(chart.LayoutInput{Width: 900, Height: 420, EventCount: len(in.Events), Mode: chart.ShowBoth})
	}
	generated := in.Generated
	if generated.IsZero() {
		generated = time.Now()
	}
	delay := in.HoverDelay
	if delay <= 0 {
		delay = 2000 * time.Millisecond
	}

	p := message.NewPrinter(language.English)
	v := reportView{
		Title:            fmt.Sprintf("Welfare trend for %s", in.HorseID),
		Generated:        generated.Format("02 Jan 2006 15:04"),
		EventCount:       p.Sprintf("%d", len(in.Events)),
		Mode:             l.Mode,
		TimeProportional: l.TimeProportional,
		HoverDelayMS:     delay.Milliseconds(),
		Width:            l.Padding.Left + l.ChartWidth + l.Padding.Right,
		Height:           l.Padding.Top + l.ChartHeight + l.Padding.Bottom,
		Left:             l.Padding.Left,
		Right:            l.Padding.Left + l.ChartWidth,
		Top:              l.Padding.Top,
		Bottom:           l.Padding.Top + l.ChartHeight,
		Samples:          in.Samples,
		Alerts:           in.Alerts,
		Script:           r.script,
	}

	for _, t := range chart.AxisTicks() {
		v.Ticks = append(v.Ticks, tickView{Y: l.TickY(t), Label: strconv.FormatFloat(t.Score, 'f', -1, 64)})
	}

	groups := chart.ComputeBarPositions(l, in.Events)
	every := int(math.Ceil(float64(len(groups)) / maxAxisLabels))
	for i, g := range groups {
		e := in.Events[i]
		gv := groupView{
			ID:      e.ID,
			Center:  g.Center,
			Tooltip: tooltipText(e),
			Alert:   e.WelfareAlert,
		}
		if every <= 1 || i%every == 0 {
			gv.Label = e.Date.Format("02 Jan")
		}
		for _, b := range g.Bars {
			fill := PerformanceFill
			if b.Metric == chart.MetricWellness {
				fill = e.RiskCategory.Color()
			}
			gv.Bars = append(gv.Bars, barView{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height, Fill: fill})
		}
		v.Groups = append(v.Groups, gv)
	}

	if len(groups) > 1 {
		lines := trend.TrendLines(in.Events)
		if l.Mode != chart.ShowWellness {
			v.PerformanceLine = polyline(l, groups, lines.Performance)
		}
		if l.Mode != chart.ShowPerformance {
			v.WellnessLine = polyline(l, groups, lines.Wellness)
		}
	}

	v.History = slices.Clone(in.Events)
	slices.Reverse(v.History)
	return v
}

func tooltipText(e trend.ProcessedEvent) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s · %s at %s", e.DateLabel, e.Kind, e.Location))
	if e.Distance != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", e.Distance))
	}
	sb.WriteString(fmt.Sprintf("\nPerformance %.1f (%+.1f%%)", e.PerformanceScore, e.PerformanceChange))
	sb.WriteString(fmt.Sprintf("\nWellness %.1f (%+.1f%%) · %s", e.WellnessScore, e.WellnessChange, e.RiskCategory.Label()))
	if e.WelfareAlert {
		sb.WriteString("\nWelfare alert")
	}
	return sb.String()
}

func polyline(l chart.Layout, groups []chart.BarGroup, scores []float64) string {
	points := make([]string, len(groups))
	for i, g := range groups {
		points[i] = fmt.Sprintf("%.1f,%.1f", g.Center, l.BarY(scores[i]))
	}
	return strings.Join(points, " ")
}
