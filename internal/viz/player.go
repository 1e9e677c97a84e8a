package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orbitsim/internal/bounds"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	defaultWidth  = 60
	defaultHeight = 20
	statsWidth    = 34
	rotateStep    = math.Pi / 24
)

var speeds = []int{1, 2, 5, 10, 25, 50}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Player replays a recorded run in the terminal.
type Player struct {
	title    string
	scene    *Scene
	canvas   *Canvas
	theme    Theme
	styles   Styles
	index    int
	playing  bool
	speed    int
	showHelp bool
}

func NewPlayer(title string, frames dynamo.FrameSequence, b bounds.Bounds, theme Theme) Player {
	return Player{
		title:   title,
		scene:   NewScene(frames, b),
		canvas:  NewCanvas(defaultWidth, defaultHeight),
		theme:   theme,
		styles:  NewStyles(theme),
		playing: true,
	}
}

func (p Player) Frame() int    { return p.index }
func (p Player) Playing() bool { return p.playing }
func (p Player) Speed() int    { return speeds[p.speed] }

func (p Player) last() int { return max(0, len(p.scene.Frames)-1) }

func (p Player) Init() tea.Cmd { return tick() }

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)
	case tea.WindowSizeMsg:
		w := max(10, msg.Width-statsWidth-4)
		h := max(5, msg.Height-3)
		p.canvas = NewCanvas(w, h)
		return p, nil
	case TickMsg:
		if p.playing {
			p.index = min(p.index+speeds[p.speed], p.last())
			if p.index == p.last() {
				p.playing = false
			}
		}
		return p, tick()
	}
	return p, nil
}

func (p Player) handleKey(msg tea.KeyMsg) (Player, tea.Cmd) {
	cam := p.scene.Camera
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case " ":
		if !p.playing && p.index == p.last() {
			p.index = 0
		}
		p.playing = !p.playing
	case "right", "l":
		p.playing = false
		p.index = min(p.index+1, p.last())
	case "left", "h":
		p.playing = false
		p.index = max(p.index-1, 0)
	case "home", "0":
		p.index = 0
	case "end", "$":
		p.playing = false
		p.index = p.last()
	case "]":
		p.speed = min(p.speed+1, len(speeds)-1)
	case "[":
		p.speed = max(p.speed-1, 0)
	case "w":
		cam.RotateX(-rotateStep)
	case "s":
		cam.RotateX(rotateStep)
	case "a":
		cam.RotateY(-rotateStep)
	case "d":
		cam.RotateY(rotateStep)
	case "+", "=":
		cam.ZoomIn()
	case "-":
		cam.ZoomOut()
	case "r":
		cam.ResetView()
	case "b":
		p.scene.Box = !p.scene.Box
	case "t":
		if p.scene.Trail > 0 {
			p.scene.Trail = 0
		} else {
			p.scene.Trail = 20
		}
	case "c":
		p.theme = p.theme.Next()
		p.styles = NewStyles(p.theme)
	case "?":
		p.showHelp = !p.showHelp
	}
	return p, nil
}

func (p Player) View() string {
	p.scene.Draw(p.canvas, p.index)
	canvasView := p.styles.Canvas.Render(p.canvas.String())

	st := p.styles
	var s strings.Builder
	s.WriteString(st.Title.Render(p.title) + "\n\n")

	status := st.Paused.Render("PAUSED")
	if p.playing {
		status = st.Running.Render("PLAYING")
	}
	s.WriteString(status + "\n")

	progress := 0.0
	if p.last() > 0 {
		progress = float64(p.index) / float64(p.last())
	}
	s.WriteString(st.Canvas.Render(ProgressBar(progress, statsWidth-4)) + "\n\n")

	s.WriteString(st.Field("Frame", fmt.Sprintf("%d/%d", p.index, p.last())) + "\n")
	s.WriteString(st.Field("Bodies", p.scene.Frames.Bodies()) + "\n")
	s.WriteString(st.Field("Speed", fmt.Sprintf("%dx", p.Speed())) + "\n")
	s.WriteString(st.Field("Theme", p.theme.Name) + "\n")
	s.WriteString(st.Field("X", formatInterval(p.scene.Bounds.X)) + "\n")
	s.WriteString(st.Field("Y", formatInterval(p.scene.Bounds.Y)) + "\n")
	s.WriteString(st.Field("Z", formatInterval(p.scene.Bounds.Z)) + "\n")

	s.WriteString("\n" + st.Separator(statsWidth-4) + "\n")
	if p.showHelp {
		s.WriteString(st.KeyHint.Render(strings.Join([]string{
			"space  play/pause",
			"←/→    step",
			"0/$    first/last",
			"[ ]    speed",
			"wasd   rotate",
			"+/-    zoom",
			"r      reset view",
			"b      toggle box",
			"t      toggle trails",
			"c      cycle theme",
			"q      quit",
		}, "\n")))
	} else {
		s.WriteString(st.KeyHint.Render("?: keys  q: quit"))
	}

	stats := st.Panel.Width(statsWidth).Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, stats)
}

func formatInterval(iv bounds.Interval) string {
	return fmt.Sprintf("[%.3g, %.3g]", iv.Min, iv.Max)
}
