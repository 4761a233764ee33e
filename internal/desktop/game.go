// Package desktop runs one match locally in an ebiten window.
package desktop

import (
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/tomz197/pong/internal/draw"
	"github.com/tomz197/pong/internal/input"
	"github.com/tomz197/pong/internal/logging"
	"github.com/tomz197/pong/internal/loop/config"
	"github.com/tomz197/pong/internal/match"
	"github.com/tomz197/pong/internal/object"
	"github.com/tomz197/pong/internal/physics"
)

var (
	colorCourt = color.Black
	colorInk   = color.White
)

// Game adapts a match to ebiten's Update/Draw/Layout cycle.
type Game struct {
	m        *match.Match
	log      *zap.SugaredLogger
	ball     *ebiten.Image
	playing  bool
	target   input.Target
	cursorY  int
	cursorOK bool // cursorY holds a position seen inside the window
	banner   string
	bannerN  int // ticks left for the banner
}

// NewGame wraps m. The match stays idle until the player clicks or presses
// space.
func NewGame(m *match.Match, log *zap.SugaredLogger) *Game {
	if log == nil {
		log = logging.Nop()
	}
	size := int(m.Field.BallSize)
	if size < 1 {
		size = 1
	}
	ball := ebiten.NewImage(size, size)
	ball.Fill(colorInk)
	return &Game{
		m:        m,
		log:      log,
		ball:     ball,
		target: input.Target{
			Y:     m.Field.Height / 2,
			Step:  config.KeyboardPointerStep,
			Limit: m.Field.Height,
		},
	}
}

// Update reads the cursor and keys, then advances the match one step.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.log.Infow("window closed by player",
			"player_score", g.m.State.PlayerScore,
			"opponent_score", g.m.State.OpponentScore,
		)
		return ebiten.Termination
	}

	moved := g.cursorMoved()
	if !g.playing {
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.m.Reset()
			g.playing = true
			g.log.Infow("match started")
		}
		return nil
	}

	up := ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	down := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	g.target.Steer(float64(g.cursorY), moved, up, down)
	g.m.MovePlayer(g.target.Y)

	res := g.m.Advance()
	if res.Scored != match.SideNone {
		g.banner = "POINT: YOU"
		if res.Scored == match.SideOpponent {
			g.banner = "POINT: COMPUTER"
		}
		g.bannerN = int(config.PointBannerSeconds * config.ServerTickRate)
		g.log.Debugw("point scored", "side", res.Scored.String())
	} else if g.bannerN > 0 {
		g.bannerN--
	}
	return nil
}

// cursorMoved records the cursor position and reports whether it moved
// inside the window since the last tick.
func (g *Game) cursorMoved() bool {
	_, cy := ebiten.CursorPosition()
	if cy < 0 || float64(cy) > g.m.Field.Height {
		return false
	}
	moved := !g.cursorOK || cy != g.cursorY
	g.cursorY, g.cursorOK = cy, true
	return moved
}

// Draw paints the court, paddles, rotated ball and scores.
func (g *Game) Draw(screen *ebiten.Image) {
	f := g.m.Field
	s := g.m.State
	screen.Fill(colorCourt)

	cx := float32(f.Width / 2)
	for _, seg := range draw.DashSegments(f.Height, object.CenterDash, object.CenterGap) {
		vector.StrokeLine(screen, cx, float32(seg[0]), cx, float32(seg[1]), 2, colorInk, false)
	}

	for _, r := range []physics.Rect{s.PlayerPaddle(f), s.OpponentPaddle(f)} {
		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), colorInk, false)
	}

	half := f.BallSize / 2
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-half, -half)
	op.GeoM.Rotate(s.BallRotation)
	op.GeoM.Translate(s.BallX+half, s.BallY+half)
	screen.DrawImage(g.ball, op)

	g.drawCentered(screen, strconv.Itoa(s.PlayerScore), f.Width/4, object.ScoreY)
	g.drawCentered(screen, strconv.Itoa(s.OpponentScore), f.Width*3/4, object.ScoreY)

	switch {
	case !g.playing:
		g.drawCentered(screen, "CLICK OR PRESS SPACE TO START", f.Width/2, f.Height/2)
	case g.bannerN > 0:
		g.drawCentered(screen, g.banner, f.Width/2, f.Height/4)
	}
}

// drawCentered draws s with its top centered on (x, y).
func (g *Game) drawCentered(screen *ebiten.Image, s string, x, y float64) {
	face := basicfont.Face7x13
	w := face.Advance * len(s)
	text.Draw(screen, s, face, int(x)-w/2, int(y)+face.Ascent, colorInk)
}

// Layout keeps the logical screen at the field size; ebiten scales it to
// the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.m.Field.Width), int(g.m.Field.Height)
}
