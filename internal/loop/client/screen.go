package client

import (
	"fmt"
	"time"

	"github.com/tomz197/pong/internal/draw"
	"github.com/tomz197/pong/internal/loop/config"
	"github.com/tomz197/pong/internal/loop/server"
	"github.com/tomz197/pong/internal/object"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		draw.ClearScreen(c.chunkWriter)
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()

	snapshot := c.handle.Snapshot()
	ctx := object.DrawContext{
		Canvas: c.canvas,
		Writer: c.chunkWriter,
	}
	scene := object.NewScene(snapshot.State, snapshot.Field)

	if err := scene.DrawShapes(ctx); err != nil {
		return err
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	if c.state.GameState == GameStatePlaying && !c.state.isInactive {
		if err := scene.DrawTexts(ctx); err != nil {
			return err
		}
	}

	// Draw UI overlay
	c.drawUI(snapshot)

	return c.chunkWriter.Flush()
}

// writeCentered writes s centered on col and marks the cells for repaint.
func (c *Client) writeCentered(col, row int, s string) {
	n := len([]rune(s))
	start := col - n/2
	if start < 1 {
		start = 1
	}
	c.chunkWriter.WriteAt(start, row, s)
	c.canvas.MarkTextDirty(start, row, n)
}

// drawUI draws the UI overlay for the current state.
func (c *Client) drawUI(snapshot *server.MatchSnapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight, snapshot)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.writeCentered(centerX, centerY, msg)
	c.writeCentered(centerX, centerY+2, "Press any key to continue")
}

var titleArt = []string{
	`  ___  ___  _  _  ___  `,
	` | _ \/ _ \| \| |/ __| `,
	` |  _/ (_) | .' | (_ | `,
	` |_|  \___/|_|\_|\___| `,
	`                       `,
}

var controlLines = []string{
	"Mouse  . . . . . . . Move paddle",
	"W S / Up Down  . . . Move paddle",
	"Q / Esc  . . . . . . . . . Quit",
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	titleStartY := centerY - 7
	c.chunkWriter.WriteString(draw.ColorBrightCyan)
	for i, line := range titleArt {
		c.writeCentered(centerX, titleStartY+i, line)
	}
	c.chunkWriter.WriteString(draw.ColorReset)

	c.writeCentered(centerX, titleStartY+len(titleArt)+1, "~ First to nowhere, play forever ~")

	controlsY := titleStartY + len(titleArt) + 3
	c.writeCentered(centerX, controlsY, "Controls")
	for i, line := range controlLines {
		c.writeCentered(centerX, controlsY+1+i, line)
	}

	// Blinking start prompt
	prompt := ">>  Press SPACE to Start  <<"
	if time.Now().UnixMilli()/600%2 != 0 {
		prompt = "                            "
	}
	c.writeCentered(centerX, controlsY+len(controlLines)+2, prompt)
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snapshot *server.MatchSnapshot) {
	cw := c.chunkWriter

	playersText := fmt.Sprintf("Players: %-4d", snapshot.Players)
	cw.WriteAt(termWidth-len(playersText)-1, termHeight, playersText)
	c.canvas.MarkTextDirty(termWidth-len(playersText)-1, termHeight, len(playersText))

	hint := "Q quit"
	cw.WriteString(draw.ColorDim)
	cw.WriteAt(2, termHeight, hint)
	cw.WriteString(draw.ColorReset)
	c.canvas.MarkTextDirty(2, termHeight, len(hint))

	if c.state.bannerText != "" {
		cw.WriteString(draw.ColorBold)
		c.writeCentered(termWidth/2, termHeight/4, c.state.bannerText)
		cw.WriteString(draw.ColorReset)
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.writeCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %2d seconds...", remaining))
	c.writeCentered(centerX, centerY+4, "Press Q to disconnect now")
}
