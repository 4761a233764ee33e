package object

import "github.com/tomz197/pong/internal/match"

// Scene is every object of one frame, in drawing order. Canvas shapes come
// before text so text is written over the rendered canvas.
type Scene struct {
	Shapes []Object
	Texts  []Object
}

// NewScene builds the frame for state on field f.
func NewScene(s match.State, f match.Field) Scene {
	return Scene{
		Shapes: []Object{
			CenterLine{X: f.Width / 2, Height: f.Height},
			Paddle{Rect: s.PlayerPaddle(f)},
			Paddle{Rect: s.OpponentPaddle(f)},
			Ball{X: s.BallX, Y: s.BallY, Size: f.BallSize, Rotation: s.BallRotation},
		},
		Texts: []Object{
			Score{X: f.Width / 4, Value: s.PlayerScore},
			Score{X: f.Width * 3 / 4, Value: s.OpponentScore},
		},
	}
}

// DrawShapes draws the canvas objects of the scene.
func (sc Scene) DrawShapes(ctx DrawContext) error {
	for _, obj := range sc.Shapes {
		if err := obj.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

// DrawTexts draws the text objects of the scene. Call it after the canvas
// was rendered.
func (sc Scene) DrawTexts(ctx DrawContext) error {
	for _, obj := range sc.Texts {
		if err := obj.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}
