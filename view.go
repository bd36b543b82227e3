package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/stealth/alarm"
	"github.com/milk9111/stealth/camera"
	"github.com/milk9111/stealth/common"
	"github.com/milk9111/stealth/guard"
	"github.com/milk9111/stealth/level"
	"golang.org/x/image/colornames"
)

const viewMargin = 40

var (
	wallColor     = color.NRGBA{R: 0x5a, G: 0x5f, B: 0x6e, A: 0xff}
	guardColor    = colornames.Orange
	cameraColor   = colornames.Lightskyblue
	playerColor   = colornames.White
	exitColor     = color.NRGBA{R: 0x30, G: 0xc0, B: 0x60, A: 0x90}
	routeColor    = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x80}
	pursuitColor  = colornames.Red
	alarmIdle     = colornames.Gold
	alarmRinging  = colornames.Crimson
	alarmZoneTint = color.NRGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0x30}
)

// View maps the level's ground plane onto the screen, +Z pointing up.
type View struct {
	minX, minZ float64
	scale      float64
	offX, offY float64
	height     float64
}

func NewView(rt *level.Runtime, width, height float64) *View {
	b := rt.Spec.Bounds
	w := b.MaxX - b.MinX
	h := b.MaxZ - b.MinZ
	scale := math.Min((width-2*viewMargin)/w, (height-2*viewMargin)/h)
	return &View{
		minX:   b.MinX,
		minZ:   b.MinZ,
		scale:  scale,
		offX:   (width - w*scale) / 2,
		offY:   (height - h*scale) / 2,
		height: height,
	}
}

func (v *View) ToScreen(p common.Vec3) (float32, float32) {
	x := v.offX + (p[0]-v.minX)*v.scale
	y := v.height - v.offY - (p[2]-v.minZ)*v.scale
	return float32(x), float32(y)
}

func (v *View) Length(d float64) float32 {
	return float32(d * v.scale)
}

func (v *View) rect(screen *ebiten.Image, minX, minZ, maxX, maxZ float64, c color.Color) {
	x0, y1 := v.ToScreen(common.Vec3{minX, 0, minZ})
	x1, y0 := v.ToScreen(common.Vec3{maxX, 0, maxZ})
	vector.DrawFilledRect(screen, x0, y0, x1-x0, y1-y0, c, false)
}

func (v *View) line(screen *ebiten.Image, a, b common.Vec3, width float32, c color.Color) {
	ax, ay := v.ToScreen(a)
	bx, by := v.ToScreen(b)
	vector.StrokeLine(screen, ax, ay, bx, by, width, c, true)
}

// Draw renders the whole level.
func (v *View) Draw(screen *ebiten.Image, rt *level.Runtime) {
	b := rt.Spec.Bounds
	x0, y1 := v.ToScreen(common.Vec3{b.MinX, 0, b.MinZ})
	x1, y0 := v.ToScreen(common.Vec3{b.MaxX, 0, b.MaxZ})
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, colornames.Dimgray, false)

	for _, ep := range rt.EndPoints() {
		v.rect(screen, ep.Position[0]-ep.HalfX, ep.Position[2]-ep.HalfZ, ep.Position[0]+ep.HalfX, ep.Position[2]+ep.HalfZ, exitColor)
	}

	for _, w := range rt.Spec.Walls {
		v.rect(screen, w.MinX, w.MinZ, w.MaxX, w.MaxZ, w.Color.Or(wallColor))
	}

	for _, a := range rt.Alarms() {
		v.drawAlarm(screen, a)
	}

	guardColors := make(map[string]color.Color, len(rt.Spec.Guards))
	for _, gs := range rt.Spec.Guards {
		guardColors[gs.Name] = gs.Color.Or(guardColor)
	}
	for _, g := range rt.Guards() {
		v.drawGuard(screen, g, guardColors[g.Name])
	}

	cameraColors := make(map[string]color.Color, len(rt.Spec.Cameras))
	for _, cs := range rt.Spec.Cameras {
		cameraColors[cs.Name] = cs.Color.Or(cameraColor)
	}
	for _, c := range rt.Cameras() {
		v.drawCamera(screen, c, cameraColors[c.Name])
	}

	if p := rt.Player(); p != nil {
		x, y := v.ToScreen(p.Pos)
		vector.DrawFilledCircle(screen, x, y, v.Length(p.Radius), playerColor, true)
		v.line(screen, p.Pos, p.Pos.Add(common.HeadingVec(p.Heading).Mul(p.Radius*2)), 2, playerColor)
	}
}

func (v *View) drawGuard(screen *ebiten.Image, g *guard.Guard, c color.Color) {
	if c == nil {
		c = guardColor
	}
	if route := g.Route(); route != nil {
		pts := route.Positions()
		for i := 1; i < len(pts); i++ {
			v.line(screen, pts[i-1], pts[i], 1, routeColor)
		}
		for _, p := range pts {
			x, y := v.ToScreen(p)
			vector.StrokeCircle(screen, x, y, 3, 1, routeColor, true)
		}
	}

	tf := g.Transform()
	cfg := g.Config()
	if g.FoundPlayer() {
		c = pursuitColor
	}
	v.drawCone(screen, tf.Position, tf.Euler[1]+g.HeadYaw(), cfg.ViewAngle, cfg.ViewRange, c)

	x, y := v.ToScreen(tf.Position)
	vector.DrawFilledCircle(screen, x, y, v.Length(0.45), c, true)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %s", g.Name, g.State()), int(x)+8, int(y)-8)
}

func (v *View) drawCamera(screen *ebiten.Image, c *camera.SecurityCamera, clr color.Color) {
	if clr == nil {
		clr = cameraColor
	}
	tf := c.Transform()
	cfg := c.Config()
	if c.State() == camera.StateDetected {
		clr = pursuitColor
	}
	v.drawCone(screen, tf.Position, tf.Euler[1], cfg.ViewAngle, cfg.ViewRange, clr)

	x, y := v.ToScreen(tf.Position)
	s := v.Length(0.35)
	vector.DrawFilledRect(screen, x-s, y-s, 2*s, 2*s, clr, false)
	ebitenutil.DebugPrintAt(screen, c.Name, int(x)+8, int(y)-8)
}

func (v *View) drawAlarm(screen *ebiten.Image, a *alarm.Alarm) {
	cfg := a.Config()
	v.rect(screen, cfg.Position[0]-cfg.Zone[0], cfg.Position[2]-cfg.Zone[2],
		cfg.Position[0]+cfg.Zone[0], cfg.Position[2]+cfg.Zone[2], alarmZoneTint)

	c := alarmIdle
	if a.Ringing() {
		c = alarmRinging
	}
	x, y := v.ToScreen(cfg.Position)
	vector.DrawFilledCircle(screen, x, y, v.Length(0.3), c, true)
	ebitenutil.DebugPrintAt(screen, cfg.Name, int(x)+8, int(y)+4)
}

// drawCone outlines a view cone on the ground plane.
func (v *View) drawCone(screen *ebiten.Image, origin common.Vec3, yaw, angle, reach float64, c color.Color) {
	const segments = 12
	flat := common.Vec3{origin[0], 0, origin[2]}
	half := angle / 2
	prev := flat.Add(common.HeadingVec(yaw - half).Mul(reach))
	v.line(screen, flat, prev, 1, c)
	for i := 1; i <= segments; i++ {
		next := flat.Add(common.HeadingVec(yaw - half + angle*float64(i)/segments).Mul(reach))
		v.line(screen, prev, next, 1, c)
		prev = next
	}
	v.line(screen, flat, prev, 1, c)
}
