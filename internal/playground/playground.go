// Package playground is a small sample application wired into the console.
// It declares marked operations on a live Player component and on an
// unmanaged Dice type, and registers a few runtime operations.
package playground

import (
	"context"
	"fmt"
	"math/rand/v2"
	"reflect"
	"strings"

	"devconsole/internal/console"
	"devconsole/internal/engine"
	"devconsole/internal/logging"
)

// ModuleName is the playground's operation module.
const ModuleName = "playground"

var reflectPlayer = reflect.TypeOf(&Player{})

// Player is a live scene component.
type Player struct {
	Name    string
	HP      int
	Speed   float64
	GodMode bool
}

// NewPlayer creates a player with default stats.
func NewPlayer(name string) *Player {
	return &Player{Name: name, HP: 100, Speed: 1}
}

func (p *Player) ComponentName() string { return "player" }

func (p *Player) String() string {
	god := ""
	if p.GodMode {
		god = " god"
	}
	return fmt.Sprintf("%s hp=%d speed=%.2f%s", p.Name, p.HP, p.Speed, god)
}

// Heal adds hp, which may be negative.
func (p *Player) Heal(amount int) {
	p.HP += amount
	logging.Engine("%s healed by %d (hp=%d)", p.Name, amount, p.HP)
}

// SetSpeed sets the movement speed.
func (p *Player) SetSpeed(speed float64) {
	p.Speed = speed
	logging.Engine("%s speed=%.2f", p.Name, speed)
}

// Rename changes the display name.
func (p *Player) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("player name cannot be empty")
	}
	p.Name = name
	return nil
}

// SetGodMode toggles invulnerability.
func (p *Player) SetGodMode(on bool) {
	p.GodMode = on
}

// Configure sets every stat at once.
func (p *Player) Configure(name string, god bool, speed float64, hp int) {
	p.Name, p.GodMode, p.Speed, p.HP = name, god, speed, hp
	logging.Engine("Configured %s", p)
}

// Dice is not a scene component; each roll gets a fresh Dice.
type Dice struct {
	rolls int
}

// Roll returns a number in [1, sides].
func (d *Dice) Roll(sides int) (int, error) {
	if sides < 1 {
		return 0, fmt.Errorf("dice needs at least one side, got %d", sides)
	}
	d.rolls++
	n := rand.IntN(sides) + 1
	logging.Engine("Rolled d%d: %d", sides, n)
	return n, nil
}

// Ping is a static, parameterless operation.
func Ping(ctx context.Context) string {
	if err := ctx.Err(); err != nil {
		return err.Error()
	}
	logging.Engine("pong")
	return "pong"
}

func init() {
	console.MustRegisterModule(console.Module{
		Name: ModuleName,
		Declare: func(d *console.Declarations) {
			d.Static(console.Marker{Name: "Ping", Description: "Checks the console round trip."}, Ping)
			d.Method(console.Marker{
				Name:        "Heal",
				Description: "Adds **hp** to the live player. Negative values damage.",
				Params:      []string{"amount"},
			}, (*Player).Heal)
			d.Method(console.Marker{
				Name:        "Set speed",
				Description: "Sets the player's movement speed multiplier.",
				Params:      []string{"speed"},
			}, (*Player).SetSpeed)
			d.Method(console.Marker{
				Name:        "Rename",
				Description: "Renames the player. Empty names are rejected.",
				Params:      []string{"name"},
			}, (*Player).Rename)
			d.Method(console.Marker{
				Name:        "God mode",
				Description: "Toggles invulnerability.",
				Params:      []string{"on"},
			}, (*Player).SetGodMode)
			d.Method(console.Marker{
				Name:        "Configure player",
				Description: "Sets name, god mode, speed and hp in one go.",
				Params:      []string{"name", "god", "speed", "hp"},
			}, (*Player).Configure)
			d.Method(console.Marker{
				Name:        "Roll dice",
				Description: "Rolls a fresh die with the given number of sides.",
				Params:      []string{"sides"},
			}, (*Dice).Roll)
		},
	})
}

// Game bundles the playground scene objects.
type Game struct {
	Scene  *engine.Scene
	Player *Player
}

// NewGame spawns a player into a new scene.
func NewGame() (*Game, error) {
	g := &Game{Scene: engine.NewScene(), Player: NewPlayer("hero")}
	if err := g.Scene.Spawn(g.Player); err != nil {
		return nil, err
	}
	return g, nil
}

// RegisterRuntime adds the playground's runtime operations to c.
func (g *Game) RegisterRuntime(c *console.Console) {
	c.Register("player.despawn", "Despawn player", "Removes the player from the scene.", g.Player, func() {
		g.Scene.Despawn(g.Player)
	})
	c.Register("player.respawn", "Respawn player", "Puts the player back into the scene.", g.Scene, func() error {
		if _, ok := g.Scene.FindLiveInstance(reflectPlayer); ok {
			return nil
		}
		return g.Scene.Spawn(g.Player)
	})
	c.Register("player.adjust", "Adjust hp", "Adds hp to this player.", g.Player, console.Method((*Player).Heal))
	c.Register("player.kill", "Kill", "Sets hp of the live player to zero.", nil, console.Method(func(p *Player) {
		p.HP = 0
	}))
}
