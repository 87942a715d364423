// Command gones loads an iNES ROM and runs it through an ebiten window.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"gones/internal/cartridge"
	"gones/internal/config"
	"gones/internal/controller"
	"gones/internal/debug"
	"gones/internal/nes"
	"gones/internal/ppu"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if cfg.RomPath == "" {
		log.Fatal("usage: gones -rom <path-to-ines-file> [-scale N] [-backtrace N] [-start-pc 0xNNNN]")
	}

	data, err := os.ReadFile(cfg.RomPath)
	if err != nil {
		log.Fatalf("reading ROM: %v", err)
	}
	rom, err := cartridge.LoadRomFile(data)
	if err != nil {
		log.Fatalf("parsing iNES header: %v", err)
	}
	cart, err := cartridge.New(rom)
	if err != nil {
		log.Fatalf("constructing cartridge: %v", err)
	}

	system := nes.New(cart)
	if cfg.HasStartPC {
		system.CPU.PC = uint16(cfg.StartPCOverride)
	}
	system.Recorder = debug.New(cfg.BacktraceDepth)

	game := &gonesGame{system: system, scale: cfg.WindowScale}

	ebiten.SetWindowSize(ppu.FrameWidth*cfg.WindowScale, ppu.FrameHeight*cfg.WindowScale)
	ebiten.SetWindowTitle(fmt.Sprintf("gones - %s", cfg.RomPath))
	if err := ebiten.RunGame(game); err != nil {
		if rec, ok := system.Recorder.(*debug.Debugger); ok {
			fmt.Fprintln(os.Stderr, rec.DumpBacktrace())
		}
		log.Fatal(err)
	}
}

// gonesGame implements ebiten.Game, driving the emulator one frame at a
// time and blitting the PPU's framebuffer each Draw.
type gonesGame struct {
	system      *nes.System
	scale       int
	screen      *ebiten.Image
	screenBytes []byte
}

func (g *gonesGame) Update() error {
	g.system.SetControllerState(pollController(), controller.State{})
	g.system.AdvanceToNextFrame()
	return nil
}

func (g *gonesGame) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = ebiten.NewImage(ppu.FrameWidth, ppu.FrameHeight)
		g.screenBytes = make([]byte, ppu.FrameWidth*ppu.FrameHeight*4)
	}

	rgb := g.system.Frame.DataRGB8()
	for i, px := 0, 0; px < len(rgb); i, px = i+4, px+3 {
		g.screenBytes[i+0] = rgb[px+0]
		g.screenBytes[i+1] = rgb[px+1]
		g.screenBytes[i+2] = rgb[px+2]
		g.screenBytes[i+3] = 0xFF
	}
	g.screen.WritePixels(g.screenBytes)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.screen, opts)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("cyc:%d", g.system.CPU.Cycles))
}

func (g *gonesGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.FrameWidth * g.scale, ppu.FrameHeight * g.scale
}

// pollController maps a fixed keyboard layout onto a standard NES pad,
// following the teacher's key-to-button table in spirit.
func pollController() controller.State {
	return controller.State{
		A:      ebiten.IsKeyPressed(ebiten.KeyX),
		B:      ebiten.IsKeyPressed(ebiten.KeyZ),
		Select: ebiten.IsKeyPressed(ebiten.KeyShift),
		Start:  ebiten.IsKeyPressed(ebiten.KeyEnter),
		Up:     ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:   ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:   ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:  ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	}
}
