// Command dom6502 is the external host spec.md §6 describes: it loads a
// raw memory image, optionally overrides the reset vector, builds a
// cpu.Chip, and either runs it to completion at a paced clock speed or
// drops into the interactive monitor. Flag parsing follows
// master-g-childhood's chr2png, the one example in the pack built on
// urfave/cli.v2 rather than the stdlib flag package.
package main

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/urfave/cli.v2"

	"github.com/domenicomuti/dom6502/cpu"
	"github.com/domenicomuti/dom6502/irq"
	"github.com/domenicomuti/dom6502/memory"
	"github.com/domenicomuti/dom6502/monitor"
	"github.com/domenicomuti/dom6502/pacer"
)

func main() {
	app := &cli.App{
		Name:    "dom6502",
		Usage:   "run a MOS 6502 memory image",
		Version: "v0.0.1",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "image",
				Aliases: []string{"i"},
				Usage:   "path to a raw 64KiB (or smaller) memory image",
			},
			&cli.UintFlag{
				Name:  "load",
				Usage: "address to load the image at",
				Value: 0xC000,
			},
			&cli.UintFlag{
				Name:  "reset",
				Usage: "override the reset vector (0 = use the image's own 0xFFFC/0xFFFD)",
			},
			&cli.Float64Flag{
				Name:  "mhz",
				Usage: "target clock speed in MHz; 0 runs unpaced at host speed",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "monitor",
				Usage: "drop into the interactive single-step debugger instead of running to completion",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("dom6502: %v", err)
	}
}

func run(c *cli.Context) error {
	imagePath := c.String("image")
	if imagePath == "" {
		return cli.Exit("--image is required", 1)
	}

	img, err := os.ReadFile(imagePath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("reading image: %v", err), 1)
	}
	if len(img) > 65536 {
		return cli.Exit("image is larger than 64KiB", 1)
	}

	ram := memory.NewFlatRAM(nil)
	ram.LoadImage(uint16(c.Uint("load")), img)

	if reset := c.Uint("reset"); reset != 0 {
		ram.Write(0xFFFC, uint8(reset))
		ram.Write(0xFFFD, uint8(reset>>8))
	}

	var latch irq.Latch
	chip, err := cpu.Init(ram, &latch)
	if err != nil {
		return cli.Exit(fmt.Sprintf("initializing cpu: %v", err), 1)
	}

	if c.Bool("monitor") {
		return monitor.Run(chip, ram)
	}

	var clock cpu.Pacer
	if mhz := c.Float64("mhz"); mhz > 0 {
		clock = pacer.NewClock(mhz)
	}

	if err := chip.Run(clock); err != nil {
		if _, halted := err.(cpu.HaltOpcode); halted {
			return cli.Exit(fmt.Sprintf("halted: %v (PC=%04X A=%02X X=%02X Y=%02X P=%02X SP=%02X)",
				err, chip.PC, chip.A, chip.X, chip.Y, chip.P, chip.SP), 1)
		}
		return cli.Exit(err.Error(), 1)
	}
	fmt.Printf("BRK at PC=%04X A=%02X X=%02X Y=%02X P=%02X SP=%02X\n",
		chip.PC, chip.A, chip.X, chip.Y, chip.P, chip.SP)
	return nil
}
