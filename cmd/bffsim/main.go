// Command bffsim drives a bff.Engine headlessly: construct, step, log.
// Rendering and audio are external collaborators (spec.md §1 Non-goals); this
// driver only exercises the engine's own control surface.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/arabold/bff-computational-life/bff"
)

func main() {
	width := flag.Int("width", 64, "grid width in cells")
	height := flag.Int("height", 64, "grid height in cells")
	tapeSize := flag.Int("tape_size", 64, "per-cell tape size in bytes, must be a power of two")
	mutationRate := flag.Float64("mutation_rate", 0.0005, "per-byte mutation probability per epoch")
	instructionLimit := flag.Int("instruction_limit", 1024, "max VM cycles per interaction")
	topology := flag.String("topology", "spatial", "neighbor sampling topology: spatial or global")
	seeding := flag.String("seeding", "random", "grid seeding mode: random or balanced")
	seed := flag.Uint64("seed", 1, "PRNG seed")
	epochs := flag.Uint64("epochs", 100, "number of epochs to run")
	export := flag.String("export", "", "if set, write the run's compressed history export to this path")

	flag.Parse()

	cfg := bff.Config{
		Width:            *width,
		Height:           *height,
		TapeSize:         *tapeSize,
		MutationRate:     *mutationRate,
		InstructionLimit: *instructionLimit,
		Topology:         parseTopology(*topology),
		SeedingMode:      parseSeeding(*seeding),
		Seed:             uint32(*seed),
	}

	engine, err := bff.New(cfg)
	if err != nil {
		glog.Exitf("bff: construction rejected: %v", err)
	}

	interactionsPerEpoch := uint32(cfg.Width * cfg.Height)
	for epoch := uint64(0); epoch < *epochs; epoch++ {
		engine.Step(interactionsPerEpoch)
		stats := engine.Stats()
		fmt.Printf("epoch=%d entropy=%.4f zero_density=%.4f avg_complexity=%.4f replication_rate=%.4f\n",
			stats.Epoch, stats.Entropy, stats.ZeroDensity, stats.AvgComplexity, stats.ReplicationRate)
	}

	if *export != "" {
		blob, err := engine.HistoryExport()
		if err != nil {
			glog.Exitf("bff: history export failed: %v", err)
		}
		if err := os.WriteFile(*export, blob, 0644); err != nil {
			glog.Exitf("bff: writing history export to %s failed: %v", *export, err)
		}
		glog.V(1).Infof("bff: wrote %d bytes of compressed history to %s", len(blob), *export)
	}

	glog.Flush()
}

func parseTopology(s string) bff.Topology {
	if s == "global" {
		return bff.TopologyGlobal
	}
	return bff.TopologySpatial
}

func parseSeeding(s string) bff.SeedingMode {
	if s == "balanced" {
		return bff.SeedingBalanced
	}
	return bff.SeedingRandom
}
