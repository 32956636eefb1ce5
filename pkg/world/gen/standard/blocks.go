// Package standard registers the built-in blocks, biomes and structures.
package standard

import (
	"fmt"

	"github.com/OCharnyshevich/voxel-streamer/pkg/registry"
	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
)

// BlockNames lists the standard blocks in registration order.
var BlockNames = []string{
	"stone",
	"grass",
	"dirt",
	"cobblestone",
	"oak_planks",
	"oak_log",
	"oak_leaves",
	"birch_log",
	"birch_leaves",
	"birch_planks",
	"spruce_log",
	"spruce_leaves",
	"mushroom_stem",
	"brown_mushroom",
	"red_mushroom",
	"gold_ore",
	"iron_ore",
	"coal_ore",
	"sand",
	"gravel",
	"bedrock",
}

// Blocks holds the ids of the standard blocks.
type Blocks struct {
	Stone, Grass, Dirt, Sand, Gravel voxel.Block

	OakLog, OakLeaves       voxel.Block
	BirchLog, BirchLeaves   voxel.Block
	SpruceLog, SpruceLeaves voxel.Block

	MushroomStem, BrownMushroom voxel.Block
}

// Content is the registered standard content.
type Content struct {
	Blocks Blocks
	Biomes []int
}

// Register adds the standard blocks and biomes to reg.
func Register(reg *registry.Registry) (*Content, error) {
	for _, name := range BlockNames {
		if _, dup := reg.BlockIDByCodeName(name); dup {
			return nil, fmt.Errorf("register %s: block already registered", name)
		}
		reg.RegisterBlock(registry.BlockType{CodeName: name})
	}

	lookup := reg.MustBlock
	b := Blocks{
		Stone:         lookup("stone"),
		Grass:         lookup("grass"),
		Dirt:          lookup("dirt"),
		Sand:          lookup("sand"),
		Gravel:        lookup("gravel"),
		OakLog:        lookup("oak_log"),
		OakLeaves:     lookup("oak_leaves"),
		BirchLog:      lookup("birch_log"),
		BirchLeaves:   lookup("birch_leaves"),
		SpruceLog:     lookup("spruce_log"),
		SpruceLeaves:  lookup("spruce_leaves"),
		MushroomStem:  lookup("mushroom_stem"),
		BrownMushroom: lookup("brown_mushroom"),
	}

	c := &Content{Blocks: b}
	for _, biome := range Biomes(b) {
		c.Biomes = append(c.Biomes, reg.RegisterBiome(biome))
	}
	return c, nil
}
