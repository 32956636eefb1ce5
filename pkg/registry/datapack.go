package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// DataPackFile is the file name of the block table inside a data pack directory.
const DataPackFile = "blocks.json"

//go:embed blocks.schema.json
var schemaSource string

//go:embed blocks.json
var defaultPack []byte

// DataPack is the static block metadata loaded at startup.
type DataPack struct {
	Grid   int                   `json:"grid"`
	Blocks map[string]BlockEntry `json:"blocks"`
}

// BlockEntry is one block in a data pack.
type BlockEntry struct {
	Name       string             `json:"name"`
	Durability *int               `json:"durability,omitempty"`
	Faces      [6]int             `json:"faces"`
	Multiplier map[string]float64 `json:"multiplier,omitempty"`
}

var blockSchema = jsonschema.MustCompileString("blocks.schema.json", schemaSource)

// LoadDataPack reads and validates blocks.json from dir.
func LoadDataPack(dir string) (*DataPack, error) {
	path := filepath.Join(dir, DataPackFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data pack: %w", err)
	}
	dp, err := ParseDataPack(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dp, nil
}

// ParseDataPack validates raw JSON against the block schema and decodes it.
func ParseDataPack(data []byte) (*DataPack, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse data pack: %w", err)
	}
	if err := blockSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate data pack: %w", err)
	}

	var dp DataPack
	if err := json.Unmarshal(data, &dp); err != nil {
		return nil, fmt.Errorf("decode data pack: %w", err)
	}
	for name, e := range dp.Blocks {
		for i, cell := range e.Faces {
			if cell >= dp.Grid*dp.Grid {
				return nil, fmt.Errorf("block %s: face %d cell %d outside %dx%d grid", name, i, cell, dp.Grid, dp.Grid)
			}
		}
	}
	return &dp, nil
}

// DefaultDataPack returns the built-in data pack.
func DefaultDataPack() *DataPack {
	dp, err := ParseDataPack(defaultPack)
	if err != nil {
		panic(fmt.Sprintf("registry: built-in data pack: %v", err))
	}
	return dp
}

func (dp *DataPack) fill(bt *BlockType) {
	e, ok := dp.Blocks[bt.CodeName]
	if !ok {
		if bt.Durability == 0 {
			bt.Durability = -1
		}
		if bt.Name == "" {
			bt.Name = displayName(bt.CodeName)
		}
		return
	}

	if bt.Name == "" {
		bt.Name = e.Name
	}
	if bt.Durability == 0 {
		bt.Durability = -1
		if e.Durability != nil {
			bt.Durability = *e.Durability
		}
	}
	if bt.Faces == [6]int{} {
		bt.Faces = e.Faces
	}
	if bt.Multiplier == nil {
		bt.Multiplier = e.Multiplier
	}
}

func displayName(code string) string {
	parts := strings.Split(code, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
