package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	get "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/voxel-streamer/pkg/registry"
)

func main() {
	var (
		src  = flag.String("src", "", "data pack source, any go-getter url (git::, http, s3::, local path)")
		name = flag.String("name", "default", "data pack name")
		out  = flag.String("o", "./datapacks", "output dir path")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if *src == "" {
		log.Error("source url required")
		os.Exit(2)
	}
	if *out == "" || *name == "" {
		log.Error("output dir and name required")
		os.Exit(2)
	}

	path := fmt.Sprintf("%s/%s", *out, *name)

	if err := os.RemoveAll(path); err != nil {
		log.Error("clean output", "path", path, "error", err)
		os.Exit(1)
	}

	log.Info("start downloading data pack", "src", *src, "path", path)

	if err := get.Get(path, *src); err != nil {
		log.Error("download data pack", "error", err)
		os.Exit(1)
	}

	pack, err := registry.LoadDataPack(path)
	if err != nil {
		log.Error("invalid data pack", "path", path, "error", err)
		os.Exit(1)
	}

	log.Info("done downloading data pack", "path", path, "blocks", len(pack.Blocks))
}
