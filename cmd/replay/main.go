// cmd/replay re-runs recorded logs and checks every tick's digest.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go-lane-defense/internal/replay"
)

func main() {
	var (
		path    = flag.String("log", "", "path to a .jsonl.zst replay, or a directory of them")
		verbose = flag.Bool("v", false, "show session logging while replaying")
	)
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "missing -log")
		os.Exit(2)
	}
	files, err := listLogs(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list logs:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no replay logs found in", *path)
		os.Exit(1)
	}

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "replay: ", log.LstdFlags)
	}

	failed := 0
	for _, f := range files {
		res, err := replay.VerifyFile(f, logger)
		var div *replay.Divergence
		switch {
		case errors.As(err, &div):
			failed++
			fmt.Printf("%s: DIVERGED at tick %d (got %s want %s)\n", filepath.Base(f), div.Tick, div.Got, div.Want)
		case err != nil:
			failed++
			fmt.Printf("%s: error: %v\n", filepath.Base(f), err)
		default:
			fmt.Printf("%s: ok run=%s seed=%d ticks=%d digest=%s\n", filepath.Base(f), res.Header.RunID, res.Header.Seed, res.Ticks, res.Digest)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func listLogs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	ents, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl.zst") {
			out = append(out, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
