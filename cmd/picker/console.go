package main

import (
	"bufio"
	"io"
	"strings"
)

// readConsole forwards non-empty lines from r to lines until r is exhausted. The render loop drains
// lines once per frame, so commands run on the same thread as the scene.
func readConsole(r io.Reader, lines chan<- string) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines <- line
		}
	}
}
