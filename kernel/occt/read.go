package occt

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// CountSolids scans a STEP byte stream and counts its solid bodies
// (MANIFOLD_SOLID_BREP plus its BREP_WITH_VOIDS subtype). It is a structural
// check for exported models, not a full parser: entity instances are counted
// one per line, the way this writer and every mainstream CAD exporter lay
// them out.
func CountSolids(data []byte) (int, error) {
	if !bytes.HasPrefix(data, []byte("ISO-10303-21;")) {
		return 0, fmt.Errorf("not a STEP part 21 stream")
	}
	count := 0
	inData := false
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "DATA;":
			inData = true
		case line == "ENDSEC;":
			inData = false
		case inData && strings.HasPrefix(line, "#"):
			rest := line[strings.Index(line, "=")+1:]
			rest = strings.TrimSpace(rest)
			if strings.HasPrefix(rest, "MANIFOLD_SOLID_BREP") || strings.HasPrefix(rest, "BREP_WITH_VOIDS") {
				count++
			}
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return count, nil
}
