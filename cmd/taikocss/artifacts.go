package main

import (
	"os"
	"path/filepath"

	"github.com/taikocss/taikocss/pkg/transform"
)

// artifact is one CSS file to emit, named by the virtual-identifier
// convention: <hash>.css for component rules, global-<hash>.css, and
// kf-<hash>.css.
type artifact struct {
	Name string
	CSS  string
	Map  string
}

// artifactsFor lists a result's artifacts in prelude order: global rules,
// then keyframes, then component rules.
func artifactsFor(res *transform.Result) []artifact {
	arts := make([]artifact, 0, len(res.GlobalCSS)+len(res.Keyframes)+len(res.CSSRules))
	for _, r := range res.GlobalCSS {
		arts = append(arts, artifact{Name: "global-" + r.Hash + ".css", CSS: r.CSS, Map: r.Map})
	}
	for _, r := range res.Keyframes {
		arts = append(arts, artifact{Name: "kf-" + r.Hash + ".css", CSS: r.CSS, Map: r.Map})
	}
	for _, r := range res.CSSRules {
		arts = append(arts, artifact{Name: r.Hash + ".css", CSS: r.CSS, Map: r.Map})
	}
	return arts
}

// emitter de-duplicates artifacts by name across a whole build run.
type emitter struct {
	seen  map[string]struct{}
	order []artifact
}

func newEmitter() *emitter {
	return &emitter{seen: make(map[string]struct{})}
}

// add records an artifact once; repeated hashes are the cross-file
// de-duplication signal and are skipped.
func (e *emitter) add(a artifact) {
	if _, dup := e.seen[a.Name]; dup {
		return
	}
	e.seen[a.Name] = struct{}{}
	e.order = append(e.order, a)
}

func (e *emitter) count() int { return len(e.order) }

// flush writes every recorded artifact, plus a .map sibling for those
// carrying a source map.
func (e *emitter) flush(dir string) error {
	for _, a := range e.order {
		path := filepath.Join(dir, a.Name)
		if err := os.WriteFile(path, []byte(a.CSS), 0o644); err != nil {
			return err
		}
		if a.Map != "" {
			if err := os.WriteFile(path+".map", []byte(a.Map), 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}
