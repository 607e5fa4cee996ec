package router

import (
	"path"
	"strings"
)

const modulePath = "github.com/shandysiswandi/twofactor/"

// moduleFrames reduces a debug.Stack dump to this module's frames, each as a
// repository-relative "dir/file.go:line".
//
// A dump alternates function lines and tab-indented file lines; the package
// directory comes from the function's import path so the result does not
// depend on where the source was checked out.
func moduleFrames(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")

	var frames []string
	for i := 0; i+1 < len(lines); i++ {
		fn, ok := strings.CutPrefix(lines[i], modulePath)
		if !ok {
			continue
		}

		head, _, _ := strings.Cut(fn, "(")
		slash := strings.LastIndex(head, "/")
		dot := strings.Index(head[slash+1:], ".")
		if dot < 0 {
			continue
		}
		dir := head[:slash+1+dot]

		file, _, _ := strings.Cut(strings.TrimSpace(lines[i+1]), " +")
		frames = append(frames, dir+"/"+path.Base(file))
		i++
	}

	return frames
}
