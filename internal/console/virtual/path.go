package virtual

import "strings"

// Resolve applies arg to cwd one segment at a time, left to right:
//
//	""  or "~"  -> home
//	leading "/" -> start from the root
//	leading "~" -> start from home
//	".."        -> drop the last segment; a no-op at the root
//	anything    -> appended as-is
//
// Nothing is checked for existence. The result is always absolute.
func Resolve(cwd, home, arg string) string {
	if arg == "" || arg == "~" {
		return home
	}

	var base string
	rest := arg
	switch {
	case strings.HasPrefix(arg, "/"):
		base = "/"
	case strings.HasPrefix(arg, "~/"):
		base = home
		rest = strings.TrimPrefix(arg, "~")
	default:
		base = cwd
	}

	segments := split(base)
	for _, seg := range strings.Split(rest, "/") {
		switch seg {
		case "":
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
		default:
			segments = append(segments, seg)
		}
	}
	return "/" + strings.Join(segments, "/")
}

func split(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// Rel returns path relative to dir and whether path lies within dir.
// dir itself yields "".
func Rel(dir, path string) (string, bool) {
	if path == dir {
		return "", true
	}
	prefix := strings.TrimSuffix(dir, "/") + "/"
	if strings.HasPrefix(path, prefix) {
		return path[len(prefix):], true
	}
	return "", false
}
