package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultBranch is the branch assumed when building raw content URLs.
// The repository's real default branch is never queried, so repositories on
// another branch get a URL that does not resolve.
const DefaultBranch = "main"

var (
	imageRefRe = regexp.MustCompile(`!\[[^\]]*\]\(\s*([^)\s]+)[^)]*\)`)
	bareURLRe  = regexp.MustCompile(`(?i)https?://[^\s"'<>()\[\]]+\.(?:png|jpe?g|gif|svg)\b`)
)

// LocateImage returns the best-effort cover image referenced by md.
//
// The first Markdown image wins; otherwise the first bare URL ending in an
// image extension is used. Relative references are rewritten to raw content
// URLs for owner/repo.
func LocateImage(md, owner, repo string) (string, bool) {
	if md == "" {
		return "", false
	}

	var ref string
	if m := imageRefRe.FindStringSubmatch(md); m != nil {
		ref = m[1]
	} else if u := bareURLRe.FindString(md); u != "" {
		ref = u
	} else {
		return "", false
	}

	return NormalizeImageURL(ref, owner, repo), true
}

// NormalizeImageURL rewrites a repository-relative path to an absolute raw
// content URL. References that already start with "http", in any letter
// case, are returned as-is.
func NormalizeImageURL(ref, owner, repo string) string {
	if len(ref) >= 4 && strings.EqualFold(ref[:4], "http") {
		return ref
	}
	return RawContentURL(owner, repo, strings.TrimPrefix(ref, "./"))
}

// RawContentURL returns the raw.githubusercontent.com address of path on the
// default branch
func RawContentURL(owner, repo, path string) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", owner, repo, DefaultBranch, path)
}
