package challenge

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/whatthewaf/whatthewaf/pkg/regexcache"
)

// Technique recognisers. Each one answers "does this text still carry the
// attack", independent of whether a rule would catch it.

// hasScriptTag reports whether s tokenizes to a <script> start tag in any
// letter case.
func hasScriptTag(s string) bool {
	found := false
	eachStartTag(s, func(t html.Token) bool {
		if t.DataAtom == atom.Script {
			found = true
			return false
		}
		return true
	})
	return found
}

// scriptlessHandler reports whether s tokenizes to a non-script element
// that runs code through an on* event handler or a javascript: URL.
// It returns the tag and attribute that carry the payload.
func scriptlessHandler(s string) (tag, attr string, ok bool) {
	eachStartTag(s, func(t html.Token) bool {
		if t.DataAtom == atom.Script {
			return true
		}
		for _, a := range t.Attr {
			if isEventHandler(a.Key) && strings.TrimSpace(a.Val) != "" {
				tag, attr, ok = t.Data, a.Key, true
				return false
			}
			if isURLAttr(a.Key) && strings.HasPrefix(strings.ToLower(strings.TrimSpace(a.Val)), "javascript:") {
				tag, attr, ok = t.Data, a.Key, true
				return false
			}
		}
		return true
	})
	return tag, attr, ok
}

// eachStartTag calls fn for every start or self-closing tag until fn
// returns false or input runs out.
func eachStartTag(s string, fn func(html.Token) bool) {
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		if !fn(z.Token()) {
			return
		}
	}
}

func isEventHandler(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "on")
}

func isURLAttr(key string) bool {
	switch key {
	case "href", "src", "action", "formaction", "data", "xlink:href":
		return true
	}
	return false
}

// hasTraversal reports whether s contains a parent-directory step.
func hasTraversal(s string) bool {
	return strings.Contains(s, "../") || strings.Contains(s, `..\`)
}

const (
	blockCommentPattern = `/\*.*?\*/`
	unionSelectPattern  = `\bunion\s+(all\s+)?select\b`
	tautologyPattern    = `'\s*or\s+'?(\w+)'?\s*=\s*'?(\w+)`
	percentEscape       = `%[0-9A-Fa-f]{2}`
)

// commentSplitUnion reports whether s joins UNION and SELECT through at
// least one SQL block comment.
func commentSplitUnion(s string) bool {
	comment := regexcache.MustGet(blockCommentPattern, false)
	if !comment.MatchString(s) {
		return false
	}
	stripped := comment.ReplaceAllString(s, " ")
	return regexcache.MustGet(unionSelectPattern, false).MatchString(stripped)
}

// quotedTautology reports whether s closes a string literal and appends
// an always-true OR comparison such as ' OR 1=1 or ' OR 'a'='a.
func quotedTautology(s string) bool {
	m := regexcache.MustGet(tautologyPattern, false).FindStringSubmatch(s)
	return m != nil && strings.EqualFold(m[1], m[2])
}

// hasPercentEscape reports whether s contains at least one %XX escape.
func hasPercentEscape(s string) bool {
	return regexcache.MustGet(percentEscape, true).MatchString(s)
}
