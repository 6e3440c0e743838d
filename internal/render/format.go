package render

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	displayUsernameMax = 12
	ellipsis           = "..."
	languageSeparator  = " • "
)

// FormatNumber abbreviates counters of 1000 or more as thousands with one decimal
// ("12.3k"). There is no unit beyond k.
func FormatNumber(n int64) string {
	if n >= 1000 {
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	}
	return strconv.FormatInt(n, 10)
}

// DisplayUsername shortens a username to twelve runes plus an ellipsis.
func DisplayUsername(username string) string {
	if utf8.RuneCountInString(username) <= displayUsernameMax {
		return username
	}
	return string([]rune(username)[:displayUsernameMax]) + ellipsis
}

// Initial returns the uppercase first rune of the username, used when no avatar is embedded.
func Initial(username string) string {
	r, size := utf8.DecodeRuneInString(strings.TrimSpace(username))
	if size == 0 || r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}

// JoinLanguages joins at most the first two languages with a bullet.
func JoinLanguages(languages []string) string {
	if len(languages) > 2 {
		languages = languages[:2]
	}
	return strings.Join(languages, languageSeparator)
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&#34;", `'`, "&#39;")

// attr renders a single name="value" pair for svgo's variadic style arguments.
func attr(name, value string) string {
	return name + `="` + attrEscaper.Replace(value) + `"`
}
