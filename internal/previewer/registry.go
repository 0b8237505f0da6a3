package previewer

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/rview/internal/logging"
)

// Rule matches entries by file name glob or MIME glob. The first matching
// rule decides which previewer runs.
type Rule struct {
	Name string `mapstructure:"name"`
	Mime string `mapstructure:"mime"`
	Run  string `mapstructure:"run"`
	Sync bool   `mapstructure:"sync"`
}

func (r Rule) matches(url, mime string) bool {
	if r.Name != "" {
		ok, err := path.Match(strings.ToLower(r.Name), strings.ToLower(filepath.Base(url)))
		if err == nil && ok {
			return true
		}
	}
	if r.Mime != "" && mime != "" {
		ok, err := path.Match(r.Mime, mime)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// Previewer is the resolved previewer for an entry: which builtin to run and
// whether it is cheap enough to run inline.
type Previewer struct {
	Run  string
	Sync bool
}

// DefaultRules is the rule set used when the configuration has none.
func DefaultRules() []Rule {
	return []Rule{
		{Mime: "inode/directory", Run: "folder", Sync: true},
		{Mime: "inode/empty", Run: "empty", Sync: true},
		{Mime: "text/markdown", Run: "markdown"},
		{Mime: "text/*", Run: "code"},
		{Mime: "*/json", Run: "code"},
		{Mime: "*/javascript", Run: "code"},
		{Mime: "*/x-sh", Run: "code"},
		{Mime: "*/yaml", Run: "code"},
		{Mime: "*/toml", Run: "code"},
		{Mime: "*/xml", Run: "code"},
		{Mime: "image/*", Run: "image"},
		{Name: "*", Run: "file"},
	}
}

// Registry resolves previewers from an ordered rule list.
type Registry struct {
	rules []Rule
}

// NewRegistry keeps the rules whose Run names a known previewer, in order.
// Rules that match nothing or run an unknown previewer are dropped.
func NewRegistry(rules []Rule, known func(string) bool) *Registry {
	kept := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if rule.Name == "" && rule.Mime == "" {
			logging.Warn("previewer rule without name or mime ignored", logging.String("run", rule.Run))
			continue
		}
		if rule.Mime != "" {
			if _, err := path.Match(rule.Mime, ""); err != nil {
				logging.Warn("previewer rule with bad mime pattern ignored", logging.String("mime", rule.Mime))
				continue
			}
		}
		if known != nil && !known(rule.Run) {
			logging.Warn("previewer rule for unknown previewer ignored", logging.String("run", rule.Run))
			continue
		}
		kept = append(kept, rule)
	}
	return &Registry{rules: kept}
}

// PreviewerFor returns the previewer of the first rule matching url or mime.
func (r *Registry) PreviewerFor(url, mime string) (Previewer, bool) {
	for _, rule := range r.rules {
		if rule.matches(url, mime) {
			return Previewer{Run: rule.Run, Sync: rule.Sync}, true
		}
	}
	return Previewer{}, false
}

// Rules returns the active rules.
func (r *Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}
