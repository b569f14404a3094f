package redact

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zricethezav/gitleaks/v8/detect"
)

// Placeholder replaces every detected secret
const Placeholder = "REDACTED"

// Redactor masks secrets in text before it is sent to a third party
type Redactor interface {
	Redact(text string) (string, int)
}

// Gitleaks redacts secrets found by the gitleaks default rule set
type Gitleaks struct {
	detector *detect.Detector
}

// NewGitleaks loads the default gitleaks rules
func NewGitleaks() (*Gitleaks, error) {
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load gitleaks rules: %w", err)
	}
	return &Gitleaks{detector: d}, nil
}

// Redact returns text with detected secrets replaced and the number of
// distinct secrets replaced.
func (g *Gitleaks) Redact(text string) (string, int) {
	findings := g.detector.DetectString(text)
	if len(findings) == 0 {
		return text, 0
	}

	seen := map[string]bool{}
	secrets := make([]string, 0, len(findings))
	for _, f := range findings {
		if f.Secret == "" || seen[f.Secret] {
			continue
		}
		seen[f.Secret] = true
		secrets = append(secrets, f.Secret)
		log.Debug().Str("rule", f.RuleID).Int("line", f.StartLine).Msg("Secret redacted from diff")
	}

	// Longest first so a secret containing another is replaced whole
	sort.Slice(secrets, func(i, j int) bool { return len(secrets[i]) > len(secrets[j]) })
	pairs := make([]string, 0, 2*len(secrets))
	for _, s := range secrets {
		pairs = append(pairs, s, Placeholder)
	}
	return strings.NewReplacer(pairs...).Replace(text), len(secrets)
}

// Nop leaves text unchanged
type Nop struct{}

func (Nop) Redact(text string) (string, int) { return text, 0 }
