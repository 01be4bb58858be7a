package rasa

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/faq-intents/internal/domain/intent"
)

// Bundle file paths, relative to the chatbot project root.
const (
	NLUPath    = "data/nlu.yml"
	RulesPath  = "data/rules.yml"
	DomainPath = "domain.yml"
)

// Config controls the generated project files.
type Config struct {
	Version                  string
	SessionExpirationMinutes int
	CarryOverSlots           bool
}

// DefaultConfig targets Rasa 3.1 projects.
func DefaultConfig() Config {
	return Config{Version: "3.1", SessionExpirationMinutes: 60, CarryOverSlots: true}
}

// Exporter renders NLU training data, answer rules and the domain for a set of assignments.
type Exporter struct {
	cfg Config
}

// NewExporter constructs an exporter, filling unset fields with defaults.
func NewExporter(cfg Config) *Exporter {
	def := DefaultConfig()
	if cfg.Version == "" {
		cfg.Version = def.Version
	}
	if cfg.SessionExpirationMinutes <= 0 {
		cfg.SessionExpirationMinutes = def.SessionExpirationMinutes
	}
	return &Exporter{cfg: cfg}
}

// Build implements intent.BundleBuilder.
func (e *Exporter) Build(assignments []intent.Assignment) (map[string][]byte, error) {
	seen := make(map[string]int, len(assignments))
	for i, a := range assignments {
		if !intent.IsWellFormed(a.Intent) {
			return nil, fmt.Errorf("row %d: malformed intent %q", a.Row, a.Intent)
		}
		if prev, dup := seen[a.Intent]; dup {
			return nil, fmt.Errorf("intent %q used by rows %d and %d", a.Intent, assignments[prev].Row, a.Row)
		}
		seen[a.Intent] = i
	}

	files := make(map[string][]byte, 3)
	for name, doc := range map[string]*yaml.Node{
		NLUPath:    e.nlu(assignments),
		RulesPath:  e.rules(assignments),
		DomainPath: e.domain(assignments),
	} {
		data, err := encode(doc)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		files[name] = data
	}
	return files, nil
}

func (e *Exporter) nlu(assignments []intent.Assignment) *yaml.Node {
	items := sequence()
	for _, a := range assignments {
		examples := scalar("- " + singleLine(a.Question) + "\n")
		examples.Style = yaml.LiteralStyle
		items.Content = append(items.Content, mapping(
			"intent", scalar(a.Intent),
			"examples", examples,
		))
	}
	return mapping("version", e.version(), "nlu", items)
}

func (e *Exporter) rules(assignments []intent.Assignment) *yaml.Node {
	items := sequence()
	for _, a := range assignments {
		steps := sequence(
			mapping("intent", scalar(a.Intent)),
			mapping("action", scalar(utterance(a.Intent))),
		)
		items.Content = append(items.Content, mapping(
			"rule", scalar("Answer "+a.Intent),
			"steps", steps,
		))
	}
	return mapping("version", e.version(), "rules", items)
}

func (e *Exporter) domain(assignments []intent.Assignment) *yaml.Node {
	intents := sequence()
	responses := mapping()
	for _, a := range assignments {
		intents.Content = append(intents.Content, scalar(a.Intent))
		text := scalar(a.Answer)
		text.Style = yaml.DoubleQuotedStyle
		responses.Content = append(responses.Content,
			scalar(utterance(a.Intent)),
			sequence(mapping("text", text)),
		)
	}
	session := mapping(
		"session_expiration_time", intScalar(e.cfg.SessionExpirationMinutes),
		"carry_over_slots_to_new_session", boolScalar(e.cfg.CarryOverSlots),
	)
	return mapping(
		"version", e.version(),
		"intents", intents,
		"responses", responses,
		"session_config", session,
	)
}

func (e *Exporter) version() *yaml.Node {
	n := scalar(e.cfg.Version)
	n.Style = yaml.DoubleQuotedStyle
	return n
}

func utterance(id string) string {
	return "utter_" + id
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func encode(doc *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func intScalar(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}

func boolScalar(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}

func sequence(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

// mapping takes alternating string keys and node values.
func mapping(pairs ...any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(pairs); i += 2 {
		n.Content = append(n.Content, scalar(pairs[i].(string)), pairs[i+1].(*yaml.Node))
	}
	return n
}

var _ intent.BundleBuilder = (*Exporter)(nil)
