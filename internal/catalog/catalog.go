// Package catalog loads and caches template and field-rule definitions
// from a directory of YAML files. The cache is an immutable snapshot
// swapped atomically on reload, so concurrent matches never observe a
// half-updated catalog.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"inex/internal/domain"
)

const (
	defaultTolerance    = 0.3
	defaultAnchorWeight = 1.0
	defaultRadiusX      = 0.5
	defaultRadiusY      = 0.1
)

var defaultThresholds = domain.Thresholds{
	KeywordMatch: 0.7,
	LayoutMatch:  0.6,
	OverallMatch: 0.75,
}

// Snapshot is one immutable view of the catalog. Rules is keyed by
// template id, then field name.
type Snapshot struct {
	Templates map[string]domain.Template
	Rules     map[string]map[string]domain.FieldRule
}

// TemplateInfo is the administrative listing entry for one template.
type TemplateInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Catalog owns the cached template and rule definitions for a directory.
// It is safe for concurrent use; readers never block each other.
type Catalog struct {
	dir string
	log *zap.Logger

	mu   sync.Mutex // serializes loads
	snap atomic.Pointer[Snapshot]
}

// New creates a Catalog backed by dir. Definitions are read lazily on
// first access; if the directory is empty or missing it is seeded with
// the built-in default templates so the system is operable with zero
// external configuration.
func New(dir string, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{dir: dir, log: log}
}

// Snapshot returns the current catalog snapshot, loading it on first use.
func (c *Catalog) Snapshot() (*Snapshot, error) {
	if s := c.snap.Load(); s != nil {
		return s, nil
	}
	return c.load()
}

// Templates returns all loaded templates keyed by id.
func (c *Catalog) Templates() (map[string]domain.Template, error) {
	s, err := c.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.Templates, nil
}

// FieldRules returns the field-rule set for a template, or
// domain.ErrNoRulesForTemplate if the template has no rule definitions.
func (c *Catalog) FieldRules(templateID string) (map[string]domain.FieldRule, error) {
	s, err := c.Snapshot()
	if err != nil {
		return nil, err
	}
	rules, ok := s.Rules[templateID]
	if !ok {
		return nil, fmt.Errorf("template %q: %w", templateID, domain.ErrNoRulesForTemplate)
	}
	return rules, nil
}

// List returns id/name/description for every loaded template, sorted by id.
func (c *Catalog) List() ([]TemplateInfo, error) {
	s, err := c.Snapshot()
	if err != nil {
		return nil, err
	}
	infos := make([]TemplateInfo, 0, len(s.Templates))
	for _, t := range s.Templates {
		infos = append(infos, TemplateInfo{ID: t.ID, Name: t.Name, Description: t.Description})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// Reload re-reads the backing directory and installs the new snapshot
// atomically. In-flight readers keep the snapshot they started with.
func (c *Catalog) Reload() error {
	_, err := c.load()
	return err
}

// load reads every definition file, builds a fresh snapshot, and swaps
// it in. Malformed files are logged and skipped; the only fatal
// condition is ending up with zero templates.
func (c *Catalog) load() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureSeeded(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog dir %s: %w", c.dir, err)
	}

	snap := &Snapshot{
		Templates: make(map[string]domain.Template),
		Rules:     make(map[string]map[string]domain.FieldRule),
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isYAML(name) {
			continue
		}
		path := filepath.Join(c.dir, name)
		if id, ok := rulesID(name); ok {
			rules, err := c.loadRulesFile(path)
			if err != nil {
				c.log.Warn("skipping malformed rules file",
					zap.String("file", name), zap.Error(err))
				continue
			}
			snap.Rules[id] = rules
			c.log.Info("loaded field rules",
				zap.String("template_id", id), zap.Int("fields", len(rules)))
			continue
		}
		id := templateID(name)
		tpl, err := c.loadTemplateFile(path, id)
		if err != nil {
			c.log.Warn("skipping malformed template file",
				zap.String("file", name), zap.Error(err))
			continue
		}
		snap.Templates[id] = tpl
		c.log.Info("loaded template", zap.String("template_id", id))
	}

	if len(snap.Templates) == 0 {
		return nil, fmt.Errorf("catalog dir %s: %w", c.dir, domain.ErrNoTemplates)
	}

	c.snap.Store(snap)
	return snap, nil
}

// ensureSeeded writes the built-in default definitions when the backing
// directory holds no YAML files at all.
func (c *Catalog) ensureSeeded() error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating catalog dir %s: %w", c.dir, err)
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("reading catalog dir %s: %w", c.dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && isYAML(entry.Name()) {
			return nil
		}
	}
	for name, content := range defaultDefinitions {
		path := filepath.Join(c.dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("seeding default definition %s: %w", name, err)
		}
	}
	c.log.Info("seeded default template definitions",
		zap.String("dir", c.dir), zap.Int("files", len(defaultDefinitions)))
	return nil
}

// File-level DTOs mirroring the human-editable YAML shape.

type positionFile struct {
	X         float64  `yaml:"x"`
	Y         float64  `yaml:"y"`
	Tolerance *float64 `yaml:"tolerance"`
}

type anchorFile struct {
	Keyword          string       `yaml:"keyword"`
	ExpectedPosition positionFile `yaml:"expected_position"`
	Weight           *float64     `yaml:"weight"`
}

type thresholdsFile struct {
	KeywordMatch *float64 `yaml:"keyword_match"`
	LayoutMatch  *float64 `yaml:"layout_match"`
	OverallMatch *float64 `yaml:"overall_match"`
}

type templateFile struct {
	Name                 string          `yaml:"name"`
	Description          string          `yaml:"description"`
	RequiredKeywords     []string        `yaml:"required_keywords"`
	OptionalKeywords     []string        `yaml:"optional_keywords"`
	LayoutAnchors        []anchorFile    `yaml:"layout_anchors"`
	ConfidenceThresholds *thresholdsFile `yaml:"confidence_thresholds"`
}

type radiusFile struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type ruleFile struct {
	Patterns       []string    `yaml:"patterns"`
	AnchorKeywords []string    `yaml:"anchor_keywords"`
	SearchRadius   *radiusFile `yaml:"search_radius"`
	ValueType      string      `yaml:"value_type"`
	Required       bool        `yaml:"required"`
}

type rulesFile struct {
	Fields map[string]ruleFile `yaml:"fields"`
}

func (c *Catalog) loadTemplateFile(path, id string) (domain.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Template{}, err
	}
	var tf templateFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return domain.Template{}, fmt.Errorf("parsing yaml: %w", err)
	}
	if len(tf.RequiredKeywords) == 0 && len(tf.LayoutAnchors) == 0 {
		return domain.Template{}, fmt.Errorf("template defines no required keywords and no layout anchors")
	}

	tpl := domain.Template{
		ID:               id,
		Name:             tf.Name,
		Description:      tf.Description,
		RequiredKeywords: tf.RequiredKeywords,
		OptionalKeywords: tf.OptionalKeywords,
		Thresholds:       defaultThresholds,
	}
	if tpl.Name == "" {
		tpl.Name = id
	}
	if th := tf.ConfidenceThresholds; th != nil {
		if th.KeywordMatch != nil {
			tpl.Thresholds.KeywordMatch = *th.KeywordMatch
		}
		if th.LayoutMatch != nil {
			tpl.Thresholds.LayoutMatch = *th.LayoutMatch
		}
		if th.OverallMatch != nil {
			tpl.Thresholds.OverallMatch = *th.OverallMatch
		}
	}
	for _, af := range tf.LayoutAnchors {
		if af.Keyword == "" {
			return domain.Template{}, fmt.Errorf("layout anchor missing keyword")
		}
		anchor := domain.LayoutAnchor{
			Keyword:   af.Keyword,
			Expected:  domain.Position{X: af.ExpectedPosition.X, Y: af.ExpectedPosition.Y},
			Tolerance: defaultTolerance,
			Weight:    defaultAnchorWeight,
		}
		if af.ExpectedPosition.Tolerance != nil {
			anchor.Tolerance = *af.ExpectedPosition.Tolerance
		}
		if af.Weight != nil {
			anchor.Weight = *af.Weight
		}
		if anchor.Weight <= 0 {
			return domain.Template{}, fmt.Errorf("layout anchor %q: weight must be positive", af.Keyword)
		}
		tpl.LayoutAnchors = append(tpl.LayoutAnchors, anchor)
	}
	return tpl, nil
}

func (c *Catalog) loadRulesFile(path string) (map[string]domain.FieldRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if len(rf.Fields) == 0 {
		return nil, fmt.Errorf("rules file defines no fields")
	}

	rules := make(map[string]domain.FieldRule, len(rf.Fields))
	for name, f := range rf.Fields {
		rule, err := toFieldRule(name, f)
		if err != nil {
			// One bad field must not sink the whole rule set.
			c.log.Warn("skipping invalid field rule",
				zap.String("file", filepath.Base(path)),
				zap.String("field", name), zap.Error(err))
			continue
		}
		rules[name] = rule
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("rules file has no valid fields")
	}
	return rules, nil
}

func toFieldRule(name string, f ruleFile) (domain.FieldRule, error) {
	if len(f.Patterns) == 0 {
		return domain.FieldRule{}, fmt.Errorf("no patterns defined")
	}
	for _, p := range f.Patterns {
		if _, err := regexp.Compile("(?i)" + p); err != nil {
			return domain.FieldRule{}, fmt.Errorf("pattern %q: %w", p, err)
		}
	}
	rule := domain.FieldRule{
		Name:           name,
		Patterns:       f.Patterns,
		AnchorKeywords: f.AnchorKeywords,
		SearchRadius:   domain.SearchRadius{X: defaultRadiusX, Y: defaultRadiusY},
		Required:       f.Required,
	}
	if f.SearchRadius != nil {
		rule.SearchRadius = domain.SearchRadius{X: f.SearchRadius.X, Y: f.SearchRadius.Y}
	}
	if f.ValueType != "" {
		rule.ValueType = domain.ParseValueType(f.ValueType)
	} else {
		rule.ValueType = domain.InferValueType(name)
	}
	return rule, nil
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// rulesID extracts the template id from a rules filename
// ("standard_insurance_rules.yaml" -> "standard_insurance").
func rulesID(name string) (string, bool) {
	for _, suffix := range []string{"_rules.yaml", "_rules.yml"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix), true
		}
	}
	return "", false
}

// templateID is the filename without its YAML extension.
func templateID(name string) string {
	name = strings.TrimSuffix(name, ".yaml")
	return strings.TrimSuffix(name, ".yml")
}
