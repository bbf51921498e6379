// Package grouping partitions classified files into camera groups and flags
// colliding file names.
package grouping

import (
	"errors"
	"fmt"

	"meldify/internal/lutdb"
	"meldify/pkg/models"
)

// ErrUnclassified is returned when a file reaches grouping without a
// classification.
var ErrUnclassified = errors.New("file has not been classified")

// Grouping is the result of one batch. Keys keep first-seen order so the UI
// and export see groups in arrival order.
type Grouping struct {
	groups map[string]*models.CameraGroup
	order  []string
}

// Key computes the grouping key for a classification. RED-family types
// carrying a reel name are split per reel.
func Key(c *models.ClassificationResult) string {
	if c.ReelName != "" && lutdb.IsREDFamily(c.CameraType) {
		return c.CameraType + " - " + c.ReelName
	}
	return c.CameraType
}

// Group partitions files by key. Every input file lands in exactly one
// group, in input order.
func Group(files []*models.FileEntry) (*Grouping, error) {
	g := &Grouping{groups: make(map[string]*models.CameraGroup)}
	for _, f := range files {
		if f == nil || f.Classification == nil {
			name := "<nil>"
			if f != nil {
				name = f.AbsolutePath
			}
			return nil, fmt.Errorf("group %s: %w", name, ErrUnclassified)
		}
		key := Key(f.Classification)
		grp, ok := g.groups[key]
		if !ok {
			grp = newGroup(key, f.Classification)
			g.groups[key] = grp
			g.order = append(g.order, key)
		}
		grp.Files = append(grp.Files, f)
	}
	return g, nil
}

// newGroup copies group-level metadata from the first file's classification.
func newGroup(key string, c *models.ClassificationResult) *models.CameraGroup {
	name := lutdb.DisplayName(c.CameraType)
	if key != c.CameraType {
		name += " - " + c.ReelName
	}
	info := c.LutInfo.Clone()
	return &models.CameraGroup{
		Key:             key,
		Name:            name,
		ConfidenceLevel: c.Confidence,
		Source:          c.Source,
		LutInfo:         info,
		SelectedLUT:     info.DefaultLUT(),
	}
}

// Keys returns group keys in first-seen order.
func (g *Grouping) Keys() []string {
	return append([]string(nil), g.order...)
}

// Get returns the group for key.
func (g *Grouping) Get(key string) (*models.CameraGroup, bool) {
	grp, ok := g.groups[key]
	return grp, ok
}

// Groups returns the groups in key order.
func (g *Grouping) Groups() []*models.CameraGroup {
	out := make([]*models.CameraGroup, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, g.groups[k])
	}
	return out
}

// Len returns the number of groups.
func (g *Grouping) Len() int { return len(g.order) }

// Files flattens the grouping: groups in key order, files in arrival order.
func (g *Grouping) Files() []*models.FileEntry {
	var out []*models.FileEntry
	for _, k := range g.order {
		out = append(out, g.groups[k].Files...)
	}
	return out
}

// SelectLUT overrides the transform of one group.
func (g *Grouping) SelectLUT(key, lut string) error {
	grp, ok := g.groups[key]
	if !ok {
		return fmt.Errorf("select lut: unknown group %q", key)
	}
	grp.SelectLUT(lut)
	return nil
}
