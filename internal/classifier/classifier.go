// Package classifier assigns a camera identity to a media file from layered
// evidence: probed metadata, RED raw conventions, the parent folder name and
// finally the file extension.
package classifier

import (
	"path/filepath"
	"regexp"
	"strings"

	"meldify/internal/lutdb"
	"meldify/pkg/models"
)

const redRawExt = ".r3d"

// reelPattern matches RED clip names such as A001_C003.
var reelPattern = regexp.MustCompile(`(?i)^([a-z]\d{3})_([a-z]\d{3})`)

// evidence is everything a tier may look at, normalized once per file.
type evidence struct {
	meta     *models.MetadataRecord
	model    string // upper-cased
	make     string // upper-cased
	filename string
	ext      string
	path     string // lower-cased, forward slashes
	folder   string // lower-cased parent folder name
}

func (e evidence) redRaw() bool {
	return e.ext == redRawExt || strings.Contains(e.path, ".rdc/")
}

// tier is one rung of the precedence ladder. applies is a cheap gate;
// resolve may still decline.
type tier struct {
	name    string
	applies func(evidence) bool
	resolve func(*Classifier, evidence) (models.ClassificationResult, bool)
}

// Classifier resolves files against a knowledge base.
type Classifier struct {
	kb    *lutdb.Base
	tiers []tier
}

// New returns a classifier over kb; nil uses the built-in tables.
func New(kb *lutdb.Base) *Classifier {
	if kb == nil {
		kb = lutdb.Default()
	}
	return &Classifier{kb: kb, tiers: defaultTiers()}
}

// defaultTiers is the evidence precedence. First match wins.
func defaultTiers() []tier {
	return []tier{
		{name: "metadata", applies: hasMetadata, resolve: (*Classifier).byMetadata},
		{name: "red_metadata", applies: redWithREDModel, resolve: (*Classifier).byREDMetadata},
		{name: "red_reel", applies: evidence.redRaw, resolve: (*Classifier).byReel},
		{name: "red_generic", applies: evidence.redRaw, resolve: (*Classifier).genericRED},
		{name: "folder", applies: hasFolder, resolve: (*Classifier).byFolder},
		{name: "extension", applies: always, resolve: (*Classifier).byExtension},
	}
}

// Classify never fails; files with no usable evidence become Unknown Camera.
func (c *Classifier) Classify(entry *models.FileEntry) models.ClassificationResult {
	ev := gather(entry)
	for _, t := range c.tiers {
		if !t.applies(ev) {
			continue
		}
		if res, ok := t.resolve(c, ev); ok {
			return res
		}
	}
	return models.ClassificationResult{
		CameraType: lutdb.UnknownCamera,
		Confidence: models.ConfidenceNone,
		Source:     models.SourceFallback,
		LutInfo:    lutdb.Unknown(),
	}
}

// Apply classifies entry and stores the result on it.
func (c *Classifier) Apply(entry *models.FileEntry) {
	res := c.Classify(entry)
	entry.Classification = &res
}

func gather(entry *models.FileEntry) evidence {
	name := entry.DisplayName
	if name == "" {
		name = filepath.Base(entry.AbsolutePath)
	}
	p := strings.ToLower(strings.ReplaceAll(entry.AbsolutePath, `\`, "/"))
	ev := evidence{
		meta:     entry.Metadata,
		filename: name,
		ext:      strings.ToLower(filepath.Ext(name)),
		path:     p,
	}
	if dir := pathDir(p); dir != "" {
		ev.folder = pathBase(dir)
	}
	if entry.Metadata != nil {
		ev.model = strings.ToUpper(strings.TrimSpace(entry.Metadata.Model))
		ev.make = strings.ToUpper(strings.TrimSpace(entry.Metadata.Make))
	}
	return ev
}

func pathDir(p string) string {
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return ""
	}
	return p[:i]
}

func pathBase(p string) string {
	return p[strings.LastIndex(p, "/")+1:]
}

// hasMetadata requires a model tag; a make alone is too coarse to pick a
// camera and would hide the reel of RED raw files.
func hasMetadata(ev evidence) bool { return ev.meta != nil && ev.model != "" }

func redWithREDModel(ev evidence) bool { return ev.redRaw() && strings.Contains(ev.model, "RED") }

func hasFolder(ev evidence) bool { return ev.folder != "" }

func always(evidence) bool { return true }

func (c *Classifier) result(key string, conf models.Confidence, src models.Source) models.ClassificationResult {
	info, ok := c.kb.Lookup(key)
	if !ok {
		info = lutdb.Unknown()
	}
	return models.ClassificationResult{CameraType: key, Confidence: conf, Source: src, LutInfo: info}
}

// byMetadata: the model contains or is contained by a camera key, or the
// make is part of a key. Only reached when a model is present.
func (c *Classifier) byMetadata(ev evidence) (models.ClassificationResult, bool) {
	for _, cam := range c.kb.Cameras() {
		if lutdb.IsGeneric(cam.Key) {
			continue
		}
		if modelMatches(ev.model, cam.Key) || (ev.make != "" && strings.Contains(cam.Key, ev.make)) {
			return c.result(cam.Key, models.ConfidenceHigh, models.SourceMetadata), true
		}
	}
	return models.ClassificationResult{}, false
}

func (c *Classifier) byREDMetadata(ev evidence) (models.ClassificationResult, bool) {
	for _, cam := range c.kb.Cameras() {
		if lutdb.IsGeneric(cam.Key) || !strings.Contains(cam.Key, "RED") {
			continue
		}
		if modelMatches(ev.model, cam.Key) {
			return c.result(cam.Key, models.ConfidenceHigh, models.SourceMetadataExtension), true
		}
	}
	return models.ClassificationResult{}, false
}

func modelMatches(model, key string) bool {
	if model == "" {
		return false
	}
	return strings.Contains(model, key) || strings.Contains(key, model)
}

func (c *Classifier) byReel(ev evidence) (models.ClassificationResult, bool) {
	m := reelPattern.FindStringSubmatch(ev.filename)
	if m == nil {
		return models.ClassificationResult{}, false
	}
	res := c.result(lutdb.RedDigitalCinema, models.ConfidenceMedium, models.SourceFilenamePattern)
	res.ReelName = strings.ToUpper(m[1])
	return res, true
}

func (c *Classifier) genericRED(evidence) (models.ClassificationResult, bool) {
	return c.result(lutdb.GenericR3D, models.ConfidenceMedium, models.SourceFileExtension), true
}

func (c *Classifier) byFolder(ev evidence) (models.ClassificationResult, bool) {
	for _, kw := range c.kb.FolderKeywords() {
		if strings.Contains(ev.folder, kw.Keyword) {
			return c.result(kw.CameraType, models.ConfidenceMedium, models.SourceFolderName), true
		}
	}
	return models.ClassificationResult{}, false
}

var extensionBuckets = map[string]string{
	".mxf": lutdb.GenericMXF,
	".mov": lutdb.GenericMOV,
	".mp4": lutdb.GenericMP4,
	".dng": lutdb.GenericDNG,
}

func (c *Classifier) byExtension(ev evidence) (models.ClassificationResult, bool) {
	key, ok := extensionBuckets[ev.ext]
	if !ok {
		return models.ClassificationResult{}, false
	}
	return c.result(key, models.ConfidenceLow, models.SourceFileExtension), true
}
