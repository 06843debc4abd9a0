package sequence

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/tka-animator/internal/logger"
	"github.com/Faultbox/tka-animator/pkg/grid"
	"github.com/Faultbox/tka-animator/pkg/motion"
)

// Load reads a sequence file (YAML or JSON, native or legacy layout).
func Load(path string) (*Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sequence: %w", err)
	}
	seq, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if seq.Name == "" {
		seq.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	logger.Debug("sequence loaded",
		zap.String("path", path),
		zap.String("word", seq.Word()),
		zap.Int("beats", seq.Len()),
	)
	return seq, nil
}

// Parse decodes a sequence, derives end orientations and validates it.
func Parse(data []byte) (*Sequence, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, ErrEmpty
	}

	var seq *Sequence
	var err error
	switch doc := root.Content[0]; doc.Kind {
	case yaml.MappingNode:
		seq = &Sequence{}
		err = doc.Decode(seq)
	case yaml.SequenceNode:
		seq, err = decodeLegacy(doc)
	default:
		err = fmt.Errorf("unexpected document kind %d", doc.Kind)
	}
	if err != nil {
		return nil, err
	}

	seq.Resolve()
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	seq.logDiscontinuities()
	return seq, nil
}

// Save writes the sequence in the native YAML layout.
func (s *Sequence) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// legacyEntry covers the metadata, start position and beat objects of the
// array layout; unused fields are simply absent.
type legacyEntry struct {
	Word        string `yaml:"word"`
	Author      string `yaml:"author"`
	Level       int    `yaml:"level"`
	GridMode    string `yaml:"grid_mode"`
	Beat        *int   `yaml:"beat"`
	StartPosKey string `yaml:"sequence_start_position"`
	Letter      string `yaml:"letter"`
	StartPos    string `yaml:"start_pos"`
	EndPos      string `yaml:"end_pos"`

	BlueAttributes *motion.Descriptor `yaml:"blue_attributes"`
	RedAttributes  *motion.Descriptor `yaml:"red_attributes"`
}

func (e legacyEntry) isPictograph() bool {
	return e.BlueAttributes != nil && e.RedAttributes != nil
}

func decodeLegacy(doc *yaml.Node) (*Sequence, error) {
	var entries []legacyEntry
	if err := doc.Decode(&entries); err != nil {
		return nil, err
	}

	seq := &Sequence{}
	for i, e := range entries {
		if !e.isPictograph() {
			if e.Word != "" {
				seq.Name = e.Word
			}
			if e.Author != "" {
				seq.Author = e.Author
			}
			if e.Level != 0 {
				seq.Level = e.Level
			}
			if e.GridMode != "" {
				mode, err := grid.ParseMode(e.GridMode)
				if err != nil {
					return nil, fmt.Errorf("entry %d: %w", i, err)
				}
				seq.GridMode = mode
			}
			continue
		}

		b := Beat{
			Letter:   e.Letter,
			StartPos: e.StartPos,
			EndPos:   e.EndPos,
			Blue:     *e.BlueAttributes,
			Red:      *e.RedAttributes,
		}
		if e.StartPosKey != "" || (e.Beat != nil && *e.Beat == 0) {
			if b.StartPos == "" {
				b.StartPos = b.EndPos
			}
			seq.StartPosition = &b
			continue
		}
		seq.Beats = append(seq.Beats, b)
	}
	return seq, nil
}
