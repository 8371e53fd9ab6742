package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/karaoke"
	"github.com/gogpu/karaoke/timing"
)

// lyricsFile is the YAML form of a timing document.
type lyricsFile struct {
	Lines []lyricLine `yaml:"lines"`
}

type lyricLine struct {
	Start float64     `yaml:"start"`
	End   float64     `yaml:"end"`
	Flags []string    `yaml:"flags"`
	Words []lyricWord `yaml:"words"`
}

type lyricWord struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Text  string  `yaml:"text"`
	Roman string  `yaml:"roman,omitempty"`
}

// readConfig reads a YAML engine config on top of the defaults.
func readConfig(path string) (karaoke.Config, error) {
	cfg := karaoke.DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// writeConfig writes cfg as YAML.
func writeConfig(path string, cfg karaoke.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// readLyrics reads a YAML lyrics file into a document.
func readLyrics(path string) (*timing.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lf lyricsFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	lines := make([]timing.Line, 0, len(lf.Lines))
	for i, l := range lf.Lines {
		line := timing.Line{StartMs: l.Start, EndMs: l.End}
		for _, name := range l.Flags {
			f, ok := timing.ParseFlag(name)
			if !ok {
				return nil, fmt.Errorf("%s: line %d: unknown flag %q", path, i, name)
			}
			line.Flags = line.Flags.With(f)
		}
		for _, w := range l.Words {
			line.Words = append(line.Words, timing.Word{StartMs: w.Start, EndMs: w.End, Text: w.Text, Roman: w.Roman})
		}
		lines = append(lines, line)
	}
	return timing.NewDocument(lines), nil
}

// sampleDocument is a short built-in song: plain lines with a translation,
// a CJK line, a background echo, a duet line and an instrumental break.
func sampleDocument() *timing.Document {
	words := func(start, step float64, texts ...string) []timing.Word {
		out := make([]timing.Word, len(texts))
		for i, s := range texts {
			ws := start + float64(i)*step
			out[i] = timing.Word{StartMs: ws, EndMs: ws + step, Text: s}
		}
		return out
	}
	active := timing.FlagActive | timing.FlagEmphasis
	return timing.NewDocument([]timing.Line{
		{StartMs: 1000, EndMs: 4600, Flags: active, Words: words(1000, 600, "Under ", "the ", "city ", "lights ", "we ", "run")},
		{StartMs: 1000, EndMs: 4600, Flags: timing.FlagTranslation, Words: words(1000, 3600, "Sous les lumières de la ville")},
		{StartMs: 4800, EndMs: 8000, Flags: active, Words: words(4800, 800, "夜", "に", "駆", "ける")},
		{StartMs: 6000, EndMs: 8000, Flags: timing.FlagActive | timing.FlagBackground, Words: words(6000, 1000, "(run ", "away)")},
		{StartMs: 8200, EndMs: 11000, Flags: active | timing.FlagDuet, Words: words(8200, 1400, "Hold ", "on")},
		{StartMs: 16000, EndMs: 19500, Flags: active, Words: words(16000, 700, "and ", "the ", "night ", "is ", "young")},
	})
}
