package core

import (
	"regexp"
	"strings"
)

// Category is the display class of one build log line.
type Category int

const (
	CategoryNormal Category = iota
	CategoryDebug
	CategoryTrace
	CategoryInfo
	CategoryError
	CategoryWarn
)

func (c Category) String() string {
	switch c {
	case CategoryDebug:
		return "DEBUG"
	case CategoryTrace:
		return "TRACE"
	case CategoryInfo:
		return "INFO"
	case CategoryError:
		return "ERROR"
	case CategoryWarn:
		return "WARN"
	default:
		return "NORMAL"
	}
}

// Level maps a category onto an event level.
func (c Category) Level() string {
	switch c {
	case CategoryError:
		return "error"
	case CategoryWarn:
		return "warn"
	case CategoryDebug:
		return "debug"
	case CategoryTrace:
		return "trace"
	default:
		return "info"
	}
}

// Tags are matched exactly, brackets included, without case folding.
var categoryTags = map[string]Category{
	"[DEBUG]": CategoryDebug,
	"[TRACE]": CategoryTrace,
	"[INFO]":  CategoryInfo,
	"[ERROR]": CategoryError,
	"[WARN]":  CategoryWarn,
}

var leadingTagRE = regexp.MustCompile(`^\[\w+\]`)

type LogLine struct {
	Text     string
	Category Category
}

// Classify returns the category of the bracketed tag at the very start of line.
func Classify(line string) Category {
	tag := leadingTagRE.FindString(line)
	if tag == "" {
		return CategoryNormal
	}
	if c, ok := categoryTags[tag]; ok {
		return c
	}
	return CategoryNormal
}

// ClassifyLine pairs a line with its category.
func ClassifyLine(line string) LogLine {
	return LogLine{Text: line, Category: Classify(line)}
}

// ClassifyChunk splits a chunk of output into lines and classifies each one.
// A trailing newline does not produce an empty line.
func ClassifyChunk(text string) []LogLine {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	parts := strings.Split(text, "\n")
	out := make([]LogLine, 0, len(parts))
	for _, p := range parts {
		out = append(out, ClassifyLine(strings.TrimSuffix(p, "\r")))
	}
	return out
}
