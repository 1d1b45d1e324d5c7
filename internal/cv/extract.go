package cv

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"code.sajari.com/docconv"
)

// Document is the structured view of an uploaded CV used by the
// heuristic analyzer.
type Document struct {
	Text     string
	Sections map[string]string
	Contact  ContactInfo
	Metrics  Metrics
}

// ContactInfo holds contact details detected in the CV text.
type ContactInfo struct {
	Email    string
	Phone    string
	LinkedIn string
}

// Metrics are simple shape measurements of the CV text.
type Metrics struct {
	WordCount         int
	SentenceCount     int
	AvgSentenceLength float64
	BulletPoints      int
}

var (
	sentenceSplit   = regexp.MustCompile(`[.!?]+`)
	bulletPattern   = regexp.MustCompile(`•|\*|-`)
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern    = regexp.MustCompile(`(?:\+\d{1,3}[\s-]?)?\(?\d{3,4}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
	linkedinPattern = regexp.MustCompile(`(?:https?://)?(?:www\.)?linkedin\.com/in/[a-zA-Z0-9_-]+`)
)

var sectionPatterns = map[string]*regexp.Regexp{
	"summary":        regexp.MustCompile(`(?i)^(profile|summary|objective|about\s*me)`),
	"experience":     regexp.MustCompile(`(?i)^(experience|employment|work\s*history|professional\s*background)`),
	"education":      regexp.MustCompile(`(?i)^(education|qualification|academic|degree|university)`),
	"skills":         regexp.MustCompile(`(?i)^(skills|expertise|competencies|proficiencies|technical)`),
	"projects":       regexp.MustCompile(`(?i)^(projects|portfolio|works)`),
	"certifications": regexp.MustCompile(`(?i)^(certifications|certificates|credentials)`),
	"languages":      regexp.MustCompile(`(?i)^(languages|language\s*proficiency)`),
	"interests":      regexp.MustCompile(`(?i)^(interests|hobbies|activities)`),
}

// Extract converts the raw document bytes into text via docconv and
// parses its structure.
func Extract(data []byte, contentType string) (*Document, error) {
	res, err := docconv.Convert(bytes.NewReader(data), contentType, false)
	if err != nil {
		return nil, fmt.Errorf("extract text: %v", err)
	}
	if strings.TrimSpace(res.Body) == "" {
		return nil, fmt.Errorf("extracted empty text for content type %s", contentType)
	}
	return Parse(res.Body), nil
}

// Parse builds the structured Document from plain CV text.
func Parse(text string) *Document {
	sentences := splitSentences(text)
	words := strings.Fields(text)

	avg := 0.0
	if len(sentences) > 0 {
		avg = float64(len(words)) / float64(len(sentences))
	}

	return &Document{
		Text:     text,
		Sections: identifySections(text),
		Contact: ContactInfo{
			Email:    emailPattern.FindString(text),
			Phone:    phonePattern.FindString(text),
			LinkedIn: linkedinPattern.FindString(text),
		},
		Metrics: Metrics{
			WordCount:         len(words),
			SentenceCount:     len(sentences),
			AvgSentenceLength: avg,
			BulletPoints:      len(bulletPattern.FindAllString(text, -1)),
		},
	}
}

func splitSentences(text string) []string {
	var sentences []string
	for _, s := range sentenceSplit.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// identifySections walks the text line by line and groups content under
// the last seen section heading.
func identifySections(text string) map[string]string {
	sections := make(map[string]string)
	content := make(map[string][]string)
	current := ""

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		found := ""
		for name, pattern := range sectionPatterns {
			if pattern.MatchString(line) {
				found = name
				break
			}
		}

		if found != "" {
			current = found
			content[current] = []string{}
		} else if current != "" {
			content[current] = append(content[current], line)
		}
	}

	for name, lines := range content {
		sections[name] = strings.Join(lines, "\n")
	}

	return sections
}
