package documents

import (
	"regexp"
	"strconv"
	"strings"
)

// Classification is the outcome of running a verification heuristic over
// extracted text. Fields is nil when no heuristic exists for the type.
type Classification struct {
	Verified bool
	Fields   map[string]any
}

var (
	gpaPattern    = regexp.MustCompile(`(?i)GPA:?\s*([0-4]\.?\d*)`)
	coursePattern = regexp.MustCompile(`[A-Z]{2,4}\s*\d{3,4}`)
	namePattern   = regexp.MustCompile(`(?i)Name:?\s*([A-Za-z ]+)`)
	dobPattern    = regexp.MustCompile(`DOB:?\s*(\d{1,2}[-/]\d{1,2}[-/]\d{4})`)
	idPattern     = regexp.MustCompile(`(?i)ID:?\s*([A-Z0-9]+)`)
)

var recommendationKeywords = []string{"recommend", "excellent", "outstanding", "pleasure", "endorse"}

// Classify applies the verification heuristic for the declared document
// type. Types without a heuristic always come back unverified; empty or
// non-matching text is never an error.
func Classify(text string, docType DocumentType) Classification {
	switch docType {
	case TypeTranscript:
		return classifyTranscript(text)
	case TypeRecommendation:
		return classifyRecommendation(text)
	case TypeIdentity:
		return classifyIdentity(text)
	default:
		return Classification{Verified: false}
	}
}

// classifyTranscript looks for a GPA declaration or course-code tokens.
func classifyTranscript(text string) Classification {
	var gpa any
	gpaMatch := gpaPattern.FindStringSubmatch(text)
	if gpaMatch != nil {
		if v, err := strconv.ParseFloat(gpaMatch[1], 64); err == nil {
			gpa = v
		}
	}
	courses := coursePattern.FindAllString(text, -1)

	return Classification{
		Verified: gpaMatch != nil || len(courses) > 0,
		Fields: map[string]any{
			"gpa":          gpa,
			"coursesCount": len(courses),
		},
	}
}

// classifyRecommendation requires at least one endorsement keyword and
// enough body text to look like a real letter.
func classifyRecommendation(text string) Classification {
	lower := strings.ToLower(text)
	hasKeywords := false
	for _, kw := range recommendationKeywords {
		if strings.Contains(lower, kw) {
			hasKeywords = true
			break
		}
	}

	return Classification{
		Verified: hasKeywords && len(text) > 200,
		Fields: map[string]any{
			"wordCount":   len(strings.Fields(text)),
			"hasKeywords": hasKeywords,
		},
	}
}

// classifyIdentity requires a name plus either a date of birth or an ID
// number. Each field is nil when its pattern did not match.
func classifyIdentity(text string) Classification {
	var name, dob, id any
	if m := namePattern.FindStringSubmatch(text); m != nil {
		name = strings.TrimSpace(m[1])
	}
	if m := dobPattern.FindStringSubmatch(text); m != nil {
		dob = m[1]
	}
	if m := idPattern.FindStringSubmatch(text); m != nil {
		id = m[1]
	}

	return Classification{
		Verified: name != nil && (dob != nil || id != nil),
		Fields: map[string]any{
			"name": name,
			"dob":  dob,
			"id":   id,
		},
	}
}
