package cv

import "strings"

// Insight caps per review tier.
const (
	maxBasicInsights    = 8
	maxAdvancedInsights = 10

	minScore  = 40
	maxScore  = 95
	baseScore = 60
)

var essentialSections = []string{"summary", "experience", "education", "skills"}

var achievementMarkers = []string{"%", "₦", "$", "+", "increase", "improve", "reduce"}

var generalTips = []string{
	"Use action verbs at the beginning of bullet points to create a stronger impression.",
	"Ensure consistent formatting throughout your CV for a professional appearance.",
	"Tailor your CV for each job application to highlight the most relevant experience.",
	"Proofread carefully for grammar and spelling errors.",
	"Use industry-specific keywords to pass through automated screening systems.",
}

var advancedTips = []string{
	"FORMATTING: Maintain consistent formatting with a clear hierarchy throughout your document.",
	"KEYWORDS: Include more industry-specific keywords to pass through applicant tracking systems (ATS).",
	"RELEVANCE: Focus on your most recent and relevant experience for your target roles.",
}

// AnalyzeBasic produces the free-tier insight list. Deterministic for a
// given document; always returns at least five insights.
func AnalyzeBasic(doc *Document) []string {
	text := strings.ToLower(doc.Text)
	var insights []string

	if _, ok := doc.Sections["summary"]; !ok && !strings.Contains(text, "profile") {
		insights = append(insights, "Consider adding a professional summary at the top of your CV to highlight your key qualifications.")
	}

	if _, ok := doc.Sections["experience"]; !ok && !strings.Contains(text, "work") {
		insights = append(insights, "Your work experience section is missing or not clearly defined. This is a critical section for most CVs.")
	}

	if _, ok := doc.Sections["education"]; !ok && !strings.Contains(text, "university") {
		insights = append(insights, "Include your educational background with relevant details about degrees, institutions, and graduation dates.")
	}

	if _, ok := doc.Sections["skills"]; !ok && !strings.Contains(text, "skill") {
		insights = append(insights, "A skills section would help highlight your key competencies relevant to your target roles.")
	}

	if doc.Contact.Email == "" {
		insights = append(insights, "Ensure your contact information including email is clearly visible at the top of your CV.")
	}

	if !hasAchievementMarkers(doc.Text) {
		insights = append(insights, "Add quantifiable achievements with metrics (%, numbers, etc.) to make your accomplishments more impactful.")
	}

	if doc.Metrics.BulletPoints < 5 {
		insights = append(insights, "Use bullet points to make your CV more scannable and highlight key accomplishments.")
	}

	if doc.Metrics.WordCount < 200 {
		insights = append(insights, "Your CV appears to be quite short. Consider adding more details about your experience and skills.")
	} else if doc.Metrics.WordCount > 1000 {
		insights = append(insights, "Your CV may be too lengthy. Consider condensing it to 1-2 pages for better readability.")
	}

	// Top up with general tips so the user always gets a useful list
	for _, tip := range generalTips {
		if len(insights) >= 5 {
			break
		}
		insights = append(insights, tip)
	}

	if len(insights) > maxBasicInsights {
		insights = insights[:maxBasicInsights]
	}

	return insights
}

// AnalyzeAdvanced produces the paid-tier score and insight list. The
// score is always within [40,95].
func AnalyzeAdvanced(doc *Document) (int, []string) {
	score := baseScore

	for _, section := range essentialSections {
		if _, ok := doc.Sections[section]; ok {
			score += 5
		}
	}

	if doc.Metrics.WordCount >= 300 && doc.Metrics.WordCount <= 1000 {
		score += 10
	}

	if hasAchievementMarkers(doc.Text) {
		score += 10
	}

	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}

	insights := append(AnalyzeBasic(doc), advancedTips...)
	if len(insights) > maxAdvancedInsights {
		insights = insights[:maxAdvancedInsights]
	}

	return score, insights
}

func hasAchievementMarkers(text string) bool {
	for _, marker := range achievementMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
