package cv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSections(t *testing.T) {
	doc := Parse(completeCV)

	for _, name := range []string{"summary", "experience", "education", "skills"} {
		assert.Contains(t, doc.Sections, name)
	}
	assert.Contains(t, doc.Sections["skills"], "PostgreSQL")
	assert.Contains(t, doc.Sections["experience"], "FinServe")
}

func TestParseSectionHeadingVariants(t *testing.T) {
	text := `Profile
Driven analyst.

Work History
Analyst at BigCo.

Qualifications
BSc Statistics.

Technical Proficiencies
SQL, R, Python.
`
	doc := Parse(text)

	assert.Contains(t, doc.Sections, "summary")
	assert.Contains(t, doc.Sections, "experience")
	assert.Contains(t, doc.Sections, "education")
	assert.Contains(t, doc.Sections, "skills")
}

func TestParseContactInfo(t *testing.T) {
	doc := Parse(completeCV)

	assert.Equal(t, "jane.smith@example.com", doc.Contact.Email)
	assert.NotEmpty(t, doc.Contact.Phone)

	withLinkedIn := Parse("Reach me at linkedin.com/in/jane-smith for details")
	assert.Equal(t, "linkedin.com/in/jane-smith", withLinkedIn.Contact.LinkedIn)
}

func TestParseMetrics(t *testing.T) {
	doc := Parse("First sentence. Second sentence! Third one?")

	assert.Equal(t, 3, doc.Metrics.SentenceCount)
	assert.Equal(t, 6, doc.Metrics.WordCount)
	assert.Greater(t, doc.Metrics.AvgSentenceLength, 0.0)

	bullets := Parse("• item one\n• item two\n- item three")
	assert.Equal(t, 3, bullets.Metrics.BulletPoints)
}

func TestParseEmptyText(t *testing.T) {
	doc := Parse("")
	assert.Empty(t, doc.Sections)
	assert.Zero(t, doc.Metrics.WordCount)
	assert.Empty(t, doc.Contact.Email)
}

func TestExtractPlainText(t *testing.T) {
	doc, err := Extract([]byte(completeCV), "text/plain")
	require.NoError(t, err)
	assert.Contains(t, doc.Sections, "experience")
	assert.Equal(t, "jane.smith@example.com", doc.Contact.Email)
}

func TestExtractEmptyDocument(t *testing.T) {
	_, err := Extract([]byte("   \n  "), "text/plain")
	assert.Error(t, err)
}
